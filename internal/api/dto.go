package api

import (
	"github.com/starford/ansuz/internal/chat"
	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/respond"
)

// SendMessageRequest is the body for submitting a free-text question.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// QuickActionRequest is the body for a predefined quick-action question.
type QuickActionRequest struct {
	Question string `json:"question"`
}

// SelectFAQRequest is the body for answering a browsed FAQ directly.
type SelectFAQRequest struct {
	FaqID string `json:"faq_id"`
}

// FeedbackRequest is the body for rating a bot message.
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// CategoryRequest is the body for switching the session's active category.
type CategoryRequest struct {
	Category string `json:"category"`
}

// SearchRequest is the body for the session browse search.
type SearchRequest struct {
	Query string `json:"query"`
}

// VisibilityRequest is the body for moving the widget between states.
type VisibilityRequest struct {
	Visibility string `json:"visibility"`
}

// SessionResponse wraps a session id and its state snapshot.
type SessionResponse struct {
	SessionID string     `json:"session_id"`
	State     chat.State `json:"state"`
}

// MessageResponse wraps a single transcript message.
type MessageResponse struct {
	Message chat.Message `json:"message"`
}

// FAQListResponse wraps paginated FAQ listings.
type FAQListResponse struct {
	FAQs  []faq.Record `json:"faqs"`
	Total int          `json:"total"`
}

// SearchResponse wraps browse search results.
type SearchResponse struct {
	Results []faq.Record `json:"results"`
}

// CategoriesResponse lists the closed category set.
type CategoriesResponse struct {
	Categories []faq.Category `json:"categories"`
}

// ReplyResponse is a synthesized, render-ready reply for one record.
type ReplyResponse struct {
	FaqID      string              `json:"faq_id"`
	Content    string              `json:"content"`
	Paragraphs []respond.Paragraph `json:"paragraphs"`
}
