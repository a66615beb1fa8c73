// Package chat implements the conversational session state machine:
// transcript, category/search filters, feedback, analytics, and the
// delayed bot reply scheduler.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// FeedbackValue is a user rating on a bot message.
type FeedbackValue string

const (
	FeedbackPositive FeedbackValue = "positive"
	FeedbackNegative FeedbackValue = "negative"
)

// Message is one transcript entry. Feedback is set at most once, on bot
// messages only, and is never unset.
type Message struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Sender    Sender         `json:"sender"`
	Timestamp time.Time      `json:"timestamp"`
	Feedback  *FeedbackValue `json:"feedback,omitempty"`
	// FaqID is set on bot messages synthesized from a matched record.
	FaqID string `json:"faq_id,omitempty"`
}

func newMessage(sender Sender, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}
