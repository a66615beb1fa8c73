package chat

import (
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/match"
)

// Visibility is the widget visibility variant. Modeling it as one tagged
// value rules out the ambiguous "minimized but not open" combination.
type Visibility string

const (
	VisibilityClosed    Visibility = "closed"
	VisibilityExpanded  Visibility = "expanded"
	VisibilityMinimized Visibility = "minimized"
)

// ParseVisibility validates a raw visibility string.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(s); v {
	case VisibilityClosed, VisibilityExpanded, VisibilityMinimized:
		return v, nil
	default:
		return "", fmt.Errorf("chat: unknown visibility %q", s)
	}
}

// Analytics holds in-memory interaction counters. They are never persisted
// and reset with the process.
type Analytics struct {
	QuestionsAsked  int            `json:"questions_asked"`
	PositiveRatings int            `json:"positive_ratings"`
	NegativeRatings int            `json:"negative_ratings"`
	QuestionCounts  map[string]int `json:"question_counts"`
}

func (a *Analytics) countQuestion(raw string) {
	a.QuestionsAsked++
	if a.QuestionCounts == nil {
		a.QuestionCounts = make(map[string]int)
	}
	a.QuestionCounts[strings.ToLower(raw)]++
}

// add folds other into a. Used for process-wide aggregation.
func (a *Analytics) add(other Analytics) {
	a.QuestionsAsked += other.QuestionsAsked
	a.PositiveRatings += other.PositiveRatings
	a.NegativeRatings += other.NegativeRatings
	if len(other.QuestionCounts) > 0 && a.QuestionCounts == nil {
		a.QuestionCounts = make(map[string]int)
	}
	for q, n := range other.QuestionCounts {
		a.QuestionCounts[q] += n
	}
}

// State is the session's mutable data: an append-only transcript plus
// filters and counters. Transitions below are total functions with no I/O;
// Session wraps them with locking and reply scheduling.
type State struct {
	Messages       []Message    `json:"messages"`
	ActiveCategory faq.Category `json:"active_category"`
	SearchQuery    string       `json:"search_query"`
	DisplayedFAQs  []faq.Record `json:"displayed_faqs"`
	Analytics      Analytics    `json:"analytics"`
	Visibility     Visibility   `json:"visibility"`
}

func newState(corpus *faq.Corpus) State {
	return State{
		ActiveCategory: faq.CategoryAll,
		DisplayedFAQs:  corpus.ByCategory(faq.CategoryAll),
		Visibility:     VisibilityExpanded,
	}
}

// appendQuestion records a user-initiated question: transcript entry plus
// the questions-asked and per-question counters.
func (s *State) appendQuestion(m Message) {
	s.Messages = append(s.Messages, m)
	s.Analytics.countQuestion(m.Content)
}

// applyFeedback sets feedback on a bot message, at most once.
func (s *State) applyFeedback(msgID string, v FeedbackValue) error {
	for i := range s.Messages {
		m := &s.Messages[i]
		if m.ID != msgID {
			continue
		}
		if m.Sender != SenderBot {
			return apperr.ErrInvalidInput
		}
		if m.Feedback != nil {
			return apperr.ErrFeedbackSet
		}
		m.Feedback = &v
		switch v {
		case FeedbackPositive:
			s.Analytics.PositiveRatings++
		case FeedbackNegative:
			s.Analytics.NegativeRatings++
		}
		return nil
	}
	return apperr.ErrNotFound
}

// applyCategory switches the active category, clearing any browse search.
func (s *State) applyCategory(cat faq.Category, corpus *faq.Corpus) {
	s.ActiveCategory = cat
	s.SearchQuery = ""
	s.DisplayedFAQs = corpus.ByCategory(cat)
}

// applySearch recomputes the displayed FAQ list for a browse query.
// An empty query reverts to the full category listing.
func (s *State) applySearch(query string, corpus *faq.Corpus) {
	s.SearchQuery = query
	if match.Normalize(query) == "" {
		s.DisplayedFAQs = corpus.ByCategory(s.ActiveCategory)
		return
	}
	s.DisplayedFAQs = match.Browse(query, corpus, s.ActiveCategory)
}

// clearSearch resets the browse tab to the active category's full set.
func (s *State) clearSearch(corpus *faq.Corpus) {
	s.SearchQuery = ""
	s.DisplayedFAQs = corpus.ByCategory(s.ActiveCategory)
}
