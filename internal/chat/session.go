package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/match"
	"github.com/starford/ansuz/internal/respond"
)

// ReplySink receives bot messages as they are appended, after the reply
// delay elapses. The SSE broker implements this at the edge.
type ReplySink func(sessionID string, m Message)

type pendingReply struct {
	content string
	faqID   string
}

// Session owns one conversation. The corpus pointer is captured at
// creation and never swapped, so a hot reload cannot change matching
// results mid-conversation.
//
// Bot replies are produced by a single worker goroutine consuming a FIFO
// queue, so rapid successive questions are answered in submission order.
// Close stops the worker and drops pending replies, preventing stale
// replies from landing after teardown.
type Session struct {
	ID        string
	CreatedAt time.Time

	corpus    *faq.Corpus
	delay     time.Duration
	notifier  Notifier
	escalator Escalator
	sink      ReplySink

	mu     sync.Mutex
	state  State
	closed bool

	queue chan pendingReply
	done  chan struct{}
}

func newSession(corpus *faq.Corpus, delay time.Duration, n Notifier, e Escalator, sink ReplySink) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		corpus:    corpus,
		delay:     delay,
		notifier:  n,
		escalator: e,
		sink:      sink,
		state:     newState(corpus),
		queue:     make(chan pendingReply, 64),
		done:      make(chan struct{}),
	}
	go s.replyLoop()
	return s
}

func (s *Session) replyLoop() {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-s.done:
			return
		case p := <-s.queue:
			timer.Reset(s.delay)
			select {
			case <-s.done:
				timer.Stop()
				return
			case <-timer.C:
			}
			s.appendReply(p)
		}
	}
}

func (s *Session) appendReply(p pendingReply) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	m := newMessage(SenderBot, p.content)
	m.FaqID = p.faqID
	s.state.Messages = append(s.state.Messages, m)
	s.mu.Unlock()

	if s.sink != nil {
		s.sink(s.ID, m)
	}
}

func (s *Session) enqueue(p pendingReply) {
	select {
	case s.queue <- p:
	case <-s.done:
	}
}

// Send submits a free-text question. Blank input is rejected with
// ErrInvalidInput and leaves the session untouched. The user message is
// appended immediately; the bot reply arrives after the session delay.
func (s *Session) Send(content string) (Message, error) {
	if strings.TrimSpace(content) == "" {
		return Message{}, apperr.ErrInvalidInput
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, apperr.ErrSessionClosed
	}
	m := newMessage(SenderUser, content)
	s.state.appendQuestion(m)
	best := match.Best(content, s.corpus, s.state.ActiveCategory)
	s.mu.Unlock()

	var faqID string
	if best != nil {
		faqID = best.ID
	}
	s.enqueue(pendingReply{content: respond.Synthesize(best), faqID: faqID})
	return m, nil
}

// QuickAction submits a predefined question, bypassing the input field.
func (s *Session) QuickAction(question string) (Message, error) {
	return s.Send(question)
}

// SelectFAQ answers a record chosen from the browse list. The matcher is
// bypassed; the reply is synthesized directly from the record. The browse
// search is cleared and the displayed list reset to the active category.
func (s *Session) SelectFAQ(id string) (Message, error) {
	rec := s.corpus.ByID(id)
	if rec == nil {
		return Message{}, apperr.ErrNotFound
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, apperr.ErrSessionClosed
	}
	m := newMessage(SenderUser, rec.Question)
	s.state.appendQuestion(m)
	s.state.clearSearch(s.corpus)
	s.mu.Unlock()

	s.enqueue(pendingReply{content: respond.Synthesize(rec), faqID: rec.ID})
	return m, nil
}

// Feedback rates a bot message, at most once per message.
func (s *Session) Feedback(msgID string, v FeedbackValue) error {
	s.mu.Lock()
	err := s.state.applyFeedback(msgID, v)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notifier.Notify("Thank you for your feedback", "Your rating helps us improve our answers.", false)
	return nil
}

// SetCategory switches the active category and clears any browse search.
func (s *Session) SetCategory(cat faq.Category) {
	s.mu.Lock()
	s.state.applyCategory(cat, s.corpus)
	s.mu.Unlock()
}

// Search recomputes the browse suggestions for a query and returns them.
func (s *Session) Search(query string) []faq.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.applySearch(query, s.corpus)
	return s.state.DisplayedFAQs
}

// SetVisibility moves the widget between closed, expanded, and minimized.
func (s *Session) SetVisibility(v Visibility) {
	s.mu.Lock()
	s.state.Visibility = v
	s.mu.Unlock()
}

// Escalate invokes the specialist hook and confirms in the transcript.
func (s *Session) Escalate() Message {
	s.escalator.ContactSpecialist(s.ID)

	s.mu.Lock()
	m := newMessage(SenderBot, respond.EscalationConfirmation)
	s.state.Messages = append(s.state.Messages, m)
	s.mu.Unlock()

	s.notifier.Notify("Request sent", "A specialist has been notified and will contact you.", false)
	if s.sink != nil {
		s.sink(s.ID, m)
	}
	return m
}

// Snapshot returns a copy of the session state for reads.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Messages = append([]Message(nil), s.state.Messages...)
	st.DisplayedFAQs = append([]faq.Record(nil), s.state.DisplayedFAQs...)
	if s.state.Analytics.QuestionCounts != nil {
		st.Analytics.QuestionCounts = make(map[string]int, len(s.state.Analytics.QuestionCounts))
		for q, n := range s.state.Analytics.QuestionCounts {
			st.Analytics.QuestionCounts[q] = n
		}
	}
	return st
}

// Close ends the session. Pending bot replies are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.done)
}
