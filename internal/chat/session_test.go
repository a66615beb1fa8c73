package chat

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/respond"
	"github.com/starford/ansuz/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func testManager(t *testing.T, opts ...ManagerOption) (*Manager, *faq.Corpus) {
	t.Helper()
	c := testutil.Corpus(t)
	opts = append([]ManagerOption{WithReplyDelay(2 * time.Millisecond)}, opts...)
	m := NewManager(func() *faq.Corpus { return c }, opts...)
	t.Cleanup(m.CloseAll)
	return m, c
}

func botMessages(st State) []Message {
	var out []Message
	for _, m := range st.Messages {
		if m.Sender == SenderBot {
			out = append(out, m)
		}
	}
	return out
}

func TestSendProducesDelayedReply(t *testing.T) {
	mgr, c := testManager(t)
	s := mgr.Create()

	m, err := s.Send("What are the capital requirements?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if m.Sender != SenderUser || m.ID == "" {
		t.Errorf("user message = %+v", m)
	}

	// The user message lands immediately, the reply only after the delay.
	st := s.Snapshot()
	if len(st.Messages) != 1 {
		t.Fatalf("transcript = %d messages before delay, want 1", len(st.Messages))
	}

	eventually(t, 2*time.Second, time.Millisecond, func() bool {
		return len(s.Snapshot().Messages) == 2
	}, "bot reply never arrived")

	bot := s.Snapshot().Messages[1]
	if bot.Sender != SenderBot {
		t.Fatalf("second message sender = %q", bot.Sender)
	}
	if bot.FaqID != "faq-1" {
		t.Errorf("faq id = %q, want faq-1", bot.FaqID)
	}
	if want := respond.Synthesize(c.ByID("faq-1")); bot.Content != want {
		t.Errorf("reply = %q, want %q", bot.Content, want)
	}
}

func TestSendNoMatchGetsFallback(t *testing.T) {
	mgr, _ := testManager(t)
	s := mgr.Create()

	if _, err := s.Send("xyzzy unrelated nonsense"); err != nil {
		t.Fatal(err)
	}
	eventually(t, 2*time.Second, time.Millisecond, func() bool {
		return len(botMessages(s.Snapshot())) == 1
	}, "fallback reply never arrived")

	bot := botMessages(s.Snapshot())[0]
	if bot.Content != respond.Fallback {
		t.Errorf("reply = %q, want fallback", bot.Content)
	}
	if bot.FaqID != "" {
		t.Errorf("faq id = %q, want empty", bot.FaqID)
	}
}

func TestSendBlankRejected(t *testing.T) {
	mgr, _ := testManager(t)
	s := mgr.Create()

	if _, err := s.Send("   "); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	st := s.Snapshot()
	if len(st.Messages) != 0 || st.Analytics.QuestionsAsked != 0 {
		t.Errorf("blank input mutated state: %+v", st)
	}
}

func TestRepliesArriveInSubmissionOrder(t *testing.T) {
	mgr, _ := testManager(t, WithReplyDelay(10*time.Millisecond))
	s := mgr.Create()

	if _, err := s.Send("what about liquidity?"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Send("what about capital adequacy?"); err != nil {
		t.Fatal(err)
	}

	eventually(t, 2*time.Second, time.Millisecond, func() bool {
		return len(botMessages(s.Snapshot())) == 2
	}, "expected two bot replies")

	bots := botMessages(s.Snapshot())
	if bots[0].FaqID != "faq-2" || bots[1].FaqID != "faq-1" {
		t.Errorf("reply order = %s, %s; want faq-2 then faq-1", bots[0].FaqID, bots[1].FaqID)
	}
}

func TestCloseDropsPendingReplies(t *testing.T) {
	mgr, _ := testManager(t, WithReplyDelay(50*time.Millisecond))
	s := mgr.Create()

	if _, err := s.Send("what about liquidity?"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	time.Sleep(150 * time.Millisecond)
	st := s.Snapshot()
	if len(st.Messages) != 1 {
		t.Errorf("transcript = %d messages, want the user message only", len(st.Messages))
	}

	if _, err := s.Send("another question"); !errors.Is(err, apperr.ErrSessionClosed) {
		t.Errorf("Send after close err = %v, want ErrSessionClosed", err)
	}
}

func TestSelectFAQBypassesMatcher(t *testing.T) {
	mgr, c := testManager(t)
	s := mgr.Create()

	s.Search("licence")

	m, err := s.SelectFAQ("faq-6")
	if err != nil {
		t.Fatalf("SelectFAQ: %v", err)
	}
	rec := c.ByID("faq-6")
	if m.Content != rec.Question {
		t.Errorf("user message = %q, want the verbatim question", m.Content)
	}

	// Selecting resets the browse tab.
	st := s.Snapshot()
	if st.SearchQuery != "" || len(st.DisplayedFAQs) != c.Len() {
		t.Errorf("browse state not reset: query=%q displayed=%d", st.SearchQuery, len(st.DisplayedFAQs))
	}

	eventually(t, 2*time.Second, time.Millisecond, func() bool {
		return len(botMessages(s.Snapshot())) == 1
	}, "selected reply never arrived")

	bot := botMessages(s.Snapshot())[0]
	if want := respond.Synthesize(rec); bot.Content != want {
		t.Errorf("reply = %q, want %q", bot.Content, want)
	}
	if bot.FaqID != "faq-6" {
		t.Errorf("faq id = %q", bot.FaqID)
	}
}

func TestSelectFAQUnknownID(t *testing.T) {
	mgr, _ := testManager(t)
	s := mgr.Create()
	if _, err := s.SelectFAQ("faq-99"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQuickActionCountsAsQuestion(t *testing.T) {
	mgr, _ := testManager(t)
	s := mgr.Create()

	if _, err := s.QuickAction("How do I lodge a complaint against my bank?"); err != nil {
		t.Fatal(err)
	}
	st := s.Snapshot()
	if st.Analytics.QuestionsAsked != 1 {
		t.Errorf("questions asked = %d, want 1", st.Analytics.QuestionsAsked)
	}

	eventually(t, 2*time.Second, time.Millisecond, func() bool {
		bots := botMessages(s.Snapshot())
		return len(bots) == 1 && bots[0].FaqID == "faq-4"
	}, "quick action reply never arrived")
}

type spyNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *spyNotifier) Notify(title, _ string, _ bool) {
	n.mu.Lock()
	n.titles = append(n.titles, title)
	n.mu.Unlock()
}

type spyEscalator struct {
	mu       sync.Mutex
	sessions []string
}

func (e *spyEscalator) ContactSpecialist(sessionID string) {
	e.mu.Lock()
	e.sessions = append(e.sessions, sessionID)
	e.mu.Unlock()
}

func TestFeedbackViaSession(t *testing.T) {
	notifier := &spyNotifier{}
	mgr, _ := testManager(t, WithNotifier(notifier))
	s := mgr.Create()

	if _, err := s.Send("capital adequacy"); err != nil {
		t.Fatal(err)
	}
	eventually(t, 2*time.Second, time.Millisecond, func() bool {
		return len(botMessages(s.Snapshot())) == 1
	}, "reply never arrived")

	bot := botMessages(s.Snapshot())[0]
	if err := s.Feedback(bot.ID, FeedbackPositive); err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	if err := s.Feedback(bot.ID, FeedbackNegative); !errors.Is(err, apperr.ErrFeedbackSet) {
		t.Errorf("second feedback err = %v, want ErrFeedbackSet", err)
	}

	st := s.Snapshot()
	if st.Analytics.PositiveRatings != 1 || st.Analytics.NegativeRatings != 0 {
		t.Errorf("ratings = %+v", st.Analytics)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.titles) != 1 {
		t.Errorf("notifications = %d, want 1 (rejected feedback must not notify)", len(notifier.titles))
	}
}

func TestEscalate(t *testing.T) {
	escalator := &spyEscalator{}
	mgr, _ := testManager(t, WithEscalator(escalator))
	s := mgr.Create()

	m := s.Escalate()
	if m.Sender != SenderBot || m.Content != respond.EscalationConfirmation {
		t.Errorf("confirmation = %+v", m)
	}

	escalator.mu.Lock()
	defer escalator.mu.Unlock()
	if len(escalator.sessions) != 1 || escalator.sessions[0] != s.ID {
		t.Errorf("escalations = %v, want [%s]", escalator.sessions, s.ID)
	}
}

func TestReplySinkReceivesBotMessages(t *testing.T) {
	var mu sync.Mutex
	var got []string
	sink := func(sessionID string, m Message) {
		mu.Lock()
		got = append(got, sessionID+":"+m.FaqID)
		mu.Unlock()
	}
	mgr, _ := testManager(t, WithReplySink(sink))
	s := mgr.Create()

	if _, err := s.Send("capital adequacy"); err != nil {
		t.Fatal(err)
	}
	eventually(t, 2*time.Second, time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, "sink never received the reply")

	mu.Lock()
	defer mu.Unlock()
	if got[0] != s.ID+":faq-1" {
		t.Errorf("sink payload = %q", got[0])
	}
}

func TestSetVisibility(t *testing.T) {
	mgr, _ := testManager(t)
	s := mgr.Create()
	s.SetVisibility(VisibilityMinimized)
	if got := s.Snapshot().Visibility; got != VisibilityMinimized {
		t.Errorf("visibility = %q", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	mgr, _ := testManager(t)
	s := mgr.Create()
	if _, err := s.Send("capital adequacy"); err != nil {
		t.Fatal(err)
	}

	st := s.Snapshot()
	st.Messages[0].Content = "mutated"
	st.Analytics.QuestionCounts["injected"] = 1

	fresh := s.Snapshot()
	if fresh.Messages[0].Content == "mutated" {
		t.Error("snapshot shares the messages slice")
	}
	if _, ok := fresh.Analytics.QuestionCounts["injected"]; ok {
		t.Error("snapshot shares the question counts map")
	}
}
