package chat

import (
	"sync"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/faq"
)

// DefaultReplyDelay simulates assistant latency before a bot reply lands.
const DefaultReplyDelay = 500 * time.Millisecond

// CorpusProvider returns the current corpus. Sessions capture the value
// once at creation, so hot reloads only affect sessions created later.
type CorpusProvider func() *faq.Corpus

// Manager owns all live sessions and the process-wide analytics aggregate.
type Manager struct {
	corpus    CorpusProvider
	delay     time.Duration
	notifier  Notifier
	escalator Escalator
	sink      ReplySink

	mu       sync.Mutex
	sessions map[string]*Session
	// retired accumulates analytics from closed sessions so the aggregate
	// survives session teardown (but never the process).
	retired Analytics
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithReplyDelay overrides the bot reply delay.
func WithReplyDelay(d time.Duration) ManagerOption {
	return func(m *Manager) { m.delay = d }
}

// WithNotifier sets the toast capability.
func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) { m.notifier = n }
}

// WithEscalator sets the specialist-contact capability.
func WithEscalator(e Escalator) ManagerOption {
	return func(m *Manager) { m.escalator = e }
}

// WithReplySink sets the bot message sink.
func WithReplySink(s ReplySink) ManagerOption {
	return func(m *Manager) { m.sink = s }
}

// NewManager creates a session manager over the given corpus provider.
func NewManager(corpus CorpusProvider, opts ...ManagerOption) *Manager {
	m := &Manager{
		corpus:    corpus,
		delay:     DefaultReplyDelay,
		notifier:  NopNotifier{},
		escalator: NopEscalator{},
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session against the current corpus.
func (m *Manager) Create() *Session {
	s := newSession(m.corpus(), m.delay, m.notifier, m.escalator, m.sink)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return s, nil
}

// Close ends a session and folds its analytics into the aggregate.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return apperr.ErrNotFound
	}

	s.Close()
	st := s.Snapshot()
	m.mu.Lock()
	m.retired.add(st.Analytics)
	m.mu.Unlock()
	return nil
}

// CloseAll ends every live session (shutdown path).
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Analytics returns the process-wide aggregate: closed sessions' counters
// plus a snapshot of every live session.
func (m *Manager) Analytics() Analytics {
	m.mu.Lock()
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	var out Analytics
	out.add(m.retired)
	m.mu.Unlock()

	for _, s := range live {
		out.add(s.Snapshot().Analytics)
	}
	return out
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
