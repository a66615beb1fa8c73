package chat

// Notifier is the fire-and-forget toast capability used for feedback
// acknowledgment and escalation confirmations.
type Notifier interface {
	Notify(title, description string, isError bool)
}

// Escalator is the human-escalation hook. The implementation is supplied
// by the host; the engine only triggers it.
type Escalator interface {
	ContactSpecialist(sessionID string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string, bool) {}

// NopEscalator ignores escalation requests.
type NopEscalator struct{}

func (NopEscalator) ContactSpecialist(string) {}
