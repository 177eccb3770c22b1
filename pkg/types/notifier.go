package types

// Level classifies a user-facing notification.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notifier surfaces transient messages to the user after a mutation or a
// rejected action. Implementations must not block.
type Notifier interface {
	Notify(level Level, message string)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Level, string) {}
