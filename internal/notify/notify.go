// Package notify delivers the transient user notifications raised after each
// mutation, either to a zap logger or to an in-memory recorder.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Logger writes notifications to a zap logger. Success and info messages are
// logged at info level, errors at warn level since they describe rejected
// user input rather than system faults.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns a notifier backed by log. A nil log discards messages.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("notify")}
}

// Notify implements types.Notifier.
func (l *Logger) Notify(level types.Level, message string) {
	switch level {
	case types.LevelError:
		l.log.Warn(message, zap.String("level", string(level)))
	default:
		l.log.Info(message, zap.String("level", string(level)))
	}
}

// Notification is one recorded message.
type Notification struct {
	Level   types.Level
	Message string
}

// Recorder keeps every notification in memory. It is used by tests and by
// the shell to echo messages after each command.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements types.Notifier.
func (r *Recorder) Notify(level types.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification and whether there was one.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Drain returns the recorded notifications and clears the recorder.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

// Tee fans a notification out to several notifiers in order.
type Tee []types.Notifier

// Notify implements types.Notifier.
func (t Tee) Notify(level types.Level, message string) {
	for _, n := range t {
		n.Notify(level, message)
	}
}
