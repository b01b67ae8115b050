package gateway

import (
	"sync"

	"github.com/picogrid/param-sweep/pkg/logger"
)

// LogNotifier prints notifications through the package logger.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { logger.Success(msg) }
func (LogNotifier) Error(msg string)   { logger.Error(msg) }

// Notification is one recorded message.
type Notification struct {
	Level string
	Msg   string
}

// MemoryNotifier records notifications in order.
type MemoryNotifier struct {
	mu   sync.Mutex
	msgs []Notification
}

func (n *MemoryNotifier) Success(msg string) { n.add("success", msg) }
func (n *MemoryNotifier) Error(msg string)   { n.add("error", msg) }

func (n *MemoryNotifier) add(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, Notification{Level: level, Msg: msg})
}

// Messages returns a copy of the recorded notifications.
func (n *MemoryNotifier) Messages() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.msgs...)
}

// Last returns the most recent notification.
func (n *MemoryNotifier) Last() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return Notification{}, false
	}
	return n.msgs[len(n.msgs)-1], true
}
