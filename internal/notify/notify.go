// Package notify is the single transient channel every user-facing message
// goes through: errors, fallback notices and confirmations alike.
package notify

import (
	"log/slog"
	"sync"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warn    Level = "warn"
	Error   Level = "error"
)

type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier collects notifications for a session. Handlers drain it into the
// response envelope so the frontend can toast them.
//
// The server runs one collector for its lifetime, mirroring the one booking
// form it serves. The queue is not partitioned by request: with concurrent
// callers a drain can carry notices raised by another request's work, which
// is acceptable for a single-form session but means the collector is not a
// per-user channel.
type Notifier interface {
	Notify(level Level, message string)
	Drain() []Notification
}

type Collector struct {
	mu     sync.Mutex
	logger *slog.Logger
	queue  []Notification
}

func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logger}
}

func (c *Collector) Notify(level Level, message string) {
	c.mu.Lock()
	c.queue = append(c.queue, Notification{Level: level, Message: message})
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("notification", "level", string(level), "message", message)
	}
}

// Drain returns and clears the queued notifications.
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.queue
	c.queue = nil
	return out
}
