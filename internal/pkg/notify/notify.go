// internal/pkg/notify/notify.go
package notify

import (
	"sync"
)

// Level is the severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a short user-facing message, the server-side counterpart of a toast
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier is what stores and services use to raise notifications
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Collector gathers the notifications raised while serving one request
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Success(msg string) { c.add(LevelSuccess, msg) }
func (c *Collector) Error(msg string)   { c.add(LevelError, msg) }
func (c *Collector) Info(msg string)    { c.add(LevelInfo, msg) }

func (c *Collector) add(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, Notification{Level: level, Message: msg})
}

// Drain returns the collected notifications and resets the collector
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items
	c.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// Discard drops every notification
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
func (Discard) Info(string)    {}
