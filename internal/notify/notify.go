// Package notify keeps the session's notification feed: one entry per
// lifecycle action, newest first, held in memory for the life of the
// process with no persistence guarantee.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	// Success marks a positive outcome. Error is also used for negative-toned
	// events such as cancellations, not only for failures.
	Success Kind = "success"
	Error   Kind = "error"
)

type Notification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Type      Kind   `json:"type"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

type Center struct {
	mu      sync.Mutex
	history []Notification
	now     func() time.Time
}

func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Push prepends a notification to the history and returns it.
func (c *Center) Push(message string, kind Kind) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      kind,
		Timestamp: c.now().Format("15:04"),
	}

	c.mu.Lock()
	c.history = append([]Notification{n}, c.history...)
	c.mu.Unlock()

	return n
}

// History returns the full feed, newest first.
func (c *Center) History() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.history...)
}

// MarkAllRead flags every entry as seen.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.history {
		c.history[i].Read = true
	}
}
