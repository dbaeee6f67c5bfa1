// Package notify records one-shot user notifications and expires them
// after a fixed display time.
package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Level distinguishes success toasts from failure toasts.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notification is a single user-facing message.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Center collects notifications. Safe for concurrent use.
type Center struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu        sync.Mutex
	history   []Notification
	dismissed int // history[:dismissed] is no longer active
}

// NewCenter creates a Center. A nil clock uses the real clock; ttl <= 0 uses DefaultTTL.
func NewCenter(clock clockwork.Clock, ttl time.Duration) *Center {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{clock: clock, ttl: ttl}
}

// TTL returns the display time of a notification.
func (c *Center) TTL() time.Duration {
	return c.ttl
}

// Success records a success notification.
func (c *Center) Success(msg string) {
	c.push(LevelSuccess, msg)
}

// Failure records a failure notification.
func (c *Center) Failure(msg string) {
	c.push(LevelError, msg)
}

func (c *Center) push(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, Notification{Level: level, Message: msg, At: c.clock.Now()})
}

// Active returns unexpired, undismissed notifications, newest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	var active []Notification
	for i := len(c.history) - 1; i >= c.dismissed; i-- {
		n := c.history[i]
		if now.Sub(n.At) >= c.ttl {
			break
		}
		active = append(active, n)
	}
	return active
}

// History returns every notification in arrival order.
func (c *Center) History() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.history))
	copy(out, c.history)
	return out
}

// Last returns the most recent notification.
func (c *Center) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) == 0 {
		return Notification{}, false
	}
	return c.history[len(c.history)-1], true
}

// Dismiss hides all currently active notifications.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissed = len(c.history)
}
