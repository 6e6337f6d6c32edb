// Package notify holds transient user-facing messages between requests.
// The center is an explicit dependency handed to whoever produces
// notifications; there is no late-bound singleton, so a toast posted
// before the UI mounts cannot silently vanish.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the visual severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Default durations per level, carried over from the original portal.
const (
	successDuration = 5 * time.Second
	errorDuration   = 7 * time.Second
	infoDuration    = 5 * time.Second
	warningDuration = 6 * time.Second
)

// Toast is one timed message. Identical messages queued in quick
// succession all display; there is no deduplication.
type Toast struct {
	ID       string
	Message  string
	Level    Level
	Duration time.Duration
	Created  time.Time
}

// Center is a FIFO multiset of active toasts, keyed by viewer so one
// browser's notifications never leak into another's page.
type Center struct {
	mu     sync.Mutex
	queues map[string][]Toast
	timers map[string]*time.Timer
}

func NewCenter() *Center {
	return &Center{
		queues: make(map[string][]Toast),
		timers: make(map[string]*time.Timer),
	}
}

// Add appends a toast and schedules its removal after duration. A
// non-positive duration means the toast stays until explicitly dismissed.
func (c *Center) Add(key, message string, level Level, duration time.Duration) string {
	id := uuid.NewString()
	toast := Toast{
		ID:       id,
		Message:  message,
		Level:    level,
		Duration: duration,
		Created:  time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.queues[key] = append(c.queues[key], toast)
	if duration > 0 {
		c.timers[id] = time.AfterFunc(duration, func() {
			c.Remove(key, id)
		})
	}
	return id
}

// Remove dismisses one toast. Idempotent: dismissing an unknown or
// already-expired id is a no-op.
func (c *Center) Remove(key, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}

	queue := c.queues[key]
	for i, toast := range queue {
		if toast.ID == id {
			c.queues[key] = append(queue[:i:i], queue[i+1:]...)
			break
		}
	}
	if len(c.queues[key]) == 0 {
		delete(c.queues, key)
	}
}

// Clear drops every toast for a viewer.
func (c *Center) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, toast := range c.queues[key] {
		if t, ok := c.timers[toast.ID]; ok {
			t.Stop()
			delete(c.timers, toast.ID)
		}
	}
	delete(c.queues, key)
}

// Active returns the viewer's toasts in insertion order.
func (c *Center) Active(key string) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.queues[key]
	out := make([]Toast, len(queue))
	copy(out, queue)
	return out
}

// Drain returns the viewer's toasts in insertion order and removes them,
// for render-once flash semantics on server-rendered pages.
func (c *Center) Drain(key string) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.queues[key]
	out := make([]Toast, len(queue))
	copy(out, queue)

	for _, toast := range queue {
		if t, ok := c.timers[toast.ID]; ok {
			t.Stop()
			delete(c.timers, toast.ID)
		}
	}
	delete(c.queues, key)
	return out
}

// Success posts a success toast with its standard duration.
func (c *Center) Success(key, message string) string {
	return c.Add(key, message, LevelSuccess, successDuration)
}

// Error posts an error toast. Errors linger longer than the rest.
func (c *Center) Error(key, message string) string {
	return c.Add(key, message, LevelError, errorDuration)
}

func (c *Center) Info(key, message string) string {
	return c.Add(key, message, LevelInfo, infoDuration)
}

func (c *Center) Warning(key, message string) string {
	return c.Add(key, message, LevelWarning, warningDuration)
}
