package notify

import "time"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// TTL is how long a notification stays visible before self-dismissing.
const TTL = 3 * time.Second

type Notification struct {
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	ExpiresAt time.Time `json:"-"`
}

// Channel holds at most one active notification; publishing replaces the
// previous one. Expiry is evaluated lazily against the injected clock, so
// dismissal and expiry are naturally idempotent.
type Channel struct {
	current *Notification
	now     func() time.Time
}

func NewChannel(now func() time.Time) *Channel {
	if now == nil {
		now = time.Now
	}

	return &Channel{now: now}
}

func (c *Channel) Success(message string) {
	c.publish(message, KindSuccess)
}

func (c *Channel) Error(message string) {
	c.publish(message, KindError)
}

func (c *Channel) publish(message string, kind Kind) {
	c.current = &Notification{
		Message:   message,
		Kind:      kind,
		ExpiresAt: c.now().Add(TTL),
	}
}

// Active returns the current notification, or nil if none is set or it has
// expired.
func (c *Channel) Active() *Notification {
	if c.current == nil {
		return nil
	}

	if !c.now().Before(c.current.ExpiresAt) {
		c.current = nil
		return nil
	}

	return c.current
}

// Dismiss clears the current notification. Dismissing twice has no additional
// effect.
func (c *Channel) Dismiss() {
	c.current = nil
}
