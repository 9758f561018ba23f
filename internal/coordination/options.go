package coordination

import (
	"github.com/kevingbwu/taskcore/internal/event"
	"github.com/kevingbwu/taskcore/internal/logging"
)

// hubConfig holds optional configuration for a Hub.
type hubConfig struct {
	queueCapacity int
	log           *logging.Logger
	bus           *event.Bus
}

// Option configures a Hub.
type Option func(*hubConfig)

// WithQueueCapacity sets the task queue bound for the hub's pool.
// 0 means unbounded. If unset, the pool default applies.
func WithQueueCapacity(n int) Option {
	return func(c *hubConfig) { c.queueCapacity = n }
}

// WithLogger sets the logger used by the hub and its pool.
// If nil, logging is disabled.
func WithLogger(l *logging.Logger) Option {
	return func(c *hubConfig) { c.log = l }
}

// WithBus sets the event bus shared by the hub's components.
// If nil, the hub creates its own bus.
func WithBus(b *event.Bus) Option {
	return func(c *hubConfig) { c.bus = b }
}
