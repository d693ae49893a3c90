// Package notify provides driven.NotificationChannel implementations.
// Senders never block: the pipeline fires events and moves on.
package notify

import (
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/logger"
)

// Ensure adapters implement the interface.
var (
	_ driven.NotificationChannel = (*Channel)(nil)
	_ driven.NotificationChannel = Logger{}
	_ driven.NotificationChannel = Func(nil)
	_ driven.NotificationChannel = Multi(nil)
	_ driven.NotificationChannel = Discard{}
	_ driven.NotificationChannel = (*Relay)(nil)
)

// Channel delivers events on a buffered Go channel. Progress events are
// dropped when the buffer is full; terminal events wait for room until
// the channel is closed, so a consumer waiting for the end of a run is
// never stranded.
type Channel struct {
	mu        sync.RWMutex
	ch        chan domain.Event
	done      chan struct{}
	closeOnce sync.Once
	closed    bool
	dropped   atomic.Int64
}

// NewChannel creates a channel with the given buffer size.
func NewChannel(buffer int) *Channel {
	if buffer < 1 {
		buffer = 1
	}
	return &Channel{
		ch:   make(chan domain.Event, buffer),
		done: make(chan struct{}),
	}
}

// Events returns the receive side.
func (c *Channel) Events() <-chan domain.Event {
	return c.ch
}

// Send delivers e without blocking on progress events.
func (c *Channel) Send(e domain.Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	if e.Terminal() {
		select {
		case c.ch <- e:
		case <-c.done:
		}
		return
	}
	select {
	case c.ch <- e:
	default:
		c.dropped.Add(1)
	}
}

// Dropped returns how many progress events were discarded.
func (c *Channel) Dropped() int {
	return int(c.dropped.Load())
}

// Close closes the receive side. Pending and later sends are abandoned.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		c.closed = true
		close(c.ch)
		c.mu.Unlock()
	})
}

// Logger writes events to the verbose logger.
type Logger struct{}

// Send logs e.
func (Logger) Send(e domain.Event) {
	switch {
	case !e.Terminal():
		if e.Total > 0 {
			logger.Debug("[%s] %s (%d/%d)", e.Stage, e.Message, e.Done, e.Total)
		} else {
			logger.Debug("[%s] %s", e.Stage, e.Message)
		}
	case e.Success:
		logger.Info("%s: %s", e.Kind, e.Message)
	default:
		logger.Warn("%s failed: %s", e.Kind, e.Error)
	}
}

// Func adapts a function to a NotificationChannel.
type Func func(domain.Event)

// Send calls f.
func (f Func) Send(e domain.Event) {
	if f != nil {
		f(e)
	}
}

// Multi fans an event out to several channels in order.
type Multi []driven.NotificationChannel

// Send forwards e to every channel.
func (m Multi) Send(e domain.Event) {
	for _, ch := range m {
		if ch != nil {
			ch.Send(e)
		}
	}
}

// Discard drops every event.
type Discard struct{}

// Send does nothing.
func (Discard) Send(domain.Event) {}

// Relay forwards events to a target that can be attached after the
// pipeline has been built. Events sent while detached are dropped.
type Relay struct {
	mu     sync.RWMutex
	target driven.NotificationChannel
	gen    int
}

// Attach routes events to target until the returned function is called.
func (r *Relay) Attach(target driven.NotificationChannel) (detach func()) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.target = target
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		if r.gen == gen {
			r.target = nil
		}
		r.mu.Unlock()
	}
}

// Send forwards e to the attached target, if any.
func (r *Relay) Send(e domain.Event) {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()
	if target != nil {
		target.Send(e)
	}
}
