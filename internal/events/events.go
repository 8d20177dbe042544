// Package events carries in-process notifications between services.
package events

import (
	"errors"
	"sync"
)

// PeriodChanged is published after a committed write that can change a
// user's income or expense totals for one month.
type PeriodChanged struct {
	UserID uint
	Month  int
	Year   int
}

// Publisher is what the ledgers depend on.
type Publisher interface {
	Publish(evt PeriodChanged) error
}

// Handler consumes PeriodChanged events.
type Handler func(evt PeriodChanged) error

// Bus delivers events synchronously to every subscriber, in subscription
// order, on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish runs every handler and joins their errors. A failing handler
// does not stop the others.
func (b *Bus) Publish(evt PeriodChanged) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dedupe returns the distinct events in first-seen order.
func Dedupe(evts ...PeriodChanged) []PeriodChanged {
	out := make([]PeriodChanged, 0, len(evts))
	seen := make(map[PeriodChanged]struct{}, len(evts))
	for _, e := range evts {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
