// Package events fans engine events out to subscribers. Dispatch is single
// pass: handlers observe events but cannot feed new ones back in.
package events

import (
	"sync"

	"github.com/nathoo/deadzone/types"
)

// Handler observes one event.
type Handler func(types.Event)

type subscription struct {
	id        int
	eventType string
	fn        Handler
}

// Bus holds the subscribers. Subscribing is safe from other goroutines;
// dispatch happens on the engine goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
}

// Subscribe registers fn for events of eventType, or for every event when
// eventType is empty. The returned func removes the subscription.
func (b *Bus) Subscribe(eventType string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, eventType: eventType, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers events in order, each to its matching subscribers in
// subscription order. It returns how many deliveries were made.
func (b *Bus) Dispatch(evts []types.Event) int {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.RUnlock()

	n := 0
	for _, e := range evts {
		for _, s := range subs {
			if s.eventType != "" && s.eventType != e.Type {
				continue
			}
			s.fn(e)
			n++
		}
	}
	return n
}
