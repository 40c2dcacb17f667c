// Package inputbus fans terminal input out to the components that asked for
// it. It plays the role of document-level listeners: each subscriber gets its
// own handle and must release it when it unmounts.
package inputbus

import "sort"

// Event is anything the host publishes on the bus.
type Event interface {
	inputEvent()
}

// PointerDown reports a mouse press at a terminal cell (0-based).
type PointerDown struct {
	X int
	Y int
}

func (PointerDown) inputEvent() {}

// KeyDown reports a key press by its bubbletea name ("esc", "enter", "a").
type KeyDown struct {
	Key string
}

func (KeyDown) inputEvent() {}

// Handler receives published events.
type Handler func(Event)

// Bus is owned by the program's update loop and is not safe for concurrent use.
type Bus struct {
	next     uint64
	handlers map[uint64]Handler
}

// Subscription is the release handle returned by Subscribe.
type Subscription struct {
	bus *Bus
	id  uint64
}

func New() *Bus {
	return &Bus{handlers: map[uint64]Handler{}}
}

// Subscribe registers h until the returned subscription is released.
func (b *Bus) Subscribe(h Handler) *Subscription {
	b.next++
	id := b.next
	b.handlers[id] = h
	return &Subscription{bus: b, id: id}
}

// Publish delivers ev to every live subscriber in subscription order and
// returns the number of handlers invoked. Handlers may unsubscribe while an
// event is being delivered.
func (b *Bus) Publish(ev Event) int {
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	delivered := 0
	for _, id := range ids {
		h, ok := b.handlers[id]
		if !ok {
			continue
		}
		h(ev)
		delivered++
	}
	return delivered
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	return len(b.handlers)
}

// Unsubscribe releases the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	delete(s.bus.handlers, s.id)
	s.bus = nil
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	if s == nil || s.bus == nil {
		return false
	}
	_, ok := s.bus.handlers[s.id]
	return ok
}
