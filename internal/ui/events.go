package ui

import "sync"

// Event names a playback event a Player emits
type Event string

const (
	EventPlay  Event = "play"
	EventPause Event = "pause"
	EventEnded Event = "ended"
)

// Emitter keeps event handlers for a resource. It is meant to be embedded
// by Player implementations.
type Emitter struct {
	mu       sync.Mutex
	handlers map[Event][]func()
}

// On registers handler for event
func (e *Emitter) On(event Event, handler func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[Event][]func())
	}
	e.handlers[event] = append(e.handlers[event], handler)
}

// Emit runs every handler registered for event, in registration order.
// Handlers run outside the emitter lock so they may register more handlers.
func (e *Emitter) Emit(event Event) {
	e.mu.Lock()
	handlers := append([]func(){}, e.handlers[event]...)
	e.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}
