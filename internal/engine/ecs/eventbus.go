package ecs

import "github.com/edwinsyarief/teishoku"

// EventBus dispatches typed events to subscribers synchronously, in
// subscription order.
type EventBus = teishoku.EventBus

// Subscription identifies a registered handler so it can be cancelled.
type Subscription struct {
	active *bool
}

// Subscribe registers handler for events of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) Subscription {
	active := true
	teishoku.Subscribe(bus, func(ev T) {
		if active {
			handler(ev)
		}
	})
	return Subscription{active: &active}
}

// Publish delivers event to every handler subscribed to T.
func Publish[T any](bus *EventBus, event T) {
	teishoku.Publish(bus, event)
}

// Cancel stops the handler from being called. The bus keeps the inert
// entry. Cancelling twice is a no-op.
func (s Subscription) Cancel() {
	if s.active != nil {
		*s.active = false
	}
}
