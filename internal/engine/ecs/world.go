// Package ecs wraps the teishoku entity/component world with lifecycle
// events. Adding or removing a component through this package publishes
// ComponentAdded / ComponentRemoved on the world's event bus so systems can
// react (slot allocation hooks into this).
package ecs

import (
	"reflect"

	"github.com/edwinsyarief/teishoku"
)

// initialCapacity is the number of entity IDs reserved up front. The world
// grows past it on demand.
const initialCapacity = 512

// Entity is a handle to an entity. Version changes every time an ID is
// recycled, so stale handles are detectable.
type Entity = teishoku.Entity

// ComponentAdded is published after a component of type T is assigned.
// Component is a copy; adding components may move storage, so handlers
// fetch a pointer with Get when they need one.
type ComponentAdded[T any] struct {
	Entity    Entity
	Component T
}

// ComponentRemoved is published after a component of type T is removed,
// either explicitly or because the entity was destroyed.
type ComponentRemoved[T any] struct {
	Entity    Entity
	Component T
}

// World owns entities, their components and the event bus.
type World struct {
	ents teishoku.World
	bus  EventBus

	known map[reflect.Type]bool
	order []func(*World, Entity) bool // typed removers in registration order, used by Destroy
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		ents:  teishoku.NewWorld(initialCapacity),
		known: make(map[reflect.Type]bool),
	}
}

// Events returns the world's event bus.
func (w *World) Events() *EventBus {
	return &w.bus
}

// Create allocates a new entity, reusing the most recently freed ID.
func (w *World) Create() Entity {
	return w.ents.CreateEntity()
}

// Valid reports whether e refers to a live entity.
func (w *World) Valid(e Entity) bool {
	return w.ents.IsValid(e)
}

// Destroy removes all components of e (publishing removal events in
// component registration order) and recycles its ID.
func (w *World) Destroy(e Entity) {
	if !w.Valid(e) {
		return
	}
	for _, remove := range w.order {
		remove(w, e)
	}
	w.ents.RemoveEntity(e)
}

// register records T so that Destroy can publish its removal.
func register[T any](w *World) {
	t := reflect.TypeFor[T]()
	if w.known[t] {
		return
	}
	w.known[t] = true
	w.order = append(w.order, Remove[T])
}

// Assign attaches component c to e and returns a pointer to the stored copy.
// Assigning a type the entity already has overwrites it without an event.
// The pointer stays valid until a component is next added to or removed
// from e.
func Assign[T any](w *World, e Entity, c T) *T {
	if !w.Valid(e) {
		panic("ecs: assign to invalid entity")
	}
	register[T](w)
	if p := teishoku.GetComponent[T](&w.ents, e); p != nil {
		*p = c
		return p
	}
	teishoku.SetComponent(&w.ents, e, c)
	Publish(&w.bus, ComponentAdded[T]{Entity: e, Component: c})
	// Handlers may have added components and moved e's storage.
	return teishoku.GetComponent[T](&w.ents, e)
}

// Remove detaches the T component from e, if present.
func Remove[T any](w *World, e Entity) bool {
	p := teishoku.GetComponent[T](&w.ents, e)
	if p == nil {
		return false
	}
	removed := *p
	teishoku.RemoveComponent[T](&w.ents, e)
	Publish(&w.bus, ComponentRemoved[T]{Entity: e, Component: removed})
	return true
}

// Get returns e's T component.
func Get[T any](w *World, e Entity) (*T, bool) {
	p := teishoku.GetComponent[T](&w.ents, e)
	return p, p != nil
}

// Has reports whether e carries a T component.
func Has[T any](w *World, e Entity) bool {
	return teishoku.GetComponent[T](&w.ents, e) != nil
}

// Entities returns a snapshot of all entities carrying T, in storage order.
func Entities[T any](w *World) []Entity {
	var out []Entity
	f := teishoku.NewFilter[T](&w.ents)
	for f.Next() {
		out = append(out, f.Entity())
	}
	return out
}

// Each calls fn for every entity carrying T. Components may be added or
// removed from inside fn; iteration runs over a snapshot.
func Each[T any](w *World, fn func(Entity, *T)) {
	for _, e := range Entities[T](w) {
		if c, ok := Get[T](w, e); ok {
			fn(e, c)
		}
	}
}

// Count returns how many entities carry T.
func Count[T any](w *World) int {
	n := 0
	f := teishoku.NewFilter[T](&w.ents)
	for f.Next() {
		n++
	}
	return n
}
