package slots

import (
	"sort"

	"github.com/vovakirdan/rigel/internal/engine/components"
	"github.com/vovakirdan/rigel/internal/engine/ecs"
)

// Group identifies which classic table a slot index belongs to.
type Group int

const (
	GroupActors Group = iota
	GroupProjectiles
	GroupEffects
	numGroups
)

// String returns a human-readable name for the group.
func (g Group) String() string {
	switch g {
	case GroupActors:
		return "actors"
	case GroupProjectiles:
		return "projectiles"
	case GroupEffects:
		return "effects"
	default:
		return "unknown"
	}
}

// SlotIndex is the component recording an entity's slot. It is a weak
// reference: the manager owns the pools, the entity only remembers which
// index it holds.
type SlotIndex struct {
	Index int
	Group Group
}

// Less orders slot indices by (index, group).
func (s SlotIndex) Less(other SlotIndex) bool {
	if s.Index != other.Index {
		return s.Index < other.Index
	}
	return s.Group < other.Group
}

// Manager assigns and releases slot indices in response to component
// lifecycle events on a world.
type Manager struct {
	world *ecs.World
	pools [numGroups]*Pool
	subs  []ecs.Subscription
}

// NewManager creates the three pools and subscribes to w's events.
func NewManager(w *ecs.World) *Manager {
	m := &Manager{world: w}
	m.pools[GroupActors] = NewPool(ActorCapacity)
	m.pools[GroupProjectiles] = NewPool(ProjectileCapacity)
	m.pools[GroupEffects] = NewPool(EffectCapacity)

	bus := w.Events()
	m.subs = append(m.subs,
		ecs.Subscribe(bus, func(ev ecs.ComponentAdded[components.Projectile]) {
			m.assign(ev.Entity, GroupProjectiles)
		}),
		ecs.Subscribe(bus, func(ev ecs.ComponentAdded[components.BehaviorController]) {
			m.assign(ev.Entity, GroupActors)
		}),
		ecs.Subscribe(bus, func(ev ecs.ComponentAdded[components.EffectSprite]) {
			m.assign(ev.Entity, GroupEffects)
		}),
		ecs.Subscribe(bus, func(ev ecs.ComponentRemoved[SlotIndex]) {
			m.pools[ev.Component.Group].Release(ev.Component.Index)
		}),
	)
	return m
}

// Close stops reacting to world events.
func (m *Manager) Close() {
	for _, s := range m.subs {
		s.Cancel()
	}
	m.subs = nil
}

func (m *Manager) assign(e ecs.Entity, g Group) {
	if ecs.Has[SlotIndex](m.world, e) {
		return
	}
	index, ok := m.pools[g].Acquire()
	if !ok {
		// Spawners are expected to check CanSpawn* first.
		return
	}
	ecs.Assign(m.world, e, SlotIndex{Index: index, Group: g})
}

// CanSpawnActor reports whether an actor slot is free.
func (m *Manager) CanSpawnActor() bool {
	return m.pools[GroupActors].HasFree()
}

// CanSpawnProjectile reports whether a projectile slot is free.
func (m *Manager) CanSpawnProjectile() bool {
	return m.pools[GroupProjectiles].HasFree()
}

// CanSpawnEffect reports whether an effect slot is free.
func (m *Manager) CanSpawnEffect() bool {
	return m.pools[GroupEffects].HasFree()
}

// Pool exposes the pool of a group, for diagnostics.
func (m *Manager) Pool(g Group) *Pool {
	return m.pools[g]
}

// Ordered pairs an entity with its marker component and slot.
type Ordered[T any] struct {
	Entity    ecs.Entity
	Component *T
	Slot      SlotIndex
}

// CollectOrdered returns every entity carrying T and a SlotIndex, sorted by
// (index, group), which is the iteration order of the classic tables.
func CollectOrdered[T any](w *ecs.World) []Ordered[T] {
	var out []Ordered[T]
	ecs.Each(w, func(e ecs.Entity, c *T) {
		if slot, ok := ecs.Get[SlotIndex](w, e); ok {
			out = append(out, Ordered[T]{Entity: e, Component: c, Slot: *slot})
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Slot.Less(out[j].Slot)
	})
	return out
}
