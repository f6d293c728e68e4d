package slots

import (
	"testing"

	"github.com/vovakirdan/rigel/internal/engine/components"
	"github.com/vovakirdan/rigel/internal/engine/ecs"
)

func spawnProjectile(w *ecs.World, m *Manager) (ecs.Entity, bool) {
	if !m.CanSpawnProjectile() {
		return ecs.Entity{}, false
	}
	e := w.Create()
	ecs.Assign(w, e, components.Projectile{Damage: 1})
	return e, true
}

func TestProjectilesRefusedBeyondCapacity(t *testing.T) {
	w := ecs.NewWorld()
	m := NewManager(w)

	var shots []ecs.Entity
	for i := 0; i < ProjectileCapacity; i++ {
		e, ok := spawnProjectile(w, m)
		if !ok {
			t.Fatalf("projectile %d refused", i)
		}
		shots = append(shots, e)
	}
	if _, ok := spawnProjectile(w, m); ok {
		t.Fatal("seventh projectile should be refused")
	}

	// Destroying unrelated actors must not free projectile slots.
	actor := w.Create()
	ecs.Assign(w, actor, components.BehaviorController{Name: "blue_guard"})
	w.Destroy(actor)
	if m.CanSpawnProjectile() {
		t.Fatal("actor destruction freed a projectile slot")
	}

	w.Destroy(shots[3])
	e, ok := spawnProjectile(w, m)
	if !ok {
		t.Fatal("projectile refused after one was destroyed")
	}
	slot, _ := ecs.Get[SlotIndex](w, e)
	if slot.Index != 3 || slot.Group != GroupProjectiles {
		t.Errorf("reused slot = %+v, expected index 3 in projectiles", *slot)
	}
}

func TestSlotReleasedOnComponentRemoval(t *testing.T) {
	w := ecs.NewWorld()
	m := NewManager(w)

	e := w.Create()
	ecs.Assign(w, e, components.BehaviorController{Name: "hover_bot"})
	if m.Pool(GroupActors).InUse() != 1 {
		t.Fatalf("actor pool in use = %d, expected 1", m.Pool(GroupActors).InUse())
	}

	ecs.Remove[SlotIndex](w, e)
	if m.Pool(GroupActors).InUse() != 0 {
		t.Errorf("slot not released when SlotIndex removed")
	}
}

func TestEffectsPoolGate(t *testing.T) {
	w := ecs.NewWorld()
	m := NewManager(w)

	for i := 0; i < EffectCapacity; i++ {
		if !m.CanSpawnEffect() {
			t.Fatalf("effect %d refused", i)
		}
		ecs.Assign(w, w.Create(), components.EffectSprite{Frames: 4})
	}
	if m.CanSpawnEffect() {
		t.Error("effects pool should be exhausted")
	}
	if !m.CanSpawnActor() {
		t.Error("actor pool should be untouched")
	}
}

func TestCollectOrderedSortsBySlot(t *testing.T) {
	w := ecs.NewWorld()
	m := NewManager(w)
	defer m.Close()

	var actors []ecs.Entity
	for i := 0; i < 4; i++ {
		e := w.Create()
		ecs.Assign(w, e, components.BehaviorController{})
		ecs.Assign(w, e, components.DamageInflicting{Amount: i})
		actors = append(actors, e)
	}
	// Free slot 1 and give it to a newly created entity; storage order now
	// differs from slot order.
	w.Destroy(actors[1])
	late := w.Create()
	ecs.Assign(w, late, components.BehaviorController{})
	ecs.Assign(w, late, components.DamageInflicting{Amount: 99})

	shot := w.Create()
	ecs.Assign(w, shot, components.Projectile{})
	ecs.Assign(w, shot, components.DamageInflicting{Amount: 50})

	ordered := CollectOrdered[components.DamageInflicting](w)
	if len(ordered) != 5 {
		t.Fatalf("collected %d entities, expected 5", len(ordered))
	}

	expected := []SlotIndex{
		{0, GroupActors},
		{0, GroupProjectiles},
		{1, GroupActors},
		{2, GroupActors},
		{3, GroupActors},
	}
	for i, o := range ordered {
		if o.Slot != expected[i] {
			t.Errorf("position %d: slot %+v, expected %+v", i, o.Slot, expected[i])
		}
	}
	if ordered[2].Component.Amount != 99 {
		t.Errorf("slot 1 should belong to the late entity, got amount %d", ordered[2].Component.Amount)
	}
}
