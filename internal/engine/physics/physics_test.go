package physics

import (
	"testing"
	"time"

	"github.com/vovakirdan/rigel/internal/core"
	"github.com/vovakirdan/rigel/internal/engine/components"
	"github.com/vovakirdan/rigel/internal/engine/ecs"
	"github.com/vovakirdan/rigel/internal/engine/tiles"
)

const (
	tileSolid    = 1
	tilePlatform = 2 // solid from above only
)

func testMap(w, h int) *tiles.Map {
	dict := tiles.NewAttributeDict([]uint16{0, 0xF, 0x1})
	return tiles.NewMap(w, h, dict)
}

func spawnBody(w *ecs.World, pos core.Point, box core.Rect, vel core.Vec2f, gravity bool) ecs.Entity {
	e := w.Create()
	ecs.Assign(w, e, components.WorldPosition(pos))
	ecs.Assign(w, e, components.BoundingBox(box))
	ecs.Assign(w, e, components.Physical{Velocity: vel, GravityAffected: gravity})
	return e
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) core.Point {
	t.Helper()
	p, ok := ecs.Get[components.WorldPosition](w, e)
	if !ok {
		t.Fatal("entity has no position")
	}
	return *p
}

func velocity(t *testing.T, w *ecs.World, e ecs.Entity) core.Vec2f {
	t.Helper()
	p, ok := ecs.Get[components.Physical](w, e)
	if !ok {
		t.Fatal("entity has no physical component")
	}
	return p.Velocity
}

func TestHorizontalMovement(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewSystem(w, testMap(20, 10), 15)
	e := spawnBody(w, core.Point{X: 0, Y: 2}, core.NewRect(0, 0, 1, 1), core.Vec2f{X: 4}, false)

	sys.Tick()

	if p := position(t, w, e); p.X != 4 || p.Y != 2 {
		t.Errorf("position = %+v, expected {4 2}", p)
	}
	if ecs.Has[components.CollidedWithWorld](w, e) {
		t.Error("unobstructed movement should not tag a collision")
	}
}

func TestTerminalVelocity(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewSystem(w, testMap(4, 200), 15)
	e := spawnBody(w, core.Point{X: 1, Y: 0}, core.NewRect(0, 0, 1, 1), core.Vec2f{}, true)

	for i := 0; i < 40; i++ {
		sys.Tick()
		if v := velocity(t, w, e); v.Y > TerminalVelocity {
			t.Fatalf("tick %d: velocity %.2f exceeds terminal velocity", i, v.Y)
		}
	}
	if v := velocity(t, w, e); v.Y != TerminalVelocity {
		t.Errorf("velocity after falling = %.2f, expected %.2f", v.Y, TerminalVelocity)
	}
}

func TestLandingOnSolidBody(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewSystem(w, nil, 15)

	ground := w.Create()
	ecs.Assign(w, ground, components.WorldPosition{X: 0, Y: 10})
	ecs.Assign(w, ground, components.BoundingBox(core.NewRect(0, 0, 8, 1)))
	ecs.Assign(w, ground, components.SolidBody{})

	e := spawnBody(w, core.Point{X: 2, Y: 0}, core.NewRect(0, 0, 2, 2), core.Vec2f{}, true)

	landed := false
	for i := 0; i < 20 && !landed; i++ {
		sys.Tick()
		landed = ecs.Has[components.CollidedWithWorld](w, e)
	}
	if !landed {
		t.Fatal("entity never collided with the ground")
	}

	if p := position(t, w, e); p.Y+2 != 10 {
		t.Errorf("bottom edge at %d, expected contact boundary 10", p.Y+2)
	}
	if v := velocity(t, w, e); v.Y != 0 {
		t.Errorf("vertical velocity = %.2f after landing, expected 0", v.Y)
	}

	sys.Tick()
	if ecs.Has[components.CollidedWithWorld](w, e) {
		t.Error("collision marker should only last one tick")
	}
	if p := position(t, w, e); p.Y != 8 {
		t.Errorf("resting entity moved to y=%d", p.Y)
	}
	if !sys.IsOnGround(e) {
		t.Error("resting entity should be on ground")
	}
}

func TestSolidBodyIgnoresItself(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewSystem(w, nil, 15)
	e := spawnBody(w, core.Point{X: 0, Y: 0}, core.NewRect(0, 0, 2, 2), core.Vec2f{X: 1}, false)
	ecs.Assign(w, e, components.SolidBody{})

	sys.Tick()

	if p := position(t, w, e); p.X != 1 {
		t.Errorf("solid mover blocked by itself: x=%d", p.X)
	}
}

func TestTileWallStopsAtBoundary(t *testing.T) {
	w := ecs.NewWorld()
	m := testMap(12, 6)
	for y := 0; y < 6; y++ {
		m.SetTile(tiles.LayerBackground, 8, y, tileSolid)
	}
	sys := NewSystem(w, m, 15)
	e := spawnBody(w, core.Point{X: 3, Y: 1}, core.NewRect(0, 0, 2, 2), core.Vec2f{X: 4}, false)

	sys.Tick()

	// Right edge (x+2) stops at the wall column 8.
	if p := position(t, w, e); p.X != 6 {
		t.Errorf("x = %d, expected 6", p.X)
	}
	if v := velocity(t, w, e); v.X != 0 {
		t.Errorf("horizontal velocity = %.2f, expected 0", v.X)
	}
	if !ecs.Has[components.CollidedWithWorld](w, e) {
		t.Error("blocked movement should tag a collision")
	}
}

func TestOneWayPlatform(t *testing.T) {
	w := ecs.NewWorld()
	m := testMap(6, 12)
	for x := 0; x < 6; x++ {
		m.SetTile(tiles.LayerForeground, x, 5, tilePlatform)
	}
	sys := NewSystem(w, m, 15)

	// Moving up passes through a platform that is only solid on top.
	jumper := spawnBody(w, core.Point{X: 1, Y: 6}, core.NewRect(0, 0, 1, 1), core.Vec2f{Y: -2}, false)
	sys.Tick()
	if p := position(t, w, jumper); p.Y != 4 {
		t.Errorf("jumper y = %d, expected 4", p.Y)
	}
	w.Destroy(jumper)

	// Falling lands on it.
	faller := spawnBody(w, core.Point{X: 3, Y: 1}, core.NewRect(0, 0, 1, 1), core.Vec2f{Y: 2}, false)
	sys.Tick()
	sys.Tick()
	if p := position(t, w, faller); p.Y != 4 {
		t.Errorf("faller y = %d, expected to rest at 4", p.Y)
	}
}

func TestGroundCheckUsesEitherCorner(t *testing.T) {
	w := ecs.NewWorld()
	m := testMap(8, 8)
	// Only the tile under the right corner is solid.
	m.SetTile(tiles.LayerBackground, 4, 5, tileSolid)
	sys := NewSystem(w, m, 15)

	e := spawnBody(w, core.Point{X: 2, Y: 3}, core.NewRect(0, 0, 3, 2), core.Vec2f{}, true)
	if !sys.IsOnGround(e) {
		t.Fatal("entity should be grounded by its bottom-right corner")
	}

	sys.Tick()
	if p := position(t, w, e); p.Y != 3 {
		t.Errorf("grounded entity fell to y=%d", p.Y)
	}
}

func TestFallRechecksBetweenUnits(t *testing.T) {
	w := ecs.NewWorld()
	m := testMap(4, 10)
	m.SetTile(tiles.LayerBackground, 1, 4, tileSolid)
	sys := NewSystem(w, m, 15)

	// One unit above the ground with a two-unit fall: the first unit lands,
	// the second is refused.
	e := spawnBody(w, core.Point{X: 1, Y: 2}, core.NewRect(0, 0, 1, 1), core.Vec2f{Y: 2}, false)
	sys.Tick()

	if p := position(t, w, e); p.Y != 3 {
		t.Errorf("y = %d, expected 3", p.Y)
	}
	if !ecs.Has[components.CollidedWithWorld](w, e) {
		t.Error("second half-step should register the landing")
	}
}

func TestUpdateCarriesPartialFrames(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewSystem(w, nil, 10)
	e := spawnBody(w, core.Point{}, core.NewRect(0, 0, 1, 1), core.Vec2f{X: 1}, false)

	if ran := sys.Update(60 * time.Millisecond); ran != 0 {
		t.Errorf("Update(60ms) ran %d ticks, expected 0", ran)
	}
	if ran := sys.Update(60 * time.Millisecond); ran != 1 {
		t.Errorf("Update(60ms) ran %d ticks, expected 1", ran)
	}
	if ran := sys.Update(180 * time.Millisecond); ran != 2 {
		t.Errorf("Update(180ms) ran %d ticks, expected 2", ran)
	}
	if p := position(t, w, e); p.X != 3 {
		t.Errorf("x = %d after 3 ticks, expected 3", p.X)
	}
	if sys.Ticks() != 3 {
		t.Errorf("Ticks() = %d, expected 3", sys.Ticks())
	}
}
