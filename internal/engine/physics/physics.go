// Package physics moves physical entities once per game frame and resolves
// their collisions against solid bodies and the tile map.
package physics

import (
	"math"
	"time"

	"github.com/vovakirdan/rigel/internal/core"
	"github.com/vovakirdan/rigel/internal/engine/components"
	"github.com/vovakirdan/rigel/internal/engine/ecs"
	"github.com/vovakirdan/rigel/internal/engine/tiles"
)

const (
	// TerminalVelocity is the fastest an entity can fall, in units per tick.
	TerminalVelocity = 2.0

	// GravityStep is added to the downward velocity every tick.
	GravityStep = 0.5

	// DefaultLogicRate is the number of game-logic frames per second.
	DefaultLogicRate = 15
)

// System integrates velocities at a fixed rate.
type System struct {
	world     *ecs.World
	tileMap   *tiles.Map
	frameTime time.Duration
	elapsed   time.Duration
	ticks     uint64
}

// NewSystem creates a physics system for world. tileMap may be nil, in which
// case only solid bodies block movement. logicRate <= 0 selects
// DefaultLogicRate.
func NewSystem(world *ecs.World, tileMap *tiles.Map, logicRate int) *System {
	if logicRate <= 0 {
		logicRate = DefaultLogicRate
	}
	return &System{
		world:     world,
		tileMap:   tileMap,
		frameTime: time.Second / time.Duration(logicRate),
	}
}

// FrameTime returns the duration of one game frame.
func (s *System) FrameTime() time.Duration {
	return s.frameTime
}

// Ticks returns the number of ticks run so far.
func (s *System) Ticks() uint64 {
	return s.ticks
}

// Update accumulates dt and runs one Tick per whole game frame elapsed.
// The remainder carries over to the next call. It returns the number of
// ticks that ran.
func (s *System) Update(dt time.Duration) int {
	s.elapsed += dt
	ran := 0
	for s.elapsed >= s.frameTime {
		s.elapsed -= s.frameTime
		s.Tick()
		ran++
	}
	return ran
}

// Tick advances every physical entity by one frame.
func (s *System) Tick() {
	for _, e := range ecs.Entities[components.CollidedWithWorld](s.world) {
		ecs.Remove[components.CollidedWithWorld](s.world, e)
	}

	ecs.Each(s.world, func(e ecs.Entity, phys *components.Physical) {
		pos, ok := ecs.Get[components.WorldPosition](s.world, e)
		if !ok {
			return
		}
		bbox, ok := ecs.Get[components.BoundingBox](s.world, e)
		if !ok {
			return
		}
		s.step(e, phys, pos, *bbox)
	})
	s.ticks++
}

func (s *System) step(e ecs.Entity, phys *components.Physical, pos *components.WorldPosition, bbox core.Rect) {
	if phys.GravityAffected {
		phys.Velocity.Y = s.applyGravity(e, *pos, bbox, phys.Velocity.Y)
	}

	movement := phys.Velocity.Rounded()
	collided := false

	// Axes are resolved independently, horizontal first.
	if movement.X != 0 {
		if moved := s.moveAxis(e, pos, bbox, movement.X, 0); moved != movement.X {
			phys.Velocity.X = 0
			collided = true
		}
	}
	if movement.Y != 0 {
		if moved := s.moveAxis(e, pos, bbox, 0, movement.Y); moved != movement.Y {
			phys.Velocity.Y = 0
			collided = true
		}
	}

	if collided {
		ecs.Assign(s.world, e, components.CollidedWithWorld{})
	}
}

func (s *System) applyGravity(e ecs.Entity, pos core.Point, bbox core.Rect, velocity float64) float64 {
	if velocity == 0 && s.onGround(e, bbox.At(pos)) {
		return 0
	}
	return math.Min(velocity+GravityStep, TerminalVelocity)
}

// moveAxis moves one unit at a time, re-checking collision after every unit,
// and returns the distance actually covered (signed). Exactly one of dx, dy
// is non-zero.
func (s *System) moveAxis(e ecs.Entity, pos *components.WorldPosition, bbox core.Rect, dx, dy int) int {
	stepX, stepY := core.Sign(dx), core.Sign(dy)
	steps := core.Abs(dx + dy)

	moved := 0
	for ; moved < steps; moved++ {
		current := bbox.At(*pos)
		if s.blocked(e, current, stepX, stepY) {
			break
		}
		pos.X += stepX
		pos.Y += stepY
	}
	if dx != 0 {
		return moved * stepX
	}
	return moved * stepY
}

// blocked reports whether moving rect by one unit in (dx, dy) would run into
// something solid.
func (s *System) blocked(self ecs.Entity, rect core.Rect, dx, dy int) bool {
	if s.tileMap != nil && s.tilesBlock(rect, dx, dy) {
		return true
	}
	return s.bodiesBlock(self, rect.Translate(dx, dy))
}

func (s *System) tilesBlock(rect core.Rect, dx, dy int) bool {
	switch {
	case dx > 0:
		col := rect.Right()
		for y := rect.Y; y < rect.Bottom(); y++ {
			if s.tileMap.CollisionData(col, y).IsSolidLeft() {
				return true
			}
		}
	case dx < 0:
		col := rect.X - 1
		for y := rect.Y; y < rect.Bottom(); y++ {
			if s.tileMap.CollisionData(col, y).IsSolidRight() {
				return true
			}
		}
	case dy > 0:
		row := rect.Bottom()
		for x := rect.X; x < rect.Right(); x++ {
			if s.tileMap.CollisionData(x, row).IsSolidTop() {
				return true
			}
		}
	case dy < 0:
		row := rect.Y - 1
		for x := rect.X; x < rect.Right(); x++ {
			if s.tileMap.CollisionData(x, row).IsSolidBottom() {
				return true
			}
		}
	}
	return false
}

func (s *System) bodiesBlock(self ecs.Entity, candidate core.Rect) bool {
	for _, other := range ecs.Entities[components.SolidBody](s.world) {
		if other == self {
			continue
		}
		pos, ok := ecs.Get[components.WorldPosition](s.world, other)
		if !ok {
			continue
		}
		bbox, ok := ecs.Get[components.BoundingBox](s.world, other)
		if !ok {
			continue
		}
		if candidate.Intersects(bbox.At(*pos)) {
			return true
		}
	}
	return false
}

// onGround checks the tiles below the bottom-left and bottom-right corners
// (either counts) and any solid body directly underneath.
func (s *System) onGround(self ecs.Entity, rect core.Rect) bool {
	if s.tileMap != nil {
		row := rect.Bottom()
		if s.tileMap.CollisionData(rect.X, row).IsSolidTop() ||
			s.tileMap.CollisionData(rect.Right()-1, row).IsSolidTop() {
			return true
		}
	}
	return s.bodiesBlock(self, rect.Translate(0, 1))
}

// IsOnGround reports whether e is standing on solid ground.
func (s *System) IsOnGround(e ecs.Entity) bool {
	pos, ok := ecs.Get[components.WorldPosition](s.world, e)
	if !ok {
		return false
	}
	bbox, ok := ecs.Get[components.BoundingBox](s.world, e)
	if !ok {
		return false
	}
	return s.onGround(e, bbox.At(*pos))
}
