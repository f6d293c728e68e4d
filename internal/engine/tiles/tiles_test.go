package tiles

import "testing"

func TestAttributeFlags(t *testing.T) {
	tests := []struct {
		name  string
		value uint16
		check func(Attributes) bool
	}{
		{"animated", 0x10, Attributes.IsAnimated},
		{"foreground", 0x20, Attributes.IsForeground},
		{"fast animation", 0x40, Attributes.IsFastAnimation},
		{"climbable", 0x80, Attributes.IsClimbable},
		{"conveyor left", 0x100, Attributes.IsConveyorLeft},
		{"conveyor right", 0x200, Attributes.IsConveyorRight},
		{"flammable", 0x400, Attributes.IsFlammable},
		{"ladder", 0x4000, Attributes.IsLadder},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.check(Attributes(tc.value)) {
				t.Errorf("flag %#x not detected", tc.value)
			}
			if tc.check(Attributes(0xFFFF &^ tc.value)) {
				t.Errorf("flag %#x detected when cleared", tc.value)
			}
		})
	}
}

func TestCollisionEdges(t *testing.T) {
	c := Attributes(0x10 | 0x1 | 0x8).Collision()
	if !c.IsSolidTop() || !c.IsSolidLeft() {
		t.Error("top and left edges should be solid")
	}
	if c.IsSolidBottom() || c.IsSolidRight() {
		t.Error("bottom and right edges should be clear")
	}
	if uint8(c) != 0x9 {
		t.Errorf("collision data = %#x, expected 0x9", uint8(c))
	}
	if !SolidAll.IsSolidTop() || !SolidAll.IsSolidBottom() || !SolidAll.IsSolidLeft() || !SolidAll.IsSolidRight() {
		t.Error("SolidAll should be solid on every edge")
	}
	if !CollisionData(0).IsClear() || CollisionData(0).Any() {
		t.Error("zero collision data should be clear")
	}
}

func TestMapCombinesLayers(t *testing.T) {
	dict := NewAttributeDict([]uint16{0, 0x1, 0x4 | 0x20})
	m := NewMap(4, 3, dict)
	m.SetTile(LayerBackground, 1, 1, 1)
	m.SetTile(LayerForeground, 1, 1, 2)

	c := m.CollisionData(1, 1)
	if !c.IsSolidTop() || !c.IsSolidRight() || c.IsSolidLeft() {
		t.Errorf("combined collision = %#x, expected top|right", uint8(c))
	}
	if !m.AttributesAt(1, 1).IsForeground() {
		t.Error("foreground flag lost when combining layers")
	}
	if !m.CollisionData(0, 0).IsClear() {
		t.Error("empty tile should be clear")
	}
}

func TestMapOutOfRangePanics(t *testing.T) {
	m := NewMap(2, 2, NewAttributeDict([]uint16{0}))
	defer func() {
		if recover() == nil {
			t.Error("out-of-range query should panic")
		}
	}()
	m.CollisionData(2, 0)
}
