// Package tiles decodes per-tile attribute flags and answers collision
// queries against a two-layer tile map.
package tiles

import "fmt"

// Attribute flags of the 16-bit packed tile attribute value.
const (
	flagSolidTop       = 0x0001
	flagSolidBottom    = 0x0002
	flagSolidRight     = 0x0004
	flagSolidLeft      = 0x0008
	flagAnimated       = 0x0010
	flagForeground     = 0x0020
	flagFastAnimation  = 0x0040
	flagClimbable      = 0x0080
	flagConveyorLeft   = 0x0100
	flagConveyorRight  = 0x0200
	flagFlammable      = 0x0400
	flagLadder         = 0x4000
	collisionFlagsMask = 0x000F
)

// CollisionData is the 4-bit solid-edge mask of a tile.
type CollisionData uint8

// SolidAll is solid on every edge.
const SolidAll CollisionData = collisionFlagsMask

// IsSolidTop reports whether things resting on or falling onto the tile are blocked.
func (c CollisionData) IsSolidTop() bool { return c&flagSolidTop != 0 }

// IsSolidBottom reports whether things moving up into the tile are blocked.
func (c CollisionData) IsSolidBottom() bool { return c&flagSolidBottom != 0 }

// IsSolidRight reports whether things moving left into the tile are blocked.
func (c CollisionData) IsSolidRight() bool { return c&flagSolidRight != 0 }

// IsSolidLeft reports whether things moving right into the tile are blocked.
func (c CollisionData) IsSolidLeft() bool { return c&flagSolidLeft != 0 }

// IsClear reports whether no edge is solid.
func (c CollisionData) IsClear() bool { return c == 0 }

// Any reports whether at least one edge is solid.
func (c CollisionData) Any() bool { return c != 0 }

// Attributes is the packed attribute value of a tile.
type Attributes uint16

// IsAnimated reports whether the tile cycles through animation frames.
func (a Attributes) IsAnimated() bool { return a&flagAnimated != 0 }

// IsForeground reports whether the tile is drawn over actors.
func (a Attributes) IsForeground() bool { return a&flagForeground != 0 }

// IsFastAnimation reports whether the animation advances every frame.
func (a Attributes) IsFastAnimation() bool { return a&flagFastAnimation != 0 }

// IsClimbable reports whether the player can cling to the tile.
func (a Attributes) IsClimbable() bool { return a&flagClimbable != 0 }

// IsConveyorLeft reports whether the tile carries things resting on it to the left.
func (a Attributes) IsConveyorLeft() bool { return a&flagConveyorLeft != 0 }

// IsConveyorRight reports whether the tile carries things resting on it to the right.
func (a Attributes) IsConveyorRight() bool { return a&flagConveyorRight != 0 }

// IsFlammable reports whether the tile burns away when hit by fire.
func (a Attributes) IsFlammable() bool { return a&flagFlammable != 0 }

// IsLadder reports whether the tile can be climbed up and down.
func (a Attributes) IsLadder() bool { return a&flagLadder != 0 }

// Collision returns the solid-edge bits of the attributes.
func (a Attributes) Collision() CollisionData { return CollisionData(a & collisionFlagsMask) }

// AttributeDict maps tile indices to their attributes.
type AttributeDict struct {
	attributes []Attributes
}

// NewAttributeDict wraps a list of per-tile attribute values.
func NewAttributeDict(values []uint16) AttributeDict {
	attrs := make([]Attributes, len(values))
	for i, v := range values {
		attrs[i] = Attributes(v)
	}
	return AttributeDict{attributes: attrs}
}

// Attributes returns the attributes of tile index.
func (d AttributeDict) Attributes(index int) Attributes {
	if index < 0 || index >= len(d.attributes) {
		panic(fmt.Sprintf("tiles: tile index %d outside attribute dictionary of %d", index, len(d.attributes)))
	}
	return d.attributes[index]
}

// CollisionData returns the solid-edge mask of tile index.
func (d AttributeDict) CollisionData(index int) CollisionData {
	return d.Attributes(index).Collision()
}

// Len returns the number of tiles described.
func (d AttributeDict) Len() int {
	return len(d.attributes)
}

// Layers in a map.
const (
	LayerBackground = 0
	LayerForeground = 1
	numLayers       = 2
)

// Map is a grid of tile indices in two layers.
type Map struct {
	width, height int
	layers        [numLayers][]int
	attributes    AttributeDict
}

// NewMap creates a map filled with tile 0 in both layers.
func NewMap(width, height int, attributes AttributeDict) *Map {
	m := &Map{width: width, height: height, attributes: attributes}
	for i := range m.layers {
		m.layers[i] = make([]int, width*height)
	}
	return m
}

// Width returns the map width in tiles.
func (m *Map) Width() int { return m.width }

// Height returns the map height in tiles.
func (m *Map) Height() int { return m.height }

// SetTile places tile index at (x, y) in layer.
func (m *Map) SetTile(layer, x, y, tile int) {
	m.checkBounds(x, y)
	m.layers[layer][y*m.width+x] = tile
}

// TileAt returns the tile index at (x, y) in layer.
func (m *Map) TileAt(layer, x, y int) int {
	m.checkBounds(x, y)
	return m.layers[layer][y*m.width+x]
}

// CollisionData combines the solid edges of both layers at (x, y).
// Querying outside the map is a programming error.
func (m *Map) CollisionData(x, y int) CollisionData {
	m.checkBounds(x, y)
	i := y*m.width + x
	return m.attributes.CollisionData(m.layers[LayerBackground][i]) |
		m.attributes.CollisionData(m.layers[LayerForeground][i])
}

// AttributesAt returns the combined attributes of both layers at (x, y).
func (m *Map) AttributesAt(x, y int) Attributes {
	m.checkBounds(x, y)
	i := y*m.width + x
	return m.attributes.Attributes(m.layers[LayerBackground][i]) |
		m.attributes.Attributes(m.layers[LayerForeground][i])
}

func (m *Map) checkBounds(x, y int) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		panic(fmt.Sprintf("tiles: query (%d, %d) outside %dx%d map", x, y, m.width, m.height))
	}
}
