// Package adlib wraps the OPL cores behind a single emulator that renders
// volume-scaled 16-bit PCM.
package adlib

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/rigel/internal/audio/opl"
)

// Type selects the synthesis core.
type Type int32

const (
	// Block renders at the output rate in fixed-size blocks.
	Block Type = iota
	// Resampled renders at the chip's native rate and interpolates.
	Resampled
)

// String returns the config name of the type.
func (t Type) String() string {
	switch t {
	case Block:
		return "dbopl"
	case Resampled:
		return "nuked"
	}
	return fmt.Sprintf("Type(%d)", int32(t))
}

// Valid reports whether t names a core.
func (t Type) Valid() bool {
	return t == Block || t == Resampled
}

// Toggle returns the other core type.
func (t Type) Toggle() Type {
	if t == Block {
		return Resampled
	}
	return Block
}

// ParseType parses a config value. Both the historic core names and the
// descriptive names are accepted.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dbopl", "block":
		return Block, nil
	case "nuked", "resampled":
		return Resampled, nil
	}
	return 0, fmt.Errorf("adlib: unknown emulator type %q", s)
}

// fallbackBlock bounds the scratch buffer for cores without a block limit.
const fallbackBlock = 1024

// Emulator renders register writes into PCM through one of the cores.
type Emulator struct {
	chip    opl.Chip
	typ     Type
	scratch []int32
}

// New creates an emulator for sampleRate using core type typ.
func New(sampleRate int, typ Type) *Emulator {
	var chip opl.Chip
	switch typ {
	case Resampled:
		chip = opl.NewResampledEmulator(sampleRate)
	default:
		typ = Block
		chip = opl.NewBlockEmulator(sampleRate)
	}

	size := chip.MaxBlock()
	if size <= 0 {
		size = fallbackBlock
	}
	return &Emulator{chip: chip, typ: typ, scratch: make([]int32, size)}
}

// Type returns the active core type.
func (e *Emulator) Type() Type {
	return e.typ
}

// WriteRegister forwards a register write to the core.
func (e *Emulator) WriteRegister(reg, val byte) {
	e.chip.WriteRegister(reg, val)
}

// Render fills dst with exactly len(dst) samples, scaled by volume and
// clamped to the 16-bit range.
func (e *Emulator) Render(dst []int16, volume float32) {
	for len(dst) > 0 {
		n := len(dst)
		if n > len(e.scratch) {
			n = len(e.scratch)
		}
		block := e.scratch[:n]
		e.chip.Generate(block)
		for i, s := range block {
			dst[i] = clamp16(float32(s) * volume)
		}
		dst = dst[n:]
	}
}

func clamp16(v float32) int16 {
	switch {
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
