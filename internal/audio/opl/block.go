package opl

import (
	"fmt"
	"math"
)

// BlockSize is the largest block BlockEmulator renders in one call.
const BlockSize = 512

type floatOperator struct {
	phase float64 // cycles in [0, 1)
	inc   float64
	level float64
	stage envStage
	out   [2]float64
}

// BlockEmulator is a floating point OPL2 core that renders straight at the
// output rate. Phase increments and static attenuation are latched once per
// block, so register writes take effect at block boundaries.
type BlockEmulator struct {
	regs       registers
	ops        [NumOperators]floatOperator
	atten      [NumOperators]float64
	outputRate int
	ratio      float64 // native samples per output sample

	clock float64 // native samples elapsed
}

// NewBlockEmulator creates a core producing samples at outputRate.
func NewBlockEmulator(outputRate int) *BlockEmulator {
	e := &BlockEmulator{
		outputRate: outputRate,
		ratio:      float64(NativeRate) / float64(outputRate),
	}
	e.Reset()
	return e
}

// MaxBlock implements Chip.
func (e *BlockEmulator) MaxBlock() int { return BlockSize }

// Reset implements Chip.
func (e *BlockEmulator) Reset() {
	e.regs.reset()
	for i := range e.ops {
		e.ops[i] = floatOperator{level: levelSilent}
	}
	e.clock = 0
}

// WriteRegister implements Chip.
func (e *BlockEmulator) WriteRegister(reg, val byte) {
	ev := e.regs.write(reg, val)
	if !ev.changed {
		return
	}
	for _, i := range channelOperators[ev.channel] {
		op := &e.ops[i]
		if ev.on {
			op.stage = stageAttack
			op.phase = 0
		} else {
			op.stage = stageRelease
		}
	}
}

// Generate implements Chip. It panics when len(dst) exceeds MaxBlock.
func (e *BlockEmulator) Generate(dst []int32) {
	if len(dst) > BlockSize {
		panic(fmt.Sprintf("opl: block of %d samples exceeds %d", len(dst), BlockSize))
	}
	e.latch()
	for i := range dst {
		var mix float64
		for ch := 0; ch < NumChannels; ch++ {
			mix += e.channelOutput(ch)
		}
		dst[i] = int32(math.Round(mix * 4084))
		for j := range e.ops {
			e.stepEnvelope(j)
		}
		e.clock += e.ratio
	}
}

// latch computes the per-block phase increments and static attenuation.
func (e *BlockEmulator) latch() {
	native := uint64(e.clock)
	vibPos := uint32(native>>10) & 7
	tremPos := uint32(native>>6) % 210
	for i := range e.ops {
		fnum := e.regs.vibratoFnum(i, vibPos)
		inc := float64(e.regs.phaseIncrement(i, fnum)) / float64(uint32(1)<<phaseBits)
		e.ops[i].inc = inc * e.ratio
		e.atten[i] = float64(e.regs.baseAttenuation(i) + e.regs.tremolo(i, tremPos))
	}
}

func (e *BlockEmulator) channelOutput(ch int) float64 {
	regs := &e.regs.chans[ch]
	modIdx, carIdx := channelOperators[ch][0], channelOperators[ch][1]
	mod := &e.ops[modIdx]

	var feedback float64
	if regs.feedback > 0 {
		feedback = (mod.out[0] + mod.out[1]) / 2 * math.Ldexp(1, int(regs.feedback)-6)
	}
	modOut := e.operatorOutput(modIdx, feedback)
	mod.out[1] = mod.out[0]
	mod.out[0] = modOut

	if regs.additive {
		return modOut + e.operatorOutput(carIdx, 0)
	}
	return e.operatorOutput(carIdx, modOut*4)
}

// operatorOutput returns the operator's output in [-1, 1]; modulation is in
// cycles.
func (e *BlockEmulator) operatorOutput(i int, modulation float64) float64 {
	op := &e.ops[i]
	phase := op.phase + modulation
	op.phase += op.inc
	op.phase -= math.Floor(op.phase)

	env := op.level + e.atten[i]
	if env >= levelSilent {
		return 0
	}
	return floatWave(e.regs.waveform(i), phase) * math.Exp2(-env/32)
}

// floatWave evaluates waveform wave at a phase in cycles.
func floatWave(wave uint8, phase float64) float64 {
	phase -= math.Floor(phase)
	s := math.Sin(2 * math.Pi * phase)
	switch wave {
	case 1:
		if phase >= 0.5 {
			return 0
		}
		return s
	case 2:
		return math.Abs(s)
	case 3:
		if math.Mod(phase, 0.5) >= 0.25 {
			return 0
		}
		return math.Abs(s)
	default:
		return s
	}
}

func (e *BlockEmulator) stepEnvelope(i int) {
	op := &e.ops[i]
	if op.stage == stageDecay && op.level >= float64(e.regs.sustainLevel(i)) {
		op.stage = stageSustain
	}

	rate := e.regs.stageRate(i, op.stage)
	if op.stage == stageAttack && rate >= 60 {
		op.level = 0
		op.stage = stageDecay
		return
	}
	step := egAverage(rate) * e.ratio
	if step == 0 {
		return
	}

	switch op.stage {
	case stageAttack:
		op.level -= (op.level + 1) * step / 8
		if op.level <= 0 {
			op.level = 0
			op.stage = stageDecay
		}
	default:
		op.level = math.Min(op.level+step, levelSilent)
	}
}
