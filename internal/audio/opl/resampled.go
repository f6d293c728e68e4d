package opl

import "math"

// logSinTable holds -log2(sin) of the first quarter wave in 1/256 steps.
var logSinTable [256]uint16

// expTable holds 2^(-x/256) scaled to 11 bits, indexed by the fraction.
var expTable [256]uint16

func init() {
	for i := range logSinTable {
		s := math.Sin((float64(i) + 0.5) * math.Pi / 512)
		logSinTable[i] = uint16(math.Round(-math.Log2(s) * 256))
	}
	for i := range expTable {
		expTable[i] = uint16(math.Round(math.Pow(2, float64(255-i)/256) * 1024))
	}
}

// silentLevel is a log attenuation that decodes to zero.
const silentLevel = 0x1FFF

// expLevel converts a log attenuation to a linear magnitude (0-4084).
func expLevel(level int) int32 {
	if level > silentLevel {
		level = silentLevel
	}
	return int32(expTable[level&0xFF]<<1) >> uint(level>>8)
}

// waveOutput evaluates waveform wave at the 10-bit phase with attenuation
// env (envelope units).
func waveOutput(wave uint8, phase int32, env int) int32 {
	phase &= 0x3FF
	atten := env << 3
	quarter := func() int {
		if phase&0x100 != 0 {
			return int(logSinTable[(phase&0xFF)^0xFF])
		}
		return int(logSinTable[phase&0xFF])
	}

	switch wave {
	case 1:
		if phase&0x200 != 0 {
			return 0
		}
		return expLevel(quarter() + atten)
	case 2:
		return expLevel(quarter() + atten)
	case 3:
		if phase&0x100 != 0 {
			return 0
		}
		return expLevel(int(logSinTable[phase&0xFF]) + atten)
	default:
		out := expLevel(quarter() + atten)
		if phase&0x200 != 0 {
			return -out
		}
		return out
	}
}

type intOperator struct {
	phase uint32
	level int
	stage envStage
	out   [2]int32
}

// ResampledEmulator is an integer OPL2 core that runs at NativeRate, one
// native sample at a time, and linearly interpolates to the output rate.
type ResampledEmulator struct {
	regs       registers
	ops        [NumOperators]intOperator
	outputRate int

	egCounter uint32
	lfoTick   uint32
	tremPos   uint32
	vibPos    uint32

	acc        int
	prev, curr int32
}

// NewResampledEmulator creates a core producing samples at outputRate.
func NewResampledEmulator(outputRate int) *ResampledEmulator {
	e := &ResampledEmulator{outputRate: outputRate}
	e.Reset()
	return e
}

// MaxBlock implements Chip. The resampled core has no block limit.
func (e *ResampledEmulator) MaxBlock() int { return 0 }

// Reset implements Chip.
func (e *ResampledEmulator) Reset() {
	e.regs.reset()
	for i := range e.ops {
		e.ops[i] = intOperator{level: levelSilent}
	}
	e.egCounter, e.lfoTick, e.tremPos, e.vibPos = 0, 0, 0, 0
	e.acc, e.prev, e.curr = 0, 0, 0
}

// WriteRegister implements Chip.
func (e *ResampledEmulator) WriteRegister(reg, val byte) {
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

// Generate implements Chip.
func (e *ResampledEmulator) Generate(dst []int32) {
	for i := range dst {
		for e.acc >= e.outputRate {
			e.acc -= e.outputRate
			e.prev = e.curr
			e.curr = e.clock()
		}
		diff := int64(e.curr - e.prev)
		dst[i] = e.prev + int32(diff*int64(e.acc)/int64(e.outputRate))
		e.acc += NativeRate
	}
}

// clock produces one native sample.
func (e *ResampledEmulator) clock() int32 {
	var mix int32
	for ch := 0; ch < NumChannels; ch++ {
		mix += e.channelOutput(ch)
	}

	e.egCounter++
	for i := range e.ops {
		e.stepEnvelope(i)
	}

	e.lfoTick++
	if e.lfoTick&63 == 0 {
		e.tremPos = (e.tremPos + 1) % 210
	}
	if e.lfoTick&1023 == 0 {
		e.vibPos = (e.vibPos + 1) & 7
	}
	return mix
}

func (e *ResampledEmulator) channelOutput(ch int) int32 {
	regs := &e.regs.chans[ch]
	modIdx, carIdx := channelOperators[ch][0], channelOperators[ch][1]
	mod := &e.ops[modIdx]

	var feedback int32
	if regs.feedback > 0 {
		feedback = (mod.out[0] + mod.out[1]) >> (9 - regs.feedback)
	}
	modOut := e.operatorOutput(modIdx, feedback)
	mod.out[1] = mod.out[0]
	mod.out[0] = modOut

	if regs.additive {
		return modOut + e.operatorOutput(carIdx, 0)
	}
	return e.operatorOutput(carIdx, modOut)
}

func (e *ResampledEmulator) operatorOutput(i int, modulation int32) int32 {
	op := &e.ops[i]
	fnum := e.regs.vibratoFnum(i, e.vibPos)
	op.phase = (op.phase + e.regs.phaseIncrement(i, fnum)) & (1<<phaseBits - 1)

	env := op.level + e.regs.baseAttenuation(i) + e.regs.tremolo(i, e.tremPos)
	if env >= levelSilent {
		return 0
	}
	phase := int32(op.phase>>phaseOutShift) + modulation
	return waveOutput(e.regs.waveform(i), phase, env)
}

func (e *ResampledEmulator) stepEnvelope(i int) {
	op := &e.ops[i]
	if op.stage == stageDecay && op.level >= e.regs.sustainLevel(i) {
		op.stage = stageSustain
	}

	rate := e.regs.stageRate(i, op.stage)
	if op.stage == stageAttack && rate >= 60 {
		op.level = 0
		op.stage = stageDecay
		return
	}
	inc := egIncrement(rate, e.egCounter)
	if inc == 0 {
		return
	}

	switch op.stage {
	case stageAttack:
		op.level += (^op.level * inc) >> 3
		if op.level <= 0 {
			op.level = 0
			op.stage = stageDecay
		}
	default:
		op.level += inc
		if op.level > levelSilent {
			op.level = levelSilent
		}
	}
}
