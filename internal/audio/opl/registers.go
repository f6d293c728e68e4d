// Package opl provides two software emulations of the Yamaha YM3812 (OPL2)
// FM synthesizer. Both cores decode the same register file and can be
// swapped for one another mid-song by replaying the register writes.
package opl

// NativeRate is the chip's internal sample rate (14.31818 MHz / 288).
const NativeRate = 49716

const (
	// NumChannels is the number of two-operator FM channels.
	NumChannels = 9

	// NumOperators is the number of operator slots.
	NumOperators = 18
)

// Chip is the contract shared by the emulation cores.
type Chip interface {
	// WriteRegister applies a write to the register at reg.
	WriteRegister(reg, val byte)

	// Generate renders len(dst) mono samples. The samples are the raw sum
	// of all channels and may exceed the 16-bit range.
	Generate(dst []int32)

	// MaxBlock returns the largest len(dst) Generate accepts, or 0 when
	// there is no limit.
	MaxBlock() int

	// Reset silences the chip and clears every register.
	Reset()
}

// Envelope stages.
type envStage uint8

const (
	stageRelease envStage = iota
	stageAttack
	stageDecay
	stageSustain
)

// Envelope levels are attenuation in 0.1875 dB steps.
const (
	levelSilent   = 511
	phaseBits     = 19
	phaseOutShift = phaseBits - 10
)

// slotOperator maps the low five bits of an operator register to an
// operator index. Gaps are -1.
var slotOperator = [32]int{
	0, 1, 2, 3, 4, 5, -1, -1,
	6, 7, 8, 9, 10, 11, -1, -1,
	12, 13, 14, 15, 16, 17, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1,
}

// channelOperators lists the modulator and carrier of each channel.
var channelOperators = [NumChannels][2]int{
	{0, 3}, {1, 4}, {2, 5},
	{6, 9}, {7, 10}, {8, 11},
	{12, 15}, {13, 16}, {14, 17},
}

// operatorChannel is the inverse of channelOperators.
var operatorChannel = func() [NumOperators]int {
	var m [NumOperators]int
	for ch, ops := range channelOperators {
		m[ops[0]] = ch
		m[ops[1]] = ch
	}
	return m
}()

// multTable holds twice the frequency multiplier for each MULT value.
var multTable = [16]uint32{1, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20, 24, 24, 30, 30}

// kslTable is the key scale level attenuation by the top four F-number bits.
var kslTable = [16]int{0, 32, 40, 45, 48, 51, 53, 55, 56, 58, 59, 60, 61, 62, 63, 64}

// kslShift converts a KSL setting to a right shift (0 dB, 3, 1.5, 6 dB/oct).
var kslShift = [4]uint{8, 1, 2, 0}

// egPattern holds the envelope increment patterns selected by the two low
// bits of the effective rate.
var egPattern = [4][8]uint8{
	{0, 1, 0, 1, 0, 1, 0, 1},
	{0, 1, 0, 1, 1, 1, 0, 1},
	{0, 1, 1, 1, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 1},
}

type operatorRegs struct {
	am, vib, egt, ksr bool
	mult              uint8
	ksl               uint8
	tl                uint8
	ar, dr, sl, rr    uint8
	wave              uint8
}

type channelRegs struct {
	fnum     uint16
	block    uint8
	keyOn    bool
	feedback uint8
	additive bool
}

// keyEvent reports a key on/off transition caused by a register write.
type keyEvent struct {
	channel int
	on      bool
	changed bool
}

// registers is the decoded register file shared by both cores.
type registers struct {
	waveSelect bool
	noteSelect bool
	amDepth    bool
	vibDepth   bool
	rhythm     bool

	ops   [NumOperators]operatorRegs
	chans [NumChannels]channelRegs
}

func (r *registers) reset() {
	*r = registers{}
}

// write decodes a register write.
func (r *registers) write(reg, val byte) keyEvent {
	switch {
	case reg == 0x01:
		r.waveSelect = val&0x20 != 0
	case reg == 0x08:
		r.noteSelect = val&0x40 != 0
	case reg == 0xBD:
		r.amDepth = val&0x80 != 0
		r.vibDepth = val&0x40 != 0
		r.rhythm = val&0x20 != 0
	case reg >= 0x20 && reg <= 0x95, reg >= 0xE0 && reg <= 0xF5:
		slot := slotOperator[reg&0x1F]
		if slot < 0 {
			break
		}
		op := &r.ops[slot]
		switch reg & 0xE0 {
		case 0x20:
			op.am = val&0x80 != 0
			op.vib = val&0x40 != 0
			op.egt = val&0x20 != 0
			op.ksr = val&0x10 != 0
			op.mult = val & 0x0F
		case 0x40:
			op.ksl = val >> 6
			op.tl = val & 0x3F
		case 0x60:
			op.ar = val >> 4
			op.dr = val & 0x0F
		case 0x80:
			op.sl = val >> 4
			op.rr = val & 0x0F
		case 0xE0:
			op.wave = val & 0x03
		}
	case reg >= 0xA0 && reg <= 0xA8:
		ch := &r.chans[reg-0xA0]
		ch.fnum = ch.fnum&0x300 | uint16(val)
	case reg >= 0xB0 && reg <= 0xB8:
		idx := int(reg - 0xB0)
		ch := &r.chans[idx]
		ch.fnum = ch.fnum&0xFF | uint16(val&0x03)<<8
		ch.block = (val >> 2) & 0x07
		on := val&0x20 != 0
		ev := keyEvent{channel: idx, on: on, changed: on != ch.keyOn}
		ch.keyOn = on
		return ev
	case reg >= 0xC0 && reg <= 0xC8:
		ch := &r.chans[reg-0xC0]
		ch.feedback = (val >> 1) & 0x07
		ch.additive = val&0x01 != 0
	}
	return keyEvent{}
}

// waveform returns the effective waveform of operator i.
func (r *registers) waveform(i int) uint8 {
	if !r.waveSelect {
		return 0
	}
	return r.ops[i].wave
}

// keyScaleOffset is the rate offset added to envelope rates by key scaling.
func (r *registers) keyScaleOffset(i int) int {
	ch := &r.chans[operatorChannel[i]]
	bit := 9
	if r.noteSelect {
		bit = 8
	}
	rof := int(ch.block)<<1 | int(ch.fnum>>bit)&1
	if !r.ops[i].ksr {
		rof >>= 2
	}
	return rof
}

// effectiveRate combines a 4-bit register rate with key scaling. Zero stays
// frozen.
func (r *registers) effectiveRate(i int, rate uint8) int {
	if rate == 0 {
		return 0
	}
	eff := int(rate)*4 + r.keyScaleOffset(i)
	if eff > 63 {
		eff = 63
	}
	return eff
}

// stageRate returns the effective envelope rate for operator i in stage s.
func (r *registers) stageRate(i int, s envStage) int {
	op := &r.ops[i]
	switch s {
	case stageAttack:
		return r.effectiveRate(i, op.ar)
	case stageDecay:
		return r.effectiveRate(i, op.dr)
	case stageSustain:
		if op.egt {
			return 0
		}
		return r.effectiveRate(i, op.rr)
	default:
		return r.effectiveRate(i, op.rr)
	}
}

// sustainLevel returns the decay target of operator i in envelope units.
func (r *registers) sustainLevel(i int) int {
	sl := int(r.ops[i].sl)
	if sl == 0x0F {
		sl = 0x1F
	}
	return sl << 4
}

// baseAttenuation is the static attenuation of operator i: total level plus
// key scale level, in envelope units.
func (r *registers) baseAttenuation(i int) int {
	op := &r.ops[i]
	ch := &r.chans[operatorChannel[i]]
	ksl := kslTable[ch.fnum>>6]<<2 - (8-int(ch.block))<<5
	if ksl < 0 {
		ksl = 0
	}
	return int(op.tl)<<2 + ksl>>kslShift[op.ksl]
}

// vibratoFnum returns the F-number of the channel owning operator i with
// vibrato at position pos (0-7) applied.
func (r *registers) vibratoFnum(i int, pos uint32) uint16 {
	ch := &r.chans[operatorChannel[i]]
	if !r.ops[i].vib {
		return ch.fnum
	}
	delta := int(ch.fnum>>7) & 7
	switch {
	case pos&3 == 0:
		delta = 0
	case pos&1 == 1:
		delta >>= 1
	}
	if !r.vibDepth {
		delta >>= 1
	}
	if pos&4 != 0 {
		delta = -delta
	}
	return uint16(int(ch.fnum) + delta)
}

// tremolo returns the amplitude modulation for operator i at tremolo
// position pos (0-209), in envelope units.
func (r *registers) tremolo(i int, pos uint32) int {
	if !r.ops[i].am {
		return 0
	}
	v := int(pos)
	if v >= 105 {
		v = 210 - v
	}
	if r.amDepth {
		return v >> 2
	}
	return v >> 4
}

// phaseIncrement returns the native-rate phase step of operator i for a
// given F-number, with phaseBits of fraction per cycle.
func (r *registers) phaseIncrement(i int, fnum uint16) uint32 {
	ch := &r.chans[operatorChannel[i]]
	base := (uint32(fnum) << ch.block) >> 1
	return (base * multTable[r.ops[i].mult]) >> 1
}

// egIncrement returns the envelope step for an effective rate at global
// envelope counter value counter.
func egIncrement(rate int, counter uint32) int {
	if rate == 0 {
		return 0
	}
	hi, lo := rate>>2, rate&3
	if hi < 12 {
		shift := uint(12 - hi)
		if counter&(1<<shift-1) != 0 {
			return 0
		}
		return int(egPattern[lo][(counter>>shift)&7])
	}
	return int(egPattern[lo][counter&7]) << uint(hi-12)
}

// egAverage is the mean of egIncrement over time, per native sample.
func egAverage(rate int) float64 {
	if rate == 0 {
		return 0
	}
	hi, lo := rate>>2, rate&3
	mean := float64(4+lo) / 8
	if hi < 12 {
		return mean / float64(uint(1)<<uint(12-hi))
	}
	return mean * float64(uint(1)<<uint(hi-12))
}
