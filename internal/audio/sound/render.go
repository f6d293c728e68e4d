package sound

import (
	"math"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
)

// TapeRate is the playback rate of AdLib sound tapes in ticks per second.
const TapeRate = 140

// instrumentRegisters lists the operator register each instrument byte is
// written to.
var instrumentRegisters = [10]byte{0x20, 0x23, 0x40, 0x43, 0x60, 0x63, 0x80, 0x83, 0xE0, 0xE3}

// RenderAdlibSound synthesizes s on a fresh emulator of type typ.
func RenderAdlibSound(s AdlibSound, typ adlib.Type, sampleRate int) Buffer {
	emu := adlib.New(sampleRate, typ)
	for i, reg := range instrumentRegisters {
		emu.WriteRegister(reg, s.Instrument[i])
	}
	emu.WriteRegister(0xC0, 0)

	perTick := sampleRate / TapeRate
	samples := make([]int16, len(s.Data)*perTick)
	keyOn := 0x20 | (s.Octave&7)<<2
	for i, b := range s.Data {
		if b == 0 {
			emu.WriteRegister(0xB0, 0)
		} else {
			emu.WriteRegister(0xA0, b)
			emu.WriteRegister(0xB0, keyOn)
		}
		emu.Render(samples[i*perTick:(i+1)*perTick], 1)
	}
	return Buffer{SampleRate: sampleRate, Samples: samples}
}

// Resample converts buf to sampleRate with linear interpolation. A buffer
// already at sampleRate is returned unchanged.
func Resample(buf Buffer, sampleRate int) Buffer {
	if buf.SampleRate == sampleRate || len(buf.Samples) == 0 || buf.SampleRate <= 0 {
		return Buffer{SampleRate: sampleRate, Samples: buf.Samples}
	}

	src := buf.Samples
	n := int(int64(len(src)) * int64(sampleRate) / int64(buf.SampleRate))
	out := make([]int16, n)
	step := float64(buf.SampleRate) / float64(sampleRate)
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)
		a := float64(src[idx])
		b := a
		if idx+1 < len(src) {
			b = float64(src[idx+1])
		}
		out[i] = int16(math.Round(a + (b-a)*frac))
	}
	return Buffer{SampleRate: sampleRate, Samples: out}
}

// rampDuration is the length of the fade appended to clipped buffers.
const rampDuration = 10 // ms

// AppendRamp extends buf with a linear fade to zero when it ends on a
// non-zero sample. The last sample of the result is exactly 0.
func AppendRamp(buf Buffer) Buffer {
	if len(buf.Samples) == 0 || buf.Samples[len(buf.Samples)-1] == 0 {
		return buf
	}
	n := buf.SampleRate * rampDuration / 1000
	if n < 1 {
		n = 1
	}
	last := float64(buf.Samples[len(buf.Samples)-1])
	out := make([]int16, len(buf.Samples), len(buf.Samples)+n)
	copy(out, buf.Samples)
	for i := 1; i <= n; i++ {
		out = append(out, int16(math.Round(last*float64(n-i)/float64(n))))
	}
	return Buffer{SampleRate: buf.SampleRate, Samples: out}
}

// MixSaturating adds src into dst sample by sample, saturating at the
// 16-bit range. Samples of src past len(dst) are ignored.
func MixSaturating(dst, src []int16) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = saturate(int32(dst[i]) + int32(src[i]))
	}
}

// Scale multiplies samples by factor in place, saturating.
func Scale(samples []int16, factor float32) {
	for i, s := range samples {
		samples[i] = saturate(int32(math.Round(float64(s) * float64(factor))))
	}
}

func saturate(v int32) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
