package sound

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// MusicSource renders the music bed under the sound effects.
type MusicSource interface {
	Render(dst []int16)
}

const (
	requestNone uint32 = iota
	requestPlay
	requestStop
)

type channel struct {
	samples []int16
	pos     int
	active  bool
}

// Mixer plays one channel per sound ID over an optional music source.
// Render and Read run on the audio thread; the other methods may be called
// from any goroutine and never block.
type Mixer struct {
	lib   *Library
	music MusicSource

	// Owned by the audio thread.
	channels [NumSounds]channel
	scratch  []int16

	requests [NumSounds]atomic.Uint32
	playing  [NumSounds]atomic.Bool
	volume   atomic.Uint32
}

// NewMixer creates a mixer over lib. music may be nil.
func NewMixer(lib *Library, music MusicSource) *Mixer {
	m := &Mixer{lib: lib, music: music, scratch: make([]int16, 4096)}
	for i := range m.channels {
		m.channels[i].samples = lib.buffers[i].Samples
	}
	m.SetVolume(1)
	return m
}

// SampleRate returns the output rate.
func (m *Mixer) SampleRate() int {
	return m.lib.SampleRate()
}

// PlaySound starts id from the beginning, restarting it if it is playing.
func (m *Mixer) PlaySound(id ID) error {
	if err := checkID(id); err != nil {
		return err
	}
	m.requests[id].Store(requestPlay)
	m.playing[id].Store(true)
	return nil
}

// StopSound silences id.
func (m *Mixer) StopSound(id ID) error {
	if err := checkID(id); err != nil {
		return err
	}
	m.requests[id].Store(requestStop)
	m.playing[id].Store(false)
	return nil
}

// StopAll silences every sound.
func (m *Mixer) StopAll() {
	for i := range m.requests {
		m.requests[i].Store(requestStop)
		m.playing[i].Store(false)
	}
}

// IsPlaying reports whether id is requested or still playing.
func (m *Mixer) IsPlaying(id ID) bool {
	if !id.Valid() {
		return false
	}
	return m.playing[id].Load()
}

// SetVolume sets the sound effect volume, clamped to [0, 1].
func (m *Mixer) SetVolume(v float32) {
	switch {
	case v < 0 || math.IsNaN(float64(v)):
		v = 0
	case v > 1:
		v = 1
	}
	m.volume.Store(math.Float32bits(v))
}

// Volume returns the sound effect volume.
func (m *Mixer) Volume() float32 {
	return math.Float32frombits(m.volume.Load())
}

// Render fills dst with the music and every active sound.
func (m *Mixer) Render(dst []int16) {
	if m.music != nil {
		m.music.Render(dst)
	} else {
		clear(dst)
	}

	volume := m.Volume()
	for i := range m.channels {
		ch := &m.channels[i]
		switch m.requests[i].Swap(requestNone) {
		case requestPlay:
			ch.pos = 0
			ch.active = true
			m.playing[i].Store(true)
		case requestStop:
			ch.active = false
		}
		if !ch.active {
			continue
		}

		n := min(len(dst), len(ch.samples)-ch.pos)
		src := ch.samples[ch.pos : ch.pos+n]
		for j, s := range src {
			dst[j] = saturate(int32(dst[j]) + int32(float32(s)*volume))
		}
		ch.pos += n
		if ch.pos >= len(ch.samples) {
			ch.active = false
			// A request that arrived meanwhile keeps the flag set.
			if m.requests[i].Load() != requestPlay {
				m.playing[i].Store(false)
			}
		}
	}
}

// Read implements io.Reader, producing mono 16-bit little-endian PCM.
func (m *Mixer) Read(p []byte) (int, error) {
	n := len(p) / 2
	if n > len(m.scratch) {
		m.scratch = make([]int16, n)
	}
	samples := m.scratch[:n]
	m.Render(samples)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(s))
	}
	return n * 2, nil
}
