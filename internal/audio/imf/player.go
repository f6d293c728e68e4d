package imf

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
)

// Emulator is the synthesis backend driven by the player.
type Emulator interface {
	WriteRegister(reg, val byte)
	Render(dst []int16, volume float32)
	Type() adlib.Type
}

// EmulatorFactory creates a fresh emulator.
type EmulatorFactory func(sampleRate int, typ adlib.Type) Emulator

func newAdlib(sampleRate int, typ adlib.Type) Emulator {
	return adlib.New(sampleRate, typ)
}

// Option configures a Player.
type Option func(*Player)

// WithEmulatorFactory replaces the emulator constructor.
func WithEmulatorFactory(f EmulatorFactory) Option {
	return func(p *Player) {
		p.newEmulator = f
	}
}

// WithVolume sets the initial playback volume.
func WithVolume(v float32) Option {
	return func(p *Player) {
		p.SetVolume(v)
	}
}

// Player sequences a song into an emulator. Render runs on the audio thread;
// every other method may be called from any goroutine.
type Player struct {
	sampleRate  int
	newEmulator EmulatorFactory

	// Owned by the audio thread.
	emulator         Emulator
	song             Song
	cursor           int
	samplesAvailable int
	delayRemainder   int // sub-sample delay carried between commands, in 1/Rate samples

	mu         sync.Mutex
	pending    Song
	songSwitch atomic.Bool

	volume     atomic.Uint32
	typ        atomic.Int32
	typeSwitch atomic.Bool

	position atomic.Int64
	length   atomic.Int64
}

// NewPlayer creates a silent player rendering at sampleRate.
func NewPlayer(sampleRate int, typ adlib.Type, opts ...Option) *Player {
	p := &Player{
		sampleRate:  sampleRate,
		newEmulator: newAdlib,
	}
	p.SetVolume(1)
	for _, opt := range opts {
		opt(p)
	}
	p.emulator = p.newEmulator(sampleRate, typ)
	p.typ.Store(int32(p.emulator.Type()))
	return p
}

// SampleRate returns the output sample rate.
func (p *Player) SampleRate() int {
	return p.sampleRate
}

// PlaySong queues song to replace the current one. The swap happens on a
// later Render call. An empty song stops the music.
func (p *Player) PlaySong(song Song) {
	p.mu.Lock()
	p.pending = song
	p.songSwitch.Store(true)
	p.mu.Unlock()
}

// SetVolume sets the playback volume, clamped to [0, 1].
func (p *Player) SetVolume(v float32) {
	switch {
	case v < 0 || math.IsNaN(float64(v)):
		v = 0
	case v > 1:
		v = 1
	}
	p.volume.Store(math.Float32bits(v))
}

// Volume returns the playback volume.
func (p *Player) Volume() float32 {
	return math.Float32frombits(p.volume.Load())
}

// SetType requests a switch to another emulator core. Unknown types select
// adlib.Block.
func (p *Player) SetType(t adlib.Type) {
	if !t.Valid() {
		t = adlib.Block
	}
	p.typ.Store(int32(t))
	p.typeSwitch.Store(true)
}

// Type returns the requested emulator core.
func (p *Player) Type() adlib.Type {
	return adlib.Type(p.typ.Load())
}

// Position returns the number of commands executed in the current pass.
func (p *Player) Position() int {
	return int(p.position.Load())
}

// Length returns the number of commands in the playing song.
func (p *Player) Length() int {
	return int(p.length.Load())
}

// Render fills dst with music. It never blocks.
func (p *Player) Render(dst []int16) {
	if p.typeSwitch.Swap(false) {
		p.switchEmulator(adlib.Type(p.typ.Load()))
	}
	if p.songSwitch.Load() && p.mu.TryLock() {
		p.song = p.pending
		p.pending = nil
		p.cursor = 0
		p.samplesAvailable = 0
		p.delayRemainder = 0
		p.songSwitch.Store(false)
		p.mu.Unlock()
		p.position.Store(0)
		p.length.Store(int64(len(p.song)))
	}

	if len(p.song) == 0 {
		clear(dst)
		return
	}

	volume := p.Volume()
	zeroRun := 0
	for len(dst) > 0 {
		if p.samplesAvailable > 0 {
			n := min(p.samplesAvailable, len(dst))
			p.emulator.Render(dst[:n], volume)
			dst = dst[n:]
			p.samplesAvailable -= n
			continue
		}

		// A full pass without any delay would never advance audio.
		if zeroRun >= len(p.song) {
			p.emulator.Render(dst, volume)
			return
		}

		cmd := p.next()
		p.emulator.WriteRegister(cmd.Register, cmd.Value)
		p.samplesAvailable = p.delaySamples(cmd.Delay)
		if p.samplesAvailable == 0 {
			zeroRun++
		} else {
			zeroRun = 0
		}
	}
}

// next returns the command at the cursor. The cursor wraps lazily so that
// it equals len(song) while the last command's delay plays out.
func (p *Player) next() Command {
	if p.cursor == len(p.song) {
		p.cursor = 0
	}
	cmd := p.song[p.cursor]
	p.cursor++
	p.position.Store(int64(p.cursor))
	return cmd
}

// delaySamples converts a delay in Rate ticks to output samples. The
// fraction left over is added to the next delay so that long runs of short
// delays keep the song's tempo.
func (p *Player) delaySamples(ticks uint16) int {
	total := int(ticks)*p.sampleRate + p.delayRemainder
	p.delayRemainder = total % Rate
	return total / Rate
}

// switchEmulator replaces the emulator with a fresh core of type t and
// replays the commands executed so far in the current pass.
func (p *Player) switchEmulator(t adlib.Type) {
	if p.emulator != nil && p.emulator.Type() == t {
		return
	}
	p.emulator = p.newEmulator(p.sampleRate, t)
	for _, cmd := range p.song[:p.cursor] {
		p.emulator.WriteRegister(cmd.Register, cmd.Value)
	}
}
