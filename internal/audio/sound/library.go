package sound

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
)

// Style selects where sound effects come from.
type Style int

const (
	// StyleAdlib synthesizes every sound from the AdLib bank.
	StyleAdlib Style = iota
	// StyleSampled prefers sampled WAV replacements and falls back to AdLib.
	StyleSampled
	// StyleCombined overlays the synthesized sound on the sampled one.
	StyleCombined
)

// String returns the config name of the style.
func (s Style) String() string {
	switch s {
	case StyleAdlib:
		return "adlib"
	case StyleSampled:
		return "sampled"
	case StyleCombined:
		return "combined"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle parses a config value.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adlib":
		return StyleAdlib, nil
	case "sampled":
		return StyleSampled, nil
	case "combined":
		return StyleCombined, nil
	}
	return 0, fmt.Errorf("sound: unknown style %q", s)
}

// CacheKey identifies a rendered buffer.
type CacheKey struct {
	ID         ID
	SampleRate int
	Style      Style
	Emulator   adlib.Type
	SourceHash uint64
}

// String returns a stable text form of the key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%d/%d/%s/%s/%016x", int(k.ID), k.SampleRate, k.Style, k.Emulator, k.SourceHash)
}

// Cache stores rendered buffers between runs.
type Cache interface {
	LoadBuffer(key CacheKey) (Buffer, bool, error)
	SaveBuffer(key CacheKey, buf Buffer) error
}

// DefaultAdlibVolume is the overlay level of synthesized sounds in the
// combined style.
const DefaultAdlibVolume = 0.3

// LoadOptions configures Load.
type LoadOptions struct {
	// Sounds is the AdLib bank, indexed by ID. It must hold NumSounds entries.
	Sounds []AdlibSound

	// Sampled holds WAV files for the sampled styles, keyed by ID.
	Sampled map[ID][]byte

	SampleRate int
	Style      Style
	Emulator   adlib.Type

	// SynthRate is the rate AdLib sounds are synthesized at before being
	// resampled. Zero uses SampleRate.
	SynthRate int

	// AdlibVolume scales the overlay in StyleCombined. Zero uses
	// DefaultAdlibVolume.
	AdlibVolume float32

	Cache  Cache
	Logger *log.Logger
}

// Library holds one ready-to-play buffer per sound ID, all at the same rate.
type Library struct {
	sampleRate int
	buffers    [NumSounds]Buffer
}

// Load renders every sound in the bank.
func Load(opts LoadOptions) (*Library, error) {
	if len(opts.Sounds) != NumSounds {
		return nil, fmt.Errorf("%w: bank has %d sounds, expected %d",
			ErrInvalidArgument, len(opts.Sounds), NumSounds)
	}
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidArgument, opts.SampleRate)
	}
	if opts.SynthRate <= 0 {
		opts.SynthRate = opts.SampleRate
	}
	if opts.AdlibVolume == 0 {
		opts.AdlibVolume = DefaultAdlibVolume
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	lib := &Library{sampleRate: opts.SampleRate}
	for i := range lib.buffers {
		id := ID(i)
		key := CacheKey{
			ID:         id,
			SampleRate: opts.SampleRate,
			Style:      opts.Style,
			Emulator:   opts.Emulator,
			SourceHash: sourceHash(opts.Sounds[i], opts.Sampled[id], opts.SynthRate, opts.AdlibVolume),
		}

		if opts.Cache != nil {
			buf, ok, err := opts.Cache.LoadBuffer(key)
			if err != nil {
				logger.Warn("sound cache read failed", "key", key, "error", err)
			} else if ok {
				lib.buffers[i] = buf
				continue
			}
		}

		buf, err := build(id, opts, logger)
		if err != nil {
			return nil, err
		}
		lib.buffers[i] = buf

		if opts.Cache != nil {
			if err := opts.Cache.SaveBuffer(key, buf); err != nil {
				logger.Warn("sound cache write failed", "key", key, "error", err)
			}
		}
	}
	return lib, nil
}

func build(id ID, opts LoadOptions, logger *log.Logger) (Buffer, error) {
	synth := func() Buffer {
		return RenderAdlibSound(opts.Sounds[id], opts.Emulator, opts.SynthRate)
	}

	var buf Buffer
	wavData, haveSample := opts.Sampled[id]
	switch {
	case opts.Style == StyleAdlib || !haveSample:
		buf = synth()
	case opts.Style == StyleSampled:
		sampled, err := DecodeWAVBytes(wavData)
		if err != nil {
			return Buffer{}, fmt.Errorf("sound %d: %w", int(id), err)
		}
		buf = sampled
	default:
		sampled, err := DecodeWAVBytes(wavData)
		if err != nil {
			return Buffer{}, fmt.Errorf("sound %d: %w", int(id), err)
		}
		buf = combine(Resample(sampled, opts.SampleRate), Resample(synth(), opts.SampleRate), opts.AdlibVolume)
	}

	buf = AppendRamp(Resample(buf, opts.SampleRate))
	logger.Debug("sound rendered", "id", int(id), "sampled", haveSample && opts.Style != StyleAdlib,
		"samples", len(buf.Samples))
	return buf, nil
}

// combine mixes a scaled copy of overlay over base. The result is as long
// as the longer of the two.
func combine(base, overlay Buffer, volume float32) Buffer {
	n := max(len(base.Samples), len(overlay.Samples))
	out := make([]int16, n)
	copy(out, base.Samples)
	scaled := append([]int16(nil), overlay.Samples...)
	Scale(scaled, volume)
	MixSaturating(out, scaled)
	return Buffer{SampleRate: base.SampleRate, Samples: out}
}

func sourceHash(s AdlibSound, wavData []byte, synthRate int, volume float32) uint64 {
	h := fnv.New64a()
	h.Write(s.Encode())
	h.Write(wavData)
	var tail [8]byte
	binary.LittleEndian.PutUint32(tail[:], uint32(synthRate))
	binary.LittleEndian.PutUint32(tail[4:], uint32(volume*1000))
	h.Write(tail[:])
	return h.Sum64()
}

// NewSilentLibrary returns a library whose sounds are all empty, for
// playing music without a sound bank.
func NewSilentLibrary(sampleRate int) *Library {
	return &Library{sampleRate: sampleRate}
}

// SampleRate returns the rate of every buffer in the library.
func (l *Library) SampleRate() int {
	return l.sampleRate
}

// Buffer returns the buffer for id.
func (l *Library) Buffer(id ID) (Buffer, error) {
	if err := checkID(id); err != nil {
		return Buffer{}, err
	}
	return l.buffers[id], nil
}

// ReadSampleDir collects sampled replacements named "<id>.wav" from dir.
// Missing files are skipped.
func ReadSampleDir(dir string) (map[ID][]byte, error) {
	out := make(map[ID][]byte)
	for i := 0; i < NumSounds; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.wav", i))
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sound: read sample %s: %w", path, err)
		}
		out[ID(i)] = data
	}
	return out, nil
}
