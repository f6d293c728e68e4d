package sound

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
)

func testBank() []AdlibSound {
	bank := make([]AdlibSound, NumSounds)
	for i := range bank {
		bank[i] = AdlibSound{
			Octave:     byte(2 + i%4),
			Instrument: testInstrument,
			Data:       []byte{byte(0x60 + i), byte(0x70 + i), byte(0x80 + i), 0x90},
		}
	}
	return bank
}

func TestLoadSynthesizedBank(t *testing.T) {
	lib, err := Load(LoadOptions{
		Sounds:     testBank(),
		SampleRate: 22050,
		SynthRate:  44100,
		Style:      StyleAdlib,
		Emulator:   adlib.Resampled,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	buf, err := lib.Buffer(5)
	if err != nil {
		t.Fatalf("Buffer(5): %v", err)
	}
	if len(buf.Samples) == 0 {
		t.Fatal("sound 5 is empty")
	}
	if buf.Samples[len(buf.Samples)-1] != 0 {
		t.Errorf("sound 5 ends on %d, expected 0", buf.Samples[len(buf.Samples)-1])
	}
	if buf.SampleRate != 22050 || lib.SampleRate() != 22050 {
		t.Errorf("sample rate = %d, expected 22050", buf.SampleRate)
	}
	// Four ticks synthesized at 44100 and halved.
	if shortest := 4 * (44100 / TapeRate) / 2; len(buf.Samples) < shortest {
		t.Errorf("got %d samples, expected at least %d", len(buf.Samples), shortest)
	}
}

func TestLibraryRejectsInvalidInput(t *testing.T) {
	if _, err := Load(LoadOptions{Sounds: testBank()[:33], SampleRate: 44100}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short bank: error = %v", err)
	}
	if _, err := Load(LoadOptions{Sounds: testBank()}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero rate: error = %v", err)
	}

	lib, err := Load(LoadOptions{Sounds: testBank(), SampleRate: 11025})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, id := range []ID{-1, NumSounds} {
		if _, err := lib.Buffer(id); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Buffer(%d): error = %v", id, err)
		}
	}
}

type memoryCache struct {
	entries     map[string]Buffer
	loads, hits int
	saves       int
}

func (c *memoryCache) LoadBuffer(key CacheKey) (Buffer, bool, error) {
	c.loads++
	buf, ok := c.entries[key.String()]
	if ok {
		c.hits++
	}
	return buf, ok, nil
}

func (c *memoryCache) SaveBuffer(key CacheKey, buf Buffer) error {
	c.saves++
	c.entries[key.String()] = buf
	return nil
}

func TestLoadUsesCache(t *testing.T) {
	cache := &memoryCache{entries: make(map[string]Buffer)}
	opts := LoadOptions{Sounds: testBank(), SampleRate: 11025, Cache: cache}

	first, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cache.saves != NumSounds || cache.hits != 0 {
		t.Fatalf("first load: %d saves, %d hits", cache.saves, cache.hits)
	}

	second, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cache.hits != NumSounds || cache.saves != NumSounds {
		t.Errorf("second load: %d hits, %d saves", cache.hits, cache.saves)
	}
	a, _ := first.Buffer(3)
	b, _ := second.Buffer(3)
	if len(a.Samples) != len(b.Samples) {
		t.Error("cached buffer differs from the rendered one")
	}

	// A different emulator misses.
	opts.Emulator = adlib.Resampled
	if _, err := Load(opts); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cache.saves != 2*NumSounds {
		t.Errorf("emulator change should miss the cache, got %d saves", cache.saves)
	}
}

func writeTestWAV(t *testing.T, buf Buffer) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteWAV(f, buf); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestSampledStyles(t *testing.T) {
	sample := Buffer{SampleRate: 11025, Samples: make([]int16, 2000)}
	for i := range sample.Samples {
		sample.Samples[i] = 1000
	}
	sample.Samples[len(sample.Samples)-1] = 0
	wavData := writeTestWAV(t, sample)

	base := LoadOptions{
		Sounds:     testBank(),
		Sampled:    map[ID][]byte{7: wavData},
		SampleRate: 11025,
	}

	base.Style = StyleSampled
	lib, err := Load(base)
	if err != nil {
		t.Fatalf("Load sampled: %v", err)
	}
	buf, _ := lib.Buffer(7)
	if len(buf.Samples) != 2000 || buf.Samples[10] != 1000 {
		t.Errorf("sampled sound 7 = %d samples, first %v", len(buf.Samples), buf.Samples[:4])
	}
	synth, _ := lib.Buffer(8)
	if len(synth.Samples) == 0 {
		t.Error("sounds without a sample should fall back to AdLib")
	}

	base.Style = StyleCombined
	lib, err = Load(base)
	if err != nil {
		t.Fatalf("Load combined: %v", err)
	}
	combined, _ := lib.Buffer(7)
	if len(combined.Samples) < 2000 {
		t.Fatalf("combined sound has %d samples", len(combined.Samples))
	}
	differs := false
	for i := 0; i < 300; i++ {
		if combined.Samples[i] != 1000 {
			differs = true
		}
	}
	if !differs {
		t.Error("combined style should overlay the AdLib sound")
	}
}

func TestDecodeWAV(t *testing.T) {
	in := Buffer{SampleRate: 8000, Samples: []int16{0, 1200, -1200, 32767, -32768}}
	out, err := DecodeWAVBytes(writeTestWAV(t, in))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if out.SampleRate != 8000 || len(out.Samples) != len(in.Samples) {
		t.Fatalf("DecodeWAV = %+v", out)
	}
	for i := range in.Samples {
		if out.Samples[i] != in.Samples[i] {
			t.Errorf("sample %d = %d, expected %d", i, out.Samples[i], in.Samples[i])
		}
	}

	if _, err := DecodeWAVBytes([]byte("not a wav file at all")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("garbage: error = %v", err)
	}
}

func TestReadSampleDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "3.wav"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSampleDir(dir)
	if err != nil {
		t.Fatalf("ReadSampleDir: %v", err)
	}
	if len(got) != 1 || string(got[3]) != "x" {
		t.Errorf("ReadSampleDir = %v", got)
	}
}
