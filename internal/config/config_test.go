package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
	"github.com/vovakirdan/rigel/internal/audio/sound"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "audio:\n  sample_rate: 22050\n  emulator: nuked\n  sound_style: combined\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Audio.SampleRate != 22050 {
		t.Errorf("sample_rate = %d, expected 22050", cfg.Audio.SampleRate)
	}
	if cfg.Audio.EmulatorType() != adlib.Resampled {
		t.Errorf("emulator = %v, expected resampled", cfg.Audio.EmulatorType())
	}
	if cfg.Audio.Style() != sound.StyleCombined {
		t.Errorf("style = %v, expected combined", cfg.Audio.Style())
	}
	// Unset values keep their defaults.
	if cfg.Game.LogicRate != 15 || cfg.Audio.BufferMs != 40 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("audio: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 100 }, "audio.sample_rate"},
		{"emulator", func(c *Config) { c.Audio.Emulator = "mame" }, "audio.emulator"},
		{"style", func(c *Config) { c.Audio.SoundStyle = "speaker" }, "audio.sound_style"},
		{"volume", func(c *Config) { c.Audio.MusicVolume = 1.5 }, "audio.music_volume"},
		{"logic rate", func(c *Config) { c.Game.LogicRate = 0 }, "game.logic_rate"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not name %s", err, tc.field)
			}
		})
	}
}
