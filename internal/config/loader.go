package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
	"github.com/vovakirdan/rigel/internal/audio/sound"
)

// Load loads the configuration. Values missing from a file keep their
// defaults.
// Search order: customPath -> ~/.rigel/config.yaml -> ./configs/rigel.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if path := userConfigPath("config.yaml"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "rigel.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to a file in the user config directory,
// or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rigel", filename)
}

// DefaultDBPath returns the default render cache location.
func DefaultDBPath() string {
	if path := userConfigPath("cache.db"); path != "" {
		return path
	}
	return "rigel-cache.db"
}

// Validate reports every invalid value in cfg.
func (c Config) Validate() error {
	var errs []error
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d out of range [8000, 192000]", c.Audio.SampleRate))
	}
	if c.Audio.BufferMs < 0 {
		errs = append(errs, fmt.Errorf("audio.buffer_ms %d is negative", c.Audio.BufferMs))
	}
	if _, err := adlib.ParseType(c.Audio.Emulator); err != nil {
		errs = append(errs, fmt.Errorf("audio.emulator: %w", err))
	}
	if _, err := sound.ParseStyle(c.Audio.SoundStyle); err != nil {
		errs = append(errs, fmt.Errorf("audio.sound_style: %w", err))
	}
	for name, v := range map[string]float32{
		"audio.music_volume": c.Audio.MusicVolume,
		"audio.sound_volume": c.Audio.SoundVolume,
		"audio.adlib_volume": c.Audio.AdlibVolume,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s %.2f out of range [0, 1]", name, v))
		}
	}
	if c.Audio.SynthRate < 0 {
		errs = append(errs, fmt.Errorf("audio.synth_rate %d is negative", c.Audio.SynthRate))
	}
	if c.Game.LogicRate <= 0 {
		errs = append(errs, fmt.Errorf("game.logic_rate %d must be positive", c.Game.LogicRate))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EmulatorType returns the parsed audio.emulator value.
func (c AudioConfig) EmulatorType() adlib.Type {
	t, err := adlib.ParseType(c.Emulator)
	if err != nil {
		return adlib.Block
	}
	return t
}

// Style returns the parsed audio.sound_style value.
func (c AudioConfig) Style() sound.Style {
	s, err := sound.ParseStyle(c.SoundStyle)
	if err != nil {
		return sound.StyleAdlib
	}
	return s
}

// BufferSize returns the device buffer length.
func (c AudioConfig) BufferSize() time.Duration {
	return time.Duration(c.BufferMs) * time.Millisecond
}
