package config

import (
	_ "embed"
)

//go:embed defaults/rigel.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate:  44100,
			BufferMs:    40,
			Emulator:    "dbopl",
			MusicVolume: 1.0,
			SoundVolume: 1.0,
			SoundStyle:  "adlib",
			AdlibVolume: 0.3,
			SynthRate:   0,
		},
		Game: GameConfig{
			LogicRate: 15,
		},
		Storage: StorageConfig{
			DBPath:       "",
			CacheEnabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
