// Package config provides YAML-based configuration loading for the engine
// and its command line tools.
package config

// Config is the complete engine configuration.
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// AudioConfig defines the output device and mixing parameters.
type AudioConfig struct {
	SampleRate  int     `yaml:"sample_rate"`
	BufferMs    int     `yaml:"buffer_ms"`
	Emulator    string  `yaml:"emulator"`     // "dbopl" or "nuked"
	MusicVolume float32 `yaml:"music_volume"` // 0.0 - 1.0
	SoundVolume float32 `yaml:"sound_volume"` // 0.0 - 1.0
	SoundStyle  string  `yaml:"sound_style"`  // "adlib", "sampled" or "combined"
	AdlibVolume float32 `yaml:"adlib_volume"` // overlay level for "combined"
	SynthRate   int     `yaml:"synth_rate"`   // 0 = sample_rate
}

// GameConfig defines the simulation parameters.
type GameConfig struct {
	LogicRate int `yaml:"logic_rate"` // game frames per second
}

// StorageConfig defines the render cache location.
type StorageConfig struct {
	DBPath       string `yaml:"db_path"` // empty = ~/.rigel/cache.db
	CacheEnabled bool   `yaml:"cache_enabled"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
