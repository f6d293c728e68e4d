package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rigel/internal/audio/imf"
	"github.com/vovakirdan/rigel/internal/audio/sound"
	"github.com/vovakirdan/rigel/internal/config"
	"github.com/vovakirdan/rigel/internal/storage"
)

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagEmulator != "" {
		cfg.Audio.Emulator = flagEmulator
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger creates the stderr logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rigel",
		Level:           level,
	})
}

// openCache opens the render cache, or returns nil when caching is off.
func openCache(cfg config.Config) (*storage.Store, error) {
	if !cfg.Storage.CacheEnabled {
		return nil, nil
	}
	path := cfg.Storage.DBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	return storage.Open(path)
}

// readSong loads an IMF file.
func readSong(path string) (imf.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	song, err := imf.LoadSong(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return song, nil
}

// bankPaths locates a sound bank on disk.
type bankPaths struct {
	header string
	data   string
	wavDir string
}

// loadBank reads the AdLib sound bank and any sampled replacements and
// renders them into a library at the configured output rate.
func loadBank(cfg config.Config, paths bankPaths, cache *storage.Store, logger *log.Logger) (*sound.Library, error) {
	header, err := os.ReadFile(paths.header)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(paths.data)
	if err != nil {
		return nil, err
	}
	bank, err := sound.ParseDictionary(header, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.data, err)
	}

	opts := sound.LoadOptions{
		Sounds:      bank,
		SampleRate:  cfg.Audio.SampleRate,
		Style:       cfg.Audio.Style(),
		Emulator:    cfg.Audio.EmulatorType(),
		SynthRate:   cfg.Audio.SynthRate,
		AdlibVolume: cfg.Audio.AdlibVolume,
		Logger:      logger,
	}
	if cache != nil {
		opts.Cache = cache
	}
	if paths.wavDir != "" {
		if opts.Sampled, err = sound.ReadSampleDir(paths.wavDir); err != nil {
			return nil, err
		}
		logger.Info("sampled sounds found", "dir", paths.wavDir, "count", len(opts.Sampled))
	}

	return sound.Load(opts)
}
