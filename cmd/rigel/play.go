package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rigel/internal/audio/device"
	"github.com/vovakirdan/rigel/internal/audio/imf"
	"github.com/vovakirdan/rigel/internal/audio/sound"
	"github.com/vovakirdan/rigel/internal/platform/tui"
)

var (
	flagPlayHeader  string
	flagPlayData    string
	flagPlayWavDir  string
	flagPlaySeconds int
)

var playCmd = &cobra.Command{
	Use:   "play <song.imf>",
	Short: "Play an IMF song",
	Long: `Play an IMF song on the audio device. On a terminal a monitor shows
the playback position and lets you change the volume, switch the emulator and
trigger sound effects. Otherwise the song plays until interrupted.

Examples:
  rigel play theme.imf
  rigel play theme.imf --emulator nuked
  rigel play theme.imf --header AUDIOHED.MNI --data AUDIOT.MNI
  rigel play theme.imf --seconds 10 > /dev/null`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayHeader, "header", "", "Sound bank offset table")
	playCmd.Flags().StringVar(&flagPlayData, "data", "", "Sound bank data")
	playCmd.Flags().StringVar(&flagPlayWavDir, "wav-dir", "", "Directory of <id>.wav sampled sounds")
	playCmd.Flags().IntVar(&flagPlaySeconds, "seconds", 0, "Stop after this many seconds (0 = until interrupted)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	song, err := readSong(args[0])
	if err != nil {
		return err
	}

	player := imf.NewPlayer(cfg.Audio.SampleRate, cfg.Audio.EmulatorType(),
		imf.WithVolume(cfg.Audio.MusicVolume))
	player.PlaySong(song)

	// Without a bank the mixer only carries the music.
	lib := sound.NewSilentLibrary(cfg.Audio.SampleRate)
	var sounds tui.Sounds
	if flagPlayHeader != "" || flagPlayData != "" {
		store, err := openCache(cfg)
		if err != nil {
			logger.Warn("render cache unavailable", "error", err)
			store = nil
		}
		if store != nil {
			defer store.Close()
		}
		bank := bankPaths{header: flagPlayHeader, data: flagPlayData, wavDir: flagPlayWavDir}
		if lib, err = loadBank(cfg, bank, store, logger); err != nil {
			return fmt.Errorf("load sound bank: %w", err)
		}
	}
	mixer := sound.NewMixer(lib, player)
	mixer.SetVolume(cfg.Audio.SoundVolume)
	if flagPlayHeader != "" || flagPlayData != "" {
		sounds = mixer
	}

	dev, err := device.Open(device.Options{
		SampleRate: cfg.Audio.SampleRate,
		BufferSize: cfg.Audio.BufferSize(),
		Logger:     logger,
	}, mixer)
	if err != nil {
		return err
	}
	defer dev.Close()
	dev.Start()

	logger.Info("playing", "song", args[0], "commands", len(song),
		"duration", song.Duration(), "emulator", player.Type())

	if flagPlaySeconds == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		return tui.Run(filepath.Base(args[0]), player, sounds)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if flagPlaySeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(flagPlaySeconds)*time.Second)
		defer cancel()
	}
	<-ctx.Done()
	dev.Stop()
	return nil
}
