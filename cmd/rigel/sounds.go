package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rigel/internal/audio/sound"
)

var (
	flagSoundsHeader string
	flagSoundsData   string
	flagSoundsWavDir string
	flagSoundsID     int
	flagSoundsOut    string
	flagSoundsStyle  string
)

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "Load a sound bank and export sounds",
	Long: `Load the sound effect bank, render every sound in the configured style
and list the resulting buffers. With --id and --out one sound is written as
a WAV file. Rendered buffers are kept in the render cache.

Examples:
  rigel sounds --header AUDIOHED.MNI --data AUDIOT.MNI
  rigel sounds --header AUDIOHED.MNI --data AUDIOT.MNI --style combined --wav-dir sfx
  rigel sounds --header AUDIOHED.MNI --data AUDIOT.MNI --id 3 --out laser.wav`,
	RunE: runSounds,
}

func init() {
	soundsCmd.Flags().StringVar(&flagSoundsHeader, "header", "", "Sound bank offset table")
	soundsCmd.Flags().StringVar(&flagSoundsData, "data", "", "Sound bank data")
	soundsCmd.Flags().StringVar(&flagSoundsWavDir, "wav-dir", "", "Directory of <id>.wav sampled sounds")
	soundsCmd.Flags().IntVar(&flagSoundsID, "id", -1, "Sound to export")
	soundsCmd.Flags().StringVar(&flagSoundsOut, "out", "", "Output WAV path for --id")
	soundsCmd.Flags().StringVar(&flagSoundsStyle, "style", "", "Sound style override (adlib, sampled, combined)")
	_ = soundsCmd.MarkFlagRequired("header")
	_ = soundsCmd.MarkFlagRequired("data")
}

func runSounds(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSoundsStyle != "" {
		if _, err := sound.ParseStyle(flagSoundsStyle); err != nil {
			return err
		}
		cfg.Audio.SoundStyle = flagSoundsStyle
	}
	if (flagSoundsID >= 0) != (flagSoundsOut != "") {
		return errors.New("--id and --out must be given together")
	}
	logger := newLogger(cfg)

	store, err := openCache(cfg)
	if err != nil {
		logger.Warn("render cache unavailable", "error", err)
	}
	if store != nil {
		defer store.Close()
	}

	bank := bankPaths{header: flagSoundsHeader, data: flagSoundsData, wavDir: flagSoundsWavDir}
	lib, err := loadBank(cfg, bank, store, logger)
	if err != nil {
		return err
	}

	if flagSoundsID >= 0 {
		buf, err := lib.Buffer(sound.ID(flagSoundsID))
		if err != nil {
			return err
		}
		f, err := os.Create(flagSoundsOut)
		if err != nil {
			return err
		}
		if err := sound.WriteWAV(f, buf); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("sound exported", "id", flagSoundsID, "out", flagSoundsOut, "duration", buf.Duration())
		return nil
	}

	// Print header
	fmt.Printf("Sound bank - %s style, %d Hz\n\n", cfg.Audio.Style(), lib.SampleRate())
	fmt.Printf("  %-4s  %-8s  %s\n", "ID", "Samples", "Duration")
	fmt.Printf("  %-4s  %-8s  %s\n", "--", "-------", "--------")

	for id := sound.ID(0); id < sound.NumSounds; id++ {
		buf, err := lib.Buffer(id)
		if err != nil {
			return err
		}
		fmt.Printf("  %-4d  %-8d  %s\n", int(id), len(buf.Samples), buf.Duration())
	}
	return nil
}
