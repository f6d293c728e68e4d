package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rigel/internal/audio/imf"
	"github.com/vovakirdan/rigel/internal/audio/sound"
)

var (
	flagRenderOut     string
	flagRenderSeconds float64
)

var renderCmd = &cobra.Command{
	Use:   "render <song.imf>",
	Short: "Render an IMF song to a WAV file",
	Long: `Render an IMF song offline through the configured emulator and write
it as a mono 16-bit WAV file. Without --seconds one full pass of the song is
rendered.

Examples:
  rigel render theme.imf
  rigel render theme.imf --out theme.wav --seconds 60 --emulator nuked`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&flagRenderOut, "out", "", "Output WAV path (default: <song>.wav)")
	renderCmd.Flags().Float64Var(&flagRenderSeconds, "seconds", 0, "Length to render (0 = one pass of the song)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	song, err := readSong(args[0])
	if err != nil {
		return err
	}

	rate := cfg.Audio.SampleRate
	length := int(flagRenderSeconds * float64(rate))
	if flagRenderSeconds <= 0 {
		length = int(song.Duration().Seconds() * float64(rate))
	}
	if length <= 0 {
		return fmt.Errorf("nothing to render: song %s has no delays", args[0])
	}

	player := imf.NewPlayer(rate, cfg.Audio.EmulatorType(), imf.WithVolume(cfg.Audio.MusicVolume))
	player.PlaySong(song)
	buf := sound.Buffer{SampleRate: rate, Samples: make([]int16, length)}
	player.Render(buf.Samples)

	out := flagRenderOut
	if out == "" {
		out = strings.TrimSuffix(args[0], ".imf") + ".wav"
	}
	f, err := os.Create(out)
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

	logger.Info("rendered", "out", out, "samples", length, "duration", buf.Duration(), "emulator", player.Type())
	return nil
}
