// rigel plays the music and sound effects of the platformer engine and
// drives its deterministic simulation from the command line.
//
// Usage:
//
//	rigel play <song.imf>      - Play an IMF song with the live monitor
//	rigel render <song.imf>    - Render an IMF song to a WAV file
//	rigel sounds               - Load a sound bank and export sounds
//	rigel simulate             - Run the physics demo for a number of frames
//	rigel rng                  - Print the engine random sequence
//	rigel cache stats|clear    - Inspect or clear the sound render cache
//
// Global flags:
//
//	--config <path>    - Config file (default: search order, then built-in)
//	--db <path>        - Render cache database (default: ~/.rigel/cache.db)
//	--emulator <name>  - AdLib emulator: dbopl or nuked
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagEmulator string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rigel",
	Short: "Rigel - platformer engine core and AdLib audio player",
	Long: `Rigel drives the platformer engine core from the terminal: it plays
IMF music through an emulated AdLib, renders the sound effect bank and runs
the fixed-tick physics simulation.

Examples:
  rigel play music/theme.imf
  rigel play music/theme.imf --header AUDIOHED.MNI --data AUDIOT.MNI
  rigel render music/theme.imf --out theme.wav --seconds 30
  rigel sounds --header AUDIOHED.MNI --data AUDIOT.MNI --id 3 --out laser.wav
  rigel cache stats`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to render cache database")
	rootCmd.PersistentFlags().StringVar(&flagEmulator, "emulator", "", "AdLib emulator (dbopl, nuked)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(soundsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(rngCmd)
	rootCmd.AddCommand(cacheCmd)
}
