package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rigel/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the sound render cache",
	Long: `The render cache keeps synthesized and resampled sound buffers so that
loading a bank a second time skips the synthesis.

Examples:
  rigel cache stats
  rigel cache clear --db /tmp/cache.db`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show render cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.Store) error {
			stats, err := store.Stats()
			if err != nil {
				return err
			}

			fmt.Println("Render cache")
			fmt.Println()
			fmt.Printf("  Entries:  %d\n", stats.Entries)
			fmt.Printf("  Samples:  %d\n", stats.TotalSamples)
			fmt.Printf("  Size:     %.1f KiB\n", float64(stats.Bytes)/1024)
			if stats.Entries > 0 && !stats.LastWritten.IsZero() {
				fmt.Printf("  Updated:  %s\n", stats.LastWritten.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached buffer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.Store) error {
			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d cached buffers.\n", n)
			return nil
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// withStore opens the configured cache database for fn, even when caching
// is disabled for playback.
func withStore(fn func(*storage.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Storage.CacheEnabled = true

	store, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
