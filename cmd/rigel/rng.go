package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rigel/internal/engine/rng"
)

var flagRNGCount int

var rngCmd = &cobra.Command{
	Use:   "rng",
	Short: "Print the engine random sequence",
	Long: `Print the first values of the engine's fixed random sequence. Every run
prints the same values.

Examples:
  rigel rng
  rigel rng --count 256`,
	Args: cobra.NoArgs,
	RunE: runRNG,
}

func init() {
	rngCmd.Flags().IntVar(&flagRNGCount, "count", 16, "Number of values to print")
}

func runRNG(cmd *cobra.Command, args []string) error {
	if flagRNGCount < 0 {
		return fmt.Errorf("--count must not be negative, got %d", flagRNGCount)
	}

	gen := rng.New()
	values := make([]string, flagRNGCount)
	for i := range values {
		values[i] = fmt.Sprint(gen.Gen())
	}

	fmt.Printf("Period: %d\n", gen.Period())
	// 16 values per line
	for i := 0; i < len(values); i += 16 {
		fmt.Println(strings.Join(values[i:min(i+16, len(values))], " "))
	}
	return nil
}
