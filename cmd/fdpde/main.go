package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *slog.Logger
)

// main registers the commands and exits 1 when the selected one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "fdpde",
		Short:         "finite-difference solver for 1-D convection-diffusion-reaction problems",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("log level %q: %w", logLevel, err)
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fdpde", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSolveCmd(),
		newListCmd(),
		newShowCmd(),
		newPlotCmd(),
		newBrowseCmd(),
		newExportJSONCmd(),
		newExportCSVCmd(),
		newRenderCmd(),
		newImpvolCmd(),
		newProblemsCmd(),
		newPresetsCmd(),
		newBenchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// parseParams turns "key=value" pairs into a parameter map.
func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("param %q: want key=value", p)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p, err)
		}
		out[k] = f
	}
	return out, nil
}
