package main

import (
	"errors"
	"fmt"
	"os"

	"deckgen/internal/config"
	"deckgen/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	jsonOutput bool

	cfg    *config.Config
	logs   *logging.Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "deckgen - lecture deck analysis and validation",
	Long: `deckgen turns structured educational source material into the inputs a
slide generator needs, and checks generated decks against their constraints.

Source analysis:
  anchors, rank, deps, clusters, outline

Deck checks:
  pace, check-notes, distribute, verify`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		cfg = loaded

		logs, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logs.Root()
		logs.For(logging.CategoryBoot).Debug("config loaded",
			zap.String("path", configPath),
			zap.Int("workers", cfg.Verify.Workers),
			zap.Int("wpm", cfg.Pacing.WordsPerMinute))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logs != nil {
			logs.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file (missing file uses defaults)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(anchorsCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(paceCmd)
	rootCmd.AddCommand(checkNotesCmd)
	rootCmd.AddCommand(distributeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
