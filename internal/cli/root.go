package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eterea/eterea/internal/config"
	"github.com/eterea/eterea/internal/logger"
	"github.com/eterea/eterea/internal/store/sqlite"
)

var rootCmd = &cobra.Command{
	Use:          "eterea",
	Short:        "Eterea — local-first personal bookmark manager",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Eterea stores your saved posts in a single SQLite file with full-text
search, imports Dewey and Twitter/X exports, and serves a localhost API
for the desktop UI.`,
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore loads the config and opens the shared database for the
// one-shot commands (import, search, stats).
func openStore() (*sqlite.Store, *config.Config, logger.Logger, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	store, err := sqlite.Open(cfg.DatabasePath, log.Named("store"), sqlite.Options{
		BusyTimeout:  cfg.BusyTimeout,
		WriteRetries: cfg.WriteRetries,
		RetryBackoff: cfg.RetryBackoff,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database at %s: %w", cfg.DatabasePath, err)
	}
	return store, cfg, log, nil
}
