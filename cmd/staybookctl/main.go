// Command staybookctl holds the operator tasks that run next to the API:
// importing the catalog from an upstream service and managing login accounts.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"staybook/internal/adapters/observability"
	"staybook/internal/shared"
)

// openDB connects to MySQL and returns a cleanup function closing the pool.
func openDB(ctx context.Context, dsn string) (*sql.DB, func(), error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	return db, func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("could not close database")
		}
	}, nil
}

func main() {
	cfg, warnings := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "staybookctl",
		Short:         "Operator tasks for the staybook backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		importCommand(cfg),
		adduserCommand(cfg),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1) //nolint: gocritic
	}
}
