package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	redisad "staybook/internal/adapters/redis"
	"staybook/internal/adapters/upstream"
	"staybook/internal/app"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

// importCommand copies hotels and their bookings from the upstream Catalog
// Service into MySQL.
func importCommand(cfg shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Imports the upstream hotel catalog and bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			workers, _ := cmd.Flags().GetInt("workers")
			base, _ := cmd.Flags().GetString("base-url")

			log.Info().
				Str("base", base).
				Int("workers", workers).
				Int("rps", cfg.UpstreamRPS).
				Msg("import starting")

			db, closeDB, err := openDB(ctx, cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer closeDB()

			client, err := upstream.New(base, upstream.Options{
				APIKey:        cfg.UpstreamKey,
				SessionCookie: cfg.UpstreamCookie,
				RPS:           cfg.UpstreamRPS,
				Timeout:       cfg.UpstreamTimeout,
			})
			if err != nil {
				return err
			}
			cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisPrefix)
			defer cache.Close()

			start := time.Now()
			rep, err := app.NewImportService(client, mysqlrepo.New(db), cache, workers).Import(ctx)
			if err != nil {
				return err
			}
			log.Info().
				Int("fetched", rep.Fetched).
				Int("imported", rep.Imported).
				Int("failed", rep.Failed).
				Int("bookings", rep.Bookings).
				Dur("took", time.Since(start)).
				Msg("import completed")
			return nil
		},
	}

	cmd.Flags().Int("workers", cfg.ImportWorkers, "Concurrent hotel imports")
	cmd.Flags().String("base-url", cfg.UpstreamBase, "Upstream Catalog Service base URL")

	return cmd
}
