package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/botanica-backend/internal/data/db"
	"github.com/yungbote/botanica-backend/internal/data/store/dbstore"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

var timeNow = time.Now

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the catalog and reference fixtures into the database",
	Long: `Migrate the schema, then insert the fixture catalog, community projects,
learning modules, badges, journey stages, global plants and the demo user.
Rows that already exist are left untouched.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func openMigrated(cmd *cobra.Command) (*db.Service, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	svc, err := db.Open(log, db.Options{
		Driver:   cfg.Postgres.Driver,
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Name:     cfg.Postgres.Name,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(svc.DB().WithContext(cmd.Context())); err != nil {
		_ = svc.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("Schema migrated", "driver", svc.Driver())
	return svc, log, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	svc, log, err := openMigrated(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()
	return svc.Close()
}

func runSeed(cmd *cobra.Command, args []string) error {
	svc, log, err := openMigrated(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer svc.Close()

	fx, err := seed.Load(timeNow().UTC())
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	return dbstore.New(svc.DB(), log).Seed(cmd.Context(), fx)
}
