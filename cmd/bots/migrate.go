package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/config"
	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Create or update the users and transactions tables of the configured
database. serve runs the same migrations on startup.`,
		RunE: runMigrate,
	}
}

func runMigrate(_ *cobra.Command, _ []string) error {
	conf, err := config.New(cfgFile)
	if err != nil {
		return errors.Wrap(err, "init config")
	}

	driver := conf.Storage().Driver()
	if driver == storage.DriverMemory {
		logger.Info("memory storage has no migrations")
		return nil
	}

	logger.Info("Migrate - start", zap.String("driver", driver))
	if err = storage.RunMigrations(driver, conf.Storage().DSN()); err != nil {
		return err
	}
	logger.Info("Migrate - end")
	return nil
}
