package main

import (
	"fmt"

	"todoSummary/internal/config"
	"todoSummary/internal/logger"
	"todoSummary/internal/repository/todo/postgres"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the PostgreSQL schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL, err := migrationTarget()
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(databaseURL); err != nil {
				return err
			}
			fmt.Println("Migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration (drops the todos table)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL, err := migrationTarget()
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(databaseURL); err != nil {
				return err
			}
			fmt.Println("Migrations rolled back")
			return nil
		},
	})

	return cmd
}

func migrationTarget() (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	if cfg.Repository.Type != config.RepositoryPostgres {
		return "", fmt.Errorf("migrations only apply to the postgres repository, configured: %s", cfg.Repository.Type)
	}
	if err := logger.Init(cfg.Logging.Development, cfg.Logging.Level); err != nil {
		return "", fmt.Errorf("initializing logger: %w", err)
	}
	return cfg.Database.URL, nil
}
