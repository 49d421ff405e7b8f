package main

import (
	"context"
	"fmt"
	"os"

	"todoSummary/internal/app"
	"todoSummary/internal/config"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API and, when summary.interval is set, the scheduled summary worker.

Examples:
  todo-summary serve
  todo-summary serve --port 8080
  REPOSITORY_TYPE=sqlite todo-summary serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port, overrides server.port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}

	ctx := context.Background()
	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		a.Close(ctx)
		return fmt.Errorf("starting app: %w", err)
	}

	if exitCode := a.Run(ctx); exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}
