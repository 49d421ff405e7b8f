package main

import (
	"context"
	"fmt"

	"todoSummary/internal/app"
	"todoSummary/internal/config"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize pending todos once and post the result to Slack",
	Args:  cobra.NoArgs,
	RunE:  runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a := app.New(cfg)
	defer a.Close(ctx)
	if err := a.Init(ctx); err != nil {
		return fmt.Errorf("starting app: %w", err)
	}

	result, err := a.Summaries().Summarize(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Summary of %d pending todos sent to Slack:\n\n%s\n", result.PendingCount, result.Summary)
	return nil
}
