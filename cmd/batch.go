package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brandsignal/foresight/app"
	"github.com/brandsignal/foresight/config"
	"github.com/brandsignal/foresight/core/model"
	"github.com/brandsignal/foresight/infra/logger"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchTimeframe   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <domain>...",
	Short: "Generate dashboards for many domains in bounded waves",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "max-concurrency", 0, "wave size (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "per-domain budget (default from config)")
	batchCmd.Flags().StringVar(&batchTimeframe, "timeframe", "", "historical window (24h, 7d, 30d, 90d, 180d, 1y)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("batch-command").Errorf("service close: %v", err)
		}
	}()

	// Keeps the metrics endpoint up for the duration of the batch.
	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.New("batch-command").Errorf("service run: %v", err)
		}
	}()

	acfg := model.AnalysisConfig{
		Timeframe:        batchTimeframe,
		MaxConcurrency:   cfg.Batch.MaxConcurrency,
		TimeoutPerDomain: time.Duration(cfg.Batch.TimeoutSeconds) * time.Second,
	}
	if batchConcurrency > 0 {
		acfg.MaxConcurrency = batchConcurrency
	}
	if batchTimeout > 0 {
		acfg.TimeoutPerDomain = batchTimeout
	}

	outcomes := svc.Batch().Run(ctx, args, acfg)
	return printJSON(outcomes)
}
