package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brandsignal/foresight/app"
	"github.com/brandsignal/foresight/config"
	"github.com/brandsignal/foresight/core/model"
	"github.com/brandsignal/foresight/infra/logger"
)

var (
	dashTimeframe  string
	dashCategories []string
	dashComponents []string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <domain>",
	Short: "Generate the prediction dashboard for one domain",
	Args:  cobra.ExactArgs(1),
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashTimeframe, "timeframe", "", "historical window (24h, 7d, 30d, 90d, 180d, 1y)")
	dashboardCmd.Flags().StringSliceVar(&dashCategories, "categories", nil, "disruption categories to scope")
	dashboardCmd.Flags().StringSliceVar(&dashComponents, "components", nil, "components to enable (default all)")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
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
			logger.New("dashboard-command").Errorf("service close: %v", err)
		}
	}()

	acfg := model.AnalysisConfig{
		Timeframe:  dashTimeframe,
		Categories: dashCategories,
	}
	if err := applyComponentFlags(&acfg, dashComponents); err != nil {
		return err
	}

	dash, err := svc.Engine().GeneratePredictionDashboard(ctx, args[0], acfg)
	if err != nil {
		return err
	}
	return printJSON(dash)
}

func applyComponentFlags(cfg *model.AnalysisConfig, names []string) error {
	for _, name := range names {
		switch name {
		case model.ComponentMarketPosition:
			cfg.IncludeMarketPosition = true
		case model.ComponentThreatWarnings:
			cfg.IncludeThreatWarnings = true
		case model.ComponentBrandTrajectory:
			cfg.IncludeBrandTrajectory = true
		case model.ComponentDisruptions:
			cfg.IncludeDisruptions = true
		case model.ComponentResourceAllocation:
			cfg.IncludeResourceOptimization = true
		case model.ComponentConfidenceMetrics:
			cfg.IncludeConfidenceMetrics = true
		case model.ComponentTemporalAnalysis:
			cfg.IncludeTemporalAnalysis = true
		default:
			return fmt.Errorf("unknown component %s", name)
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
