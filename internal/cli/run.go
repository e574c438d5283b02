// internal/cli/run.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/townhub/communityscraper/internal/fetcher"
	"github.com/townhub/communityscraper/internal/monitoring"
	"github.com/townhub/communityscraper/internal/report"
	"github.com/townhub/communityscraper/internal/runner"
	"github.com/townhub/communityscraper/internal/sources"
	"github.com/townhub/communityscraper/internal/store"
	"github.com/townhub/communityscraper/pkg/types"
)

var runTimeout time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full scrape cycle",
	Long: `Scrapes every configured source, reconciles the results with the
content store and prints a run summary. Exits non-zero when the run
cannot proceed at all; recovered per-item failures are reported but do
not fail the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
		defer cancel()
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := store.NewMongoStore(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("connect storage: %w", err)
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = st.Close(closeCtx)
		}()

		var metrics *monitoring.Metrics
		if cfg.Monitoring.Enabled {
			metrics = monitoring.NewMetrics(nil)
			srv := monitoring.NewServer(cfg.Monitoring, st)
			srv.Start()
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		registry, err := sources.Build(cfg, fetcher.New(cfg.Politeness, cfg.Retry).WithMetrics(metrics))
		if err != nil {
			return err
		}

		result, err := runner.New(cfg, st, registry, metrics).Run(ctx)
		if err != nil {
			return err
		}

		if reportErr := report.NewWriter(cfg.Report).Write(result); reportErr != nil {
			fmt.Fprintf(os.Stderr, "warning: report export failed: %v\n", reportErr)
		}

		printSummary(result)
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "overall run deadline")
}

func printSummary(result *types.RunResult) {
	fmt.Printf("Run finished in %s\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("  total:   %d\n", result.Total)
	fmt.Printf("  new:     %d\n", result.New)
	fmt.Printf("  updated: %d\n", result.Updated)
	fmt.Printf("  deleted: %d\n", result.Deleted)
	if len(result.Errors) > 0 {
		fmt.Printf("  errors:  %d\n", len(result.Errors))
		for _, e := range result.Errors {
			if e.Item != "" {
				fmt.Printf("    [%s] %s: %s\n", e.Source, e.Item, e.Message)
			} else {
				fmt.Printf("    [%s] %s\n", e.Source, e.Message)
			}
		}
	}
}
