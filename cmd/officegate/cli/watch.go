package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvandam/office-gate/internal/approval"
	"github.com/rvandam/office-gate/internal/audit"
	"github.com/rvandam/office-gate/internal/store"
)

var watchOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the waiting area and report resolved requests",
	Long: `Run the checker loop: every poll interval, scan the waiting area for
requests a human has approved or rejected, relocate them to the resolved
area and print one JSON line per resolution to stdout. The executor
consumes those lines; each resolution is printed exactly once.`,
	Example: `  officegate watch -c settings.yaml
  officegate watch --once`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "run a single poll and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := store.New(cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("opening request store: %w", err)
	}
	auditStore, err := audit.NewJSONLStore(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("creating audit store: %w", err)
	}
	defer auditStore.Close()

	checker := approval.NewChecker(st, auditStore, logger)
	enc := json.NewEncoder(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	poll := func() error {
		resolutions, err := checker.Poll(ctx)
		for _, res := range resolutions {
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("writing resolution: %w", err)
			}
		}
		return err
	}

	if watchOnce {
		return poll()
	}

	logger.Info("watching for approvals",
		slog.String("store", cfg.StoreDir),
		slog.Duration("interval", cfg.PollInterval),
	)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := poll(); err != nil {
			if ctx.Err() != nil {
				logger.Info("shutting down")
				return nil
			}
			logger.Error("poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
		}
	}
}
