package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvandam/office-gate/internal/audit"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate counts from the approval audit log",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	auditStore, err := audit.NewJSONLStore(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("opening audit store: %w", err)
	}
	defer auditStore.Close()

	if err := auditStore.Replay(); err != nil {
		return fmt.Errorf("reading audit history: %w", err)
	}

	stats, err := auditStore.Stats(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
