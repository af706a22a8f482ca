package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvandam/office-gate/internal/risk"
)

var (
	checkAction string
	checkAttrs  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run a risk classification without creating a request",
	Long: `Check what sensitivity and score an action would receive without writing
anything to the store. Useful for tuning weights and thresholds.`,
	Example: `  officegate check --action send_email --attrs '{"external_recipient":true,"reversible":false}'
  officegate check -c settings.yaml --action summarize_document`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkAction, "action", "", "action type to classify")
	checkCmd.Flags().StringVar(&checkAttrs, "attrs", "", "JSON risk attributes")
	_ = checkCmd.MarkFlagRequired("action")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var attrs map[string]any
	if checkAttrs != "" {
		if err := json.Unmarshal([]byte(checkAttrs), &attrs); err != nil {
			return fmt.Errorf("parsing --attrs: %w", err)
		}
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	assessment, err := engine.Classify(cmd.Context(), &risk.Input{
		ActionType: checkAction,
		Attributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("classification error: %w", err)
	}

	output := struct {
		Sensitivity string  `json:"sensitivity"`
		Score       float64 `json:"score"`
		Rationale   string  `json:"rationale,omitempty"`
		Gate        bool    `json:"gate"`
	}{
		Sensitivity: string(assessment.Sensitivity),
		Score:       assessment.Score,
		Rationale:   assessment.Rationale,
		Gate:        cfg.Risk.IsSensitiveAction(checkAction) || assessment.Score > 0,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
