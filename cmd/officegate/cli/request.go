package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvandam/office-gate/internal/approval"
	"github.com/rvandam/office-gate/internal/audit"
	"github.com/rvandam/office-gate/internal/store"
)

var (
	requestAction  string
	requestDetails string
	requestRisk    string
	requestForce   bool
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Create an approval request for a sensitive action",
	Long: `Gate an action behind human approval: classify its risk, write a pending
request file into the waiting area and notify the reviewer. Prints the new
request id. Actions that do not need a gate are reported and skipped unless
--force is given.`,
	Example: `  officegate request --action send_email --details '{"recipient":"a@b.com","body":"hi","external_recipient":true}'
  officegate request --action archive_file --details '{"path":"inbox/doc.pdf"}' --force`,
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().StringVar(&requestAction, "action", "", "action type to gate")
	requestCmd.Flags().StringVar(&requestDetails, "details", "", "JSON action details (the payload the executor will replay)")
	requestCmd.Flags().StringVar(&requestRisk, "risk", "", "JSON extra risk context merged over the details")
	requestCmd.Flags().BoolVar(&requestForce, "force", false, "create a request even when no gate is required")
	_ = requestCmd.MarkFlagRequired("action")
	_ = requestCmd.MarkFlagRequired("details")
	rootCmd.AddCommand(requestCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var details map[string]any
	if err := json.Unmarshal([]byte(requestDetails), &details); err != nil {
		return fmt.Errorf("parsing --details: %w", err)
	}
	var extra map[string]any
	if requestRisk != "" {
		if err := json.Unmarshal([]byte(requestRisk), &extra); err != nil {
			return fmt.Errorf("parsing --risk: %w", err)
		}
	}

	st, err := store.New(cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("opening request store: %w", err)
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	auditStore, err := audit.NewJSONLStore(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("creating audit store: %w", err)
	}
	defer auditStore.Close()

	mgr := approval.NewManager(st, engine, approval.ManagerOptions{
		Params:   cfg.Risk,
		Schemas:  schemaTable(cfg),
		Notifier: buildNotifier(cfg),
		Audit:    auditStore,
		Logger:   logger,
	})

	ctx := cmd.Context()
	if !requestForce {
		gate, err := mgr.ShouldGate(ctx, requestAction, details)
		if err != nil {
			return err
		}
		if !gate {
			fmt.Printf("no approval required for %s; use --force to gate anyway\n", requestAction)
			return nil
		}
	}

	id, err := mgr.CreateRequest(ctx, requestAction, details, extra)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
