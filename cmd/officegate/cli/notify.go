package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send a test desktop notification",
	Long: `Verify the notification side channel works on this machine. Exits
non-zero when delivery fails; the approval workflow itself never depends
on notifications arriving.`,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	notifier := buildNotifier(cfg)
	if !notifier.Test() {
		return fmt.Errorf("test notification was not delivered")
	}
	fmt.Println("test notification sent")
	return nil
}
