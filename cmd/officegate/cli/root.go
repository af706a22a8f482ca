package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvandam/office-gate/internal/config"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "officegate",
	Short: "office-gate — human approval gate for office automations",
	Long: `office-gate decouples "an automation decided to act" from "the action
actually happened". Sensitive actions (sending email, posting to social
media, messaging contacts) become pending request files a human resolves
with any text editor; a polling checker relocates resolved requests and
hands each one to the executor exactly once.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "settings file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if path := os.Getenv("OFFICEGATE_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.DefaultConfig(), nil
}
