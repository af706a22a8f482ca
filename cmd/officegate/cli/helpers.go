package cli

import (
	"fmt"

	"github.com/rvandam/office-gate/internal/config"
	"github.com/rvandam/office-gate/internal/notify"
	"github.com/rvandam/office-gate/internal/risk"
)

// buildEngine selects the risk backend: a Rego policy when one is
// configured, the weight table otherwise.
func buildEngine(cfg *config.Config) (risk.Engine, error) {
	if cfg.OPAPolicy != "" {
		engine, err := risk.NewOPAEngine(cfg.OPAPolicy)
		if err != nil {
			return nil, fmt.Errorf("creating risk policy engine: %w", err)
		}
		return engine, nil
	}
	return risk.NewWeightEngine(cfg.Risk), nil
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	if !cfg.NotifyEnabled {
		return notify.Noop{}
	}
	return notify.NewDesktop("office-gate", cfg.NotifyPerMinute, logger)
}

// schemaTable converts configured action schemas into the manager's
// required-keys table.
func schemaTable(cfg *config.Config) map[string][]string {
	if len(cfg.Actions) == 0 {
		return nil
	}
	schemas := make(map[string][]string, len(cfg.Actions))
	for name, schema := range cfg.Actions {
		schemas[name] = schema.Required
	}
	return schemas
}
