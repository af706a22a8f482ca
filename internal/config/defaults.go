package config

import "time"

const (
	DefaultPollInterval    = 5 * time.Second
	DefaultNotifyPerMinute = 6
)

// DefaultStoreDir returns the default approval store root.
func DefaultStoreDir() string {
	return "~/.officegate/approvals"
}

// DefaultLogDir returns the default audit log directory path.
func DefaultLogDir() string {
	return "~/.officegate/logs"
}
