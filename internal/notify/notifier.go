package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"
	"golang.org/x/time/rate"
)

// Notifier is the best-effort side channel telling a human that a pending
// request exists. Correctness of the approval workflow never depends on a
// notification arriving, so implementations must not let any failure
// escape their boundary.
type Notifier interface {
	// Notify alerts the human about a new pending request. Fire and
	// forget: transport failures reduce to logged warnings.
	Notify(requestID, actionType string, details map[string]any)

	// Test sends a probe notification and reports whether it was delivered.
	Test() bool
}

// Desktop sends notifications through the local desktop notification
// mechanism, throttled so a burst of producers cannot flood the screen.
type Desktop struct {
	limiter *rate.Limiter
	logger  *slog.Logger

	// send is swappable in tests
	send func(title, message string) error
}

// NewDesktop creates a desktop notifier limited to perMinute notifications.
func NewDesktop(appName string, perMinute int, logger *slog.Logger) *Desktop {
	if perMinute <= 0 {
		perMinute = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	beeep.AppName = appName
	return &Desktop{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		logger:  logger,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (d *Desktop) Notify(requestID, actionType string, details map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("notification transport panicked", "request_id", requestID, "panic", r)
		}
	}()

	if !d.limiter.Allow() {
		d.logger.Debug("notification suppressed by rate limit", "request_id", requestID)
		return
	}

	title := fmt.Sprintf("Approval needed: %s", actionType)
	body := fmt.Sprintf("Request %s is waiting for review.", requestID)
	if recipient, ok := details["recipient"].(string); ok && recipient != "" {
		body = fmt.Sprintf("Request %s (to %s) is waiting for review.", requestID, recipient)
	}

	if err := d.send(title, body); err != nil {
		d.logger.Warn("notification failed", "request_id", requestID, "error", err)
	}
}

func (d *Desktop) Test() bool {
	defer func() { recover() }()
	if err := d.send("office-gate", "Test notification: the approval notifier is working."); err != nil {
		d.logger.Warn("test notification failed", "error", err)
		return false
	}
	return true
}

// Noop is used when notifications are disabled in the settings.
type Noop struct{}

func (Noop) Notify(string, string, map[string]any) {}
func (Noop) Test() bool                            { return false }
