package configs

import "time"

// Scheduler configures the lifecycle scheduler that ages campaigns through
// warning, expiry and auto-renewal transitions.
type Scheduler struct {
	// Enabled starts the background loop from main. Disable it when the
	// jobs are driven externally (e.g. a cron hitting a one-shot binary).
	Enabled bool `env:"ENABLED" envDefault:"true"`
	// Interval is the loop cadence.
	Interval time.Duration `env:"INTERVAL" envDefault:"1h"`
	// WarningWindow is how far ahead of the end date owners are warned.
	WarningWindow time.Duration `env:"WARNING_WINDOW" envDefault:"168h"`
}
