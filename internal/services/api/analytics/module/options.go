package module

import "forumlake/internal/platform/config"

// Options holds configuration settings for the analytics module
type Options struct {
	CostPerTicket   float64
	StaleDays       int
	UnansweredHours int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_ANALYTICS_")
	return Options{
		CostPerTicket:   af.MayFloat64("COST_PER_TICKET", 50),
		StaleDays:       af.MayInt("STALE_DAYS", 7),
		UnansweredHours: af.MayInt("UNANSWERED_HOURS", 24),
	}
}
