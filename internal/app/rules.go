package app

import "time"

// Rules are the tunable constants of the engine
type Rules struct {
	AutoExtendMinutes         int
	DefaultDurationHours      float64
	DefaultCurrency           string
	ScheduleThreshold         time.Duration
	DefaultDealRadiusKm       float64
	AuctionSearchRadiusKm     float64
	DealSearchRadiusKm        float64
	ConflictAttempts          int
	DefaultTransactionsLimit  int
	DefaultNotificationsLimit int
}

// DefaultRules returns the marketplace defaults
func DefaultRules() Rules {
	return Rules{
		AutoExtendMinutes:         5,
		DefaultDurationHours:      24,
		DefaultCurrency:           "COP",
		ScheduleThreshold:         4 * time.Hour,
		DefaultDealRadiusKm:       5,
		AuctionSearchRadiusKm:     10,
		DealSearchRadiusKm:        5,
		ConflictAttempts:          3,
		DefaultTransactionsLimit:  50,
		DefaultNotificationsLimit: 50,
	}
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}
