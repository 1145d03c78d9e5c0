package market

import "time"

// Interval identifies one candle timeframe.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// Intervals lists the supported timeframes in display order.
var Intervals = []Interval{Interval1m, Interval15m, Interval1h, Interval4h, Interval1d}

var intervalDurations = map[Interval]time.Duration{
	Interval1m:  time.Minute,
	Interval15m: 15 * time.Minute,
	Interval1h:  time.Hour,
	Interval4h:  4 * time.Hour,
	Interval1d:  24 * time.Hour,
}

func (i Interval) Valid() bool {
	_, ok := intervalDurations[i]
	return ok
}

func (i Interval) Duration() time.Duration {
	return intervalDurations[i]
}

// ParseInterval validates a timeframe string, falling back to 1d for
// anything unknown so a stale persisted value never breaks startup.
func ParseInterval(s string) Interval {
	if iv := Interval(s); iv.Valid() {
		return iv
	}
	return Interval1d
}
