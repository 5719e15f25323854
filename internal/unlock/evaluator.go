package unlock

import (
	"time"

	"github.com/KhawajaJ/territorycycle/internal/ride"
)

// Result is the unlock verdict for one owner and route fingerprint.
type Result struct {
	Fingerprint string `json:"route_fingerprint"`
	Count       int    `json:"count"`
	Threshold   int    `json:"threshold"`
	WindowDays  int    `json:"window_days"`
	Unlocked    bool   `json:"unlocked"`
}

// Evaluate counts the rides sharing the fingerprint whose start time falls
// within the trailing window measured from now. The window is enforced per
// ride: a ride aging out of the window stops counting, so a route can lock
// again. Pure over the ride list, no writes.
func Evaluate(rides []ride.Ride, fingerprint string, now time.Time, windowDays, threshold int) Result {
	cutoff := now.AddDate(0, 0, -windowDays)

	count := 0
	for _, r := range rides {
		if r.RouteFingerprint != fingerprint {
			continue
		}
		if r.StartedAt.Before(cutoff) || r.StartedAt.After(now) {
			continue
		}
		count++
	}

	return Result{
		Fingerprint: fingerprint,
		Count:       count,
		Threshold:   threshold,
		WindowDays:  windowDays,
		Unlocked:    count >= threshold,
	}
}
