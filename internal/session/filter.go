package session

import "github.com/KhawajaJ/territorycycle/internal/shared/geo"

// Verdict classifies one incoming sample against the previous accepted one.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedAccuracy
	RejectedSpeed
	RejectedClock
)

// Evaluate decides whether a sample enters the session. Low-accuracy fixes
// are dropped outright; given a previous accepted sample, an implied speed
// above the activity ceiling marks the new fix as a GPS jump. Rejected
// samples are dropped silently, never retried.
func Evaluate(prev *LocationSample, next LocationSample, maxAccuracyM, ceilingMps float64) Verdict {
	if next.AccuracyM > maxAccuracyM {
		return RejectedAccuracy
	}
	if prev == nil {
		return Accepted
	}

	elapsed := next.RecordedAt.Sub(prev.RecordedAt).Seconds()
	if elapsed <= 0 {
		return RejectedClock
	}
	distM := geo.HaversineM(prev.Lat, prev.Lng, next.Lat, next.Lng)
	if distM/elapsed > ceilingMps {
		return RejectedSpeed
	}
	return Accepted
}

// Signal maps the latest accuracy to a qualitative indicator.
func Signal(accuracyM float64) SignalQuality {
	switch {
	case accuracyM <= 0:
		return SignalWaiting
	case accuracyM <= 15:
		return SignalGood
	case accuracyM <= 30:
		return SignalFair
	default:
		return SignalWeak
	}
}
