package unlock

import (
	"testing"
	"time"

	"github.com/KhawajaJ/territorycycle/internal/ride"
)

func rideStarted(fp string, startedAt time.Time) ride.Ride {
	return ride.Ride{OwnerID: "owner-1", RouteFingerprint: fp, StartedAt: startedAt}
}

func TestEvaluateThreeRidesInWindow(t *testing.T) {
	day0 := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	rides := []ride.Ride{
		rideStarted("fp-1", day0),
		rideStarted("fp-1", day0.AddDate(0, 0, 3)),
		rideStarted("fp-1", day0.AddDate(0, 0, 6)),
	}

	// evaluated on day 6: all three count
	result := Evaluate(rides, "fp-1", day0.AddDate(0, 0, 6), 7, 3)
	if result.Count != 3 || !result.Unlocked {
		t.Fatalf("day 6: count=%d unlocked=%v", result.Count, result.Unlocked)
	}

	// evaluated on day 8: the day-0 ride has aged out
	result = Evaluate(rides, "fp-1", day0.AddDate(0, 0, 8), 7, 3)
	if result.Count != 2 || result.Unlocked {
		t.Fatalf("day 8: count=%d unlocked=%v", result.Count, result.Unlocked)
	}
}

func TestEvaluateIgnoresOtherFingerprints(t *testing.T) {
	now := time.Now()
	rides := []ride.Ride{
		rideStarted("fp-1", now.Add(-time.Hour)),
		rideStarted("fp-2", now.Add(-time.Hour)),
		rideStarted("fp-2", now.Add(-2*time.Hour)),
	}

	result := Evaluate(rides, "fp-1", now, 7, 3)
	if result.Count != 1 || result.Unlocked {
		t.Fatalf("count=%d unlocked=%v", result.Count, result.Unlocked)
	}
}

func TestEvaluateIgnoresFutureRides(t *testing.T) {
	now := time.Now()
	rides := []ride.Ride{
		rideStarted("fp-1", now.Add(time.Hour)),
	}
	result := Evaluate(rides, "fp-1", now, 7, 1)
	if result.Count != 0 || result.Unlocked {
		t.Fatalf("future ride counted: %+v", result)
	}
}

func TestEvaluateEmptyHistory(t *testing.T) {
	result := Evaluate(nil, "fp-1", time.Now(), 7, 3)
	if result.Count != 0 || result.Unlocked {
		t.Fatalf("unexpected result for empty history: %+v", result)
	}
	if result.Threshold != 3 || result.WindowDays != 7 {
		t.Fatalf("result should echo parameters: %+v", result)
	}
}
