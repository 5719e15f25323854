package ride

import "time"

// Kind is the recorded activity type. The speed ceiling per kind feeds the
// sample filter's GPS-jump guard.
type Kind string

const (
	KindCycling Kind = "cycling"
	KindRunning Kind = "running"
	KindHiking  Kind = "hiking"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCycling, KindRunning, KindHiking:
		return true
	}
	return false
}

// SpeedCeilingMps is the maximum plausible instantaneous speed for the
// activity. Samples implying a faster movement are treated as GPS jumps.
func (k Kind) SpeedCeilingMps() float64 {
	switch k {
	case KindCycling:
		return 18
	case KindRunning:
		return 8
	case KindHiking:
		return 4
	}
	return 0
}

// Ride is the persisted, append-only record of a saved session. Duration and
// distance derive solely from accepted samples; the fingerprint is a pure
// function of the distinct cell set.
type Ride struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Kind              Kind      `json:"kind"`
	StartedAt         time.Time `json:"started_at"`
	EndedAt           time.Time `json:"ended_at"`
	DurationSeconds   int64     `json:"duration_seconds"`
	DistanceMeters    float64   `json:"distance_meters"`
	RouteFingerprint  string    `json:"route_fingerprint"`
	DistinctCellCount int       `json:"distinct_cell_count"`
	CellIDs           []string  `json:"cell_ids"`
	CreatedAt         time.Time `json:"created_at"`
}
