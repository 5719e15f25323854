package session

import "time"

// LocationSample is one device GPS fix. Samples are consumed immediately and
// never persisted individually; only the ride built at save time survives.
type LocationSample struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
	AccuracyM  float64   `json:"accuracy_m"`
}

// SignalQuality is the qualitative GPS indicator surfaced to clients. It
// derives from the latest accuracy value, independent of accept/reject.
type SignalQuality string

const (
	SignalWaiting SignalQuality = "waiting"
	SignalGood    SignalQuality = "good"
	SignalFair    SignalQuality = "fair"
	SignalWeak    SignalQuality = "weak"
)

// State is the lifecycle phase of a live session. Idle has no state value:
// a session that does not exist in the Manager is idle.
type State string

const (
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateEnded     State = "ended"
)

// Status is a live snapshot of a recording session.
type Status struct {
	ID             string        `json:"id"`
	State          State         `json:"state"`
	Kind           string        `json:"kind"`
	StartedAt      time.Time     `json:"started_at"`
	ElapsedSeconds int64         `json:"elapsed_seconds"`
	DistanceMeters float64       `json:"distance_meters"`
	SpeedKmh       float64       `json:"speed_kmh"`
	Signal         SignalQuality `json:"signal"`
	SampleCount    int           `json:"sample_count"`
	CellCount      int           `json:"cell_count"`
}

// SampleResult reports the outcome of posting one sample.
type SampleResult struct {
	Accepted bool          `json:"accepted"`
	Signal   SignalQuality `json:"signal"`
	CellID   string        `json:"cell_id,omitempty"`
	Status   Status        `json:"status"`
}
