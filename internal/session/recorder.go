package session

import (
	"errors"
	"sync"
	"time"

	"github.com/KhawajaJ/territorycycle/internal/hexgrid"
	"github.com/KhawajaJ/territorycycle/internal/ride"
	"github.com/KhawajaJ/territorycycle/internal/route"
	"github.com/KhawajaJ/territorycycle/internal/shared/geo"
)

var (
	ErrNotRecording = errors.New("session is not recording")
	ErrNotPaused    = errors.New("session is not paused")
	ErrEnded        = errors.New("session has ended")
)

// Recorder is one in-memory activity session: the state machine driving the
// sample filter, distance accumulation and cell indexing. Two event sources
// touch it while recording, the sample route and the 1s ticker goroutine;
// every entry point checks the current state under the lock so a late tick
// or sample against a paused or ended session is a no-op.
type Recorder struct {
	mu sync.Mutex

	id      string
	ownerID string
	kind    ride.Kind

	state         State
	startedAt     time.Time
	pausedAt      time.Time
	pausedTotal   time.Duration
	tickedSeconds int64

	sampleCount int
	last        *LocationSample
	cellSeen    map[string]struct{}
	cells       []string
	distanceM   float64
	speedKmh    float64
	signal      SignalQuality

	maxAccuracyM float64
	stopTick     chan struct{}
	now          func() time.Time
}

func newRecorder(id, ownerID string, kind ride.Kind, maxAccuracyM float64) *Recorder {
	r := &Recorder{
		id:           id,
		ownerID:      ownerID,
		kind:         kind,
		state:        StateRecording,
		cellSeen:     map[string]struct{}{},
		signal:       SignalWaiting,
		maxAccuracyM: maxAccuracyM,
		now:          time.Now,
	}
	r.startedAt = r.now()
	r.startTicker()
	return r
}

func (r *Recorder) startTicker() {
	stop := make(chan struct{})
	r.stopTick = stop
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.Tick()
			}
		}
	}()
}

// Tick advances the display duration by one second while recording. Ticks
// delivered after a transition out of recording are ignored.
func (r *Recorder) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return
	}
	r.tickedSeconds++
}

// AddSample runs the filter and, on accept, folds the sample into the
// session. The signal indicator updates from the raw accuracy either way.
func (r *Recorder) AddSample(s LocationSample) (accepted bool, cellID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return false, "", ErrEnded
	}
	if r.state != StateRecording {
		return false, "", ErrNotRecording
	}
	if s.RecordedAt.IsZero() {
		s.RecordedAt = r.now()
	}

	r.signal = Signal(s.AccuracyM)

	if Evaluate(r.last, s, r.maxAccuracyM, r.kind.SpeedCeilingMps()) != Accepted {
		return false, "", nil
	}

	if r.last != nil {
		distM := geo.HaversineM(r.last.Lat, r.last.Lng, s.Lat, s.Lng)
		elapsed := s.RecordedAt.Sub(r.last.RecordedAt).Seconds()
		r.distanceM += distM
		r.speedKmh = distM / elapsed * 3.6
	}

	cellID = hexgrid.CellAt(s.Lat, s.Lng)
	if _, ok := r.cellSeen[cellID]; !ok {
		r.cellSeen[cellID] = struct{}{}
		r.cells = append(r.cells, cellID)
	}

	r.sampleCount++
	sample := s
	r.last = &sample
	return true, cellID, nil
}

func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return ErrEnded
	}
	if r.state != StateRecording {
		return ErrNotRecording
	}
	r.state = StatePaused
	r.pausedAt = r.now()
	close(r.stopTick)
	r.stopTick = nil
	return nil
}

func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return ErrEnded
	}
	if r.state != StatePaused {
		return ErrNotPaused
	}
	r.pausedTotal += r.now().Sub(r.pausedAt)
	r.pausedAt = time.Time{}
	r.state = StateRecording
	r.startTicker()
	return nil
}

// End transitions to the terminal state and, when the session qualifies,
// returns the ride to persist. Duration is wall clock minus accumulated
// paused time; the fingerprint digests the distinct cell set.
func (r *Recorder) End(save bool, minPoints int) (ride.Ride, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return ride.Ride{}, false, ErrEnded
	}

	endedAt := r.now()
	if r.state == StatePaused {
		r.pausedTotal += endedAt.Sub(r.pausedAt)
	}
	r.state = StateEnded
	if r.stopTick != nil {
		close(r.stopTick)
		r.stopTick = nil
	}

	if !save || r.sampleCount < minPoints {
		return ride.Ride{}, false, nil
	}

	duration := endedAt.Sub(r.startedAt) - r.pausedTotal
	cells := append([]string(nil), r.cells...)
	return ride.Ride{
		OwnerID:           r.ownerID,
		Kind:              r.kind,
		StartedAt:         r.startedAt,
		EndedAt:           endedAt,
		DurationSeconds:   int64(duration.Seconds()),
		DistanceMeters:    r.distanceM,
		RouteFingerprint:  route.Fingerprint(cells),
		DistinctCellCount: len(cells),
		CellIDs:           cells,
	}, true, nil
}

func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		ID:             r.id,
		State:          r.state,
		Kind:           string(r.kind),
		StartedAt:      r.startedAt,
		ElapsedSeconds: r.tickedSeconds,
		DistanceMeters: r.distanceM,
		SpeedKmh:       r.speedKmh,
		Signal:         r.signal,
		SampleCount:    r.sampleCount,
		CellCount:      len(r.cells),
	}
}
