package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/KhawajaJ/territorycycle/internal/ride"
	"github.com/KhawajaJ/territorycycle/internal/stream"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrInvalidKind = errors.New("unknown activity kind")
)

// Manager owns the live sessions, keyed by id. Sessions exist only in
// memory; a session that fails to persist on save is gone.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Recorder

	rides *ride.Service
	hub   *stream.Hub

	maxAccuracyM  float64
	minRidePoints int
}

func NewManager(rides *ride.Service, hub *stream.Hub, maxAccuracyM float64, minRidePoints int) *Manager {
	return &Manager{
		sessions:      map[string]*Recorder{},
		rides:         rides,
		hub:           hub,
		maxAccuracyM:  maxAccuracyM,
		minRidePoints: minRidePoints,
	}
}

func (m *Manager) Start(ownerID string, kind ride.Kind) (Status, error) {
	if !kind.Valid() {
		return Status{}, ErrInvalidKind
	}

	rec := newRecorder(uuid.NewString(), ownerID, kind, m.maxAccuracyM)

	m.mu.Lock()
	m.sessions[rec.id] = rec
	m.mu.Unlock()

	return rec.Status(), nil
}

func (m *Manager) get(id, ownerID string) (*Recorder, error) {
	m.mu.RLock()
	rec, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || rec.ownerID != ownerID {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (m *Manager) AddSample(id, ownerID string, s LocationSample) (SampleResult, error) {
	rec, err := m.get(id, ownerID)
	if err != nil {
		return SampleResult{}, err
	}

	accepted, cellID, err := rec.AddSample(s)
	if err != nil {
		return SampleResult{}, err
	}

	status := rec.Status()
	result := SampleResult{
		Accepted: accepted,
		Signal:   status.Signal,
		CellID:   cellID,
		Status:   status,
	}

	if accepted && m.hub != nil {
		payload, _ := json.Marshal(streamEvent{
			Type:      "sample",
			SessionID: id,
			Lat:       s.Lat,
			Lng:       s.Lng,
			CellID:    cellID,
			DistanceM: status.DistanceMeters,
			SpeedKmh:  status.SpeedKmh,
		})
		m.hub.Broadcast(id, payload)
	}
	return result, nil
}

func (m *Manager) Pause(id, ownerID string) (Status, error) {
	rec, err := m.get(id, ownerID)
	if err != nil {
		return Status{}, err
	}
	if err := rec.Pause(); err != nil {
		return Status{}, err
	}
	return rec.Status(), nil
}

func (m *Manager) Resume(id, ownerID string) (Status, error) {
	rec, err := m.get(id, ownerID)
	if err != nil {
		return Status{}, err
	}
	if err := rec.Resume(); err != nil {
		return Status{}, err
	}
	return rec.Status(), nil
}

// End stops the session and, when save is set and the session has enough
// accepted samples, persists the ride. The in-memory session is removed in
// every case; a persistence error surfaces to the caller with the session
// already gone.
func (m *Manager) End(ctx context.Context, id, ownerID string, save bool) (ride.Ride, bool, error) {
	rec, err := m.get(id, ownerID)
	if err != nil {
		return ride.Ride{}, false, err
	}

	built, ok, err := rec.End(save, m.minRidePoints)

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if err != nil || !ok {
		return ride.Ride{}, false, err
	}

	saved, err := m.rides.Insert(ctx, built)
	if err != nil {
		return ride.Ride{}, false, err
	}

	if m.hub != nil {
		payload, _ := json.Marshal(streamEvent{
			Type:      "ride_saved",
			SessionID: id,
			RideID:    saved.ID,
			DistanceM: saved.DistanceMeters,
		})
		m.hub.Broadcast(id, payload)
	}
	return saved, true, nil
}

func (m *Manager) Status(id, ownerID string) (Status, error) {
	rec, err := m.get(id, ownerID)
	if err != nil {
		return Status{}, err
	}
	return rec.Status(), nil
}

type streamEvent struct {
	Type      string  `json:"type"`
	SessionID string  `json:"session_id"`
	RideID    string  `json:"ride_id,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	CellID    string  `json:"cell_id,omitempty"`
	DistanceM float64 `json:"distance_m,omitempty"`
	SpeedKmh  float64 `json:"speed_kmh,omitempty"`
}
