package ride

import (
	"context"
	"time"

	"github.com/KhawajaJ/territorycycle/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Insert(ctx context.Context, input Ride) (Ride, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO rides (id, owner_id, kind, started_at, ended_at, duration_seconds, distance_meters, route_fingerprint, distinct_cell_count, cell_ids)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, input.ID, input.OwnerID, string(input.Kind), input.StartedAt, input.EndedAt,
		input.DurationSeconds, input.DistanceMeters, input.RouteFingerprint,
		input.DistinctCellCount, input.CellIDs)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Ride{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, kind, started_at, ended_at, duration_seconds, distance_meters, route_fingerprint, distinct_cell_count, cell_ids, created_at
		FROM rides WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	return scanRide(row)
}

func (s *Service) History(ctx context.Context, ownerID string) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, kind, started_at, ended_at, duration_seconds, distance_meters, route_fingerprint, distinct_cell_count, cell_ids, created_at
		FROM rides WHERE owner_id=$1
		ORDER BY started_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	return rides, nil
}

// WithFingerprint returns the owner's rides sharing a fingerprint started at
// or after since, newest first. The unlock evaluator counts these.
func (s *Service) WithFingerprint(ctx context.Context, ownerID, fingerprint string, since time.Time) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, kind, started_at, ended_at, duration_seconds, distance_meters, route_fingerprint, distinct_cell_count, cell_ids, created_at
		FROM rides
		WHERE owner_id=$1 AND route_fingerprint=$2 AND started_at >= $3
		ORDER BY started_at DESC
	`, ownerID, fingerprint, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	return rides, nil
}

// TouchedCell reports whether any of the owner's rides with the given
// fingerprint visited the cell.
func (s *Service) TouchedCell(ctx context.Context, ownerID, fingerprint, cellID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM rides
			WHERE owner_id=$1 AND route_fingerprint=$2 AND cell_ids @> ARRAY[$3]
		)
	`, ownerID, fingerprint, cellID).Scan(&ok)
	return ok, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (Ride, error) {
	var r Ride
	var kind string
	if err := row.Scan(&r.ID, &r.OwnerID, &kind, &r.StartedAt, &r.EndedAt,
		&r.DurationSeconds, &r.DistanceMeters, &r.RouteFingerprint,
		&r.DistinctCellCount, &r.CellIDs, &r.CreatedAt); err != nil {
		return Ride{}, err
	}
	r.Kind = Kind(kind)
	return r, nil
}
