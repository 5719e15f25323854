package territory

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/KhawajaJ/territorycycle/internal/db"
	"github.com/KhawajaJ/territorycycle/internal/hexgrid"
	"github.com/KhawajaJ/territorycycle/internal/ride"
	"github.com/KhawajaJ/territorycycle/internal/stream"
	"github.com/KhawajaJ/territorycycle/internal/unlock"
)

var (
	ErrLocked     = errors.New("route is not unlocked")
	ErrNotVisited = errors.New("cell not visited by this route")
)

type Service struct {
	db      db.Querier
	rides   *ride.Service
	unlocks *unlock.Service
	hub     *stream.Hub
}

func NewService(db db.Querier, rides *ride.Service, unlocks *unlock.Service, hub *stream.Hub) *Service {
	return &Service{db: db, rides: rides, unlocks: unlocks, hub: hub}
}

// Claim transfers a cell to the owner. The route fingerprint must be
// unlocked right now (cache bypassed) and one of the owner's rides with that
// fingerprint must have touched the cell. The upsert is the whole conflict
// story: last claim wins.
func (s *Service) Claim(ctx context.Context, ownerID string, req ClaimRequest) (Tile, error) {
	if !hexgrid.Valid(req.CellID) {
		return Tile{}, hexgrid.ErrInvalidCell
	}

	result, err := s.unlocks.Fresh(ctx, ownerID, req.Fingerprint)
	if err != nil {
		return Tile{}, err
	}
	if !result.Unlocked {
		return Tile{}, ErrLocked
	}

	visited, err := s.rides.TouchedCell(ctx, ownerID, req.Fingerprint, req.CellID)
	if err != nil {
		return Tile{}, err
	}
	if !visited {
		return Tile{}, ErrNotVisited
	}

	center, err := hexgrid.Center(req.CellID)
	if err != nil {
		return Tile{}, err
	}

	tile := Tile{
		CellID:    req.CellID,
		OwnerID:   ownerID,
		CenterLat: center.Lat,
		CenterLng: center.Lng,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO tiles (cell_id, owner_id, location, last_claimed_at)
		VALUES ($1,$2, ST_SetSRID(ST_MakePoint($3,$4), 4326)::geography, NOW())
		ON CONFLICT (cell_id) DO UPDATE
		SET owner_id=EXCLUDED.owner_id, last_claimed_at=NOW()
		RETURNING last_claimed_at
	`, tile.CellID, tile.OwnerID, tile.CenterLng, tile.CenterLat)
	if err := row.Scan(&tile.LastClaimedAt); err != nil {
		return Tile{}, err
	}

	if s.hub != nil {
		payload, _ := json.Marshal(claimEvent{Type: "claim", Tile: tile})
		s.hub.Broadcast("territory:"+ownerID, payload)
	}
	return tile, nil
}

type claimEvent struct {
	Type string `json:"type"`
	Tile Tile   `json:"tile"`
}

func (s *Service) Owned(ctx context.Context, ownerID string) ([]Tile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT cell_id, owner_id, ST_Y(location::geometry), ST_X(location::geometry), last_claimed_at
		FROM tiles WHERE owner_id=$1
		ORDER BY last_claimed_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiles []Tile
	for rows.Next() {
		var t Tile
		if err := rows.Scan(&t.CellID, &t.OwnerID, &t.CenterLat, &t.CenterLng, &t.LastClaimedAt); err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}

func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]Tile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT cell_id, owner_id, ST_Y(location::geometry), ST_X(location::geometry), last_claimed_at
		FROM tiles
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY last_claimed_at DESC
	`, lng, lat, radiusKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiles []Tile
	for rows.Next() {
		var t Tile
		if err := rows.Scan(&t.CellID, &t.OwnerID, &t.CenterLat, &t.CenterLng, &t.LastClaimedAt); err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}
