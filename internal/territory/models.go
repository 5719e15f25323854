package territory

import "time"

// Tile is one owned hex cell. The cell id is the key; ownership moves to
// whoever claimed it last.
type Tile struct {
	CellID        string    `json:"cell_id"`
	OwnerID       string    `json:"owner_id"`
	CenterLat     float64   `json:"center_lat"`
	CenterLng     float64   `json:"center_lng"`
	LastClaimedAt time.Time `json:"last_claimed_at"`
}

type ClaimRequest struct {
	CellID      string `json:"cell_id"`
	Fingerprint string `json:"route_fingerprint"`
}
