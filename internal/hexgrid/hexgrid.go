package hexgrid

import (
	"errors"

	h3 "github.com/uber/h3-go/v4"
)

// Resolution is fixed for the lifetime of the app; cell ids minted at one
// resolution never compare equal to another.
const Resolution = 10

var ErrInvalidCell = errors.New("invalid cell id")

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CellAt maps a coordinate to its hex cell id at the fixed resolution.
func CellAt(lat, lng float64) string {
	return h3.LatLngToCell(h3.NewLatLng(lat, lng), Resolution).String()
}

// Center returns the center coordinate of a cell.
func Center(cellID string) (Point, error) {
	cell, err := parse(cellID)
	if err != nil {
		return Point{}, err
	}
	ll := h3.CellToLatLng(cell)
	return Point{Lat: ll.Lat, Lng: ll.Lng}, nil
}

// Boundary returns the hexagon outline of a cell for map display.
func Boundary(cellID string) ([]Point, error) {
	cell, err := parse(cellID)
	if err != nil {
		return nil, err
	}
	boundary := h3.CellToBoundary(cell)
	points := make([]Point, 0, len(boundary))
	for _, ll := range boundary {
		points = append(points, Point{Lat: ll.Lat, Lng: ll.Lng})
	}
	return points, nil
}

// Valid reports whether cellID parses to a real cell.
func Valid(cellID string) bool {
	_, err := parse(cellID)
	return err == nil
}

func parse(cellID string) (h3.Cell, error) {
	cell := h3.Cell(h3.IndexFromString(cellID))
	if !cell.IsValid() {
		return 0, ErrInvalidCell
	}
	return cell, nil
}
