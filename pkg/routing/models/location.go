package models

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Location is a point the user picked, either from a geocoding result or by
// swapping origin and destination. It is passed by value and never mutated.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name,omitempty"`
	Address string  `json:"address,omitempty"`
}

// Label is the display name, falling back to the coordinates.
func (l Location) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("%.5f, %.5f", l.Lat, l.Lon)
}

// Point returns the location as an orb point (lon, lat order).
func (l Location) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}

// Valid reports whether the coordinates are within WGS84 bounds.
func (l Location) Valid() bool {
	return validCoord(l.Lat, l.Lon)
}

// StraightLineMeters is the great-circle distance between two locations.
func StraightLineMeters(a, b Location) float64 {
	return geo.Distance(a.Point(), b.Point())
}

func validCoord(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
