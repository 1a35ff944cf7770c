package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TransferLine is the pseudo line name the service uses for walking transfers.
const TransferLine = "TRANSFER"

// PlanRequest is the body of POST /plan.
type PlanRequest struct {
	OriginLat float64 `json:"origin_lat"`
	OriginLon float64 `json:"origin_lon"`
	DestLat   float64 `json:"dest_lat"`
	DestLon   float64 `json:"dest_lon"`
}

// NewPlanRequest builds the request body for an origin/destination pair.
func NewPlanRequest(origin, destination Location) PlanRequest {
	return PlanRequest{
		OriginLat: origin.Lat,
		OriginLon: origin.Lon,
		DestLat:   destination.Lat,
		DestLon:   destination.Lon,
	}
}

// PlanResponse is the full comparison for one origin/destination pair.
type PlanResponse struct {
	Origin             Location            `json:"origin"`
	Destination        Location            `json:"destination"`
	CarOnlyMin         float64             `json:"car_only_min"`
	TransitOnly        TransitInfo         `json:"transit_only"`
	TrafficBreak       TrafficBreak        `json:"traffic_break"`
	ParkAndRideOptions []ParkAndRideOption `json:"park_and_ride_options"`
}

type TransitInfo struct {
	TotalMin           float64          `json:"total_min"`
	WalkToStationMin   float64          `json:"walk_to_station_min"`
	WalkFromStationMin float64          `json:"walk_from_station_min"`
	InVehicleMin       float64          `json:"in_vehicle_min"`
	Segments           []TransitSegment `json:"segments"`
}

type TransitSegment struct {
	Line       string  `json:"line"`
	FromName   string  `json:"from_name"`
	ToName     string  `json:"to_name"`
	TimeMin    float64 `json:"time_min"`
	IsTransfer bool    `json:"is_transfer"`
}

type ParkingInfo struct {
	Name     string  `json:"name"`
	District string  `json:"ilce"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

type ParkAndRideOption struct {
	Parking   ParkingInfo `json:"parking"`
	CarMin    float64     `json:"car_min"`
	WalkDistM float64     `json:"walk_dist_m"`
	WalkMin   float64     `json:"walk_min"`
	Transit   TransitInfo `json:"transit"`
	TotalMin  float64     `json:"total_min"`
}

// TrafficBreak marks where congestion starts along the car route. All fields
// nil means no break was detected; that is not an error.
type TrafficBreak struct {
	DistanceKM *float64    `json:"distance_km"`
	Coord      *Coordinate `json:"coord"`
	Address    *string     `json:"address"`
}

// Detected reports whether the service found a traffic break.
func (t TrafficBreak) Detected() bool {
	return t.DistanceKM != nil
}

// Coordinate is a [lat, lon] pair on the wire.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate: want [lat, lon], got %d values", len(pair))
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

// UnmarshalJSON accepts the older segment shape (from/to instead of
// from_name/to_name) and derives IsTransfer from the TRANSFER line name.
func (s *TransitSegment) UnmarshalJSON(b []byte) error {
	var raw struct {
		Line       *string  `json:"line"`
		FromName   *string  `json:"from_name"`
		From       *string  `json:"from"`
		ToName     *string  `json:"to_name"`
		To         *string  `json:"to"`
		TimeMin    *float64 `json:"time_min"`
		IsTransfer *bool    `json:"is_transfer"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*s = TransitSegment{
		Line:     strings.TrimSpace(deref(raw.Line)),
		FromName: firstNonEmpty(raw.FromName, raw.From),
		ToName:   firstNonEmpty(raw.ToName, raw.To),
	}
	if raw.TimeMin != nil {
		s.TimeMin = *raw.TimeMin
	}
	s.IsTransfer = (raw.IsTransfer != nil && *raw.IsTransfer) || strings.EqualFold(s.Line, TransferLine)
	return nil
}

// UnmarshalJSON guarantees Segments is never nil.
func (t *TransitInfo) UnmarshalJSON(b []byte) error {
	type plain TransitInfo
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Segments == nil {
		p.Segments = []TransitSegment{}
	}
	*t = TransitInfo(p)
	return nil
}

// UnmarshalJSON guarantees ParkAndRideOptions is never nil.
func (p *PlanResponse) UnmarshalJSON(b []byte) error {
	type plain PlanResponse
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v.ParkAndRideOptions == nil {
		v.ParkAndRideOptions = []ParkAndRideOption{}
	}
	if v.TransitOnly.Segments == nil {
		v.TransitOnly.Segments = []TransitSegment{}
	}
	*p = PlanResponse(v)
	return nil
}

// Validate rejects plans that cannot be rendered meaningfully.
func (p *PlanResponse) Validate() error {
	var errs []error

	if !p.Origin.Valid() {
		errs = append(errs, fmt.Errorf("origin coordinates out of range: %v,%v", p.Origin.Lat, p.Origin.Lon))
	}
	if !p.Destination.Valid() {
		errs = append(errs, fmt.Errorf("destination coordinates out of range: %v,%v", p.Destination.Lat, p.Destination.Lon))
	}
	if p.CarOnlyMin < 0 {
		errs = append(errs, fmt.Errorf("car_only_min is negative: %v", p.CarOnlyMin))
	}
	if err := p.TransitOnly.validate("transit_only"); err != nil {
		errs = append(errs, err)
	}
	for i, opt := range p.ParkAndRideOptions {
		field := fmt.Sprintf("park_and_ride_options[%d]", i)
		if opt.TotalMin < 0 || opt.CarMin < 0 || opt.WalkMin < 0 || opt.WalkDistM < 0 {
			errs = append(errs, fmt.Errorf("%s has negative values", field))
		}
		if err := opt.Transit.validate(field + ".transit"); err != nil {
			errs = append(errs, err)
		}
	}
	if d := p.TrafficBreak.DistanceKM; d != nil && *d < 0 {
		errs = append(errs, fmt.Errorf("traffic_break.distance_km is negative: %v", *d))
	}
	if c := p.TrafficBreak.Coord; c != nil && !validCoord(c.Lat, c.Lon) {
		errs = append(errs, fmt.Errorf("traffic_break.coord out of range: %v,%v", c.Lat, c.Lon))
	}

	return errors.Join(errs...)
}

func (t TransitInfo) validate(field string) error {
	if t.TotalMin < 0 || t.WalkToStationMin < 0 || t.WalkFromStationMin < 0 || t.InVehicleMin < 0 {
		return fmt.Errorf("%s has negative durations", field)
	}
	for i, seg := range t.Segments {
		if seg.TimeMin < 0 {
			return fmt.Errorf("%s.segments[%d].time_min is negative", field, i)
		}
	}
	return nil
}

// TransferCount counts transfer segments.
func (t TransitInfo) TransferCount() int {
	n := 0
	for _, seg := range t.Segments {
		if seg.IsTransfer {
			n++
		}
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(candidates ...*string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(deref(c)); v != "" {
			return v
		}
	}
	return ""
}
