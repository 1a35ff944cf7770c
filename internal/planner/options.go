package planner

import (
	"github.com/rotaplan/pkg/routing/models"
)

type Kind string

const (
	KindCar         Kind = "car"
	KindTransit     Kind = "transit"
	KindParkAndRide Kind = "park-ride"
)

// Option is one card in the comparison list.
type Option struct {
	Kind    Kind
	Minutes float64
	// Transit is set for transit and park-and-ride options.
	Transit *models.TransitInfo
	// ParkAndRide is set for park-and-ride options.
	ParkAndRide *models.ParkAndRideOption
	Fastest     bool
}

// Options lists car-only, transit-only, then every park-and-ride option in
// the order the service returned them. Exactly one option is marked fastest:
// the first one with the lowest time.
func Options(plan *models.PlanResponse) []Option {
	if plan == nil {
		return nil
	}

	opts := make([]Option, 0, 2+len(plan.ParkAndRideOptions))
	opts = append(opts,
		Option{Kind: KindCar, Minutes: plan.CarOnlyMin},
		Option{Kind: KindTransit, Minutes: plan.TransitOnly.TotalMin, Transit: &plan.TransitOnly},
	)
	for i := range plan.ParkAndRideOptions {
		pr := &plan.ParkAndRideOptions[i]
		opts = append(opts, Option{
			Kind:        KindParkAndRide,
			Minutes:     pr.TotalMin,
			Transit:     &pr.Transit,
			ParkAndRide: pr,
		})
	}

	fastest := 0
	for i, o := range opts {
		if o.Minutes < opts[fastest].Minutes {
			fastest = i
		}
	}
	opts[fastest].Fastest = true

	return opts
}

// Warning is the congestion notice shown above the options.
type Warning struct {
	DistanceKM float64
	Address    string
	Coord      *models.Coordinate
}

// TrafficWarning reports the traffic break if the service detected one.
func TrafficWarning(plan *models.PlanResponse) (Warning, bool) {
	if plan == nil || !plan.TrafficBreak.Detected() {
		return Warning{}, false
	}

	w := Warning{
		DistanceKM: *plan.TrafficBreak.DistanceKM,
		Coord:      plan.TrafficBreak.Coord,
	}
	if plan.TrafficBreak.Address != nil {
		w.Address = *plan.TrafficBreak.Address
	}
	return w, true
}
