package models

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the points of interest of a plan as GeoJSON:
// origin, destination, every park-and-ride facility and the traffic break.
func (p *PlanResponse) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	add := func(pt orb.Point, kind, name string) {
		f := geojson.NewFeature(pt)
		f.Properties["kind"] = kind
		if name != "" {
			f.Properties["name"] = name
		}
		fc.Append(f)
	}

	add(p.Origin.Point(), "origin", p.Origin.Name)
	add(p.Destination.Point(), "destination", p.Destination.Name)

	for _, opt := range p.ParkAndRideOptions {
		f := geojson.NewFeature(orb.Point{opt.Parking.Lon, opt.Parking.Lat})
		f.Properties["kind"] = "parking"
		f.Properties["name"] = opt.Parking.Name
		f.Properties["district"] = opt.Parking.District
		f.Properties["total_min"] = opt.TotalMin
		fc.Append(f)
	}

	if c := p.TrafficBreak.Coord; c != nil {
		f := geojson.NewFeature(orb.Point{c.Lon, c.Lat})
		f.Properties["kind"] = "traffic_break"
		if d := p.TrafficBreak.DistanceKM; d != nil {
			f.Properties["distance_km"] = *d
		}
		if a := p.TrafficBreak.Address; a != nil {
			f.Properties["address"] = *a
		}
		fc.Append(f)
	}

	return fc
}
