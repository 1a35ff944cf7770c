package models

// GeocodeResult is one candidate returned by GET /geocode. It only lives
// inside the result list of a single search.
type GeocodeResult struct {
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Address string   `json:"address"`
	Type    []string `json:"type"`
}

// Location converts the selected candidate into a Location.
func (r GeocodeResult) Location() Location {
	return Location{
		Lat:     r.Lat,
		Lon:     r.Lon,
		Name:    r.Name,
		Address: r.Address,
	}
}

// GeocodeResponse is the body of GET /geocode. Error may be set on a 2xx
// response; it is advisory only.
type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
	Error   string          `json:"error,omitempty"`
}
