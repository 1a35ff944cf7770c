package stubserver

import "github.com/rotaplan/pkg/routing/models"

// DefaultPlaces is the geocoding fixture set served by the stub.
var DefaultPlaces = []models.GeocodeResult{
	{Name: "Taksim Square", Lat: 41.03, Lon: 28.98, Address: "Beyoğlu", Type: []string{"poi"}},
	{Name: "Taksim Metro", Lat: 41.0369, Lon: 28.9850, Address: "Beyoğlu", Type: []string{"station"}},
	{Name: "Sultanahmet", Lat: 41.0054, Lon: 28.9768, Address: "Fatih", Type: []string{"poi"}},
	{Name: "Kabataş", Lat: 41.0338, Lon: 28.9925, Address: "Beyoğlu", Type: []string{"station"}},
	{Name: "Levent", Lat: 41.0781, Lon: 29.0106, Address: "Beşiktaş", Type: []string{"neighbourhood"}},
	{Name: "Kadıköy İskele", Lat: 40.9925, Lon: 29.0233, Address: "Kadıköy", Type: []string{"pier"}},
	{Name: "Mecidiyeköy", Lat: 41.0672, Lon: 28.9926, Address: "Şişli", Type: []string{"neighbourhood"}},
}

// DefaultParking is the park-and-ride facility set used when building plans.
var DefaultParking = []models.ParkingInfo{
	{Name: "İSPARK Kabataş", District: "Beyoğlu", Lat: 41.0352, Lon: 28.9936},
	{Name: "İSPARK Mecidiyeköy", District: "Şişli", Lat: 41.0655, Lon: 28.9958},
	{Name: "İSPARK Kadıköy", District: "Kadıköy", Lat: 40.9911, Lon: 29.0270},
}
