// Package stubserver is a development stand-in for the route-planning service.
// It serves GET /geocode and POST /plan from fixtures and can be told to fail.
package stubserver

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/pkg/routing/models"
)

const (
	carSpeedKmh     = 24.0
	transitSpeedKmh = 30.0
	walkSpeedKmh    = 4.8
	// plans longer than this get a synthetic traffic break
	trafficBreakMinKm = 4.0
)

type failure struct {
	status int
	body   string
}

// Server holds fixtures and per-path request counters.
type Server struct {
	router  *mux.Router
	logger  logger.Logger
	places  []models.GeocodeResult
	parking []models.ParkingInfo

	mu       sync.Mutex
	failures map[string]failure
	latency  time.Duration
	requests map[string][]string
}

type Option func(*Server)

func WithPlaces(places []models.GeocodeResult) Option {
	return func(s *Server) { s.places = places }
}

func WithParking(parking []models.ParkingInfo) Option {
	return func(s *Server) { s.parking = parking }
}

func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

func New(log logger.Logger, opts ...Option) *Server {
	s := &Server{
		logger:   log,
		places:   DefaultPlaces,
		parking:  DefaultParking,
		failures: make(map[string]failure),
		requests: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.HandleFunc("/geocode", s.handleGeocode).Methods(http.MethodGet)
	r.HandleFunc("/plan", s.handlePlan).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Use(s.logging, s.track, s.delay, s.injectFailure)
	s.router = r

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// FailWith makes every request to path answer with status and body until
// ClearFailures is called.
func (s *Server) FailWith(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, body: body}
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Requests returns what arrived on path in order: the q parameter for
// /geocode, the method for everything else.
func (s *Server) Requests(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests[path]...)
}

func (s *Server) record(path, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[path] = append(s.requests[path], value)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	if q == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}

	needle := strings.ToLower(q)
	results := []models.GeocodeResult{}
	for _, p := range s.places {
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Address), needle) {
			results = append(results, p)
		}
	}

	resp := models.GeocodeResponse{Results: results}
	if len(results) == 0 {
		resp.Error = "no match for " + q
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	origin := models.Location{Lat: req.OriginLat, Lon: req.OriginLon}
	destination := models.Location{Lat: req.DestLat, Lon: req.DestLon}

	if !origin.Valid() || !destination.Valid() {
		http.Error(w, "coordinates out of range", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, s.buildPlan(origin, destination))
}

// buildPlan derives a deterministic plan from straight-line distances.
func (s *Server) buildPlan(origin, destination models.Location) models.PlanResponse {
	origin = s.nameNearest(origin)
	destination = s.nameNearest(destination)
	km := models.StraightLineMeters(origin, destination) / 1000

	plan := models.PlanResponse{
		Origin:             origin,
		Destination:        destination,
		CarOnlyMin:         round1(km / carSpeedKmh * 60),
		TransitOnly:        transitBetween(origin, destination),
		ParkAndRideOptions: []models.ParkAndRideOption{},
	}

	if km > trafficBreakMinKm {
		dist := round1(km * 0.4)
		lat := origin.Lat + (destination.Lat-origin.Lat)*0.4
		lon := origin.Lon + (destination.Lon-origin.Lon)*0.4
		addr := s.nameNearest(models.Location{Lat: lat, Lon: lon}).Address
		plan.TrafficBreak = models.TrafficBreak{
			DistanceKM: &dist,
			Coord:      &models.Coordinate{Lat: lat, Lon: lon},
			Address:    &addr,
		}
	}

	for _, p := range s.parking {
		lot := models.Location{Lat: p.Lat, Lon: p.Lon, Name: p.Name}
		carKm := models.StraightLineMeters(origin, lot) / 1000
		if carKm >= km {
			continue
		}
		walkM := 150 + math.Mod(p.Lat*1e5, 200)
		transit := transitBetween(lot, destination)
		walkMin := round1(walkM / 1000 / walkSpeedKmh * 60)
		carMin := round1(carKm / carSpeedKmh * 60)
		plan.ParkAndRideOptions = append(plan.ParkAndRideOptions, models.ParkAndRideOption{
			Parking:   p,
			CarMin:    carMin,
			WalkDistM: round1(walkM),
			WalkMin:   walkMin,
			Transit:   transit,
			TotalMin:  round1(carMin + walkMin + transit.TotalMin),
		})
	}
	sort.SliceStable(plan.ParkAndRideOptions, func(i, j int) bool {
		return plan.ParkAndRideOptions[i].TotalMin < plan.ParkAndRideOptions[j].TotalMin
	})

	return plan
}

func transitBetween(from, to models.Location) models.TransitInfo {
	km := models.StraightLineMeters(from, to) / 1000
	inVehicle := round1(km / transitSpeedKmh * 60)
	first := round1(inVehicle * 0.6)
	fromName, toName := from.Label(), to.Label()

	return models.TransitInfo{
		TotalMin:           round1(inVehicle + 9),
		WalkToStationMin:   4,
		WalkFromStationMin: 3,
		InVehicleMin:       inVehicle,
		Segments: []models.TransitSegment{
			{Line: "T1", FromName: fromName, ToName: "Kabataş", TimeMin: first},
			{Line: models.TransferLine, FromName: "Kabataş", ToName: "Taksim", TimeMin: 2, IsTransfer: true},
			{Line: "M2", FromName: "Taksim", ToName: toName, TimeMin: round1(inVehicle - first)},
		},
	}
}

func (s *Server) nameNearest(l models.Location) models.Location {
	best := -1.0
	var nearest models.GeocodeResult
	for _, p := range s.places {
		if d := models.StraightLineMeters(l, p.Location()); best < 0 || d < best {
			best = d
			nearest = p
		}
	}
	if best < 0 {
		return l
	}
	if l.Name == "" {
		l.Name = nearest.Name
	}
	if l.Address == "" {
		l.Address = nearest.Address
	}
	return l
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("stub request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start).String())
	})
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			s.record(r.URL.Path, r.URL.Query().Get("q"))
		} else {
			s.record(r.URL.Path, r.Method)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		d := s.latency
		s.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.URL.Path]
		s.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
