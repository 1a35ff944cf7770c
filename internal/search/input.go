// Package search holds the location search box and the origin/destination
// pair the user is building.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/internal/query"
	"github.com/rotaplan/internal/routeapi"
	"github.com/rotaplan/pkg/routing/models"
)

var ErrNoSuchResult = errors.New("no such search result")

const (
	DefaultDebounce       = time.Second
	DefaultMinQueryLength = 2
)

// InputConfig configures one search box.
type InputConfig struct {
	Name           string
	Debounce       time.Duration
	MinQueryLength int
	Logger         logger.Logger
}

// Input is a search-as-you-type box backed by GET /geocode.
type Input struct {
	ctrl   *query.Controller[string, []models.GeocodeResult]
	logger logger.Logger

	mu   sync.Mutex
	text string
}

type InputState = query.State[string, []models.GeocodeResult]

func NewInput(ctx context.Context, geocoder routeapi.Geocoder, cfg InputConfig) *Input {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = DefaultMinQueryLength
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	fetch := func(ctx context.Context, q string) ([]models.GeocodeResult, error) {
		resp, err := geocoder.Geocode(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("geocoding %q: %w", q, err)
		}
		return resp.Results, nil
	}

	minLen := cfg.MinQueryLength
	ctrl := query.New[string, []models.GeocodeResult](ctx, fetch, query.Config[string]{
		Name:     cfg.Name,
		Debounce: cfg.Debounce,
		Gate:     func(q string) bool { return utf8.RuneCountInString(q) >= minLen },
		Logger:   log,
	})

	return &Input{ctrl: ctrl, logger: log}
}

// Type replaces the box text. Leading and trailing spaces are not sent.
func (in *Input) Type(text string) {
	in.mu.Lock()
	in.text = text
	in.mu.Unlock()

	in.ctrl.Trigger(strings.TrimSpace(text))
}

func (in *Input) Text() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.text
}

// Results is the current candidate list. Empty while nothing matched, after
// an error, or when the text is too short.
func (in *Input) Results() []models.GeocodeResult {
	return in.ctrl.Snapshot().Data
}

func (in *Input) State() InputState {
	return in.ctrl.Snapshot()
}

// Select turns result i into a Location, puts its name in the box and
// drops the result list. Any search still pending is abandoned.
func (in *Input) Select(i int) (models.Location, error) {
	results := in.Results()
	if i < 0 || i >= len(results) {
		return models.Location{}, fmt.Errorf("%w: %d of %d", ErrNoSuchResult, i, len(results))
	}
	loc := results[i].Location()

	in.ctrl.Cancel()
	in.ctrl.Reset()

	in.mu.Lock()
	in.text = loc.Name
	in.mu.Unlock()

	in.logger.Debug("Location selected", "name", loc.Name, "lat", loc.Lat, "lon", loc.Lon)
	return loc, nil
}

// Clear empties the box and the result list.
func (in *Input) Clear() {
	in.Type("")
}

// Retry re-runs the last search that reached the network.
func (in *Input) Retry() {
	in.ctrl.Retry()
}

func (in *Input) Subscribe(fn func(InputState)) (unsubscribe func()) {
	return in.ctrl.Subscribe(fn)
}

func (in *Input) Close() {
	in.ctrl.Close()
}
