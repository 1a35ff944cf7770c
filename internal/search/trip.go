package search

import (
	"errors"
	"sync"

	"github.com/rotaplan/pkg/routing/models"
)

var ErrIncompleteTrip = errors.New("origin and destination are both required")

// Trip is the origin/destination pair. Locations are stored by value, so a
// swap never aliases or mutates them.
type Trip struct {
	mu             sync.Mutex
	origin         models.Location
	destination    models.Location
	hasOrigin      bool
	hasDestination bool
}

func (t *Trip) SetOrigin(l models.Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.origin, t.hasOrigin = l, true
}

func (t *Trip) SetDestination(l models.Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destination, t.hasDestination = l, true
}

func (t *Trip) Origin() (models.Location, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.origin, t.hasOrigin
}

func (t *Trip) Destination() (models.Location, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destination, t.hasDestination
}

// Swap exchanges origin and destination. Nothing happens when neither is
// set; the return value reports whether a swap took place.
func (t *Trip) Swap() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasOrigin && !t.hasDestination {
		return false
	}
	t.origin, t.destination = t.destination, t.origin
	t.hasOrigin, t.hasDestination = t.hasDestination, t.hasOrigin
	return true
}

func (t *Trip) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasOrigin && t.hasDestination
}

// Endpoints returns both locations, or ErrIncompleteTrip.
func (t *Trip) Endpoints() (origin, destination models.Location, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasOrigin || !t.hasDestination {
		return models.Location{}, models.Location{}, ErrIncompleteTrip
	}
	return t.origin, t.destination, nil
}

func (t *Trip) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.origin, t.destination = models.Location{}, models.Location{}
	t.hasOrigin, t.hasDestination = false, false
}
