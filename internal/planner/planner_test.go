package planner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/internal/query"
	"github.com/rotaplan/internal/routeapi"
	"github.com/rotaplan/internal/stubserver"
	"github.com/rotaplan/pkg/routing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sultanahmet = models.Location{Lat: 41.0054, Lon: 28.9768, Name: "Sultanahmet"}
	levent      = models.Location{Lat: 41.0781, Lon: 29.0106, Name: "Levent"}
)

func newPlanner(t *testing.T) (*stubserver.Server, *Planner) {
	t.Helper()
	stub := stubserver.New(logger.Nop())
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	p := New(context.Background(), routeapi.NewHTTPClient(srv.URL, 0, logger.Nop()), logger.Nop())
	t.Cleanup(p.Close)
	return stub, p
}

func finished(p *Planner) func() bool {
	return func() bool {
		s := p.State()
		return s.Status == query.Succeeded || s.Status == query.Failed
	}
}

func TestPlanSuccess(t *testing.T) {
	_, p := newPlanner(t)

	p.Plan(sultanahmet, levent)
	require.Eventually(t, finished(p), time.Second, 5*time.Millisecond)

	s := p.State()
	assert.False(t, s.Loading)
	assert.NoError(t, s.Err)
	require.NotNil(t, s.Data)
	assert.Equal(t, "Levent", s.Data.Destination.Name)
	assert.Equal(t, Route{Origin: sultanahmet, Destination: levent}, s.Query)
}

func TestPlanFailure(t *testing.T) {
	stub, p := newPlanner(t)
	stub.FailWith("/plan", http.StatusInternalServerError, "boom")

	p.Plan(sultanahmet, levent)
	require.Eventually(t, finished(p), time.Second, 5*time.Millisecond)

	s := p.State()
	assert.False(t, s.Loading)
	assert.Nil(t, s.Data)
	require.Error(t, s.Err)
	assert.Contains(t, s.Err.Error(), "500")
	assert.Contains(t, s.Err.Error(), "boom")
	assert.True(t, routeapi.IsStatus(s.Err, http.StatusInternalServerError))
}

func TestRetryAfterFailure(t *testing.T) {
	stub, p := newPlanner(t)
	stub.FailWith("/plan", http.StatusInternalServerError, "boom")

	p.Plan(sultanahmet, levent)
	require.Eventually(t, finished(p), time.Second, 5*time.Millisecond)

	stub.ClearFailures()
	p.Retry()
	require.Eventually(t, func() bool { return p.State().Status == query.Succeeded }, time.Second, 5*time.Millisecond)
	assert.NotNil(t, p.State().Data)
	assert.Len(t, stub.Requests("/plan"), 2)
}

func TestNewPlanDropsPreviousData(t *testing.T) {
	stub, p := newPlanner(t)

	p.Plan(sultanahmet, levent)
	require.Eventually(t, finished(p), time.Second, 5*time.Millisecond)
	require.NotNil(t, p.State().Data)

	stub.SetLatency(200 * time.Millisecond)
	p.Plan(levent, sultanahmet)
	s := p.State()
	assert.True(t, s.Loading)
	assert.Nil(t, s.Data)
	assert.NoError(t, s.Err)

	require.Eventually(t, finished(p), time.Second, 5*time.Millisecond)
	assert.Equal(t, "Sultanahmet", p.State().Data.Destination.Name)
}

func TestResetAfterSuccess(t *testing.T) {
	_, p := newPlanner(t)

	p.Plan(sultanahmet, levent)
	require.Eventually(t, finished(p), time.Second, 5*time.Millisecond)

	p.Reset()
	s := p.State()
	assert.Nil(t, s.Data)
	assert.NoError(t, s.Err)
	assert.False(t, s.Loading)
}

func fixturePlan() *models.PlanResponse {
	dist := 3.2
	addr := "Barbaros Bulvarı"
	return &models.PlanResponse{
		Origin:      sultanahmet,
		Destination: levent,
		CarOnlyMin:  42,
		TransitOnly: models.TransitInfo{TotalMin: 35, Segments: []models.TransitSegment{}},
		TrafficBreak: models.TrafficBreak{
			DistanceKM: &dist,
			Coord:      &models.Coordinate{Lat: 41.04, Lon: 29.0},
			Address:    &addr,
		},
		ParkAndRideOptions: []models.ParkAndRideOption{
			{Parking: models.ParkingInfo{Name: "İSPARK Kabataş"}, TotalMin: 30},
			{Parking: models.ParkingInfo{Name: "İSPARK Mecidiyeköy"}, TotalMin: 30},
		},
	}
}

func TestOptions(t *testing.T) {
	opts := Options(fixturePlan())
	require.Len(t, opts, 4)

	kinds := []Kind{opts[0].Kind, opts[1].Kind, opts[2].Kind, opts[3].Kind}
	assert.Equal(t, []Kind{KindCar, KindTransit, KindParkAndRide, KindParkAndRide}, kinds)

	assert.Nil(t, opts[0].Transit)
	require.NotNil(t, opts[1].Transit)
	require.NotNil(t, opts[2].ParkAndRide)
	assert.Equal(t, "İSPARK Kabataş", opts[2].ParkAndRide.Parking.Name)

	var fastest []int
	for i, o := range opts {
		if o.Fastest {
			fastest = append(fastest, i)
		}
	}
	assert.Equal(t, []int{2}, fastest, "ties go to the first option")
}

func TestOptionsCarFastest(t *testing.T) {
	plan := fixturePlan()
	plan.CarOnlyMin = 12

	opts := Options(plan)
	assert.True(t, opts[0].Fastest)
	assert.Nil(t, Options(nil))
}

func TestTrafficWarning(t *testing.T) {
	w, ok := TrafficWarning(fixturePlan())
	require.True(t, ok)
	assert.Equal(t, 3.2, w.DistanceKM)
	assert.Equal(t, "Barbaros Bulvarı", w.Address)

	plan := fixturePlan()
	plan.TrafficBreak = models.TrafficBreak{}
	_, ok = TrafficWarning(plan)
	assert.False(t, ok)
}
