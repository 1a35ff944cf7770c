// Package planner fetches a route plan for an origin/destination pair and
// turns it into the list of options shown to the user.
package planner

import (
	"context"
	"fmt"

	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/internal/query"
	"github.com/rotaplan/internal/routeapi"
	"github.com/rotaplan/pkg/routing/models"
)

// Route is the query a plan is fetched for.
type Route struct {
	Origin      models.Location
	Destination models.Location
}

type State = query.State[Route, *models.PlanResponse]

// Planner holds at most one plan. Starting a new fetch drops the old plan
// before the new one arrives.
type Planner struct {
	ctrl   *query.Controller[Route, *models.PlanResponse]
	logger logger.Logger
}

func New(ctx context.Context, api routeapi.Planner, log logger.Logger) *Planner {
	if log == nil {
		log = logger.Nop()
	}

	fetch := func(ctx context.Context, r Route) (*models.PlanResponse, error) {
		plan, err := api.Plan(ctx, r.Origin, r.Destination)
		if err != nil {
			return nil, fmt.Errorf("planning %s -> %s: %w", r.Origin.Label(), r.Destination.Label(), err)
		}
		return plan, nil
	}

	return &Planner{
		ctrl: query.New[Route, *models.PlanResponse](ctx, fetch, query.Config[Route]{
			Name:         "plan",
			ClearOnStart: true,
			Logger:       log,
		}),
		logger: log,
	}
}

// Plan starts fetching immediately, abandoning any earlier request.
func (p *Planner) Plan(origin, destination models.Location) {
	p.logger.Info("Planning route",
		"origin", origin.Label(),
		"destination", destination.Label())
	p.ctrl.Trigger(Route{Origin: origin, Destination: destination})
}

func (p *Planner) Retry() {
	p.ctrl.Retry()
}

func (p *Planner) Reset() {
	p.ctrl.Reset()
}

func (p *Planner) State() State {
	return p.ctrl.Snapshot()
}

func (p *Planner) Subscribe(fn func(State)) (unsubscribe func()) {
	return p.ctrl.Subscribe(fn)
}

func (p *Planner) Close() {
	p.ctrl.Close()
}
