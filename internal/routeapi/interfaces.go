package routeapi

import (
	"context"

	"github.com/rotaplan/pkg/routing/models"
)

type Geocoder interface {
	Geocode(ctx context.Context, query string) (*models.GeocodeResponse, error)
}

type Planner interface {
	Plan(ctx context.Context, origin, destination models.Location) (*models.PlanResponse, error)
}
