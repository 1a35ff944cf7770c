package routeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/pkg/routing/models"
)

const (
	HeaderRequestID = "X-Request-ID"
	UserAgent       = "rotaplan/1.0"

	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 64 * 1024
)

// HTTPClient talks to the route-planning service over plain HTTP/JSON.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

var (
	_ Geocoder = (*HTTPClient)(nil)
	_ Planner  = (*HTTPClient)(nil)
)

// NewHTTPClient creates a client for baseURL. A zero timeout means requests
// are only bounded by their context.
func NewHTTPClient(baseURL string, timeout time.Duration, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Geocode resolves free text to candidate places.
func (c *HTTPClient) Geocode(ctx context.Context, query string) (*models.GeocodeResponse, error) {
	endpoint := fmt.Sprintf("%s/geocode?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var result models.GeocodeResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	if result.Error != "" {
		c.logger.Warn("Geocoding returned a warning", "query", query, "warning", result.Error)
	}
	if result.Results == nil {
		result.Results = []models.GeocodeResult{}
	}

	c.logger.Debug("Geocoding finished", "query", query, "results", len(result.Results))
	return &result, nil
}

// Plan fetches the drive / transit / park-and-ride comparison for a pair.
func (c *HTTPClient) Plan(ctx context.Context, origin, destination models.Location) (*models.PlanResponse, error) {
	payload, err := json.Marshal(models.NewPlanRequest(origin, destination))
	if err != nil {
		return nil, fmt.Errorf("encoding plan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/plan", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var plan models.PlanResponse
	if err := c.do(req, &plan); err != nil {
		return nil, err
	}

	if err := plan.Validate(); err != nil {
		c.logger.Error("Plan response failed validation", "error", err)
		return nil, fmt.Errorf("invalid plan response: %w", err)
	}

	c.logger.Info("Route plan received",
		"origin", origin.Label(),
		"destination", destination.Label(),
		"car_only_min", plan.CarOnlyMin,
		"transit_min", plan.TransitOnly.TotalMin,
		"park_and_ride_options", len(plan.ParkAndRideOptions))

	return &plan, nil
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	c.logger.Debug("Sending request", "method", req.Method, "url", req.URL.String(), "request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request",
			"method", req.Method,
			"url", req.URL.String(),
			"request_id", requestID,
			"error", err)
		return fmt.Errorf("executing request to %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("API returned error status",
			"status_code", resp.StatusCode,
			"url", req.URL.String(),
			"request_id", requestID,
			"response_body", string(body))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}

	c.logger.Debug("Request completed",
		"url", req.URL.Path,
		"status_code", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	return nil
}
