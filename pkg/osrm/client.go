package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fleetdash/service-fleet/internal/domain/geo"
)

// ErrNoRoad is returned when the nearest lookup yields no waypoint.
var ErrNoRoad = errors.New("osrm: no road near point")

// Client talks to an OSRM-compatible routing server for road snapping and
// route polylines.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given OSRM base URL
// (e.g. "https://router.project-osrm.org").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type nearestResponse struct {
	Code      string `json:"code"`
	Waypoints []struct {
		Location [2]float64 `json:"location"` // [lon, lat]
	} `json:"waypoints"`
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// Nearest snaps a coordinate to the closest point on the road network.
// Returns ErrNoRoad when OSRM has no candidate.
func (c *Client) Nearest(ctx context.Context, p geo.Point) (geo.Point, error) {
	reqURL := fmt.Sprintf("%s/nearest/v1/driving/%f,%f", c.baseURL, p.Lon, p.Lat)

	var out nearestResponse
	if err := c.get(ctx, reqURL, &out); err != nil {
		return geo.Point{}, err
	}

	if len(out.Waypoints) == 0 {
		return geo.Point{}, ErrNoRoad
	}

	loc := out.Waypoints[0].Location
	return geo.Point{Lat: loc[1], Lon: loc[0]}, nil
}

// Route fetches a drivable polyline through the given ordered points. The
// result is cosmetic; it is never used in validation.
func (c *Client) Route(ctx context.Context, points []geo.Point) ([]geo.Point, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("osrm: route needs at least 2 points, got %d", len(points))
	}

	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%f,%f", p.Lon, p.Lat)
	}
	reqURL := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=geojson",
		c.baseURL, strings.Join(coords, ";"))

	var out routeResponse
	if err := c.get(ctx, reqURL, &out); err != nil {
		return nil, err
	}

	if len(out.Routes) == 0 {
		return nil, nil
	}

	path := make([]geo.Point, len(out.Routes[0].Geometry.Coordinates))
	for i, c := range out.Routes[0].Geometry.Coordinates {
		path[i] = geo.Point{Lat: c[1], Lon: c[0]}
	}
	return path, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
