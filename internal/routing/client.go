// Package routing wraps the OpenRouteService REST API: geocoding and
// turn-by-turn directions for HGV (heavy goods vehicle) profiles.
//
// Grounded on the original Python implementation's thin wrapper around
// the openrouteservice SDK (backend/trips/routing_client.py); no Go SDK
// for ORS exists in the ecosystem, so this talks to the plain REST API
// directly with net/http, exactly as the Python original talks to ORS's
// plain REST API underneath its SDK.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	hoserrors "github.com/draymaster/hos-planner/shared/pkg/errors"
)

// LngLat is a waypoint in ORS's native (longitude, latitude) ordering.
type LngLat struct {
	Lng float64
	Lat float64
}

// Leg is one scored leg of a multi-waypoint route.
type Leg struct {
	DistanceMiles  float64
	DurationMinutes float64
}

// DirectionsResult is the subset of an ORS directions response this
// service consumes.
type DirectionsResult struct {
	DistanceMiles   float64
	DurationMinutes float64
	Geometry        string // encoded polyline, precision 5
	Legs            []Leg
	BBox            []float64
}

// Client is a minimal OpenRouteService REST client.
type Client struct {
	apiKey     string
	baseURL    string
	profile    string
	httpClient *http.Client
}

// NewClient builds a Client. apiKey must be non-empty; ORS rejects
// unauthenticated requests.
func NewClient(apiKey, baseURL, profile string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a free-text address to (lng, lat) — ORS's native
// ordering — via the Pelias search endpoint.
func (c *Client) Geocode(ctx context.Context, address string) (LngLat, error) {
	if c.apiKey == "" {
		return LngLat{}, hoserrors.UpstreamError("openrouteservice", fmt.Errorf("ORS_API_KEY is not configured"))
	}

	endpoint := fmt.Sprintf("%s/geocode/search?api_key=%s&text=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return LngLat{}, hoserrors.UpstreamError("openrouteservice", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LngLat{}, hoserrors.UpstreamError("openrouteservice", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LngLat{}, hoserrors.UpstreamError("openrouteservice", fmt.Errorf("geocode request failed: status %d", resp.StatusCode))
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return LngLat{}, hoserrors.UpstreamError("openrouteservice", err)
	}
	if len(out.Features) == 0 || len(out.Features[0].Geometry.Coordinates) < 2 {
		return LngLat{}, hoserrors.ValidationError(fmt.Sprintf("could not geocode address: %s", address), "address", address)
	}

	coords := out.Features[0].Geometry.Coordinates
	return LngLat{Lng: coords[0], Lat: coords[1]}, nil
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Units       string       `json:"units"`
	Geometry    bool         `json:"geometry"`
	Instructions bool        `json:"instructions"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
		BBox     []float64 `json:"bbox"`
		Segments []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"segments"`
	} `json:"routes"`
}

// Directions fetches driving directions between ordered (lng, lat)
// waypoints, returning total distance/duration, the encoded route
// geometry, and a per-leg breakdown matching the waypoint segments.
func (c *Client) Directions(ctx context.Context, waypoints []LngLat) (*DirectionsResult, error) {
	if c.apiKey == "" {
		return nil, hoserrors.UpstreamError("openrouteservice", fmt.Errorf("ORS_API_KEY is not configured"))
	}
	if len(waypoints) < 2 {
		return nil, hoserrors.ValidationError("at least two waypoints are required", "waypoints", len(waypoints))
	}

	coords := make([][2]float64, len(waypoints))
	for i, w := range waypoints {
		coords[i] = [2]float64{w.Lng, w.Lat}
	}

	body, err := json.Marshal(directionsRequest{
		Coordinates:  coords,
		Units:        "mi",
		Geometry:     true,
		Instructions: false,
	})
	if err != nil {
		return nil, hoserrors.UpstreamError("openrouteservice", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/json", c.baseURL, c.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, hoserrors.UpstreamError("openrouteservice", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, hoserrors.UpstreamError("openrouteservice", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, hoserrors.UpstreamError("openrouteservice", fmt.Errorf("directions request failed: status %d", resp.StatusCode))
	}

	var out directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, hoserrors.UpstreamError("openrouteservice", err)
	}
	if len(out.Routes) == 0 {
		return nil, hoserrors.UpstreamError("openrouteservice", fmt.Errorf("no route found between waypoints"))
	}

	route := out.Routes[0]
	legs := make([]Leg, 0, len(route.Segments))
	for _, seg := range route.Segments {
		legs = append(legs, Leg{
			DistanceMiles:   seg.Distance,
			DurationMinutes: seg.Duration / 60,
		})
	}

	return &DirectionsResult{
		DistanceMiles:   route.Summary.Distance,
		DurationMinutes: route.Summary.Duration / 60,
		Geometry:        route.Geometry,
		Legs:            legs,
		BBox:            route.BBox,
	}, nil
}
