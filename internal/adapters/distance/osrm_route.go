package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"

	"github.com/paulmach/orb"
)

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
	Waypoints []struct {
		Location []float64 `json:"location"`
	} `json:"waypoints"`
}

// Route asks the engine for a driving route through waypoints, in order.
// A "NoRoute" answer is not an error: it yields a result with no candidates.
func (o *OSRMClient) Route(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if len(waypoints) < 2 {
		return ports.RouteResult{}, errors.New("osrm route: at least two waypoints are required")
	}

	parts := make([]string, 0, len(waypoints))
	for _, c := range waypoints {
		parts = append(parts, c.LngLat())
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson", o.baseURL, o.profile, coordinatePath(parts))

	resp, err := o.doWithRetry(ctx, endpoint)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && strings.Contains(he.Body, `"NoRoute"`) {
			return ports.RouteResult{}, nil
		}
		return ports.RouteResult{}, fmt.Errorf("osrm route request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode route response: %w", err)
	}

	switch rr.Code {
	case "", "Ok":
	case "NoRoute":
		return ports.RouteResult{}, nil
	default:
		return ports.RouteResult{}, fmt.Errorf("osrm route: code=%s message=%q", rr.Code, rr.Message)
	}

	out := ports.RouteResult{
		Candidates: make([]ports.RouteCandidate, 0, len(rr.Routes)),
		Snapped:    make([]domain.Coordinates, 0, len(rr.Waypoints)),
	}

	for _, r := range rr.Routes {
		line := make(orb.LineString, 0, len(r.Geometry.Coordinates))
		for _, pair := range r.Geometry.Coordinates {
			if len(pair) < 2 {
				return ports.RouteResult{}, errors.New("osrm route: invalid geometry coordinate")
			}
			line = append(line, orb.Point{pair[0], pair[1]})
		}
		out.Candidates = append(out.Candidates, ports.RouteCandidate{
			Geometry:       line,
			DistanceMeters: r.Distance,
		})
	}

	for _, w := range rr.Waypoints {
		if len(w.Location) != 2 {
			return ports.RouteResult{}, errors.New("osrm route: invalid waypoint location")
		}
		out.Snapped = append(out.Snapped, domain.Coordinates{Lon: w.Location[0], Lat: w.Location[1]})
	}

	return out, nil
}
