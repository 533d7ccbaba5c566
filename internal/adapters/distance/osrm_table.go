package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"
)

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
}

// Table fetches the full pairwise distance table for coords in one request.
// Unroutable pairs come back as nil cells.
func (o *OSRMClient) Table(
	ctx context.Context,
	coords []domain.Coordinates,
) (_ ports.TableResult, err error) {
	defer obs.Time(ctx, "osrm.Table")(&err)

	if len(coords) == 0 {
		return ports.TableResult{}, errors.New("osrm table: at least one coordinate is required")
	}

	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, c.LngLat())
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s?annotations=distance", o.baseURL, o.profile, coordinatePath(parts))

	resp, err := o.doWithRetry(ctx, endpoint)
	if err != nil {
		return ports.TableResult{}, fmt.Errorf("osrm table request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return ports.TableResult{}, fmt.Errorf("decode table response: %w", err)
	}

	if tr.Code != "" && tr.Code != "Ok" {
		return ports.TableResult{}, fmt.Errorf("osrm table: code=%s message=%q", tr.Code, tr.Message)
	}

	if tr.Distances == nil {
		return ports.TableResult{}, errors.New("osrm table: response has no distances")
	}

	return ports.TableResult{Distances: tr.Distances}, nil
}
