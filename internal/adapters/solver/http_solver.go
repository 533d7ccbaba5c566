package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mdvrp-planner/internal/adapters/wire"
	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"
)

// ErrMalformedResponse marks a solver answer that cannot be turned into routes.
var ErrMalformedResponse = errors.New("malformed solver response")

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// HTTPSolver posts problems to the remote optimizer.
// Solves can take minutes, so the per-request deadline comes from ctx.
type HTTPSolver struct {
	session *http.Client
	baseURL string
}

func NewHTTPSolver(baseURL string) (*HTTPSolver, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("solver base url is empty")
	}
	return &HTTPSolver{
		session: &http.Client{},
		baseURL: baseURL,
	}, nil
}

type mdvrpRequest struct {
	Depots     []wire.Depot      `json:"depots"`
	Customers  []wire.Customer   `json:"customers"`
	Vehicles   []wire.Vehicle    `json:"vehicles"`
	CostMatrix domain.CostMatrix `json:"costMatrix"`
}

type tpRequest struct {
	Demand     []wire.Customer   `json:"demand"`
	Supply     []wire.Depot      `json:"supply"`
	CostMatrix domain.CostMatrix `json:"costMatrix"`
}

type routeBody struct {
	ID    domain.RouteID `json:"id"`
	Route []string       `json:"route"`
	Stops []string       `json:"stops"`
}

type mdvrpResponse struct {
	Status    string       `json:"status"`
	TotalCost float64      `json:"total_cost"`
	Routes    *[]routeBody `json:"routes"`
}

func (s *HTTPSolver) SolveMDVRP(ctx context.Context, req ports.SolveRequest) (_ ports.SolveResponse, err error) {
	defer obs.Time(ctx, "solver.SolveMDVRP")(&err)

	body := mdvrpRequest{
		Depots:     wire.Depots(req.Depots),
		Customers:  wire.Customers(req.Customers),
		Vehicles:   wire.Vehicles(req.Vehicles),
		CostMatrix: req.CostMatrix,
	}

	raw, err := s.post(ctx, "/mdvrp", body)
	if err != nil {
		return ports.SolveResponse{}, fmt.Errorf("solve mdvrp: %w", err)
	}

	var parsed mdvrpResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ports.SolveResponse{}, fmt.Errorf("solve mdvrp: %w: %v", ErrMalformedResponse, err)
	}
	if parsed.Routes == nil {
		return ports.SolveResponse{}, fmt.Errorf("solve mdvrp: %w: no routes", ErrMalformedResponse)
	}

	out := ports.SolveResponse{
		Status:    parsed.Status,
		TotalCost: parsed.TotalCost,
		Routes:    make([]domain.SolverRoute, 0, len(*parsed.Routes)),
	}
	for _, r := range *parsed.Routes {
		stops := r.Route
		if stops == nil {
			stops = r.Stops
		}
		out.Routes = append(out.Routes, domain.SolverRoute{ID: r.ID, Stops: stops})
	}
	return out, nil
}

func (s *HTTPSolver) SolveTransportation(ctx context.Context, req ports.TransportationRequest) (_ json.RawMessage, err error) {
	defer obs.Time(ctx, "solver.SolveTransportation")(&err)

	body := tpRequest{
		Demand:     wire.Customers(req.Customers),
		Supply:     wire.Depots(req.Depots),
		CostMatrix: req.CostMatrix,
	}

	raw, err := s.post(ctx, "/solvetp", body)
	if err != nil {
		return nil, fmt.Errorf("solve transportation: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("solve transportation: %w: invalid json", ErrMalformedResponse)
	}
	return json.RawMessage(raw), nil
}

func (s *HTTPSolver) post(ctx context.Context, path string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}
