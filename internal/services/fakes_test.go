package services

import (
	"context"
	"encoding/json"
	"sync"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/ports"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]map[string]ports.DistanceResult
	puts int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]map[string]ports.DistanceResult)}
}

func (c *memCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]ports.DistanceResult)
	for _, d := range destinations {
		if r, ok := c.data[origin][d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memCache) PutMany(ctx context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.puts++
	if c.data[origin] == nil {
		c.data[origin] = make(map[string]ports.DistanceResult)
	}
	for k, v := range results {
		c.data[origin][k] = v
	}
	return nil
}

type fakeSolver struct {
	mu      sync.Mutex
	resp    ports.SolveResponse
	tp      json.RawMessage
	err     error
	calls   int
	last    ports.SolveRequest
	during  func()
	release chan struct{}
	entered chan struct{}
}

func (f *fakeSolver) SolveMDVRP(ctx context.Context, req ports.SolveRequest) (ports.SolveResponse, error) {
	f.mu.Lock()
	f.calls++
	f.last = req
	during, release, entered := f.during, f.release, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if during != nil {
		during()
	}
	return f.resp, f.err
}

func (f *fakeSolver) SolveTransportation(ctx context.Context, req ports.TransportationRequest) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.tp, f.err
}

func (f *fakeSolver) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type engineFunc func(ctx context.Context, waypoints []domain.Coordinates) (ports.RouteResult, error)

func (f engineFunc) Route(ctx context.Context, waypoints []domain.Coordinates) (ports.RouteResult, error) {
	return f(ctx, waypoints)
}
