package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mdvrp-planner/internal/domain"
	"mdvrp-planner/internal/geo"
	"mdvrp-planner/internal/platform/metrics"
	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"

	"golang.org/x/sync/errgroup"
)

// Acceptance thresholds for a realized route geometry.
const (
	MinRouteVertices    = 3
	MinRouteMeters      = 100.0
	MaxSnapMeters       = 5000.0
	MaxSegmentMeters    = 100000.0
	DefaultGuardTimeout = 30 * time.Second
)

var (
	ErrNoRoute          = errors.New("no route")
	ErrImplausibleRoute = errors.New("implausible route")
	ErrBadTransition    = errors.New("invalid guard state transition")
)

type GuardState int

const (
	StatePending GuardState = iota
	StateValidating
	StateAccepted
	StateRejected
)

func (s GuardState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("GuardState(%d)", int(s))
	}
}

type GeometryErrorKind string

const (
	KindNoRoute     GeometryErrorKind = "no_route"
	KindImplausible GeometryErrorKind = "implausible"
)

// GeometryError is a rejection diagnostic. Marker is the original coordinate
// of the offending waypoint, or of the first waypoint for route-level failures.
type GeometryError struct {
	Kind    GeometryErrorKind
	Message string
	Marker  domain.Coordinates
}

func (e *GeometryError) Error() string { return e.Message }

func (e *GeometryError) Unwrap() error {
	if e.Kind == KindNoRoute {
		return ErrNoRoute
	}
	return ErrImplausibleRoute
}

// Attempt is one validation of one route. Accepted and Rejected are terminal;
// revalidating a route means starting a new Attempt.
type Attempt struct {
	RouteID    domain.RouteID
	Generation uint64
	State      GuardState
	Err        *GeometryError
}

func NewAttempt(id domain.RouteID, generation uint64) *Attempt {
	return &Attempt{RouteID: id, Generation: generation, State: StatePending}
}

func (a *Attempt) Dispatch() error {
	return a.transition(StatePending, StateValidating)
}

func (a *Attempt) Accept() error {
	return a.transition(StateValidating, StateAccepted)
}

func (a *Attempt) Reject(err *GeometryError) error {
	if err == nil {
		return errors.New("reject: nil diagnostic")
	}
	if e := a.transition(StateValidating, StateRejected); e != nil {
		return e
	}
	a.Err = err
	return nil
}

func (a *Attempt) Terminal() bool {
	return a.State == StateAccepted || a.State == StateRejected
}

func (a *Attempt) transition(from, to GuardState) error {
	if a.State != from {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, a.State, to)
	}
	a.State = to
	return nil
}

// CheckGeometry applies the acceptance rules in order and reports the first failure.
func CheckGeometry(waypoints []domain.Coordinates, res ports.RouteResult) *GeometryError {
	var first domain.Coordinates
	if len(waypoints) > 0 {
		first = waypoints[0]
	}

	var cand *ports.RouteCandidate
	for i := range res.Candidates {
		if len(res.Candidates[i].Geometry) >= MinRouteVertices {
			cand = &res.Candidates[i]
			break
		}
	}
	if cand == nil {
		return &GeometryError{Kind: KindNoRoute, Message: "No route found between waypoints", Marker: first}
	}

	if cand.DistanceMeters < MinRouteMeters {
		return &GeometryError{
			Kind:    KindImplausible,
			Message: fmt.Sprintf("Route distance %.0f m is too short; waypoints may be identical or invalid", cand.DistanceMeters),
			Marker:  first,
		}
	}

	for i, wp := range waypoints {
		if i >= len(res.Snapped) {
			break
		}
		if d := geo.Distance(wp, res.Snapped[i]); d > MaxSnapMeters {
			return &GeometryError{
				Kind:    KindImplausible,
				Message: fmt.Sprintf("Waypoint %d is %.1f km from the nearest road", i+1, d/1000),
				Marker:  wp,
			}
		}
	}

	for i := 1; i < len(cand.Geometry); i++ {
		a := domain.FromPoint(cand.Geometry[i-1])
		b := domain.FromPoint(cand.Geometry[i])
		if d := geo.Distance(a, b); d > MaxSegmentMeters {
			return &GeometryError{
				Kind:    KindImplausible,
				Message: fmt.Sprintf("Segment of %.1f km between vertices %d and %d; probable ocean crossing", d/1000, i, i+1),
				Marker:  first,
			}
		}
	}

	return nil
}

// Guard validates realized route geometry against a routing engine.
type Guard struct {
	engine  ports.RouteEngine
	timeout time.Duration
	notices *NoticeBoard
}

// NewGuard builds a guard. timeout <= 0 selects DefaultGuardTimeout; notices may be nil.
func NewGuard(engine ports.RouteEngine, timeout time.Duration, notices *NoticeBoard) *Guard {
	if timeout <= 0 {
		timeout = DefaultGuardTimeout
	}
	return &Guard{engine: engine, timeout: timeout, notices: notices}
}

// Validate runs one attempt to a terminal state. The timeout is local to
// this call and applies even if the engine ignores its context. If the
// caller's ctx ends first the attempt is left Validating.
func (g *Guard) Validate(parent context.Context, generation uint64, route domain.Route) *Attempt {
	a := NewAttempt(route.ID, generation)
	_ = a.Dispatch()

	waypoints := route.Waypoints()
	var first domain.Coordinates
	if len(waypoints) > 0 {
		first = waypoints[0]
	}

	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	type answer struct {
		res ports.RouteResult
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		res, err := g.engine.Route(ctx, waypoints)
		ch <- answer{res: res, err: err}
	}()

	var ans answer
	select {
	case ans = <-ch:
	case <-ctx.Done():
		ans.err = ctx.Err()
	}

	if parent.Err() != nil {
		return a
	}

	switch {
	case errors.Is(ans.err, context.DeadlineExceeded):
		_ = a.Reject(&GeometryError{
			Kind:    KindNoRoute,
			Message: fmt.Sprintf("Route validation timed out after %s", g.timeout),
			Marker:  first,
		})
	case ans.err != nil:
		_ = a.Reject(&GeometryError{
			Kind:    KindNoRoute,
			Message: fmt.Sprintf("Routing engine error: %v", ans.err),
			Marker:  first,
		})
	default:
		if gerr := CheckGeometry(waypoints, ans.res); gerr != nil {
			_ = a.Reject(gerr)
		} else {
			_ = a.Accept()
		}
	}
	return a
}

// ValidateAll validates every route concurrently with no ordering between them.
// current reports the live generation; attempts that finish after it moved
// are discarded without a notice, and the call returns ErrStale. A cancelled
// ctx discards every attempt the same way and returns ctx.Err().
func (g *Guard) ValidateAll(ctx context.Context, generation uint64, current func() uint64, routes []domain.Route) (_ []*Attempt, err error) {
	defer obs.Time(ctx, "guard.ValidateAll")(&err)

	stale := func() bool { return current != nil && current() != generation }

	results := make([]*Attempt, len(routes))
	var eg errgroup.Group
	for i, r := range routes {
		i, r := i, r
		eg.Go(func() error {
			a := g.Validate(ctx, generation, r)
			if !a.Terminal() || stale() {
				return nil
			}
			g.record(ctx, a)
			results[i] = a
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if stale() {
		return nil, ErrStale
	}
	return results, nil
}

func (g *Guard) record(ctx context.Context, a *Attempt) {
	kind := ""
	if a.Err != nil {
		kind = string(a.Err.Kind)
	}
	metrics.GeometryValidations.WithLabelValues(a.State.String(), kind).Inc()

	if a.State != StateRejected {
		return
	}
	log.Printf("req_id=%s op=guard route=%s state=%s kind=%s msg=%q",
		obs.RequestID(ctx), a.RouteID, a.State, a.Err.Kind, a.Err.Message)
	if g.notices != nil {
		marker := a.Err.Marker
		g.notices.Post(Notice{
			RouteID: a.RouteID,
			Kind:    string(a.Err.Kind),
			Message: a.Err.Message,
			Marker:  &marker,
		})
	}
}
