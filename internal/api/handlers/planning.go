package handlers

import (
	"net/http"

	"mdvrp-planner/internal/api/dto"
	"mdvrp-planner/internal/services"

	"github.com/gorilla/mux"
)

type PlanningHandler struct {
	Scenarios *services.Scenarios
	Planner   *services.Planner
}

func (h *PlanningHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	sess, err := h.Scenarios.Session(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err, true)
		return nil, false
	}
	return sess, true
}

// Validation returns the current violation report. Violations are data, so this is always 200.
func (h *PlanningHandler) Validation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	report, gen := h.Planner.Validate(sess)
	writeJSON(w, r, http.StatusOK, dto.ValidationResponse{
		Generation: gen,
		Valid:      report.OK(),
		Violations: report,
	})
}

func (h *PlanningHandler) CostMatrix(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	m, source, gen, err := h.Planner.CostMatrix(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, err, false)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.CostMatrixResponse{Generation: gen, Source: string(source), Matrix: m})
}

// Plan solves the scenario. Input violations block the solver and come back as 422.
func (h *PlanningHandler) Plan(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.Planner.Plan(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	if !res.Violations.OK() {
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ViolationsResponse{
			Error:      "scenario has validation errors",
			Generation: res.Generation,
			Violations: res.Violations,
		})
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PlanResponse{
		Generation:   res.Generation,
		Status:       res.Plan.Status,
		TotalCost:    res.Plan.TotalCost,
		MatrixSource: string(res.MatrixSource),
		Routes:       dto.FromRoutes(res.Plan.Routes),
		Dropped:      res.Dropped,
	})
}

func (h *PlanningHandler) Transportation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.Planner.Transportation(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.TransportationResponse{
		Generation:   res.Generation,
		MatrixSource: string(res.MatrixSource),
		CostMatrix:   res.CostMatrix,
		Result:       res.Result,
	})
}

// ValidateRoutes runs the geometry guard over the last plan.
func (h *PlanningHandler) ValidateRoutes(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	attempts, err := h.Planner.ValidateRoutes(r.Context(), sess)
	if err != nil {
		writeServiceError(w, r, err, false)
		return
	}

	res := dto.RouteValidationResponse{Routes: make([]dto.RouteCheckResponse, 0, len(attempts))}
	for _, a := range attempts {
		if a == nil {
			continue
		}
		res.Generation = a.Generation
		check := dto.RouteCheckResponse{ID: string(a.RouteID), State: a.State.String()}
		if a.Err != nil {
			check.Kind = string(a.Err.Kind)
			check.Message = a.Err.Message
			check.Marker = &dto.Marker{Lat: a.Err.Marker.Lat, Lng: a.Err.Marker.Lon}
		}
		res.Routes = append(res.Routes, check)
	}
	writeJSON(w, r, http.StatusOK, res)
}
