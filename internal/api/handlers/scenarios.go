package handlers

import (
	"context"
	"net/http"
	"strings"

	"mdvrp-planner/internal/api/dto"
	"mdvrp-planner/internal/services"

	"github.com/gorilla/mux"
)

type ScenarioHandler struct {
	Scenarios *services.Scenarios
}

func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Scenarios.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}

	res := dto.ListScenariosResponse{Scenarios: make([]dto.ScenarioSummary, 0, len(list))}
	for _, s := range list {
		res.Scenarios = append(res.Scenarios, dto.ScenarioSummary{ID: s.ID, Name: s.Name, Date: s.Date})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sc, err := h.Scenarios.Create(r.Context(), req.ToDomain())
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}

	sess, err := h.Scenarios.Session(r.Context(), sc.ID)
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	writeScenario(w, r, http.StatusCreated, sess)
}

func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Scenarios.Session(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	writeScenario(w, r, http.StatusOK, sess)
}

func (h *ScenarioHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req dto.RenameScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Scenarios.Rename(r.Context(), id, req.Name); err != nil {
		writeServiceError(w, r, err, true)
		return
	}

	sess, err := h.Scenarios.Session(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	writeScenario(w, r, http.StatusOK, sess)
}

func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Scenarios.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScenarioHandler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.Customer
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Scenarios.AddCustomer(r.Context(), mux.Vars(r)["id"], req.ToDomain())
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.FromCustomer(c))
}

func (h *ScenarioHandler) AddDepot(w http.ResponseWriter, r *http.Request) {
	var req dto.Depot
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.Scenarios.AddDepot(r.Context(), mux.Vars(r)["id"], req.ToDomain())
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.FromDepot(d))
}

func (h *ScenarioHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var req dto.Vehicle
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Scenarios.AddVehicle(r.Context(), mux.Vars(r)["id"], req.ToDomain())
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.FromVehicle(v))
}

func (h *ScenarioHandler) RemoveCustomer(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.Scenarios.RemoveCustomer)
}

func (h *ScenarioHandler) RemoveDepot(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.Scenarios.RemoveDepot)
}

func (h *ScenarioHandler) RemoveVehicle(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.Scenarios.RemoveVehicle)
}

func (h *ScenarioHandler) remove(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, scenarioID, id string) error) {
	vars := mux.Vars(r)
	if err := fn(r.Context(), vars["id"], vars["entityID"]); err != nil {
		writeServiceError(w, r, err, true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeScenario(w http.ResponseWriter, r *http.Request, status int, sess *services.Session) {
	sc, gen := sess.Snapshot()
	writeJSON(w, r, status, dto.FromScenario(sc, gen, sess.Solving()))
}
