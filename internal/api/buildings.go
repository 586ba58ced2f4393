package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tichopad/consumptions/internal/storage"
)

type buildingRequest struct {
	Name         string              `json:"name" validate:"required,max=200"`
	Address      string              `json:"address" validate:"max=500"`
	SquareMeters decimal.NullDecimal `json:"squareMeters" validate:"omitempty,gt=0"`
}

func (a *API) listBuildings(w http.ResponseWriter, r *http.Request) {
	list, err := a.store.ListBuildings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createBuilding(w http.ResponseWriter, r *http.Request) {
	var req buildingRequest
	if err := a.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b := storage.Building{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Address:      req.Address,
		SquareMeters: req.SquareMeters,
	}
	if err := a.store.CreateBuilding(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	a.respondBuilding(w, r, b.ID, http.StatusCreated)
}

func (a *API) getBuilding(w http.ResponseWriter, r *http.Request, id string) {
	a.respondBuilding(w, r, id, http.StatusOK)
}

func (a *API) respondBuilding(w http.ResponseWriter, r *http.Request, id string, status int) {
	b, err := a.store.GetBuilding(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if b == nil {
		writeError(w, r, notFound("building", id))
		return
	}
	writeJSON(w, status, b)
}

func (a *API) updateBuilding(w http.ResponseWriter, r *http.Request, id string) {
	var req buildingRequest
	if err := a.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := a.store.GetBuilding(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if b == nil {
		writeError(w, r, notFound("building", id))
		return
	}
	b.Name = req.Name
	b.Address = req.Address
	b.SquareMeters = req.SquareMeters
	if err := a.store.UpdateBuilding(r.Context(), *b); err != nil {
		writeError(w, r, err)
		return
	}
	a.respondBuilding(w, r, id, http.StatusOK)
}

func (a *API) deleteBuilding(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.store.DeleteBuilding(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
