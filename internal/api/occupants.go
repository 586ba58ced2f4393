package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tichopad/consumptions/internal/billing"
	"github.com/tichopad/consumptions/internal/storage"
)

type occupantRequest struct {
	Name                         string              `json:"name" validate:"required,max=200"`
	SquareMeters                 decimal.Decimal     `json:"squareMeters" validate:"gt=0"`
	ChargedUnmeasuredElectricity bool                `json:"chargedUnmeasuredElectricity"`
	ChargedUnmeasuredHeating     bool                `json:"chargedUnmeasuredHeating"`
	ChargedUnmeasuredWater       bool                `json:"chargedUnmeasuredWater"`
	HeatingFixedCostShare        decimal.NullDecimal `json:"heatingFixedCostShare" validate:"omitempty,gte=0"`
}

func (req occupantRequest) apply(o *storage.Occupant) {
	o.Name = req.Name
	o.SquareMeters = req.SquareMeters
	o.ChargedUnmeasuredElectricity = req.ChargedUnmeasuredElectricity
	o.ChargedUnmeasuredHeating = req.ChargedUnmeasuredHeating
	o.ChargedUnmeasuredWater = req.ChargedUnmeasuredWater
	o.HeatingFixedCostShare = req.HeatingFixedCostShare
}

type deviceRequest struct {
	Name       string             `json:"name" validate:"required,max=200"`
	EnergyType billing.EnergyType `json:"energyType" validate:"required,oneof=electricity heating water"`
}

func (a *API) listOccupants(w http.ResponseWriter, r *http.Request, buildingID string) {
	list, err := a.store.ListOccupants(r.Context(), buildingID, includeArchived(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createOccupant(w http.ResponseWriter, r *http.Request, buildingID string) {
	var req occupantRequest
	if err := a.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := a.store.GetBuilding(r.Context(), buildingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if b == nil {
		writeError(w, r, notFound("building", buildingID))
		return
	}
	o := storage.Occupant{ID: uuid.New().String(), BuildingID: buildingID}
	req.apply(&o)
	if err := a.store.CreateOccupant(r.Context(), o); err != nil {
		writeError(w, r, err)
		return
	}
	a.respondOccupant(w, r, o.ID, http.StatusCreated)
}

func (a *API) getOccupant(w http.ResponseWriter, r *http.Request, id string) {
	a.respondOccupant(w, r, id, http.StatusOK)
}

func (a *API) respondOccupant(w http.ResponseWriter, r *http.Request, id string, status int) {
	o, err := a.store.GetOccupant(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if o == nil {
		writeError(w, r, notFound("occupant", id))
		return
	}
	writeJSON(w, status, o)
}

func (a *API) updateOccupant(w http.ResponseWriter, r *http.Request, id string) {
	var req occupantRequest
	if err := a.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := a.store.GetOccupant(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if o == nil {
		writeError(w, r, notFound("occupant", id))
		return
	}
	req.apply(o)
	if err := a.store.UpdateOccupant(r.Context(), *o); err != nil {
		writeError(w, r, err)
		return
	}
	a.respondOccupant(w, r, id, http.StatusOK)
}

func (a *API) archiveOccupant(w http.ResponseWriter, r *http.Request, id string, archive bool) {
	op := a.store.RestoreOccupant
	if archive {
		op = a.store.ArchiveOccupant
	}
	if err := op(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	a.respondOccupant(w, r, id, http.StatusOK)
}

func (a *API) deleteOccupant(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.store.DeleteOccupant(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Measuring devices

func (a *API) listDevices(w http.ResponseWriter, r *http.Request, occupantID string) {
	list, err := a.store.ListMeasuringDevices(r.Context(), occupantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createDevice(w http.ResponseWriter, r *http.Request, occupantID string) {
	var req deviceRequest
	if err := a.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := a.store.GetOccupant(r.Context(), occupantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if o == nil {
		writeError(w, r, notFound("occupant", occupantID))
		return
	}
	d := storage.MeasuringDevice{
		ID:         uuid.New().String(),
		OccupantID: occupantID,
		Name:       req.Name,
		EnergyType: req.EnergyType,
	}
	if err := a.store.CreateMeasuringDevice(r.Context(), d); err != nil {
		writeError(w, r, err)
		return
	}
	a.respondDevice(w, r, d.ID, http.StatusCreated)
}

func (a *API) getDevice(w http.ResponseWriter, r *http.Request, id string) {
	a.respondDevice(w, r, id, http.StatusOK)
}

func (a *API) respondDevice(w http.ResponseWriter, r *http.Request, id string, status int) {
	d, err := a.store.GetMeasuringDevice(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if d == nil {
		writeError(w, r, notFound("measuring device", id))
		return
	}
	writeJSON(w, status, d)
}

func (a *API) updateDevice(w http.ResponseWriter, r *http.Request, id string) {
	var req deviceRequest
	if err := a.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := a.store.GetMeasuringDevice(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if d == nil {
		writeError(w, r, notFound("measuring device", id))
		return
	}
	d.Name = req.Name
	d.EnergyType = req.EnergyType
	if err := a.store.UpdateMeasuringDevice(r.Context(), *d); err != nil {
		writeError(w, r, err)
		return
	}
	a.respondDevice(w, r, id, http.StatusOK)
}

func (a *API) deleteDevice(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.store.DeleteMeasuringDevice(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listConsumptionRecords(w http.ResponseWriter, r *http.Request, deviceID string) {
	list, err := a.store.ListConsumptionRecords(r.Context(), deviceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
