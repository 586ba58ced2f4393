package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tichopad/consumptions/internal/billing"
	"github.com/tichopad/consumptions/internal/bills"
)

type energyRequest struct {
	EnergyType       billing.EnergyType  `json:"energyType" validate:"required,oneof=electricity heating water"`
	TotalConsumption decimal.Decimal     `json:"totalConsumption" validate:"gte=0"`
	TotalCost        decimal.Decimal     `json:"totalCost"`
	FixedCost        decimal.NullDecimal `json:"fixedCost"`
}

type billingPeriodRequest struct {
	StartDate time.Time                  `json:"startDate" validate:"required"`
	EndDate   time.Time                  `json:"endDate" validate:"required,gtefield=StartDate"`
	Energies  []energyRequest            `json:"energies" validate:"required,min=1,dive"`
	Readings  map[string]decimal.Decimal `json:"readings" validate:"omitempty,dive,gte=0"`
}

func (req billingPeriodRequest) toCreateRequest(buildingID string) bills.CreateRequest {
	out := bills.CreateRequest{
		BuildingID: buildingID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Readings:   req.Readings,
	}
	for _, e := range req.Energies {
		out.Energies = append(out.Energies, bills.EnergyTotals{
			EnergyType:       e.EnergyType,
			TotalConsumption: e.TotalConsumption,
			TotalCost:        e.TotalCost,
			FixedCost:        e.FixedCost,
		})
	}
	return out
}

func (a *API) listBillingPeriods(w http.ResponseWriter, r *http.Request, buildingID string) {
	list, err := a.bills.ListBillingPeriods(r.Context(), buildingID, includeArchived(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createBillingPeriod calculates the bills of a new period. A preview
// returns the calculation without storing it.
func (a *API) createBillingPeriod(w http.ResponseWriter, r *http.Request, buildingID string, preview bool) {
	var req billingPeriodRequest
	if err := a.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	create := req.toCreateRequest(buildingID)

	if preview {
		stmt, err := a.bills.Calculate(r.Context(), create)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stmt)
		return
	}
	stmt, err := a.bills.CreateBillingPeriod(r.Context(), create)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stmt)
}

func (a *API) getBillingPeriod(w http.ResponseWriter, r *http.Request, id string) {
	stmt, err := a.bills.GetBillingPeriod(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stmt)
}

func (a *API) archiveBillingPeriod(w http.ResponseWriter, r *http.Request, id string, archive bool) {
	op := a.bills.RestoreBillingPeriod
	if archive {
		op = a.bills.ArchiveBillingPeriod
	}
	if err := op(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	a.getBillingPeriod(w, r, id)
}

func (a *API) deleteBillingPeriod(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.bills.DeleteBillingPeriod(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) exportBillingPeriod(w http.ResponseWriter, r *http.Request, id, format string) {
	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case "pdf":
		data, err = a.bills.ExportPDF(r.Context(), id)
		contentType = "application/pdf"
	default:
		data, err = a.bills.ExportXLSX(r.Context(), id)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=billing-period-%s.%s", id, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
