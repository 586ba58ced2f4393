package bills

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tichopad/consumptions/internal/billing"
	"github.com/tichopad/consumptions/internal/metrics"
	"github.com/tichopad/consumptions/internal/storage"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("bills: invalid request")

// EnergyTotals are the building-level figures of one energy type.
type EnergyTotals struct {
	EnergyType       billing.EnergyType  `json:"energyType" yaml:"energyType"`
	TotalConsumption decimal.Decimal     `json:"totalConsumption" yaml:"totalConsumption"`
	TotalCost        decimal.Decimal     `json:"totalCost" yaml:"totalCost"`
	FixedCost        decimal.NullDecimal `json:"fixedCost" yaml:"fixedCost"`
}

// CreateRequest describes a billing period to calculate.
type CreateRequest struct {
	BuildingID string
	StartDate  time.Time
	EndDate    time.Time
	Energies   []EnergyTotals
	// Readings maps a measuring device id to its consumption over the period.
	Readings map[string]decimal.Decimal
}

// Statement is a billing period together with everything calculated for it.
type Statement struct {
	Period  storage.BillingPeriod       `json:"period"`
	Bills   []storage.EnergyBill        `json:"bills"`
	Records []storage.ConsumptionRecord `json:"consumptionRecords,omitempty"`
}

// Service coordinates bill calculation and billing period lifecycle.
type Service struct {
	store storage.Storage
	newID func() string
}

func NewService(st storage.Storage) *Service {
	return &Service{
		store: st,
		newID: func() string { return uuid.New().String() },
	}
}

// Calculate runs the engine for every requested energy type without
// persisting anything.
func (s *Service) Calculate(ctx context.Context, req CreateRequest) (*Statement, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	b, err := s.store.GetBuilding(ctx, req.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("get building: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("building %s: %w", req.BuildingID, storage.ErrNotFound)
	}
	occupants, err := s.store.ListCalculationOccupants(ctx, req.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("list calculation occupants: %w", err)
	}
	if err := checkReadings(req.Readings, occupants); err != nil {
		return nil, err
	}

	stmt := &Statement{
		Period: storage.BillingPeriod{
			ID:         s.newID(),
			BuildingID: req.BuildingID,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
		},
	}
	calcOccupants := toCalculationOccupants(occupants, req.Readings)
	for _, e := range req.Energies {
		in := billing.Input{
			BillingPeriodID:  stmt.Period.ID,
			BuildingID:       req.BuildingID,
			EnergyType:       e.EnergyType,
			TotalConsumption: e.TotalConsumption,
			TotalCost:        e.TotalCost,
			FixedCost:        e.FixedCost,
			DateRange:        billing.DateRange{Start: req.StartDate, End: req.EndDate},
			Occupants:        calcOccupants,
		}

		started := time.Now()
		out, err := billing.CalculateBills(in)
		metrics.ObserveCalculation(string(e.EnergyType), outcome(err), started)
		if err != nil {
			return nil, fmt.Errorf("calculate %s: %w", e.EnergyType, err)
		}

		for _, bill := range out.BillsToInsert {
			stmt.Bills = append(stmt.Bills, s.toStoredBill(bill, len(stmt.Bills)))
		}
		for _, rec := range out.ConsumptionRecordsToInsert {
			stmt.Records = append(stmt.Records, storage.ConsumptionRecord{
				ID:                s.newID(),
				BillingPeriodID:   stmt.Period.ID,
				MeasuringDeviceID: rec.MeasuringDeviceID,
				EnergyType:        rec.EnergyType,
				StartDate:         rec.StartDate,
				EndDate:           rec.EndDate,
				Consumption:       rec.Consumption,
			})
		}
	}
	return stmt, nil
}

// CreateBillingPeriod calculates and persists a billing period. Any engine
// error aborts the whole period.
func (s *Service) CreateBillingPeriod(ctx context.Context, req CreateRequest) (*Statement, error) {
	stmt, err := s.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveBillingPeriod(ctx, stmt.Period, stmt.Bills, stmt.Records); err != nil {
		return nil, fmt.Errorf("save billing period: %w", err)
	}
	metrics.AddPersistedRows(len(stmt.Bills), len(stmt.Records))
	metrics.BillingPeriodsTotal.WithLabelValues("create").Inc()
	log.Printf("bills: created billing period id=%s building=%s bills=%d records=%d",
		stmt.Period.ID, stmt.Period.BuildingID, len(stmt.Bills), len(stmt.Records))

	if p, err := s.store.GetBillingPeriod(ctx, stmt.Period.ID); err == nil && p != nil {
		stmt.Period = *p
	}
	return stmt, nil
}

// GetBillingPeriod returns the period with its bills.
func (s *Service) GetBillingPeriod(ctx context.Context, id string) (*Statement, error) {
	p, err := s.store.GetBillingPeriod(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get billing period: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("billing period %s: %w", id, storage.ErrNotFound)
	}
	bills, err := s.store.ListEnergyBills(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list energy bills: %w", err)
	}
	return &Statement{Period: *p, Bills: bills}, nil
}

func (s *Service) ListBillingPeriods(ctx context.Context, buildingID string, includeArchived bool) ([]storage.BillingPeriod, error) {
	return s.store.ListBillingPeriods(ctx, buildingID, includeArchived)
}

func (s *Service) ArchiveBillingPeriod(ctx context.Context, id string) error {
	return s.lifecycle(ctx, "archive", id, s.store.ArchiveBillingPeriod)
}

func (s *Service) RestoreBillingPeriod(ctx context.Context, id string) error {
	return s.lifecycle(ctx, "restore", id, s.store.RestoreBillingPeriod)
}

func (s *Service) DeleteBillingPeriod(ctx context.Context, id string) error {
	return s.lifecycle(ctx, "delete", id, s.store.DeleteBillingPeriod)
}

func (s *Service) lifecycle(ctx context.Context, action, id string, op func(context.Context, string) error) error {
	if err := op(ctx, id); err != nil {
		return fmt.Errorf("%s billing period %s: %w", action, id, err)
	}
	metrics.BillingPeriodsTotal.WithLabelValues(action).Inc()
	log.Printf("bills: %s billing period id=%s", action, id)
	return nil
}

func (s *Service) toStoredBill(b billing.EnergyBill, seq int) storage.EnergyBill {
	return storage.EnergyBill{
		ID:                 s.newID(),
		BillingPeriodID:    b.BillingPeriodID,
		Seq:                seq,
		BuildingID:         b.BuildingID,
		OccupantID:         b.OccupantID,
		EnergyType:         b.EnergyType,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		TotalCost:          b.TotalCost,
		MeasuredCost:       b.MeasuredCost,
		CostPerUnit:        b.CostPerUnit,
		TotalConsumption:   b.TotalConsumption,
		BilledArea:         b.BilledArea,
		CostPerSquareMeter: b.CostPerSquareMeter,
		FixedCost:          b.FixedCost,
	}
}

func toCalculationOccupants(occupants []storage.CalculationOccupant, readings map[string]decimal.Decimal) []billing.Occupant {
	out := make([]billing.Occupant, 0, len(occupants))
	for _, co := range occupants {
		o := co.Occupant
		entry := billing.Occupant{
			ID:                           o.ID,
			SquareMeters:                 o.SquareMeters,
			ChargedUnmeasuredElectricity: o.ChargedUnmeasuredElectricity,
			ChargedUnmeasuredHeating:     o.ChargedUnmeasuredHeating,
			ChargedUnmeasuredWater:       o.ChargedUnmeasuredWater,
		}
		if o.HeatingFixedCostShare.Valid {
			share := o.HeatingFixedCostShare.Decimal
			entry.HeatingFixedCostShare = &share
		}
		for _, d := range co.Devices {
			dc := billing.DeviceConsumption{ID: d.ID, EnergyType: d.EnergyType}
			if r, ok := readings[d.ID]; ok {
				dc.Consumption = &r
			}
			entry.MeasuringDevices = append(entry.MeasuringDevices, dc)
		}
		out = append(out, entry)
	}
	return out
}

func validateRequest(req CreateRequest) error {
	if req.BuildingID == "" {
		return fmt.Errorf("%w: building id is required", ErrInvalidRequest)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end date are required", ErrInvalidRequest)
	}
	if req.StartDate.After(req.EndDate) {
		return fmt.Errorf("%w: start date is after end date", ErrInvalidRequest)
	}
	if len(req.Energies) == 0 {
		return fmt.Errorf("%w: at least one energy type is required", ErrInvalidRequest)
	}
	seen := make(map[billing.EnergyType]bool, len(req.Energies))
	for _, e := range req.Energies {
		if !e.EnergyType.Valid() {
			return fmt.Errorf("%w: unknown energy type %q", ErrInvalidRequest, e.EnergyType)
		}
		if seen[e.EnergyType] {
			return fmt.Errorf("%w: energy type %s given twice", ErrInvalidRequest, e.EnergyType)
		}
		seen[e.EnergyType] = true
	}
	for id, r := range req.Readings {
		if r.IsNegative() {
			return fmt.Errorf("%w: reading for device %s is negative", ErrInvalidRequest, id)
		}
	}
	return nil
}

func checkReadings(readings map[string]decimal.Decimal, occupants []storage.CalculationOccupant) error {
	if len(readings) == 0 {
		return nil
	}
	known := make(map[string]bool)
	for _, co := range occupants {
		for _, d := range co.Devices {
			known[d.ID] = true
		}
	}
	for id := range readings {
		if !known[id] {
			return fmt.Errorf("%w: reading for unknown or archived device %s", ErrInvalidRequest, id)
		}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, billing.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, billing.ErrUnexpectedNegative):
		return "negative"
	}
	return "error"
}
