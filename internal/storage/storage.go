package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a mutation targets a row that does not exist.
// Lookups return (nil, nil) instead.
var ErrNotFound = errors.New("storage: not found")

// Storage abstracts persistence for buildings, occupants, devices and
// billing periods.
type Storage interface {
	// Buildings
	CreateBuilding(ctx context.Context, b Building) error
	GetBuilding(ctx context.Context, id string) (*Building, error)
	ListBuildings(ctx context.Context) ([]Building, error)
	UpdateBuilding(ctx context.Context, b Building) error
	// DeleteBuilding removes the building and everything that belongs to it.
	DeleteBuilding(ctx context.Context, id string) error

	// Occupants
	CreateOccupant(ctx context.Context, o Occupant) error
	GetOccupant(ctx context.Context, id string) (*Occupant, error)
	ListOccupants(ctx context.Context, buildingID string, includeArchived bool) ([]Occupant, error)
	UpdateOccupant(ctx context.Context, o Occupant) error
	ArchiveOccupant(ctx context.Context, id string) error
	RestoreOccupant(ctx context.Context, id string) error
	// DeleteOccupant removes the occupant and its devices. Bills and
	// consumption records already issued are kept.
	DeleteOccupant(ctx context.Context, id string) error

	// Measuring devices
	CreateMeasuringDevice(ctx context.Context, d MeasuringDevice) error
	GetMeasuringDevice(ctx context.Context, id string) (*MeasuringDevice, error)
	ListMeasuringDevices(ctx context.Context, occupantID string) ([]MeasuringDevice, error)
	UpdateMeasuringDevice(ctx context.Context, d MeasuringDevice) error
	DeleteMeasuringDevice(ctx context.Context, id string) error

	// ListCalculationOccupants returns the building's non-archived occupants
	// with their non-archived devices, ordered by creation.
	ListCalculationOccupants(ctx context.Context, buildingID string) ([]CalculationOccupant, error)

	// Billing periods
	// SaveBillingPeriod stores the period with all its bills and records
	// atomically. Nothing is stored when any insert fails.
	SaveBillingPeriod(ctx context.Context, p BillingPeriod, bills []EnergyBill, records []ConsumptionRecord) error
	GetBillingPeriod(ctx context.Context, id string) (*BillingPeriod, error)
	ListBillingPeriods(ctx context.Context, buildingID string, includeArchived bool) ([]BillingPeriod, error)
	ArchiveBillingPeriod(ctx context.Context, id string) error
	RestoreBillingPeriod(ctx context.Context, id string) error
	// DeleteBillingPeriod removes the period with its bills and records.
	DeleteBillingPeriod(ctx context.Context, id string) error

	ListEnergyBills(ctx context.Context, billingPeriodID string) ([]EnergyBill, error)
	ListConsumptionRecords(ctx context.Context, measuringDeviceID string) ([]ConsumptionRecord, error)

	Ping(ctx context.Context) error
	// Close releases any resources (no-op for in-memory).
	Close() error
}
