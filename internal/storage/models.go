package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tichopad/consumptions/internal/billing"
)

// Building is a managed property whose utility costs get split.
type Building struct {
	ID           string              `json:"id" gorm:"primaryKey;column:id"`
	Name         string              `json:"name" gorm:"column:name"`
	Address      string              `json:"address,omitempty" gorm:"column:address"`
	SquareMeters decimal.NullDecimal `json:"squareMeters" gorm:"column:square_meters;type:numeric"`
	CreatedAt    time.Time           `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt    time.Time           `json:"updatedAt" gorm:"column:updated_at"`
}

// Occupant is a tenant or owner of part of a building.
type Occupant struct {
	ID                           string              `json:"id" gorm:"primaryKey;column:id"`
	BuildingID                   string              `json:"buildingId" gorm:"column:building_id;index"`
	Name                         string              `json:"name" gorm:"column:name"`
	SquareMeters                 decimal.Decimal     `json:"squareMeters" gorm:"column:square_meters;type:numeric"`
	ChargedUnmeasuredElectricity bool                `json:"chargedUnmeasuredElectricity" gorm:"column:charged_unmeasured_electricity"`
	ChargedUnmeasuredHeating     bool                `json:"chargedUnmeasuredHeating" gorm:"column:charged_unmeasured_heating"`
	ChargedUnmeasuredWater       bool                `json:"chargedUnmeasuredWater" gorm:"column:charged_unmeasured_water"`
	HeatingFixedCostShare        decimal.NullDecimal `json:"heatingFixedCostShare" gorm:"column:heating_fixed_cost_share;type:numeric"`
	IsDeleted                    bool                `json:"isDeleted" gorm:"column:is_deleted"`
	DeletedAt                    *time.Time          `json:"deletedAt,omitempty" gorm:"column:deleted_at"`
	CreatedAt                    time.Time           `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt                    time.Time           `json:"updatedAt" gorm:"column:updated_at"`
}

// MeasuringDevice is a meter owned by an occupant. It measures exactly one
// energy type.
type MeasuringDevice struct {
	ID         string             `json:"id" gorm:"primaryKey;column:id"`
	OccupantID string             `json:"occupantId" gorm:"column:occupant_id;index"`
	Name       string             `json:"name" gorm:"column:name"`
	EnergyType billing.EnergyType `json:"energyType" gorm:"column:energy_type"`
	IsDeleted  bool               `json:"isDeleted" gorm:"column:is_deleted"`
	DeletedAt  *time.Time         `json:"deletedAt,omitempty" gorm:"column:deleted_at"`
	CreatedAt  time.Time          `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" gorm:"column:updated_at"`
}

// BillingPeriod groups the bills and consumption records of one calculation run.
type BillingPeriod struct {
	ID         string     `json:"id" gorm:"primaryKey;column:id"`
	BuildingID string     `json:"buildingId" gorm:"column:building_id;index"`
	StartDate  time.Time  `json:"startDate" gorm:"column:start_date"`
	EndDate    time.Time  `json:"endDate" gorm:"column:end_date"`
	IsDeleted  bool       `json:"isDeleted" gorm:"column:is_deleted"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty" gorm:"column:deleted_at"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" gorm:"column:updated_at"`
}

// EnergyBill is a persisted bill row. Exactly one of BuildingID and
// OccupantID is set. Seq keeps the order the calculation produced.
type EnergyBill struct {
	ID                 string              `json:"id" gorm:"primaryKey;column:id"`
	BillingPeriodID    string              `json:"billingPeriodId" gorm:"column:billing_period_id;index"`
	Seq                int                 `json:"-" gorm:"column:seq"`
	BuildingID         string              `json:"buildingId,omitempty" gorm:"column:building_id;index"`
	OccupantID         string              `json:"occupantId,omitempty" gorm:"column:occupant_id;index"`
	EnergyType         billing.EnergyType  `json:"energyType" gorm:"column:energy_type"`
	StartDate          time.Time           `json:"startDate" gorm:"column:start_date"`
	EndDate            time.Time           `json:"endDate" gorm:"column:end_date"`
	TotalCost          decimal.Decimal     `json:"totalCost" gorm:"column:total_cost;type:numeric"`
	MeasuredCost       decimal.NullDecimal `json:"measuredCost" gorm:"column:measured_cost;type:numeric"`
	CostPerUnit        decimal.NullDecimal `json:"costPerUnit" gorm:"column:cost_per_unit;type:numeric"`
	TotalConsumption   decimal.NullDecimal `json:"totalConsumption" gorm:"column:total_consumption;type:numeric"`
	BilledArea         decimal.NullDecimal `json:"billedArea" gorm:"column:billed_area;type:numeric"`
	CostPerSquareMeter decimal.NullDecimal `json:"costPerSquareMeter" gorm:"column:cost_per_square_meter;type:numeric"`
	FixedCost          decimal.NullDecimal `json:"fixedCost" gorm:"column:fixed_cost;type:numeric"`
	CreatedAt          time.Time           `json:"createdAt" gorm:"column:created_at"`
}

// ConsumptionRecord is the consumption a device recorded over a billing period.
type ConsumptionRecord struct {
	ID                string             `json:"id" gorm:"primaryKey;column:id"`
	BillingPeriodID   string             `json:"billingPeriodId" gorm:"column:billing_period_id;index"`
	MeasuringDeviceID string             `json:"measuringDeviceId" gorm:"column:measuring_device_id;index"`
	EnergyType        billing.EnergyType `json:"energyType" gorm:"column:energy_type"`
	StartDate         time.Time          `json:"startDate" gorm:"column:start_date"`
	EndDate           time.Time          `json:"endDate" gorm:"column:end_date"`
	Consumption       decimal.Decimal    `json:"consumption" gorm:"column:consumption;type:numeric"`
	CreatedAt         time.Time          `json:"createdAt" gorm:"column:created_at"`
}

// CalculationOccupant is an active occupant together with its active devices.
type CalculationOccupant struct {
	Occupant Occupant
	Devices  []MeasuringDevice
}
