package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnergyType is the kind of utility being billed.
type EnergyType string

const (
	EnergyElectricity EnergyType = "electricity"
	EnergyHeating     EnergyType = "heating"
	EnergyWater       EnergyType = "water"
)

// EnergyTypes lists every supported energy type in a stable order.
var EnergyTypes = []EnergyType{EnergyElectricity, EnergyHeating, EnergyWater}

// Valid reports whether t is one of the supported energy types.
func (t EnergyType) Valid() bool {
	switch t {
	case EnergyElectricity, EnergyHeating, EnergyWater:
		return true
	}
	return false
}

// Unit returns the measurement unit used for the energy type.
func (t EnergyType) Unit() string {
	switch t {
	case EnergyElectricity:
		return "kWh"
	case EnergyHeating:
		return "GJ"
	case EnergyWater:
		return "m³"
	}
	return ""
}

// DateRange is the period a calculation covers.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DeviceConsumption is the consumption a single measuring device recorded
// for the period. Consumption is nil when no reading was supplied.
type DeviceConsumption struct {
	ID          string           `json:"id"`
	EnergyType  EnergyType       `json:"energyType"`
	Consumption *decimal.Decimal `json:"consumption,omitempty"`
}

// Occupant is the calculation view of an occupant.
type Occupant struct {
	ID                           string              `json:"id"`
	SquareMeters                 decimal.Decimal     `json:"squareMeters"`
	ChargedUnmeasuredElectricity bool                `json:"chargedUnmeasuredElectricity"`
	ChargedUnmeasuredHeating     bool                `json:"chargedUnmeasuredHeating"`
	ChargedUnmeasuredWater       bool                `json:"chargedUnmeasuredWater"`
	HeatingFixedCostShare        *decimal.Decimal    `json:"heatingFixedCostShare,omitempty"`
	MeasuringDevices             []DeviceConsumption `json:"measuringDevices"`
}

// Input is one billing period and energy type unit of work.
type Input struct {
	BillingPeriodID  string
	BuildingID       string
	EnergyType       EnergyType
	TotalConsumption decimal.Decimal
	TotalCost        decimal.Decimal
	// FixedCost is the part of TotalCost charged regardless of consumption.
	// Only heating may have one.
	FixedCost decimal.NullDecimal
	DateRange DateRange
	Occupants []Occupant
}

// EnergyBill is an insertable bill row. Exactly one of OccupantID and
// BuildingID is set.
type EnergyBill struct {
	BillingPeriodID    string              `json:"billingPeriodId"`
	BuildingID         string              `json:"buildingId,omitempty"`
	OccupantID         string              `json:"occupantId,omitempty"`
	EnergyType         EnergyType          `json:"energyType"`
	StartDate          time.Time           `json:"startDate"`
	EndDate            time.Time           `json:"endDate"`
	TotalCost          decimal.Decimal     `json:"totalCost"`
	MeasuredCost       decimal.NullDecimal `json:"measuredCost"`
	CostPerUnit        decimal.NullDecimal `json:"costPerUnit"`
	TotalConsumption   decimal.NullDecimal `json:"totalConsumption"`
	BilledArea         decimal.NullDecimal `json:"billedArea"`
	CostPerSquareMeter decimal.NullDecimal `json:"costPerSquareMeter"`
	FixedCost          decimal.NullDecimal `json:"fixedCost"`
}

// IsBuildingBill reports whether the row is the building summary.
func (b EnergyBill) IsBuildingBill() bool { return b.BuildingID != "" }

// ConsumptionRecord is an insertable consumption row for one device.
type ConsumptionRecord struct {
	MeasuringDeviceID string          `json:"measuringDeviceId"`
	EnergyType        EnergyType      `json:"energyType"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	Consumption       decimal.Decimal `json:"consumption"`
}

// Output holds the rows a calculation produced.
type Output struct {
	BillsToInsert              []EnergyBill
	ConsumptionRecordsToInsert []ConsumptionRecord
}
