package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tichopad/consumptions/internal/billing"
)

// inputFile is the YAML layout read by the calculate command.
type inputFile struct {
	BillingPeriodID  string           `yaml:"billingPeriodId"`
	BuildingID       string           `yaml:"buildingId"`
	EnergyType       string           `yaml:"energyType"`
	TotalConsumption decimal.Decimal  `yaml:"totalConsumption"`
	TotalCost        decimal.Decimal  `yaml:"totalCost"`
	FixedCost        *decimal.Decimal `yaml:"fixedCost"`
	StartDate        time.Time        `yaml:"startDate"`
	EndDate          time.Time        `yaml:"endDate"`
	Occupants        []occupantFile   `yaml:"occupants"`
}

type occupantFile struct {
	ID                           string           `yaml:"id"`
	SquareMeters                 decimal.Decimal  `yaml:"squareMeters"`
	ChargedUnmeasuredElectricity bool             `yaml:"chargedUnmeasuredElectricity"`
	ChargedUnmeasuredHeating     bool             `yaml:"chargedUnmeasuredHeating"`
	ChargedUnmeasuredWater       bool             `yaml:"chargedUnmeasuredWater"`
	HeatingFixedCostShare        *decimal.Decimal `yaml:"heatingFixedCostShare"`
	MeasuringDevices             []deviceFile     `yaml:"measuringDevices"`
}

type deviceFile struct {
	ID          string           `yaml:"id"`
	EnergyType  string           `yaml:"energyType"`
	Consumption *decimal.Decimal `yaml:"consumption"`
}

// loadInput reads a calculation input from a YAML file.
func loadInput(path string) (billing.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return billing.Input{}, fmt.Errorf("reading input file: %w", err)
	}
	return parseInput(data)
}

func parseInput(data []byte) (billing.Input, error) {
	var f inputFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return billing.Input{}, fmt.Errorf("parsing input YAML: %w", err)
	}

	energy := billing.EnergyType(f.EnergyType)
	if !energy.Valid() {
		return billing.Input{}, fmt.Errorf("unknown energy type %q", f.EnergyType)
	}

	in := billing.Input{
		BillingPeriodID:  f.BillingPeriodID,
		BuildingID:       f.BuildingID,
		EnergyType:       energy,
		TotalConsumption: f.TotalConsumption,
		TotalCost:        f.TotalCost,
		DateRange:        billing.DateRange{Start: f.StartDate, End: f.EndDate},
	}
	if f.FixedCost != nil {
		in.FixedCost = decimal.NewNullDecimal(*f.FixedCost)
	}
	for _, o := range f.Occupants {
		occ := billing.Occupant{
			ID:                           o.ID,
			SquareMeters:                 o.SquareMeters,
			ChargedUnmeasuredElectricity: o.ChargedUnmeasuredElectricity,
			ChargedUnmeasuredHeating:     o.ChargedUnmeasuredHeating,
			ChargedUnmeasuredWater:       o.ChargedUnmeasuredWater,
			HeatingFixedCostShare:        o.HeatingFixedCostShare,
		}
		for _, d := range o.MeasuringDevices {
			et := billing.EnergyType(d.EnergyType)
			if d.EnergyType == "" {
				et = energy
			}
			occ.MeasuringDevices = append(occ.MeasuringDevices, billing.DeviceConsumption{
				ID:          d.ID,
				EnergyType:  et,
				Consumption: d.Consumption,
			})
		}
		in.Occupants = append(in.Occupants, occ)
	}
	return in, nil
}
