// Package billing splits a building's utility cost among its occupants.
//
// A calculation takes the total consumption and cost of one energy type for
// one billing period and produces insertable bill and consumption rows:
//
//  1. occupants with measuring devices pay for their metered consumption
//  2. the metered cost is subtracted from the variable cost
//  3. occupants charged by area split what remains proportionally to their area
//  4. for heating, the fixed cost is split by each occupant's fixed cost share
//
// An occupant charged by area can also own a measuring device. It is then
// billed for both separately. All arithmetic uses arbitrary precision decimals.
package billing

import "github.com/shopspring/decimal"

// CalculateBills calculates the bills for one period, energy type and set of
// occupants. It returns an *InputError for invalid input and an
// *UnexpectedNegativeError when an intermediate rate turns out negative.
func CalculateBills(in Input) (Output, error) {
	if err := validate(in); err != nil {
		return Output{}, err
	}

	totalCost := in.TotalCost
	variableCost := totalCost.Sub(nullOrZero(in.FixedCost))

	costPerUnit := decimal.Zero
	if !in.TotalConsumption.IsZero() {
		costPerUnit = variableCost.Div(in.TotalConsumption)
	}
	if variableCost.IsNegative() || costPerUnit.IsNegative() {
		return Output{}, negativeError("cost per unit turned out to be negative")
	}

	var costPerShare decimal.NullDecimal
	if in.FixedCost.Valid {
		sumOfShares := sumBy(in.Occupants, func(o Occupant) decimal.Decimal {
			return orZero(o.HeatingFixedCostShare)
		})
		if !sumOfShares.IsZero() {
			costPerShare = valid(in.FixedCost.Decimal.Div(sumOfShares))
		}
	}
	if costPerShare.Valid && costPerShare.Decimal.IsNegative() {
		return Output{}, negativeError("cost per fixed heating share turned out to be negative")
	}

	measured := filterOccupants(in.Occupants, func(o Occupant) bool {
		return HasDevices(in.EnergyType, o)
	})
	records := ConsumptionRecords(measured, in)
	measuredBills := MeasuredBills(measured, costPerUnit, costPerShare, in)

	unmeasured := filterOccupants(in.Occupants, func(o Occupant) bool {
		return IsChargedByArea(in.EnergyType, o)
	})
	measuredCost := sumBy(measuredBills, func(b EnergyBill) decimal.Decimal {
		return nullOrZero(b.MeasuredCost)
	})
	remainingCost := variableCost.Sub(measuredCost)
	if remainingCost.IsNegative() {
		return Output{}, negativeError("remaining cost to split turned out to be negative")
	}

	unmeasuredArea := sumBy(unmeasured, func(o Occupant) decimal.Decimal { return o.SquareMeters })
	costPerSquareMeter := decimal.Zero
	if !unmeasuredArea.IsZero() {
		costPerSquareMeter = remainingCost.Div(unmeasuredArea)
	}
	if costPerSquareMeter.IsNegative() {
		return Output{}, negativeError("cost per square meter turned out to be negative")
	}
	unmeasuredBills := UnmeasuredBills(unmeasured, costPerSquareMeter, costPerShare, in)

	fixedOnly := filterOccupants(in.Occupants, func(o Occupant) bool {
		return o.HeatingFixedCostShare != nil &&
			!HasDevices(in.EnergyType, o) &&
			!IsChargedByArea(in.EnergyType, o)
	})
	fixedOnlyBills := FixedCostOnlyBills(fixedOnly, costPerShare, in)

	buildingBill := EnergyBill{
		BillingPeriodID:    in.BillingPeriodID,
		BuildingID:         in.BuildingID,
		EnergyType:         in.EnergyType,
		StartDate:          in.DateRange.Start,
		EndDate:            in.DateRange.End,
		TotalCost:          totalCost,
		CostPerUnit:        valid(costPerUnit),
		CostPerSquareMeter: valid(costPerSquareMeter),
		TotalConsumption:   valid(in.TotalConsumption),
		FixedCost:          in.FixedCost,
	}

	bills := make([]EnergyBill, 0, len(measuredBills)+len(unmeasuredBills)+1+len(fixedOnlyBills))
	bills = append(bills, measuredBills...)
	bills = append(bills, unmeasuredBills...)
	bills = append(bills, buildingBill)
	bills = append(bills, fixedOnlyBills...)

	return Output{
		BillsToInsert:              bills,
		ConsumptionRecordsToInsert: records,
	}, nil
}

func validate(in Input) error {
	if len(in.Occupants) == 0 {
		return inputError("No occupants given")
	}
	if in.TotalConsumption.IsNegative() {
		return inputError("Total consumption cannot be negative")
	}
	if !in.TotalCost.IsPositive() {
		return inputError("Total cost cannot be negative or zero")
	}
	if in.FixedCost.Valid && in.FixedCost.Decimal.IsNegative() {
		return inputError("Fixed cost cannot be negative")
	}
	if in.FixedCost.Valid && in.EnergyType != EnergyHeating {
		return inputError(`Only "heating" can have a fixed cost`)
	}
	return nil
}
