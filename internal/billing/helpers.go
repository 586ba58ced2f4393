package billing

import "github.com/shopspring/decimal"

// HasDevices reports whether the occupant has at least one measuring device
// of the given energy type.
func HasDevices(t EnergyType, o Occupant) bool {
	for _, d := range o.MeasuringDevices {
		if d.EnergyType == t {
			return true
		}
	}
	return false
}

// IsChargedByArea reports whether the occupant pays for unmeasured
// consumption of the energy type based on its area.
func IsChargedByArea(t EnergyType, o Occupant) bool {
	switch t {
	case EnergyElectricity:
		return o.ChargedUnmeasuredElectricity
	case EnergyHeating:
		return o.ChargedUnmeasuredHeating
	case EnergyWater:
		return o.ChargedUnmeasuredWater
	}
	return false
}

// SumMeasuredConsumption sums the consumption of all the occupant's devices
// of the energy type. Missing readings count as zero.
func SumMeasuredConsumption(t EnergyType, o Occupant) decimal.Decimal {
	return sumBy(devicesOf(t, o), func(d DeviceConsumption) decimal.Decimal {
		return orZero(d.Consumption)
	})
}

// MeasuredBills builds one bill per metered occupant.
func MeasuredBills(occupants []Occupant, costPerUnit decimal.Decimal, costPerShare decimal.NullDecimal, in Input) []EnergyBill {
	bills := make([]EnergyBill, 0, len(occupants))
	for _, o := range occupants {
		consumption := SumMeasuredConsumption(in.EnergyType, o)
		measured := consumption.Mul(costPerUnit)
		fixed := fixedCostShare(o, costPerShare)

		b := newOccupantBill(o, in)
		b.TotalConsumption = valid(consumption)
		b.CostPerUnit = valid(costPerUnit)
		b.MeasuredCost = valid(measured)
		b.FixedCost = fixed
		b.TotalCost = measured.Add(nullOrZero(fixed))
		bills = append(bills, b)
	}
	return bills
}

// UnmeasuredBills builds one area-based bill per area-charged occupant.
// A share holder without a meter carries its fixed cost share here, so the
// share is charged once per occupant whichever branch it lands in.
func UnmeasuredBills(occupants []Occupant, costPerSquareMeter decimal.Decimal, costPerShare decimal.NullDecimal, in Input) []EnergyBill {
	bills := make([]EnergyBill, 0, len(occupants))
	for _, o := range occupants {
		areaCost := costPerSquareMeter.Mul(o.SquareMeters)

		b := newOccupantBill(o, in)
		b.BilledArea = valid(o.SquareMeters)
		b.CostPerSquareMeter = valid(costPerSquareMeter)
		if !HasDevices(in.EnergyType, o) {
			b.FixedCost = fixedCostShare(o, costPerShare)
		}
		b.TotalCost = areaCost.Add(nullOrZero(b.FixedCost))
		bills = append(bills, b)
	}
	return bills
}

// FixedCostOnlyBills builds bills for share holders who are neither metered
// nor charged by area for the energy type.
func FixedCostOnlyBills(occupants []Occupant, costPerShare decimal.NullDecimal, in Input) []EnergyBill {
	bills := make([]EnergyBill, 0, len(occupants))
	for _, o := range occupants {
		fixed := fixedCostShare(o, costPerShare)

		b := newOccupantBill(o, in)
		b.TotalConsumption = valid(decimal.Zero)
		b.FixedCost = fixed
		b.TotalCost = nullOrZero(fixed)
		bills = append(bills, b)
	}
	return bills
}

// ConsumptionRecords maps every matching device of the metered occupants to
// a consumption record dated to the input range.
func ConsumptionRecords(occupants []Occupant, in Input) []ConsumptionRecord {
	var records []ConsumptionRecord
	for _, o := range occupants {
		for _, d := range devicesOf(in.EnergyType, o) {
			records = append(records, ConsumptionRecord{
				MeasuringDeviceID: d.ID,
				EnergyType:        in.EnergyType,
				StartDate:         in.DateRange.Start,
				EndDate:           in.DateRange.End,
				Consumption:       orZero(d.Consumption),
			})
		}
	}
	return records
}

func newOccupantBill(o Occupant, in Input) EnergyBill {
	return EnergyBill{
		BillingPeriodID: in.BillingPeriodID,
		OccupantID:      o.ID,
		EnergyType:      in.EnergyType,
		StartDate:       in.DateRange.Start,
		EndDate:         in.DateRange.End,
	}
}

func fixedCostShare(o Occupant, costPerShare decimal.NullDecimal) decimal.NullDecimal {
	if o.HeatingFixedCostShare == nil || !costPerShare.Valid {
		return decimal.NullDecimal{}
	}
	return valid(costPerShare.Decimal.Mul(*o.HeatingFixedCostShare))
}

func devicesOf(t EnergyType, o Occupant) []DeviceConsumption {
	var out []DeviceConsumption
	for _, d := range o.MeasuringDevices {
		if d.EnergyType == t {
			out = append(out, d)
		}
	}
	return out
}

func filterOccupants(occupants []Occupant, keep func(Occupant) bool) []Occupant {
	var out []Occupant
	for _, o := range occupants {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func sumBy[T any](items []T, value func(T) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(value(item))
	}
	return sum
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func nullOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
