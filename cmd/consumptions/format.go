package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/tichopad/consumptions/internal/billing"
)

func printBills(w io.Writer, in billing.Input, out billing.Output) {
	fmt.Fprintf(w, "Energy: %s (%s)\n", in.EnergyType, in.EnergyType.Unit())
	fmt.Fprintf(w, "Period: %s - %s\n\n", in.DateRange.Start.Format("2006-01-02"), in.DateRange.End.Format("2006-01-02"))

	fmt.Fprintf(w, "%-20s %12s %12s %12s %12s %12s\n",
		"Bill", "Consumption", "Measured", "Area", "Fixed", "Total")
	fmt.Fprintf(w, "%-20s %12s %12s %12s %12s %12s\n",
		"--------------------", "------------", "------------", "------------", "------------", "------------")
	for _, b := range out.BillsToInsert {
		label := b.OccupantID
		if b.IsBuildingBill() {
			label = "building"
		}
		fmt.Fprintf(w, "%-20s %12s %12s %12s %12s %12s\n",
			label,
			formatNull(b.TotalConsumption),
			formatNull(b.MeasuredCost),
			formatNull(b.BilledArea),
			formatNull(b.FixedCost),
			b.TotalCost.StringFixed(2))
	}

	if len(out.ConsumptionRecordsToInsert) > 0 {
		fmt.Fprintf(w, "\n%-20s %12s\n", "Device", "Consumption")
		for _, r := range out.ConsumptionRecordsToInsert {
			fmt.Fprintf(w, "%-20s %12s\n", r.MeasuringDeviceID, r.Consumption.String())
		}
	}
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}
