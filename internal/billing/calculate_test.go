package billing

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var period = DateRange{
	Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
}

func renter(id, area string) Occupant {
	return Occupant{
		ID:                           id,
		SquareMeters:                 dec(area),
		ChargedUnmeasuredElectricity: true,
		ChargedUnmeasuredHeating:     true,
		ChargedUnmeasuredWater:       true,
	}
}

func electricityInput(occupants ...Occupant) Input {
	return Input{
		BillingPeriodID:  "bp-1",
		BuildingID:       "b-1",
		EnergyType:       EnergyElectricity,
		TotalConsumption: dec("1200"),
		TotalCost:        dec("7200"),
		DateRange:        period,
		Occupants:        occupants,
	}
}

func occupantTotal(bills []EnergyBill) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range bills {
		if !b.IsBuildingBill() {
			sum = sum.Add(b.TotalCost)
		}
	}
	return sum
}

func billFor(t *testing.T, bills []EnergyBill, occupantID string) []EnergyBill {
	t.Helper()
	var out []EnergyBill
	for _, b := range bills {
		if b.OccupantID == occupantID {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		t.Fatalf("no bill for occupant %s", occupantID)
	}
	return out
}

func buildingBill(t *testing.T, bills []EnergyBill) EnergyBill {
	t.Helper()
	var found []EnergyBill
	for _, b := range bills {
		if b.IsBuildingBill() {
			found = append(found, b)
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly one building bill, got %d", len(found))
	}
	return found[0]
}

func assertEqual(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestCalculateBillsRentersOnly(t *testing.T) {
	out, err := CalculateBills(electricityInput(renter("r1", "10"), renter("r2", "20")))
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	if len(out.BillsToInsert) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(out.BillsToInsert))
	}
	if len(out.ConsumptionRecordsToInsert) != 0 {
		t.Errorf("expected no consumption records, got %d", len(out.ConsumptionRecordsToInsert))
	}

	b := buildingBill(t, out.BillsToInsert)
	assertEqual(t, "costPerSquareMeter", b.CostPerSquareMeter.Decimal, dec("240"))
	assertEqual(t, "costPerUnit", b.CostPerUnit.Decimal, dec("6"))
	assertEqual(t, "building totalCost", b.TotalCost, dec("7200"))
	assertEqual(t, "building totalConsumption", b.TotalConsumption.Decimal, dec("1200"))
	if b.FixedCost.Valid {
		t.Errorf("building bill should not carry a fixed cost")
	}

	r1 := billFor(t, out.BillsToInsert, "r1")[0]
	assertEqual(t, "r1 totalCost", r1.TotalCost, dec("2400"))
	assertEqual(t, "r1 billedArea", r1.BilledArea.Decimal, dec("10"))
	r2 := billFor(t, out.BillsToInsert, "r2")[0]
	assertEqual(t, "r2 totalCost", r2.TotalCost, dec("4800"))
}

func TestCalculateBillsMeteredRenter(t *testing.T) {
	withDevice := renter("rd", "30")
	withDevice.MeasuringDevices = []DeviceConsumption{
		{ID: "dev-1", EnergyType: EnergyElectricity, Consumption: decPtr("100")},
		{ID: "dev-w", EnergyType: EnergyWater, Consumption: decPtr("7")},
	}

	out, err := CalculateBills(electricityInput(renter("r1", "10"), renter("r2", "20"), withDevice))
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	// metered, three area rows, building
	if len(out.BillsToInsert) != 5 {
		t.Fatalf("expected 5 bills, got %d", len(out.BillsToInsert))
	}

	first := out.BillsToInsert[0]
	if first.OccupantID != "rd" || !first.MeasuredCost.Valid {
		t.Fatalf("expected metered bill for rd first, got %+v", first)
	}
	assertEqual(t, "measuredCost", first.MeasuredCost.Decimal, dec("600"))
	assertEqual(t, "metered consumption", first.TotalConsumption.Decimal, dec("100"))

	b := buildingBill(t, out.BillsToInsert)
	assertEqual(t, "costPerSquareMeter", b.CostPerSquareMeter.Decimal, dec("110"))

	rd := billFor(t, out.BillsToInsert, "rd")
	if len(rd) != 2 {
		t.Fatalf("expected rd to get a metered and an area bill, got %d", len(rd))
	}
	assertEqual(t, "rd area bill", rd[1].TotalCost, dec("3300"))
	assertEqual(t, "r1 area bill", billFor(t, out.BillsToInsert, "r1")[0].TotalCost, dec("1100"))
	assertEqual(t, "r2 area bill", billFor(t, out.BillsToInsert, "r2")[0].TotalCost, dec("2200"))
	assertEqual(t, "conservation", occupantTotal(out.BillsToInsert), dec("7200"))

	if len(out.ConsumptionRecordsToInsert) != 1 {
		t.Fatalf("expected 1 consumption record, got %d", len(out.ConsumptionRecordsToInsert))
	}
	rec := out.ConsumptionRecordsToInsert[0]
	if rec.MeasuringDeviceID != "dev-1" || rec.EnergyType != EnergyElectricity {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.StartDate.Equal(period.Start) || !rec.EndDate.Equal(period.End) {
		t.Errorf("record not dated to the input range: %+v", rec)
	}
}

func TestCalculateBillsHeatingFixedCost(t *testing.T) {
	a := renter("a", "50")
	a.HeatingFixedCostShare = decPtr("10")
	b := renter("b", "50")
	b.HeatingFixedCostShare = decPtr("90")

	in := Input{
		BillingPeriodID:  "bp-1",
		BuildingID:       "b-1",
		EnergyType:       EnergyHeating,
		TotalConsumption: dec("95"),
		TotalCost:        dec("42500"),
		FixedCost:        decimal.NewNullDecimal(dec("5000")),
		DateRange:        period,
		Occupants:        []Occupant{a, b},
	}
	out, err := CalculateBills(in)
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}

	bb := buildingBill(t, out.BillsToInsert)
	assertEqual(t, "costPerUnit", bb.CostPerUnit.Decimal, dec("37500").Div(dec("95")))
	assertEqual(t, "costPerSquareMeter", bb.CostPerSquareMeter.Decimal, dec("375"))
	if !bb.FixedCost.Valid || !bb.FixedCost.Decimal.Equal(dec("5000")) {
		t.Errorf("building bill should echo the fixed cost, got %+v", bb.FixedCost)
	}

	ab := billFor(t, out.BillsToInsert, "a")
	if len(ab) != 1 {
		t.Fatalf("share is charged once per occupant, got %d bills for a", len(ab))
	}
	assertEqual(t, "a fixedCost", ab[0].FixedCost.Decimal, dec("500"))
	assertEqual(t, "a totalCost", ab[0].TotalCost, dec("19250"))
	assertEqual(t, "b fixedCost", billFor(t, out.BillsToInsert, "b")[0].FixedCost.Decimal, dec("4500"))
	assertEqual(t, "conservation", occupantTotal(out.BillsToInsert), dec("42500"))
}

func TestCalculateBillsFixedCostOnlyOccupants(t *testing.T) {
	shareHolder := func(id, share string) Occupant {
		return Occupant{ID: id, SquareMeters: dec("40"), HeatingFixedCostShare: decPtr(share)}
	}
	in := Input{
		BillingPeriodID:  "bp-1",
		BuildingID:       "b-1",
		EnergyType:       EnergyHeating,
		TotalConsumption: dec("95"),
		TotalCost:        dec("42500"),
		FixedCost:        decimal.NewNullDecimal(dec("5000")),
		DateRange:        period,
		Occupants: []Occupant{
			renter("r", "10"),
			shareHolder("s1", "100"),
			shareHolder("s2", "148"),
			shareHolder("s3", "42.04"),
		},
	}
	out, err := CalculateBills(in)
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	// area row, building, three fallback rows
	if len(out.BillsToInsert) != 5 {
		t.Fatalf("expected 5 bills, got %d", len(out.BillsToInsert))
	}
	if !out.BillsToInsert[1].IsBuildingBill() {
		t.Fatalf("expected building bill before fixed-cost-only bills")
	}

	fixed := decimal.Zero
	for i, b := range out.BillsToInsert[2:] {
		if want := in.Occupants[i+1].ID; b.OccupantID != want {
			t.Errorf("fixed-only bill %d belongs to %s, want %s", i, b.OccupantID, want)
		}
		if !b.TotalConsumption.Valid || !b.TotalConsumption.Decimal.IsZero() {
			t.Errorf("fixed-only bill %s should have zero consumption", b.OccupantID)
		}
		if !b.FixedCost.Valid {
			t.Fatalf("fixed-only bill %s has no fixed cost", b.OccupantID)
		}
		assertEqual(t, "fixed-only totalCost", b.TotalCost, b.FixedCost.Decimal)
		fixed = fixed.Add(b.FixedCost.Decimal)
	}
	assertEqual(t, "fixed components", fixed.Round(2), dec("5000"))
	assertEqual(t, "area bill", billFor(t, out.BillsToInsert, "r")[0].TotalCost, dec("37500"))
	assertEqual(t, "conservation", occupantTotal(out.BillsToInsert).Round(2), dec("42500"))
}

func TestCalculateBillsZeroShareSumLeavesFixedCostUnassigned(t *testing.T) {
	in := Input{
		EnergyType:       EnergyHeating,
		TotalConsumption: dec("10"),
		TotalCost:        dec("1000"),
		FixedCost:        decimal.NewNullDecimal(dec("200")),
		Occupants:        []Occupant{renter("r", "10")},
	}
	out, err := CalculateBills(in)
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	r := billFor(t, out.BillsToInsert, "r")[0]
	if r.FixedCost.Valid {
		t.Errorf("expected no fixed cost without shares, got %s", r.FixedCost.Decimal)
	}
	assertEqual(t, "area bill", r.TotalCost, dec("800"))
}

func TestCalculateBillsConservationAllEnergyTypes(t *testing.T) {
	for _, et := range EnergyTypes {
		t.Run(string(et), func(t *testing.T) {
			metered := renter("m", "33.3")
			metered.MeasuringDevices = []DeviceConsumption{
				{ID: "d1", EnergyType: et, Consumption: decPtr("12.345")},
				{ID: "d2", EnergyType: et, Consumption: decPtr("7.1")},
			}
			meteredOnly := Occupant{
				ID:               "mo",
				SquareMeters:     dec("20"),
				MeasuringDevices: []DeviceConsumption{{ID: "d3", EnergyType: et, Consumption: decPtr("3")}},
			}
			in := Input{
				BillingPeriodID:  "bp",
				BuildingID:       "b",
				EnergyType:       et,
				TotalConsumption: dec("97.7"),
				TotalCost:        dec("12345.67"),
				DateRange:        period,
				Occupants:        []Occupant{renter("r1", "17.5"), metered, meteredOnly, renter("r2", "51.25")},
			}
			out, err := CalculateBills(in)
			if err != nil {
				t.Fatalf("CalculateBills: %v", err)
			}
			assertEqual(t, "conservation", occupantTotal(out.BillsToInsert).Round(2), in.TotalCost)
			if len(out.ConsumptionRecordsToInsert) != 3 {
				t.Errorf("expected 3 consumption records, got %d", len(out.ConsumptionRecordsToInsert))
			}
			for _, b := range out.BillsToInsert {
				if (b.BuildingID == "") == (b.OccupantID == "") {
					t.Errorf("bill must belong to exactly one of building or occupant: %+v", b)
				}
			}
		})
	}
}

func TestCalculateBillsDeterministic(t *testing.T) {
	withDevice := renter("rd", "30")
	withDevice.MeasuringDevices = []DeviceConsumption{{ID: "dev", EnergyType: EnergyElectricity, Consumption: decPtr("100")}}
	in := electricityInput(renter("r1", "10"), renter("r2", "20"), withDevice)

	first, err := CalculateBills(in)
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	second, err := CalculateBills(in)
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestCalculateBillsZeroArea(t *testing.T) {
	out, err := CalculateBills(electricityInput(renter("r", "0")))
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	b := buildingBill(t, out.BillsToInsert)
	assertEqual(t, "costPerSquareMeter", b.CostPerSquareMeter.Decimal, decimal.Zero)
	assertEqual(t, "r totalCost", billFor(t, out.BillsToInsert, "r")[0].TotalCost, decimal.Zero)
}

func TestCalculateBillsZeroConsumption(t *testing.T) {
	in := electricityInput(renter("r1", "10"), renter("r2", "30"))
	in.TotalConsumption = decimal.Zero
	out, err := CalculateBills(in)
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	b := buildingBill(t, out.BillsToInsert)
	assertEqual(t, "costPerUnit", b.CostPerUnit.Decimal, decimal.Zero)
	assertEqual(t, "costPerSquareMeter", b.CostPerSquareMeter.Decimal, dec("180"))
}

func TestCalculateBillsMissingReading(t *testing.T) {
	o := renter("r", "10")
	o.MeasuringDevices = []DeviceConsumption{{ID: "dev", EnergyType: EnergyElectricity}}
	out, err := CalculateBills(electricityInput(o))
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	if len(out.ConsumptionRecordsToInsert) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out.ConsumptionRecordsToInsert))
	}
	assertEqual(t, "record consumption", out.ConsumptionRecordsToInsert[0].Consumption, decimal.Zero)
	assertEqual(t, "measuredCost", out.BillsToInsert[0].MeasuredCost.Decimal, decimal.Zero)
	assertEqual(t, "conservation", occupantTotal(out.BillsToInsert), dec("7200"))
}

func TestCalculateBillsOccupantWithoutChargesGetsNoBill(t *testing.T) {
	idle := Occupant{ID: "idle", SquareMeters: dec("80")}
	out, err := CalculateBills(electricityInput(renter("r", "10"), idle))
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	for _, b := range out.BillsToInsert {
		if b.OccupantID == "idle" {
			t.Fatalf("occupant without charges should not be billed: %+v", b)
		}
	}
}

func TestCalculateBillsNegativeRemainingCost(t *testing.T) {
	o := renter("r", "10")
	o.MeasuringDevices = []DeviceConsumption{{ID: "dev", EnergyType: EnergyElectricity, Consumption: decPtr("2400")}}
	_, err := CalculateBills(electricityInput(o))
	if !errors.Is(err, ErrUnexpectedNegative) {
		t.Fatalf("expected ErrUnexpectedNegative, got %v", err)
	}
	var neg *UnexpectedNegativeError
	if !errors.As(err, &neg) {
		t.Fatalf("expected *UnexpectedNegativeError, got %T", err)
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative rate must not be reported as invalid input")
	}
}

func TestCalculateBillsMeteredOwnersWithFixedShares(t *testing.T) {
	owner := func(id, share, reading string) Occupant {
		return Occupant{
			ID:                    id,
			SquareMeters:          dec("40"),
			HeatingFixedCostShare: decPtr(share),
			MeasuringDevices:      []DeviceConsumption{{ID: "dev-" + id, EnergyType: EnergyHeating, Consumption: decPtr(reading)}},
		}
	}
	in := Input{
		BillingPeriodID:  "bp-1",
		BuildingID:       "b-1",
		EnergyType:       EnergyHeating,
		TotalConsumption: dec("100"),
		TotalCost:        dec("42500"),
		FixedCost:        decimal.NewNullDecimal(dec("5000")),
		DateRange:        period,
		Occupants: []Occupant{
			owner("o1", "100", "30"),
			owner("o2", "148", "40"),
			owner("o3", "42.04", "25"),
		},
	}
	out, err := CalculateBills(in)
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	// three metered rows, building
	if len(out.BillsToInsert) != 4 {
		t.Fatalf("expected 4 bills, got %d", len(out.BillsToInsert))
	}

	costPerShare := dec("5000").Div(dec("290.04"))
	fixed := decimal.Zero
	for _, o := range in.Occupants {
		bills := billFor(t, out.BillsToInsert, o.ID)
		if len(bills) != 1 {
			t.Fatalf("expected one bill for %s, got %d", o.ID, len(bills))
		}
		b := bills[0]
		measured := o.MeasuringDevices[0].Consumption.Mul(dec("375"))
		share := o.HeatingFixedCostShare.Mul(costPerShare)
		assertEqual(t, o.ID+" measuredCost", b.MeasuredCost.Decimal, measured)
		assertEqual(t, o.ID+" fixedCost", b.FixedCost.Decimal, share)
		assertEqual(t, o.ID+" totalCost", b.TotalCost, measured.Add(share))
		fixed = fixed.Add(b.FixedCost.Decimal)
	}
	assertEqual(t, "fixed components", fixed.Round(2), dec("5000"))
}

func TestCalculateBillsMeteredOccupantNotChargedByArea(t *testing.T) {
	metered := Occupant{
		ID:               "m",
		SquareMeters:     dec("30"),
		MeasuringDevices: []DeviceConsumption{{ID: "dev", EnergyType: EnergyElectricity, Consumption: decPtr("100")}},
	}
	out, err := CalculateBills(electricityInput(renter("r1", "10"), renter("r2", "20"), metered))
	if err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	// metered, two area rows, building
	if len(out.BillsToInsert) != 4 {
		t.Fatalf("expected 4 bills, got %d", len(out.BillsToInsert))
	}

	m := billFor(t, out.BillsToInsert, "m")
	if len(m) != 1 {
		t.Fatalf("metered-only occupant should get one bill, got %d", len(m))
	}
	assertEqual(t, "metered totalCost", m[0].TotalCost, dec("600"))
	assertEqual(t, "metered measuredCost", m[0].MeasuredCost.Decimal, dec("600"))
	assertEqual(t, "metered consumption", m[0].TotalConsumption.Decimal, dec("100"))
	assertEqual(t, "metered costPerUnit", m[0].CostPerUnit.Decimal, dec("6"))

	b := buildingBill(t, out.BillsToInsert)
	assertEqual(t, "costPerSquareMeter", b.CostPerSquareMeter.Decimal, dec("220"))
	assertEqual(t, "r1 area bill", billFor(t, out.BillsToInsert, "r1")[0].TotalCost, dec("2200"))
	assertEqual(t, "r2 area bill", billFor(t, out.BillsToInsert, "r2")[0].TotalCost, dec("4400"))
	assertEqual(t, "conservation", occupantTotal(out.BillsToInsert), dec("7200"))
}

func TestCalculateBillsNegativeRates(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		message string
	}{
		{
			name: "fixed cost above total cost",
			in: func() Input {
				o := renter("r", "10")
				o.MeasuringDevices = []DeviceConsumption{{ID: "dev", EnergyType: EnergyHeating, Consumption: decPtr("10")}}
				return Input{
					EnergyType:       EnergyHeating,
					TotalConsumption: dec("10"),
					TotalCost:        dec("100"),
					FixedCost:        decimal.NewNullDecimal(dec("200")),
					DateRange:        period,
					Occupants:        []Occupant{o},
				}
			}(),
			message: "cost per unit turned out to be negative",
		},
		{
			name: "fixed cost above total cost without consumption",
			in: Input{
				EnergyType:       EnergyHeating,
				TotalConsumption: decimal.Zero,
				TotalCost:        dec("100"),
				FixedCost:        decimal.NewNullDecimal(dec("200")),
				DateRange:        period,
				Occupants:        []Occupant{renter("r", "10")},
			},
			message: "cost per unit turned out to be negative",
		},
		{
			name: "negative fixed cost share",
			in: func() Input {
				o := renter("r", "10")
				o.HeatingFixedCostShare = decPtr("-10")
				return Input{
					EnergyType:       EnergyHeating,
					TotalConsumption: dec("10"),
					TotalCost:        dec("1000"),
					FixedCost:        decimal.NewNullDecimal(dec("200")),
					DateRange:        period,
					Occupants:        []Occupant{o},
				}
			}(),
			message: "cost per fixed heating share turned out to be negative",
		},
		{
			name: "metered cost above variable cost",
			in: func() Input {
				o := renter("r", "10")
				o.MeasuringDevices = []DeviceConsumption{{ID: "dev", EnergyType: EnergyElectricity, Consumption: decPtr("2400")}}
				return electricityInput(o)
			}(),
			message: "remaining cost to split turned out to be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CalculateBills(tt.in)
			var neg *UnexpectedNegativeError
			if !errors.As(err, &neg) {
				t.Fatalf("expected *UnexpectedNegativeError, got %v", err)
			}
			if neg.Message != tt.message {
				t.Errorf("message = %q, want %q", neg.Message, tt.message)
			}
			if len(out.BillsToInsert) != 0 || len(out.ConsumptionRecordsToInsert) != 0 {
				t.Errorf("expected empty output on error")
			}
		})
	}
}

func TestCalculateBillsValidation(t *testing.T) {
	base := electricityInput(renter("r", "10"))
	tests := []struct {
		name    string
		mutate  func(in *Input)
		message string
	}{
		{"no occupants", func(in *Input) { in.Occupants = nil }, "No occupants given"},
		{"negative consumption", func(in *Input) { in.TotalConsumption = dec("-1") }, "Total consumption cannot be negative"},
		{"zero cost", func(in *Input) { in.TotalCost = decimal.Zero }, "Total cost cannot be negative or zero"},
		{"negative cost", func(in *Input) { in.TotalCost = dec("-10") }, "Total cost cannot be negative or zero"},
		{"negative fixed cost", func(in *Input) {
			in.EnergyType = EnergyHeating
			in.FixedCost = decimal.NewNullDecimal(dec("-5"))
		}, "Fixed cost cannot be negative"},
		{"fixed cost on electricity", func(in *Input) {
			in.FixedCost = decimal.NewNullDecimal(dec("5"))
		}, `Only "heating" can have a fixed cost`},
		{"first violation wins", func(in *Input) {
			in.Occupants = nil
			in.TotalCost = decimal.Zero
		}, "No occupants given"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			out, err := CalculateBills(in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected *InputError, got %T", err)
			}
			if inputErr.Message != tt.message {
				t.Errorf("message = %q, want %q", inputErr.Message, tt.message)
			}
			if len(out.BillsToInsert) != 0 || len(out.ConsumptionRecordsToInsert) != 0 {
				t.Errorf("expected empty output on error")
			}
		})
	}
}

func TestCalculateBillsDoesNotMutateInput(t *testing.T) {
	o := renter("r", "10")
	o.MeasuringDevices = []DeviceConsumption{{ID: "dev", EnergyType: EnergyElectricity, Consumption: decPtr("10")}}
	in := electricityInput(o, renter("r2", "5"))
	before := in.Occupants[0].MeasuringDevices[0].Consumption.String()

	if _, err := CalculateBills(in); err != nil {
		t.Fatalf("CalculateBills: %v", err)
	}
	if len(in.Occupants) != 2 || in.Occupants[0].ID != "r" {
		t.Fatalf("occupant list was modified")
	}
	if got := in.Occupants[0].MeasuringDevices[0].Consumption.String(); got != before {
		t.Errorf("device consumption changed from %s to %s", before, got)
	}
}
