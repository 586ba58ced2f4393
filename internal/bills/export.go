package bills

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// statementLine is one bill row resolved for display.
type statementLine struct {
	Payer       string
	EnergyType  string
	Consumption string
	Area        string
	Fixed       string
	Total       decimal.Decimal
}

type statementView struct {
	Building string
	Start    time.Time
	End      time.Time
	Lines    []statementLine
}

func (s *Service) loadView(ctx context.Context, id string) (*statementView, error) {
	stmt, err := s.GetBillingPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &statementView{
		Building: stmt.Period.BuildingID,
		Start:    stmt.Period.StartDate,
		End:      stmt.Period.EndDate,
	}
	if b, err := s.store.GetBuilding(ctx, stmt.Period.BuildingID); err == nil && b != nil && b.Name != "" {
		view.Building = b.Name
	}
	occupants, err := s.store.ListOccupants(ctx, stmt.Period.BuildingID, true)
	if err != nil {
		return nil, fmt.Errorf("list occupants: %w", err)
	}
	names := make(map[string]string, len(occupants))
	for _, o := range occupants {
		names[o.ID] = o.Name
	}

	for _, b := range stmt.Bills {
		line := statementLine{EnergyType: string(b.EnergyType), Total: b.TotalCost}
		switch {
		case b.BuildingID != "":
			line.Payer = "Building total"
		case names[b.OccupantID] != "":
			line.Payer = names[b.OccupantID]
		default:
			line.Payer = b.OccupantID
		}
		if b.TotalConsumption.Valid {
			line.Consumption = b.TotalConsumption.Decimal.StringFixed(3) + " " + b.EnergyType.Unit()
		}
		if b.BilledArea.Valid {
			line.Area = b.BilledArea.Decimal.StringFixed(2)
		}
		if b.FixedCost.Valid {
			line.Fixed = b.FixedCost.Decimal.StringFixed(2)
		}
		view.Lines = append(view.Lines, line)
	}
	return view, nil
}

// ExportPDF renders a billing period statement as PDF.
func (s *Service) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	view, err := s.loadView(ctx, id)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.Cell(0, 8, "Billing Period Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Building: %s", view.Building)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s - %s", view.Start.Format(dateLayout), view.End.Format(dateLayout)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(50, 6, "Payer", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Energy", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Consumption", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Area", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Fixed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, l := range view.Lines {
		pdf.CellFormat(50, 6, tr(l.Payer), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, l.EnergyType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(l.Consumption), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, l.Area, "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, l.Fixed, "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, l.Total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders a billing period statement as a workbook with a summary
// and a bills sheet.
func (s *Service) ExportXLSX(ctx context.Context, id string) ([]byte, error) {
	view, err := s.loadView(ctx, id)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	billsSheet := "bills"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(billsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Billing Period Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Building")
	_ = f.SetCellValue(summarySheet, "B3", view.Building)
	_ = f.SetCellValue(summarySheet, "A4", "Start")
	_ = f.SetCellValue(summarySheet, "B4", view.Start.Format(dateLayout))
	_ = f.SetCellValue(summarySheet, "A5", "End")
	_ = f.SetCellValue(summarySheet, "B5", view.End.Format(dateLayout))
	_ = f.SetCellValue(summarySheet, "A6", "Bills")
	_ = f.SetCellValue(summarySheet, "B6", len(view.Lines))

	headers := []string{"Payer", "Energy", "Consumption", "Area (m²)", "Fixed cost", "Total cost"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(billsSheet, cell, h)
	}
	for i, l := range view.Lines {
		row := i + 2
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("A%d", row), l.Payer)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("B%d", row), l.EnergyType)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("C%d", row), l.Consumption)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("D%d", row), l.Area)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("E%d", row), l.Fixed)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("F%d", row), l.Total.StringFixed(2))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
