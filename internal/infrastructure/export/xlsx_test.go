package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"mrcfield/internal/domain/costing"
	"mrcfield/internal/domain/inspection"
)

func sampleInspection(t *testing.T) *inspection.Inspection {
	t.Helper()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	insp, err := inspection.New("insp-1", "lead-1", "tech-1", nil, now)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	insp.Status = inspection.StatusCompleted
	insp.JobNumber = "MRC-2026-0042"
	insp.Header.Address = "12 Smith St, Richmond VIC 3121"
	insp.Header.InspectionDate = &now

	area, err := inspection.NewArea("area-1", "Bathroom")
	if err != nil {
		t.Fatalf("NewArea() error = %v", err)
	}
	temp, hum := 22.5, 65.0
	area.Climate.SetTemperature(&temp)
	area.Climate.SetHumidity(&hum)
	area.MouldVisibility = []string{"Ceiling", "Walls"}
	area.JobTimeMinutes = 120
	area.AddReading(&inspection.MoistureReading{ID: "r-1", Title: "Behind vanity"})
	insp.AddArea(area)

	moisture := 28.5
	insp.Subfloor.Enabled = true
	insp.AddSubfloorReading(&inspection.SubfloorReading{ID: "s-1", Location: "North corner", MoistureValue: &moisture})

	insp.Cost = &inspection.CostSummary{
		LabourCost:      decimal.RequireFromString("612.00"),
		Subtotal:        decimal.RequireFromString("612.00"),
		GST:             decimal.RequireFromString("61.20"),
		TotalCost:       decimal.RequireFromString("673.20"),
		FinalCost:       decimal.RequireFromString("673.20"),
		WorkType:        costing.WorkTypeSurface,
		TotalHours:      decimal.NewFromInt(2),
		DiscountPercent: decimal.Zero,
	}
	return insp
}

func TestXLSXRendererWritesSections(t *testing.T) {
	var buf bytes.Buffer
	r := NewXLSXRenderer()
	if err := r.Render(context.Background(), &buf, sampleInspection(t)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.ContentType() != xlsxContentType {
		t.Fatalf("ContentType() = %q", r.ContentType())
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	want := []string{sheetSummary, sheetAreas, sheetReadings, sheetSubfloor}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}

	cells := []struct {
		sheet string
		cell  string
		want  string
	}{
		{sheetSummary, "B1", "MRC-2026-0042"},
		{sheetSummary, "B3", "2026-05-01"},
		{sheetAreas, "B2", "Bathroom"},
		{sheetAreas, "C2", "Ceiling, Walls"},
		{sheetAreas, "F2", "15.6°C"},
		{sheetAreas, "G2", "AUTO"},
		{sheetReadings, "C2", "Behind vanity"},
		{sheetSubfloor, "B2", "North corner"},
	}
	for _, c := range cells {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) error = %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Fatalf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestXLSXRendererRequiresInspection(t *testing.T) {
	var buf bytes.Buffer
	if err := NewXLSXRenderer().Render(context.Background(), &buf, nil); err == nil {
		t.Fatalf("Render(nil) expected error")
	}
}
