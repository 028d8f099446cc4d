package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/domain/costing"
	"mrcfield/internal/domain/inspection"
	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

const (
	sheetSummary  = "Summary"
	sheetAreas    = "Areas"
	sheetReadings = "Moisture Readings"
	sheetSubfloor = "Subfloor"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout      = "2006-01-02"
)

// XLSXRenderer writes an inspection as a workbook with one sheet per section.
type XLSXRenderer struct{}

var _ ports.ReportRenderer = XLSXRenderer{}

func NewXLSXRenderer() XLSXRenderer {
	return XLSXRenderer{}
}

func (XLSXRenderer) ContentType() string { return xlsxContentType }

func (XLSXRenderer) Render(ctx context.Context, w io.Writer, insp *inspection.Inspection) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if insp == nil {
		return errors.New("inspection is required")
	}

	start := time.Now()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	b, err := newBook(f)
	if err != nil {
		return err
	}
	b.summary(insp)
	b.areas(insp)
	b.readings(insp)
	b.subfloor(insp)
	if b.err != nil {
		return errs.Wrap(b.err, "build workbook")
	}

	if err := f.Write(w); err != nil {
		return errs.Wrap(err, "write xlsx")
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "infrastructure.export")),
		"inspection report rendered",
		slog.String("inspection_id", insp.ID),
		slog.Int("areas", len(insp.Areas)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

type book struct {
	f      *excelize.File
	header int
	label  int
	money  int
	err    error
}

func newBook(f *excelize.File) (*book, error) {
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, errs.Wrap(err, "rename sheet")
	}
	for _, name := range []string{sheetAreas, sheetReadings, sheetSubfloor} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, errs.Wrapf(err, "create sheet %s", name)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, errs.Wrap(err, "create header style")
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errs.Wrap(err, "create label style")
	}
	moneyFmt := "$#,##0.00"
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, errs.Wrap(err, "create money style")
	}

	return &book{f: f, header: header, label: label, money: money}, nil
}

func (b *book) set(sheet string, col, row int, v any) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetCellValue(sheet, cell, v)
}

func (b *book) style(sheet string, col, row, style int) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetCellStyle(sheet, cell, cell, style)
}

func (b *book) headers(sheet string, labels ...string) {
	for i, label := range labels {
		b.set(sheet, i+1, 1, label)
		b.style(sheet, i+1, 1, b.header)
	}
	if b.err == nil {
		b.err = b.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}
}

func (b *book) width(sheet, from, to string, width float64) {
	if b.err == nil {
		b.err = b.f.SetColWidth(sheet, from, to, width)
	}
}

func (b *book) summary(insp *inspection.Inspection) {
	rows := [][2]any{
		{"Job Number", insp.JobNumber},
		{"Status", string(insp.Status)},
		{"Inspection Date", formatDate(insp.Header.InspectionDate)},
		{"Attention To", insp.Header.AttentionTo},
		{"Requested By", insp.Header.RequestedBy},
		{"Address", insp.Header.Address},
		{"Triage", insp.Header.Triage},
		{"Property Occupation", insp.Property.PropertyOccupation},
		{"Dwelling Type", insp.Property.DwellingType},
		{"Outdoor Temperature", formatFloat(insp.Outdoor.Temperature, "°C")},
		{"Outdoor Humidity", formatFloat(insp.Outdoor.Humidity, "%")},
		{"Outdoor Dew Point", formatFloat(insp.Outdoor.DewPoint, "°C")},
		{"Cause of Mould", insp.Summary.CauseOfMould.Text()},
		{"Waste Disposal", wasteLabel(insp.Waste)},
	}

	row := 1
	for _, r := range rows {
		b.set(sheetSummary, 1, row, r[0])
		b.style(sheetSummary, 1, row, b.label)
		b.set(sheetSummary, 2, row, r[1])
		row++
	}

	if c := insp.Cost; c != nil {
		row++
		b.set(sheetSummary, 1, row, "Work Type")
		b.style(sheetSummary, 1, row, b.label)
		b.set(sheetSummary, 2, row, string(c.WorkType))
		row++
		b.set(sheetSummary, 1, row, "Total Hours")
		b.style(sheetSummary, 1, row, b.label)
		b.set(sheetSummary, 2, row, c.TotalHours.InexactFloat64())
		row++
		b.set(sheetSummary, 1, row, "Discount")
		b.style(sheetSummary, 1, row, b.label)
		b.set(sheetSummary, 2, row, costing.FormatPercent(c.DiscountPercent))
		row++

		money := []struct {
			label string
			value float64
		}{
			{"Labour", c.LabourCost.InexactFloat64()},
			{"Equipment", c.EquipmentCost.InexactFloat64()},
			{"Subtotal (ex GST)", c.Subtotal.InexactFloat64()},
			{"GST", c.GST.InexactFloat64()},
			{"Total (inc GST)", c.TotalCost.InexactFloat64()},
			{"Final Cost", c.FinalCost.InexactFloat64()},
		}
		for _, m := range money {
			b.set(sheetSummary, 1, row, m.label)
			b.style(sheetSummary, 1, row, b.label)
			b.set(sheetSummary, 2, row, m.value)
			b.style(sheetSummary, 2, row, b.money)
			row++
		}
	}

	b.width(sheetSummary, "A", "A", 24)
	b.width(sheetSummary, "B", "B", 60)
}

func (b *book) areas(insp *inspection.Inspection) {
	b.headers(sheetAreas,
		"#", "Area", "Mould Visibility", "Temperature", "Humidity", "Dew Point", "Dew Point Mode",
		"Job Time (min)", "Demolition", "Demolition Time (min)", "Comments", "Demolition Description",
	)
	for i, a := range insp.Areas {
		row := i + 2
		demolition := "No"
		if a.DemolitionRequired {
			demolition = "Yes"
		}
		values := []any{
			a.OrderIndex + 1,
			a.Name,
			strings.Join(a.MouldVisibility, ", "),
			formatFloat(a.Climate.Temperature, "°C"),
			formatFloat(a.Climate.Humidity, "%"),
			formatFloat(a.Climate.DewPoint, "°C"),
			string(a.Climate.Mode),
			a.JobTimeMinutes,
			demolition,
			a.DemolitionTimeMinutes,
			a.Comments.Text(),
			a.Demolition.Text(),
		}
		for col, v := range values {
			b.set(sheetAreas, col+1, row, v)
		}
	}
	b.width(sheetAreas, "B", "C", 24)
	b.width(sheetAreas, "D", "J", 14)
	b.width(sheetAreas, "K", "L", 60)
}

func (b *book) readings(insp *inspection.Inspection) {
	b.headers(sheetReadings, "Area", "#", "Title", "Photos")
	row := 2
	for _, a := range insp.Areas {
		for _, r := range a.Readings {
			b.set(sheetReadings, 1, row, a.Name)
			b.set(sheetReadings, 2, row, r.OrderIndex+1)
			b.set(sheetReadings, 3, row, r.Title)
			b.set(sheetReadings, 4, row, len(r.Photos))
			row++
		}
	}
	b.width(sheetReadings, "A", "A", 24)
	b.width(sheetReadings, "C", "C", 40)
}

func (b *book) subfloor(insp *inspection.Inspection) {
	b.headers(sheetSubfloor, "#", "Location", "Moisture (%)", "Photos")
	if !insp.Subfloor.Enabled {
		b.set(sheetSubfloor, 1, 2, "Subfloor not inspected")
		return
	}
	for i, r := range insp.SubfloorReadings {
		row := i + 2
		b.set(sheetSubfloor, 1, row, r.OrderIndex+1)
		b.set(sheetSubfloor, 2, row, r.Location)
		if r.MoistureValue != nil {
			b.set(sheetSubfloor, 3, row, *r.MoistureValue)
		}
		b.set(sheetSubfloor, 4, row, len(r.Photos))
	}

	row := len(insp.SubfloorReadings) + 3
	b.set(sheetSubfloor, 1, row, "Comments")
	b.style(sheetSubfloor, 1, row, b.label)
	b.set(sheetSubfloor, 2, row, insp.Subfloor.Comments.Text())
	b.width(sheetSubfloor, "B", "B", 40)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatFloat(v *float64, unit string) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + unit
}

func wasteLabel(w inspection.Waste) string {
	if !w.Enabled {
		return "Not required"
	}
	if w.Amount == "" {
		return "Required"
	}
	return w.Amount
}
