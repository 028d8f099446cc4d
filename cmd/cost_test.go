package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mrcfield/internal/domain/costing"
)

func newCostTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "cost"}
	registerCostFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func TestParseAreaFlag(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    costing.AreaInput
		wantErr bool
	}{
		{name: "job only", raw: "Bathroom:90", want: costing.AreaInput{Name: "Bathroom", JobTimeMinutes: 90}},
		{
			name: "with demolition",
			raw:  "Laundry:60:30",
			want: costing.AreaInput{Name: "Laundry", JobTimeMinutes: 60, DemolitionRequired: true, DemolitionTimeMinutes: 30},
		},
		{name: "zero demolition", raw: "Hall:45:0", want: costing.AreaInput{Name: "Hall", JobTimeMinutes: 45}},
		{name: "missing minutes", raw: "Bathroom", wantErr: true},
		{name: "empty name", raw: ":30", wantErr: true},
		{name: "not a number", raw: "Bathroom:ninety", wantErr: true},
		{name: "too many parts", raw: "a:1:2:3", wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := parseAreaFlag(testCase.raw)
			if testCase.wantErr {
				if !errors.Is(err, costing.ErrInvalidCostInput) {
					t.Fatalf("parseAreaFlag(%q) error = %v, want ErrInvalidCostInput", testCase.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAreaFlag(%q) error = %v", testCase.raw, err)
			}
			if got != testCase.want {
				t.Fatalf("parseAreaFlag(%q) = %+v, want %+v", testCase.raw, got, testCase.want)
			}
		})
	}
}

func TestCostInputFromFlagsMergesFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	content := "areas:\n  - areaName: Bedroom\n    jobTime: 120\ndehumidifierQty: 2\ndwellingType: house\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cmd := newCostTestCommand(t, "--input", path, "--area", "Ensuite:30:15", "--dehumidifiers", "3", "--subfloor-minutes", "60")
	input, err := costInputFromFlags(cmd)
	if err != nil {
		t.Fatalf("costInputFromFlags() error = %v", err)
	}
	if len(input.Areas) != 2 || input.Areas[0].Name != "Bedroom" || input.Areas[1].DemolitionTimeMinutes != 15 {
		t.Fatalf("areas = %+v", input.Areas)
	}
	if input.DehumidifierQty != 3 {
		t.Fatalf("DehumidifierQty = %d, want flag value 3", input.DehumidifierQty)
	}
	if input.DwellingType != "house" {
		t.Fatalf("DwellingType = %q, want file value", input.DwellingType)
	}
	if !input.SubfloorEnabled || input.SubfloorTreatmentMinutes != 60 {
		t.Fatalf("subfloor = %v/%d", input.SubfloorEnabled, input.SubfloorTreatmentMinutes)
	}
}

func TestCostInputFromFlagsRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte("areas: [\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := costInputFromFlags(newCostTestCommand(t, "--input", path)); err == nil {
		t.Fatalf("costInputFromFlags() error = nil, want parse error")
	}
}

func TestRenderBreakdown(t *testing.T) {
	out := renderBreakdown(costing.Breakdown{
		WorkType:   costing.WorkTypeSurface,
		TotalHours: decimal.RequireFromString("2"),
		HourlyRate: decimal.RequireFromString("110"),
		TotalCost:  decimal.RequireFromString("1234.5"),
		Areas:      []costing.AreaDetail{{Name: "Bathroom", JobTimeMinutes: 90, TotalMinutes: 90}},
		Equipment: costing.EquipmentDetails{
			Dehumidifiers: costing.EquipmentLine{Qty: 2, Days: 3, Cost: decimal.RequireFromString("792")},
		},
	})
	for _, want := range []string{"Bathroom", "1h30m", "SURFACE", "$1,234.50", "2 x 3 days = $792.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("renderBreakdown() missing %q in:\n%s", want, out)
		}
	}
}
