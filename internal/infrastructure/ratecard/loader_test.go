package ratecard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"mrcfield/internal/domain/costing"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	card, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !card.Anchors[costing.WorkTypeSurface].TwoHours.Equal(decimal.RequireFromString("612")) {
		t.Fatalf("surface anchor = %s", card.Anchors[costing.WorkTypeSurface].TwoHours)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratecard.toml")
	body := `
version = 1
gst_rate = "0.10"

[anchors.surface]
two_hours = "650.00"
eight_hours = "1300.00"

[equipment]
dehumidifier = "140"

[[discounts]]
above_hours = "10"
percent = "0.05"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	card, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !card.Anchors[costing.WorkTypeSurface].TwoHours.Equal(decimal.RequireFromString("650")) {
		t.Fatalf("surface two hours = %s", card.Anchors[costing.WorkTypeSurface].TwoHours)
	}
	if !card.Anchors[costing.WorkTypeSubfloor].TwoHours.Equal(decimal.RequireFromString("900")) {
		t.Fatalf("subfloor anchor lost its default")
	}
	if !card.Equipment.Dehumidifier.Equal(decimal.NewFromInt(140)) || !card.Equipment.AirMover.Equal(decimal.NewFromInt(46)) {
		t.Fatalf("equipment = %+v", card.Equipment)
	}
	if len(card.Discounts) != 1 {
		t.Fatalf("discounts = %+v", card.Discounts)
	}

	engine, err := costing.NewEngine(card)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	b, err := engine.Calculate(costing.CostInput{Areas: []costing.AreaInput{{JobTimeMinutes: 120}}})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !b.LabourCost.Equal(decimal.RequireFromString("650")) {
		t.Fatalf("labour = %s", b.LabourCost)
	}
}

func TestParseRejectsBadCards(t *testing.T) {
	tests := map[string]string{
		"wrong version":   `version = 2`,
		"bad decimal":     "version = 1\ngst_rate = \"ten\"",
		"negative anchor": "version = 1\n[anchors.demolition]\ntwo_hours = \"-1\"\neight_hours = \"100\"",
		"unordered tiers": "version = 1\n[[discounts]]\nabove_hours = \"16\"\npercent = \"0.1\"\n[[discounts]]\nabove_hours = \"8\"\npercent = \"0.05\"",
		"not toml":        "version = = 1",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(body)); err == nil {
				t.Fatalf("Parse() expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil || !strings.Contains(err.Error(), "read rate card") {
		t.Fatalf("Load(missing) error = %v", err)
	}
}
