package inspection

import (
	"errors"
	"fmt"
	"testing"
)

func newAreas(t *testing.T, names ...string) *Inspection {
	t.Helper()

	insp := &Inspection{ID: "insp-1", Status: StatusInProgress, Version: 1}
	for i, name := range names {
		area, err := NewArea(fmt.Sprintf("area-%d", i+1), name)
		if err != nil {
			t.Fatalf("NewArea() error = %v", err)
		}
		insp.AddArea(area)
	}
	return insp
}

func positions(areas []*Area) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		out = append(out, fmt.Sprintf("%s:%d", a.ID, a.OrderIndex))
	}
	return out
}

func TestAppendAssignsDenseIndexes(t *testing.T) {
	insp := newAreas(t, "Bedroom", "Kitchen", "Laundry")

	for i, a := range insp.Areas {
		if a.OrderIndex != i {
			t.Fatalf("area %s orderIndex = %d, want %d", a.Name, a.OrderIndex, i)
		}
		if a.InspectionID != "insp-1" {
			t.Fatalf("area %s not attached to inspection", a.Name)
		}
	}
}

func TestRemoveRenumbersSiblings(t *testing.T) {
	insp := newAreas(t, "A", "B", "C", "D")

	if err := insp.RemoveArea("area-2"); err != nil {
		t.Fatalf("RemoveArea() error = %v", err)
	}
	got := fmt.Sprint(positions(insp.Areas))
	if got != "[area-1:0 area-3:1 area-4:2]" {
		t.Fatalf("positions = %s", got)
	}
	if !Dense(insp.Areas) {
		t.Fatalf("sequence not dense after remove")
	}

	if err := insp.RemoveArea("area-9"); !errors.Is(err, ErrUnknownChild) {
		t.Fatalf("RemoveArea(unknown) error = %v", err)
	}
}

func TestReorderAppliesPermutation(t *testing.T) {
	insp := newAreas(t, "A", "B", "C")

	if err := insp.ReorderAreas([]string{"area-3", "area-1", "area-2"}); err != nil {
		t.Fatalf("ReorderAreas() error = %v", err)
	}
	got := fmt.Sprint(positions(insp.Areas))
	if got != "[area-3:0 area-1:1 area-2:2]" {
		t.Fatalf("positions = %s", got)
	}
}

func TestReorderIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr error
	}{
		{"unknown id", []string{"area-3", "area-1", "area-x"}, ErrUnknownChild},
		{"duplicate id", []string{"area-3", "area-3", "area-1"}, ErrInvalidInput},
		{"missing id", []string{"area-3", "area-1"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp := newAreas(t, "A", "B", "C")
			before := fmt.Sprint(positions(insp.Areas))

			err := insp.ReorderAreas(tt.ids)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReorderAreas() error = %v, want %v", err, tt.wantErr)
			}
			if after := fmt.Sprint(positions(insp.Areas)); after != before {
				t.Fatalf("positions changed on failed reorder: %s -> %s", before, after)
			}
		})
	}
}

func TestReadingOrderingFollowsSameRules(t *testing.T) {
	insp := newAreas(t, "Bathroom")
	area := insp.Areas[0]
	for i := 1; i <= 3; i++ {
		area.AddReading(&MoistureReading{ID: fmt.Sprintf("r-%d", i), Title: fmt.Sprintf("Wall %d", i)})
	}

	if err := area.RemoveReading("r-1"); err != nil {
		t.Fatalf("RemoveReading() error = %v", err)
	}
	if err := area.ReorderReadings([]string{"r-3", "r-2"}); err != nil {
		t.Fatalf("ReorderReadings() error = %v", err)
	}
	if area.Readings[0].ID != "r-3" || area.Readings[0].OrderIndex != 0 || area.Readings[1].OrderIndex != 1 {
		t.Fatalf("readings = %+v %+v", area.Readings[0], area.Readings[1])
	}
	if area.Readings[0].AreaID != area.ID {
		t.Fatalf("reading not attached to area")
	}

	insp.AddSubfloorReading(&SubfloorReading{ID: "s-1"})
	insp.AddSubfloorReading(&SubfloorReading{ID: "s-2"})
	if err := insp.ReorderSubfloorReadings([]string{"s-2", "nope"}); !errors.Is(err, ErrUnknownChild) {
		t.Fatalf("ReorderSubfloorReadings() error = %v", err)
	}
	if insp.SubfloorReadings[0].ID != "s-1" || insp.SubfloorReadings[0].OrderIndex != 0 {
		t.Fatalf("subfloor readings touched by failed reorder")
	}
}
