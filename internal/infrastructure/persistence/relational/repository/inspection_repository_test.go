package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mrcfield/internal/domain/costing"
	"mrcfield/internal/domain/inspection"
	"mrcfield/internal/domain/lead"
	"mrcfield/internal/errs"
	"mrcfield/internal/infrastructure/persistence/relational/testdb"
)

var repoNow = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func seedInspection(t *testing.T, repo *InspectionRepository) *inspection.Inspection {
	t.Helper()

	insp, err := inspection.New("insp-1", "lead-1", "tech-1", nil, repoNow)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := repo.Create(context.Background(), insp); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return insp
}

func TestInspectionRepositoryRoundTripsAggregate(t *testing.T) {
	repo := NewInspectionRepository(testdb.Open(t))
	ctx := context.Background()
	insp := seedInspection(t, repo)

	if _, err := insp.Start("MRC-2026-0001", lead.Lead{FirstName: "Lee", Suburb: "Kew"}, repoNow); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i, name := range []string{"Bedroom", "Ensuite"} {
		area, _ := inspection.NewArea(fmt.Sprintf("area-%d", i), name)
		area.MouldVisibility = []string{"ceiling", "walls"}
		area.JobTimeMinutes = 45
		temp, rh := 21.0, 68.0
		if err := area.Climate.SetTemperature(&temp); err != nil {
			t.Fatalf("SetTemperature() error = %v", err)
		}
		if err := area.Climate.SetHumidity(&rh); err != nil {
			t.Fatalf("SetHumidity() error = %v", err)
		}
		area.RoomPhotos[0] = "https://cdn.example/room.jpg"
		reading := &inspection.MoistureReading{ID: fmt.Sprintf("mr-%d", i), Title: "Skirting"}
		reading.AddPhoto(&inspection.Photo{ID: fmt.Sprintf("mp-%d", i), URL: "https://cdn.example/m.jpg"})
		area.AddReading(reading)
		insp.AddArea(area)
	}
	moisture := 18.5
	sub := &inspection.SubfloorReading{ID: "sr-1", MoistureValue: &moisture, Location: "North bearer"}
	sub.AddPhoto(&inspection.Photo{ID: "sp-1", URL: "https://cdn.example/s.jpg"})
	insp.AddSubfloorReading(sub)
	if err := insp.Subfloor.AddPhoto(&inspection.Photo{ID: "sf-1", URL: "https://cdn.example/sf.jpg"}); err != nil {
		t.Fatalf("AddPhoto() error = %v", err)
	}
	insp.Outdoor.AddDirectionPhoto(&inspection.Photo{ID: "od-1", URL: "https://cdn.example/od.jpg"})

	if err := repo.Save(ctx, insp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if insp.Version != 2 {
		t.Fatalf("version after save = %d, want 2", insp.Version)
	}

	got, err := repo.Get(ctx, "insp-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != inspection.StatusInProgress || got.JobNumber != "MRC-2026-0001" || got.Version != 2 {
		t.Fatalf("root = %+v", got)
	}
	if len(got.Areas) != 2 || got.Areas[1].Name != "Ensuite" || got.Areas[1].OrderIndex != 1 {
		t.Fatalf("areas = %+v", got.Areas)
	}
	area := got.Areas[0]
	if len(area.MouldVisibility) != 2 || area.MouldVisibility[1] != "walls" {
		t.Fatalf("mould visibility = %v", area.MouldVisibility)
	}
	if area.Climate.DewPoint == nil || area.Climate.Mode != inspection.DewPointAuto {
		t.Fatalf("climate = %+v", area.Climate)
	}
	if len(area.Readings) != 1 || len(area.Readings[0].Photos) != 1 {
		t.Fatalf("readings = %+v", area.Readings)
	}
	if len(got.SubfloorReadings) != 1 || *got.SubfloorReadings[0].MoistureValue != 18.5 || len(got.SubfloorReadings[0].Photos) != 1 {
		t.Fatalf("subfloor readings = %+v", got.SubfloorReadings)
	}
	if len(got.Subfloor.Photos) != 1 || len(got.Outdoor.DirectionPhotos) != 1 {
		t.Fatalf("photos subfloor=%d direction=%d", len(got.Subfloor.Photos), len(got.Outdoor.DirectionPhotos))
	}
}

func TestInspectionRepositoryRemovesDeletedChildren(t *testing.T) {
	repo := NewInspectionRepository(testdb.Open(t))
	ctx := context.Background()
	insp := seedInspection(t, repo)

	for i := 0; i < 3; i++ {
		area, _ := inspection.NewArea(fmt.Sprintf("area-%d", i), fmt.Sprintf("Room %d", i))
		insp.AddArea(area)
	}
	if err := repo.Save(ctx, insp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := insp.RemoveArea("area-0"); err != nil {
		t.Fatalf("RemoveArea() error = %v", err)
	}
	if err := repo.Save(ctx, insp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, insp.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Areas) != 2 || got.Areas[0].ID != "area-1" || got.Areas[0].OrderIndex != 0 || got.Areas[1].OrderIndex != 1 {
		t.Fatalf("areas after delete = %+v %+v", got.Areas[0], got.Areas[1])
	}
}

func TestInspectionRepositoryRejectsStaleVersion(t *testing.T) {
	repo := NewInspectionRepository(testdb.Open(t))
	ctx := context.Background()
	seedInspection(t, repo)

	first, err := repo.Get(ctx, "insp-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := repo.Get(ctx, "insp-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	first.Header.AttentionTo = "Owner"
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save(first) error = %v", err)
	}

	second.Header.AttentionTo = "Tenant"
	err = repo.Save(ctx, second)
	if !errors.Is(err, inspection.ErrConflict) {
		t.Fatalf("Save(second) error = %v, want ErrConflict", err)
	}
	var conflict *inspection.VersionConflictError
	if !errors.As(err, &conflict) || conflict.Current != 2 || conflict.Expected != 1 {
		t.Fatalf("conflict = %+v", conflict)
	}
	if second.Version != 1 {
		t.Fatalf("version bumped on failed save: %d", second.Version)
	}

	got, _ := repo.Get(ctx, "insp-1")
	if got.Header.AttentionTo != "Owner" {
		t.Fatalf("stale write applied: %q", got.Header.AttentionTo)
	}
}

func TestInspectionRepositoryNotFound(t *testing.T) {
	repo := NewInspectionRepository(testdb.Open(t))
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, inspection.ErrNotFound) {
		t.Fatalf("Get() error = %v", err)
	}
	ghost := &inspection.Inspection{ID: "missing", Version: 1, Status: inspection.StatusInProgress}
	if err := repo.Save(ctx, ghost); !errors.Is(err, inspection.ErrNotFound) {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestInspectionRepositoryPersistsCost(t *testing.T) {
	repo := NewInspectionRepository(testdb.Open(t))
	ctx := context.Background()
	insp := seedInspection(t, repo)
	if _, err := insp.Start("MRC-2026-0009", lead.Lead{FirstName: "Lee"}, repoNow); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	b := costing.Breakdown{
		LabourCost:      decimal.RequireFromString("2495.97"),
		EquipmentCost:   decimal.RequireFromString("407"),
		Subtotal:        decimal.RequireFromString("2902.97"),
		GST:             decimal.RequireFromString("290.30"),
		TotalCost:       decimal.RequireFromString("3193.27"),
		WorkType:        costing.WorkTypeDemolition,
		TotalHours:      decimal.RequireFromString("12"),
		DiscountPercent: decimal.RequireFromString("0.075"),
	}
	if err := insp.Complete(b, nil, repoNow); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if err := repo.Save(ctx, insp); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, insp.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Cost == nil || !got.Cost.TotalCost.Equal(b.TotalCost) || !got.Cost.FinalCost.Equal(b.TotalCost) {
		t.Fatalf("cost = %+v", got.Cost)
	}
	if got.Cost.WorkType != costing.WorkTypeDemolition || !got.Cost.DiscountPercent.Equal(b.DiscountPercent) {
		t.Fatalf("cost = %+v", got.Cost)
	}

	items, err := repo.ListByStatus(ctx, inspection.StatusCompleted, 10)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(items) != 1 || items[0].JobNumber != "MRC-2026-0009" {
		t.Fatalf("ListByStatus() = %+v", items)
	}
}

func TestJobSequenceIsMonotonicPerYear(t *testing.T) {
	seq := NewJobSequence(testdb.Open(t))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, 2026)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got != want {
			t.Fatalf("Next(2026) = %d, want %d", got, want)
		}
	}

	got, err := seq.Next(ctx, 2027)
	if err != nil || got != 1 {
		t.Fatalf("Next(2027) = %d, %v", got, err)
	}
}

func TestJobSequenceConcurrentCallersGetDistinctValues(t *testing.T) {
	seq := NewJobSequence(testdb.Open(t))
	ctx := context.Background()

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := seq.Next(ctx, 2026)
			if err != nil {
				t.Errorf("Next() error = %v", err)
				return
			}
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != workers {
		t.Fatalf("distinct values = %d, want %d", len(seen), workers)
	}
}

func TestLeadRepository(t *testing.T) {
	repo := NewLeadRepository(testdb.Open(t))
	ctx := context.Background()

	l := lead.Lead{ID: "lead-1", FirstName: "Ana", LastName: "Lim", Phone: "0400", Suburb: "Fitzroy", Status: lead.StatusNew, CreatedAt: repoNow, UpdatedAt: repoNow}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.UpdateStatus(ctx, "lead-1", lead.StatusFormCompleted, repoNow.Add(time.Hour)); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.Get(ctx, "lead-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != lead.StatusFormCompleted || got.Suburb != "Fitzroy" {
		t.Fatalf("lead = %+v", got)
	}

	if err := repo.UpdateStatus(ctx, "nope", lead.StatusQuoted, repoNow); !errors.Is(err, lead.ErrNotFound) {
		t.Fatalf("UpdateStatus(missing) error = %v", err)
	}
}

func TestDriverErrorsCarryStack(t *testing.T) {
	repo := NewLeadRepository(testdb.Open(t))
	ctx := context.Background()

	l := lead.Lead{ID: "lead-dup", FirstName: "Ana", Status: lead.StatusNew, CreatedAt: repoNow, UpdatedAt: repoNow}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, l)
	if err == nil {
		t.Fatal("Create(duplicate) error = nil")
	}
	var se *errs.StackError
	if !errors.As(err, &se) || len(se.Stack()) == 0 {
		t.Fatalf("Create(duplicate) error = %v, want captured stack", err)
	}
	if !strings.HasPrefix(err.Error(), "insert lead: ") {
		t.Fatalf("Create(duplicate) error = %q, want operation prefix", err)
	}
	if errs.KindOf(err) != errs.KindInternal {
		t.Fatalf("kind = %s, want internal", errs.KindOf(err))
	}

	if _, err := repo.Get(ctx, "absent"); errors.As(err, &se) {
		t.Fatalf("not-found carries a stack: %v", err)
	}
}
