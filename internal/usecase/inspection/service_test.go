package inspection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mrcfield/internal/domain/costing"
	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/domain/lead"
	"mrcfield/internal/infrastructure/aitext"
	"mrcfield/internal/infrastructure/cache"
	"mrcfield/internal/infrastructure/export"
	"mrcfield/internal/infrastructure/persistence/relational/repository"
	"mrcfield/internal/infrastructure/persistence/relational/testdb"
	"mrcfield/internal/infrastructure/persistence/relational/uow"
	"mrcfield/internal/ports"
)

var testNow = time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.InspectionCompleted
	err    error
}

func (p *recordingPublisher) PublishInspectionCompleted(_ context.Context, evt ports.InspectionCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

// flakyLeads fails status updates but otherwise delegates.
type flakyLeads struct {
	ports.LeadRepository
	err error
}

func (f flakyLeads) UpdateStatus(context.Context, string, lead.Status, time.Time) error {
	return f.err
}

type fixture struct {
	svc       *Service
	db        *gorm.DB
	leads     *repository.LeadRepository
	publisher *recordingPublisher
}

func setupService(t *testing.T) fixture {
	t.Helper()

	db := testdb.Open(t)
	engine, err := costing.NewEngine(costing.DefaultRateCard())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	leads := repository.NewLeadRepository(db)
	publisher := &recordingPublisher{}

	svc := NewService(Dependencies{
		Inspections: repository.NewInspectionRepository(db),
		Leads:       leads,
		JobNumbers:  repository.NewJobSequence(db),
		UnitOfWork:  uow.NewUnitOfWork(db),
		Cache:       cache.NewKVCache(db),
		Engine:      engine,
		Text:        aitext.NewTemplateGenerator(),
		Events:      publisher,
		Renderer:    export.NewXLSXRenderer(),
	})
	svc.now = func() time.Time { return testNow }

	return fixture{svc: svc, db: db, leads: leads, publisher: publisher}
}

func (f fixture) seedLead(t *testing.T, id string) lead.Lead {
	t.Helper()

	l := lead.Lead{
		ID:          id,
		FirstName:   "Sam",
		LastName:    "Nguyen",
		Phone:       "0400 000 000",
		Suburb:      "Brunswick",
		Postcode:    "3056",
		ServiceType: "Mould inspection",
		Status:      lead.StatusNew,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	if err := f.leads.Create(context.Background(), l); err != nil {
		t.Fatalf("create lead: %v", err)
	}
	return l
}

// startedInspection returns an inspection that is in progress.
func (f fixture) startedInspection(t *testing.T, leadID string) *domain.Inspection {
	t.Helper()

	ctx := context.Background()
	f.seedLead(t, leadID)
	insp, err := f.svc.ConvertLead(ctx, ConvertLeadInput{LeadID: leadID, TechnicianID: "tech-1"})
	if err != nil {
		t.Fatalf("ConvertLead() error = %v", err)
	}
	started, err := f.svc.Start(ctx, Ref{InspectionID: insp.ID})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return started
}

func (f fixture) addArea(t *testing.T, inspectionID, name string, jobTime int) string {
	t.Helper()

	res, err := f.svc.AddArea(context.Background(), AddAreaInput{
		InspectionID: inspectionID,
		Name:         name,
		Patch:        domain.AreaPatch{JobTimeMinutes: domain.Some(jobTime)},
	})
	if err != nil {
		t.Fatalf("AddArea(%s) error = %v", name, err)
	}
	return res.ChildID
}

func TestConvertAndStartAssignsJobNumbers(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	first := f.startedInspection(t, "lead-1")
	second := f.startedInspection(t, "lead-2")

	if first.JobNumber != "MRC-2026-0001" || second.JobNumber != "MRC-2026-0002" {
		t.Fatalf("job numbers = %q, %q", first.JobNumber, second.JobNumber)
	}
	if first.Status != domain.StatusInProgress || first.Version != 2 {
		t.Fatalf("first = status %s version %d", first.Status, first.Version)
	}
	if first.Header.Address != "Brunswick, VIC 3056" || first.Header.RequestedBy != "Sam Nguyen" {
		t.Fatalf("header = %+v", first.Header)
	}
	if first.Header.Triage != "Mould inspection - Brunswick" {
		t.Fatalf("triage = %q", first.Header.Triage)
	}

	again, err := f.svc.Start(ctx, Ref{InspectionID: first.ID})
	if err != nil {
		t.Fatalf("Start() again error = %v", err)
	}
	if again.Version != first.Version || again.JobNumber != first.JobNumber {
		t.Fatalf("second start changed the inspection: %+v", again)
	}
}

func TestConvertLeadRequiresExistingLead(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.ConvertLead(context.Background(), ConvertLeadInput{LeadID: "missing"})
	if !errors.Is(err, lead.ErrNotFound) {
		t.Fatalf("ConvertLead() error = %v, want lead.ErrNotFound", err)
	}
}

func TestWritesRequireInProgress(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	f.seedLead(t, "lead-1")
	scheduled, err := f.svc.ConvertLead(ctx, ConvertLeadInput{LeadID: "lead-1"})
	if err != nil {
		t.Fatalf("ConvertLead() error = %v", err)
	}
	_, err = f.svc.UpdateWaste(ctx, PatchInput[domain.WastePatch]{
		InspectionID: scheduled.ID,
		Patch:        domain.WastePatch{Enabled: domain.Some(true)},
	})
	if !errors.Is(err, domain.ErrInspectionNotStarted) {
		t.Fatalf("UpdateWaste() on scheduled error = %v", err)
	}

	started, err := f.svc.Start(ctx, Ref{InspectionID: scheduled.ID})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := f.svc.Complete(ctx, CompleteInput{InspectionID: started.ID}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	_, err = f.svc.AddArea(ctx, AddAreaInput{InspectionID: started.ID, Name: "Lounge"})
	if !errors.Is(err, domain.ErrInspectionLocked) {
		t.Fatalf("AddArea() on completed error = %v", err)
	}
	if _, err := f.svc.Start(ctx, Ref{InspectionID: started.ID}); !errors.Is(err, domain.ErrInspectionLocked) {
		t.Fatalf("Start() on completed error = %v", err)
	}
}

func TestStaleExpectedVersionConflicts(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")

	updated, err := f.svc.UpdateHeader(ctx, PatchInput[domain.HeaderPatch]{
		InspectionID:    insp.ID,
		ExpectedVersion: insp.Version,
		Patch:           domain.HeaderPatch{AttentionTo: domain.Some("Property manager")},
	})
	if err != nil {
		t.Fatalf("UpdateHeader() error = %v", err)
	}
	if updated.Version != insp.Version+1 {
		t.Fatalf("version = %d, want %d", updated.Version, insp.Version+1)
	}

	_, err = f.svc.UpdateHeader(ctx, PatchInput[domain.HeaderPatch]{
		InspectionID:    insp.ID,
		ExpectedVersion: insp.Version,
		Patch:           domain.HeaderPatch{AttentionTo: domain.Some("Owner")},
	})
	var conflict *domain.VersionConflictError
	if !errors.As(err, &conflict) || conflict.Current != updated.Version {
		t.Fatalf("UpdateHeader() stale error = %v", err)
	}

	stored, err := f.svc.Get(ctx, insp.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Header.AttentionTo != "Property manager" {
		t.Fatalf("attentionTo = %q", stored.Header.AttentionTo)
	}
}

func TestAreaOrderingThroughService(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")

	a := f.addArea(t, insp.ID, "Kitchen", 30)
	b := f.addArea(t, insp.ID, "Bathroom", 30)
	c := f.addArea(t, insp.ID, "Laundry", 30)

	afterDelete, err := f.svc.DeleteArea(ctx, ChildRef{InspectionID: insp.ID, ChildID: b})
	if err != nil {
		t.Fatalf("DeleteArea() error = %v", err)
	}
	if len(afterDelete.Areas) != 2 || afterDelete.Areas[0].ID != a || afterDelete.Areas[1].ID != c || afterDelete.Areas[1].OrderIndex != 1 {
		t.Fatalf("areas after delete = %+v", afterDelete.Areas)
	}

	reordered, err := f.svc.ReorderAreas(ctx, ReorderInput{InspectionID: insp.ID, OrderedIDs: []string{c, a}})
	if err != nil {
		t.Fatalf("ReorderAreas() error = %v", err)
	}

	_, err = f.svc.ReorderAreas(ctx, ReorderInput{InspectionID: insp.ID, OrderedIDs: []string{c, "nope"}})
	if !errors.Is(err, domain.ErrUnknownChild) {
		t.Fatalf("ReorderAreas(unknown) error = %v", err)
	}

	stored, err := f.svc.GetDraft(ctx, insp.ID)
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if stored.Version != reordered.Version || stored.Areas[0].ID != c || stored.Areas[0].OrderIndex != 0 || stored.Areas[1].ID != a {
		t.Fatalf("stored areas = %+v version %d", stored.Areas, stored.Version)
	}
}

func TestMoistureReadingsThroughService(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")
	areaID := f.addArea(t, insp.ID, "Kitchen", 30)

	var ids []string
	for _, title := range []string{"Sink", "Window", "Door"} {
		res, err := f.svc.AddMoistureReading(ctx, AddMoistureReadingInput{InspectionID: insp.ID, AreaID: areaID, Title: title})
		if err != nil {
			t.Fatalf("AddMoistureReading() error = %v", err)
		}
		ids = append(ids, res.ChildID)
	}

	if _, err := f.svc.DeleteMoistureReading(ctx, MoistureReadingRef{InspectionID: insp.ID, AreaID: areaID, ReadingID: ids[0]}); err != nil {
		t.Fatalf("DeleteMoistureReading() error = %v", err)
	}
	if _, err := f.svc.AddMoistureReadingPhoto(ctx, PhotoInput{InspectionID: insp.ID, AreaID: areaID, ReadingID: ids[2], URL: "https://cdn.example/door.jpg"}); err != nil {
		t.Fatalf("AddMoistureReadingPhoto() error = %v", err)
	}
	got, err := f.svc.ReorderMoistureReadings(ctx, ReorderMoistureReadingsInput{InspectionID: insp.ID, AreaID: areaID, OrderedIDs: []string{ids[2], ids[1]}})
	if err != nil {
		t.Fatalf("ReorderMoistureReadings() error = %v", err)
	}

	readings := got.Areas[0].Readings
	if len(readings) != 2 || readings[0].Title != "Door" || readings[0].OrderIndex != 0 || len(readings[0].Photos) != 1 {
		t.Fatalf("readings = %+v", readings)
	}
}

func TestDewPointOverrideAndRevert(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")
	areaID := f.addArea(t, insp.ID, "Bedroom", 60)

	if _, err := f.svc.UpdateArea(ctx, UpdateAreaInput{
		InspectionID: insp.ID,
		AreaID:       areaID,
		Patch:        domain.AreaPatch{Temperature: domain.Some(22.5), Humidity: domain.Some(65.0)},
	}); err != nil {
		t.Fatalf("UpdateArea() error = %v", err)
	}

	pinned, err := f.svc.OverrideDewPoint(ctx, DewPointInput{InspectionID: insp.ID, AreaID: areaID, Value: 14.0})
	if err != nil {
		t.Fatalf("OverrideDewPoint() error = %v", err)
	}
	climate := pinned.Areas[0].Climate
	if climate.Mode != domain.DewPointManual || *climate.DewPoint != 14.0 {
		t.Fatalf("climate after override = %+v", climate)
	}

	changed, err := f.svc.UpdateArea(ctx, UpdateAreaInput{
		InspectionID: insp.ID,
		AreaID:       areaID,
		Patch:        domain.AreaPatch{Temperature: domain.Some(25.0)},
	})
	if err != nil {
		t.Fatalf("UpdateArea() error = %v", err)
	}
	if *changed.Areas[0].Climate.DewPoint != 14.0 {
		t.Fatalf("pinned dew point moved to %v", *changed.Areas[0].Climate.DewPoint)
	}

	reverted, err := f.svc.RevertDewPoint(ctx, ChildRef{InspectionID: insp.ID, ChildID: areaID})
	if err != nil {
		t.Fatalf("RevertDewPoint() error = %v", err)
	}
	climate = reverted.Areas[0].Climate
	if climate.Mode != domain.DewPointAuto || *climate.DewPoint != 18.0 {
		t.Fatalf("climate after revert = %+v dewPoint %v", climate, *climate.DewPoint)
	}
}

func TestSubfloorPhotoCap(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")

	for i := 0; i < domain.MaxSubfloorPhotos; i++ {
		if _, err := f.svc.AddSubfloorPhoto(ctx, PhotoInput{InspectionID: insp.ID, URL: "https://cdn.example/sub.jpg"}); err != nil {
			t.Fatalf("AddSubfloorPhoto(%d) error = %v", i, err)
		}
	}
	_, err := f.svc.AddSubfloorPhoto(ctx, PhotoInput{InspectionID: insp.ID, URL: "https://cdn.example/sub.jpg"})
	if !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("AddSubfloorPhoto(21) error = %v", err)
	}

	stored, err := f.svc.Get(ctx, insp.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(stored.Subfloor.Photos) != domain.MaxSubfloorPhotos {
		t.Fatalf("subfloor photos = %d", len(stored.Subfloor.Photos))
	}
}

func TestPhotoSlots(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")
	areaID := f.addArea(t, insp.ID, "Bedroom", 60)

	if _, err := f.svc.SetOutdoorPhoto(ctx, SlotPhotoInput{InspectionID: insp.ID, Slot: "backyard", URL: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("SetOutdoorPhoto(unknown slot) error = %v", err)
	}
	if _, err := f.svc.SetOutdoorPhoto(ctx, SlotPhotoInput{InspectionID: insp.ID, Slot: "mailbox", URL: "https://cdn.example/mb.jpg"}); err != nil {
		t.Fatalf("SetOutdoorPhoto() error = %v", err)
	}
	for _, slot := range []string{"roomPhoto1", "roomPhoto2", "roomPhoto3"} {
		if _, err := f.svc.SetAreaPhoto(ctx, SlotPhotoInput{InspectionID: insp.ID, AreaID: areaID, Slot: slot, URL: "https://cdn.example/" + slot}); err != nil {
			t.Fatalf("SetAreaPhoto(%s) error = %v", slot, err)
		}
	}
	res, err := f.svc.AddOutdoorDirectionPhoto(ctx, PhotoInput{InspectionID: insp.ID, URL: "https://cdn.example/north.jpg", Caption: "North"})
	if err != nil {
		t.Fatalf("AddOutdoorDirectionPhoto() error = %v", err)
	}

	got := res.Inspection
	if got.Outdoor.MailboxPhoto != "https://cdn.example/mb.jpg" || !got.Areas[0].RoomPhotosComplete() {
		t.Fatalf("photos not stored: outdoor=%+v area=%+v", got.Outdoor, got.Areas[0].RoomPhotos)
	}
	if len(got.Outdoor.DirectionPhotos) != 1 || got.Outdoor.DirectionPhotos[0].ID != res.ChildID {
		t.Fatalf("direction photos = %+v", got.Outdoor.DirectionPhotos)
	}
}

func TestGeneratedTextKeepsTechnicianEdits(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")
	areaID := f.addArea(t, insp.ID, "Bathroom", 60)

	gen, err := f.svc.GenerateAreaComments(ctx, AreaTextRef{InspectionID: insp.ID, AreaID: areaID})
	if err != nil {
		t.Fatalf("GenerateAreaComments() error = %v", err)
	}
	comments := gen.Inspection.Areas[0].Comments
	if gen.Text == "" || comments.Generated != gen.Text || comments.Edited != gen.Text || comments.Approved {
		t.Fatalf("comments = %+v", comments)
	}

	edited, err := f.svc.UpdateArea(ctx, UpdateAreaInput{
		InspectionID: insp.ID,
		AreaID:       areaID,
		Patch: domain.AreaPatch{
			CommentsEdited:   domain.Some("Edited by technician."),
			CommentsApproved: domain.Some(true),
		},
	})
	if err != nil {
		t.Fatalf("UpdateArea() error = %v", err)
	}
	comments = edited.Areas[0].Comments
	if comments.Generated != gen.Text || comments.Edited != "Edited by technician." || !comments.Approved {
		t.Fatalf("comments after edit = %+v", comments)
	}

	cause, err := f.svc.GenerateCauseOfMould(ctx, Ref{InspectionID: insp.ID})
	if err != nil {
		t.Fatalf("GenerateCauseOfMould() error = %v", err)
	}
	if cause.Inspection.Summary.CauseOfMould.Generated == "" {
		t.Fatalf("cause of mould not stored")
	}

	if _, err := f.svc.GenerateSubfloorComments(ctx, Ref{InspectionID: insp.ID, ExpectedVersion: 1}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("GenerateSubfloorComments(stale) error = %v", err)
	}
}

func TestCompletePricesAndNotifies(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")
	f.addArea(t, insp.ID, "Bedroom", 30)
	f.addArea(t, insp.ID, "Hallway", 45)

	preview, err := f.svc.PreviewInspectionCost(ctx, insp.ID)
	if err != nil {
		t.Fatalf("PreviewInspectionCost() error = %v", err)
	}
	beforeComplete, err := f.svc.Get(ctx, insp.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	res, err := f.svc.Complete(ctx, CompleteInput{InspectionID: insp.ID, ExpectedVersion: beforeComplete.Version})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.LeadUpdateError != nil || res.EventError != nil {
		t.Fatalf("side effects failed: %v / %v", res.LeadUpdateError, res.EventError)
	}

	cost := res.Inspection.Cost
	if cost == nil || cost.TotalCost.StringFixed(2) != "420.75" || !cost.FinalCost.Equal(cost.TotalCost) || cost.FinalOverridden {
		t.Fatalf("cost = %+v", cost)
	}
	if !preview.TotalCost.Equal(cost.TotalCost) {
		t.Fatalf("preview %s differs from completion %s", preview.TotalCost, cost.TotalCost)
	}
	if res.Inspection.Status != domain.StatusCompleted || res.Inspection.CompletedAt == nil {
		t.Fatalf("inspection = status %s completedAt %v", res.Inspection.Status, res.Inspection.CompletedAt)
	}

	l, err := f.leads.Get(ctx, "lead-1")
	if err != nil {
		t.Fatalf("Get lead error = %v", err)
	}
	if l.Status != lead.StatusFormCompleted {
		t.Fatalf("lead status = %s", l.Status)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].JobNumber != insp.JobNumber {
		t.Fatalf("events = %+v", f.publisher.events)
	}
}

func TestCompleteWithFinalCostOverride(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")
	f.addArea(t, insp.ID, "Bedroom", 120)

	override := decimal.RequireFromString("650.005")
	res, err := f.svc.Complete(ctx, CompleteInput{InspectionID: insp.ID, FinalCostOverride: &override})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !res.Inspection.Cost.FinalOverridden || res.Inspection.Cost.FinalCost.String() != "650.01" {
		t.Fatalf("cost = %+v", res.Inspection.Cost)
	}
	if res.Inspection.Cost.TotalCost.StringFixed(2) != "673.20" {
		t.Fatalf("total = %s", res.Inspection.Cost.TotalCost)
	}
}

func TestCompleteSurvivesLeadAndEventFailures(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")

	leadErr := errors.New("lead store offline")
	f.svc.leads = flakyLeads{LeadRepository: f.leads, err: leadErr}
	f.publisher.err = errors.New("broker offline")

	res, err := f.svc.Complete(ctx, CompleteInput{InspectionID: insp.ID})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !errors.Is(res.LeadUpdateError, leadErr) || res.EventError == nil {
		t.Fatalf("result errors = %v / %v", res.LeadUpdateError, res.EventError)
	}

	stored, err := f.svc.Get(ctx, insp.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Status != domain.StatusCompleted || stored.Cost == nil {
		t.Fatalf("completion rolled back: %+v", stored)
	}
}

func TestPreviewCostRejectsNegativeInput(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.PreviewCost(context.Background(), costing.CostInput{Areas: []costing.AreaInput{{JobTimeMinutes: -5}}})
	if !errors.Is(err, costing.ErrInvalidCostInput) {
		t.Fatalf("PreviewCost() error = %v", err)
	}
}

func TestListAndExport(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	insp := f.startedInspection(t, "lead-1")

	items, err := f.svc.List(ctx, ListInput{Status: "in_progress"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != insp.ID || items[0].JobNumber != insp.JobNumber {
		t.Fatalf("items = %+v", items)
	}
	if _, err := f.svc.List(ctx, ListInput{Status: "archived"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("List(unknown) error = %v", err)
	}

	var buf writerCounter
	if err := f.svc.ExportReport(ctx, insp.ID, &buf); err != nil {
		t.Fatalf("ExportReport() error = %v", err)
	}
	if buf.n == 0 || f.svc.ReportContentType() == "" {
		t.Fatalf("empty report")
	}
}

type writerCounter struct{ n int }

func (w *writerCounter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
