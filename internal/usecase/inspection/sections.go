package inspection

import (
	"context"

	domain "mrcfield/internal/domain/inspection"
)

// PatchInput carries a section patch for one inspection.
type PatchInput[P any] struct {
	InspectionID    string
	ExpectedVersion int64
	Patch           P
}

func (in PatchInput[P]) ref() Ref {
	return Ref{InspectionID: in.InspectionID, ExpectedVersion: in.ExpectedVersion}
}

func (s *Service) UpdateHeader(ctx context.Context, input PatchInput[domain.HeaderPatch]) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_header", input.ref(), func(insp *domain.Inspection) error {
		input.Patch.Apply(&insp.Header)
		return nil
	})
}

func (s *Service) UpdateProperty(ctx context.Context, input PatchInput[domain.PropertyPatch]) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_property", input.ref(), func(insp *domain.Inspection) error {
		input.Patch.Apply(&insp.Property)
		return nil
	})
}

func (s *Service) UpdateSubfloor(ctx context.Context, input PatchInput[domain.SubfloorPatch]) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_subfloor", input.ref(), func(insp *domain.Inspection) error {
		return input.Patch.Apply(&insp.Subfloor)
	})
}

func (s *Service) UpdateOutdoor(ctx context.Context, input PatchInput[domain.OutdoorPatch]) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_outdoor", input.ref(), func(insp *domain.Inspection) error {
		return input.Patch.Apply(&insp.Outdoor)
	})
}

func (s *Service) UpdateWaste(ctx context.Context, input PatchInput[domain.WastePatch]) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_waste", input.ref(), func(insp *domain.Inspection) error {
		input.Patch.Apply(&insp.Waste)
		return nil
	})
}

func (s *Service) UpdateProcedure(ctx context.Context, input PatchInput[domain.ProcedurePatch]) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_procedure", input.ref(), func(insp *domain.Inspection) error {
		return input.Patch.Apply(&insp.Procedure)
	})
}

func (s *Service) UpdateSummary(ctx context.Context, input PatchInput[domain.SummaryPatch]) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_summary", input.ref(), func(insp *domain.Inspection) error {
		input.Patch.Apply(&insp.Summary)
		return nil
	})
}
