package inspection

import (
	"context"

	domain "mrcfield/internal/domain/inspection"
)

type AddMoistureReadingInput struct {
	InspectionID    string
	AreaID          string
	ExpectedVersion int64
	Title           string
}

type UpdateMoistureReadingInput struct {
	InspectionID    string
	AreaID          string
	ReadingID       string
	ExpectedVersion int64
	Patch           domain.MoistureReadingPatch
}

type MoistureReadingRef struct {
	InspectionID    string
	AreaID          string
	ReadingID       string
	ExpectedVersion int64
}

type ReorderMoistureReadingsInput struct {
	InspectionID    string
	AreaID          string
	ExpectedVersion int64
	OrderedIDs      []string
}

type AddSubfloorReadingInput struct {
	InspectionID    string
	ExpectedVersion int64
	Patch           domain.SubfloorReadingPatch
}

type UpdateSubfloorReadingInput struct {
	InspectionID    string
	ReadingID       string
	ExpectedVersion int64
	Patch           domain.SubfloorReadingPatch
}

func (s *Service) AddMoistureReading(ctx context.Context, input AddMoistureReadingInput) (ChildResult, error) {
	readingID := s.newID()
	insp, err := s.mutate(ctx, "add_moisture_reading", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.AreaID)
		if err != nil {
			return err
		}
		reading := &domain.MoistureReading{ID: readingID}
		domain.MoistureReadingPatch{Title: domain.Some(input.Title)}.Apply(reading)
		area.AddReading(reading)
		return nil
	})
	if err != nil {
		return ChildResult{}, err
	}
	return ChildResult{Inspection: insp, ChildID: readingID}, nil
}

func (s *Service) UpdateMoistureReading(ctx context.Context, input UpdateMoistureReadingInput) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_moisture_reading", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		_, reading, err := insp.FindMoistureReading(input.AreaID, input.ReadingID)
		if err != nil {
			return err
		}
		input.Patch.Apply(reading)
		return nil
	})
}

func (s *Service) DeleteMoistureReading(ctx context.Context, input MoistureReadingRef) (*domain.Inspection, error) {
	return s.mutate(ctx, "delete_moisture_reading", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.AreaID)
		if err != nil {
			return err
		}
		return area.RemoveReading(input.ReadingID)
	})
}

func (s *Service) ReorderMoistureReadings(ctx context.Context, input ReorderMoistureReadingsInput) (*domain.Inspection, error) {
	return s.mutate(ctx, "reorder_moisture_readings", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.AreaID)
		if err != nil {
			return err
		}
		return area.ReorderReadings(input.OrderedIDs)
	})
}

func (s *Service) AddSubfloorReading(ctx context.Context, input AddSubfloorReadingInput) (ChildResult, error) {
	readingID := s.newID()
	insp, err := s.mutate(ctx, "add_subfloor_reading", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		reading := &domain.SubfloorReading{ID: readingID}
		if err := input.Patch.Apply(reading); err != nil {
			return err
		}
		insp.AddSubfloorReading(reading)
		return nil
	})
	if err != nil {
		return ChildResult{}, err
	}
	return ChildResult{Inspection: insp, ChildID: readingID}, nil
}

func (s *Service) UpdateSubfloorReading(ctx context.Context, input UpdateSubfloorReadingInput) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_subfloor_reading", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		reading, err := insp.FindSubfloorReading(input.ReadingID)
		if err != nil {
			return err
		}
		return input.Patch.Apply(reading)
	})
}

func (s *Service) DeleteSubfloorReading(ctx context.Context, input ChildRef) (*domain.Inspection, error) {
	return s.mutate(ctx, "delete_subfloor_reading", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		return insp.RemoveSubfloorReading(input.ChildID)
	})
}

func (s *Service) ReorderSubfloorReadings(ctx context.Context, input ReorderInput) (*domain.Inspection, error) {
	return s.mutate(ctx, "reorder_subfloor_readings", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		return insp.ReorderSubfloorReadings(input.OrderedIDs)
	})
}
