package inspection

import (
	"context"

	domain "mrcfield/internal/domain/inspection"
)

type AddAreaInput struct {
	InspectionID    string
	ExpectedVersion int64
	Name            string
	// Patch sets further fields on the new area. Its name, when present,
	// wins over Name.
	Patch domain.AreaPatch
}

type UpdateAreaInput struct {
	InspectionID    string
	AreaID          string
	ExpectedVersion int64
	Patch           domain.AreaPatch
}

type DewPointInput struct {
	InspectionID    string
	AreaID          string
	ExpectedVersion int64
	Value           float64
}

// AddArea appends an area at the end of the inspection's area order.
func (s *Service) AddArea(ctx context.Context, input AddAreaInput) (ChildResult, error) {
	name := input.Name
	if v, ok := input.Patch.Name.Value(); ok {
		name = v
	}
	if err := input.Patch.Validate(); err != nil {
		return ChildResult{}, err
	}

	areaID := s.newID()
	insp, err := s.mutate(ctx, "add_area", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := domain.NewArea(areaID, name)
		if err != nil {
			return err
		}
		if err := input.Patch.Apply(area); err != nil {
			return err
		}
		now := s.now()
		area.CreatedAt, area.UpdatedAt = now, now
		insp.AddArea(area)
		return nil
	})
	if err != nil {
		return ChildResult{}, err
	}
	return ChildResult{Inspection: insp, ChildID: areaID}, nil
}

func (s *Service) UpdateArea(ctx context.Context, input UpdateAreaInput) (*domain.Inspection, error) {
	return s.mutate(ctx, "update_area", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.AreaID)
		if err != nil {
			return err
		}
		if err := input.Patch.Apply(area); err != nil {
			return err
		}
		area.UpdatedAt = s.now()
		return nil
	})
}

// DeleteArea removes the area with its readings and closes the gap in the order.
func (s *Service) DeleteArea(ctx context.Context, input ChildRef) (*domain.Inspection, error) {
	return s.mutate(ctx, "delete_area", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		return insp.RemoveArea(input.ChildID)
	})
}

func (s *Service) ReorderAreas(ctx context.Context, input ReorderInput) (*domain.Inspection, error) {
	return s.mutate(ctx, "reorder_areas", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		return insp.ReorderAreas(input.OrderedIDs)
	})
}

// OverrideDewPoint pins an area's dew point to the technician's value.
func (s *Service) OverrideDewPoint(ctx context.Context, input DewPointInput) (*domain.Inspection, error) {
	return s.mutate(ctx, "override_dew_point", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.AreaID)
		if err != nil {
			return err
		}
		if err := area.Climate.OverrideDewPoint(input.Value); err != nil {
			return err
		}
		area.UpdatedAt = s.now()
		return nil
	})
}

// RevertDewPoint returns an area's dew point to the computed value.
func (s *Service) RevertDewPoint(ctx context.Context, input ChildRef) (*domain.Inspection, error) {
	return s.mutate(ctx, "revert_dew_point", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.ChildID)
		if err != nil {
			return err
		}
		if err := area.Climate.RevertToAuto(); err != nil {
			return err
		}
		area.UpdatedAt = s.now()
		return nil
	})
}
