package inspection

import (
	"context"
	"errors"
	"strings"

	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

type AreaTextRef struct {
	InspectionID    string
	AreaID          string
	ExpectedVersion int64
}

type TextResult struct {
	Inspection *domain.Inspection
	Text       string
}

// The generator runs outside the write transaction. The write that stores its
// text still honours ExpectedVersion.

func (s *Service) GenerateAreaComments(ctx context.Context, input AreaTextRef) (TextResult, error) {
	return s.generateAreaText(ctx, "generate_area_comments", input,
		func(ctx context.Context, in ports.AreaTextInput) (string, error) { return s.text.AreaComments(ctx, in) },
		func(a *domain.Area) *domain.TextTriple { return &a.Comments },
	)
}

func (s *Service) GenerateDemolitionDescription(ctx context.Context, input AreaTextRef) (TextResult, error) {
	return s.generateAreaText(ctx, "generate_demolition_description", input,
		func(ctx context.Context, in ports.AreaTextInput) (string, error) {
			return s.text.DemolitionDescription(ctx, in)
		},
		func(a *domain.Area) *domain.TextTriple { return &a.Demolition },
	)
}

func (s *Service) GenerateCauseOfMould(ctx context.Context, ref Ref) (TextResult, error) {
	return s.generateInspectionText(ctx, "generate_cause_of_mould", ref,
		func(ctx context.Context, in ports.InspectionTextInput) (string, error) {
			return s.text.CauseOfMould(ctx, in)
		},
		func(insp *domain.Inspection) *domain.TextTriple { return &insp.Summary.CauseOfMould },
	)
}

func (s *Service) GenerateSubfloorComments(ctx context.Context, ref Ref) (TextResult, error) {
	return s.generateInspectionText(ctx, "generate_subfloor_comments", ref,
		func(ctx context.Context, in ports.InspectionTextInput) (string, error) {
			return s.text.SubfloorComments(ctx, in)
		},
		func(insp *domain.Inspection) *domain.TextTriple { return &insp.Subfloor.Comments },
	)
}

func (s *Service) generateAreaText(
	ctx context.Context,
	op string,
	input AreaTextRef,
	generate func(context.Context, ports.AreaTextInput) (string, error),
	target func(*domain.Area) *domain.TextTriple,
) (TextResult, error) {
	insp, err := s.loadForText(ctx, input.InspectionID, input.ExpectedVersion)
	if err != nil {
		return TextResult{}, err
	}
	area, err := insp.FindArea(input.AreaID)
	if err != nil {
		return TextResult{}, err
	}

	text, err := generate(ctx, areaTextInput(area))
	if err != nil {
		return TextResult{}, errs.Wrap(err, "generate text")
	}

	saved, err := s.mutate(ctx, op, Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.AreaID)
		if err != nil {
			return err
		}
		target(area).SetGenerated(text)
		area.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return TextResult{}, err
	}
	return TextResult{Inspection: saved, Text: text}, nil
}

func (s *Service) generateInspectionText(
	ctx context.Context,
	op string,
	ref Ref,
	generate func(context.Context, ports.InspectionTextInput) (string, error),
	target func(*domain.Inspection) *domain.TextTriple,
) (TextResult, error) {
	insp, err := s.loadForText(ctx, ref.InspectionID, ref.ExpectedVersion)
	if err != nil {
		return TextResult{}, err
	}

	text, err := generate(ctx, inspectionTextInput(insp))
	if err != nil {
		return TextResult{}, errs.Wrap(err, "generate text")
	}

	saved, err := s.mutate(ctx, op, ref, func(insp *domain.Inspection) error {
		target(insp).SetGenerated(text)
		return nil
	})
	if err != nil {
		return TextResult{}, err
	}
	return TextResult{Inspection: saved, Text: text}, nil
}

func (s *Service) loadForText(ctx context.Context, inspectionID string, expected int64) (*domain.Inspection, error) {
	if s.text == nil {
		return nil, errors.New("text generator is required")
	}
	insp, err := s.Get(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if err := insp.CheckVersion(expected); err != nil {
		return nil, err
	}
	if err := insp.EnsureEditable(); err != nil {
		return nil, err
	}
	return insp, nil
}

func areaTextInput(a *domain.Area) ports.AreaTextInput {
	readings := make([]string, 0, len(a.Readings))
	for _, r := range a.Readings {
		if title := strings.TrimSpace(r.Title); title != "" {
			readings = append(readings, title)
		}
	}
	demolition := 0
	if a.DemolitionRequired {
		demolition = a.DemolitionTimeMinutes
	}
	return ports.AreaTextInput{
		AreaName:        a.Name,
		MouldVisibility: append([]string(nil), a.MouldVisibility...),
		Temperature:     a.Climate.Temperature,
		Humidity:        a.Climate.Humidity,
		DewPoint:        a.Climate.DewPoint,
		DemolitionTime:  demolition,
		Readings:        readings,
	}
}

func inspectionTextInput(insp *domain.Inspection) ports.InspectionTextInput {
	areas := make([]ports.AreaTextInput, 0, len(insp.Areas))
	for _, a := range insp.Areas {
		areas = append(areas, areaTextInput(a))
	}
	values := make([]float64, 0, len(insp.SubfloorReadings))
	for _, r := range insp.SubfloorReadings {
		if r.MoistureValue != nil {
			values = append(values, *r.MoistureValue)
		}
	}
	return ports.InspectionTextInput{
		Address:            insp.Header.Address,
		DwellingType:       insp.Property.DwellingType,
		Areas:              areas,
		OutdoorTemperature: insp.Outdoor.Temperature,
		OutdoorHumidity:    insp.Outdoor.Humidity,
		Observations:       insp.Subfloor.Observations,
		Landscape:          insp.Subfloor.Landscape,
		Sanitation:         insp.Subfloor.Sanitation,
		Racking:            insp.Subfloor.Racking,
		ReadingValues:      values,
	}
}
