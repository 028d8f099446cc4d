package inspection

import (
	"context"

	domain "mrcfield/internal/domain/inspection"
)

// SlotPhotoInput fills a named photo slot. An empty URL clears the slot.
type SlotPhotoInput struct {
	InspectionID    string
	AreaID          string
	ExpectedVersion int64
	Slot            string
	URL             string
}

// PhotoInput appends a photo to an ordered list. AreaID and ReadingID are
// only used by the reading photo operations.
type PhotoInput struct {
	InspectionID    string
	AreaID          string
	ReadingID       string
	ExpectedVersion int64
	URL             string
	Caption         string
}

func (s *Service) SetOutdoorPhoto(ctx context.Context, input SlotPhotoInput) (*domain.Inspection, error) {
	slot, err := domain.ParseOutdoorSlot(input.Slot)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "set_outdoor_photo", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		return insp.Outdoor.SetPhoto(slot, input.URL)
	})
}

func (s *Service) SetAreaPhoto(ctx context.Context, input SlotPhotoInput) (*domain.Inspection, error) {
	slot, err := domain.ParseAreaSlot(input.Slot)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "set_area_photo", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		area, err := insp.FindArea(input.AreaID)
		if err != nil {
			return err
		}
		if err := area.SetPhoto(slot, input.URL); err != nil {
			return err
		}
		area.UpdatedAt = s.now()
		return nil
	})
}

func (s *Service) AddOutdoorDirectionPhoto(ctx context.Context, input PhotoInput) (ChildResult, error) {
	return s.addPhoto(ctx, "add_outdoor_direction_photo", input, func(insp *domain.Inspection, p *domain.Photo) error {
		insp.Outdoor.AddDirectionPhoto(p)
		return nil
	})
}

// AddSubfloorPhoto fails with ErrLimitExceeded once the subfloor is full.
func (s *Service) AddSubfloorPhoto(ctx context.Context, input PhotoInput) (ChildResult, error) {
	return s.addPhoto(ctx, "add_subfloor_photo", input, func(insp *domain.Inspection, p *domain.Photo) error {
		return insp.Subfloor.AddPhoto(p)
	})
}

func (s *Service) AddMoistureReadingPhoto(ctx context.Context, input PhotoInput) (ChildResult, error) {
	return s.addPhoto(ctx, "add_moisture_reading_photo", input, func(insp *domain.Inspection, p *domain.Photo) error {
		_, reading, err := insp.FindMoistureReading(input.AreaID, input.ReadingID)
		if err != nil {
			return err
		}
		reading.AddPhoto(p)
		return nil
	})
}

func (s *Service) AddSubfloorReadingPhoto(ctx context.Context, input PhotoInput) (ChildResult, error) {
	return s.addPhoto(ctx, "add_subfloor_reading_photo", input, func(insp *domain.Inspection, p *domain.Photo) error {
		reading, err := insp.FindSubfloorReading(input.ReadingID)
		if err != nil {
			return err
		}
		reading.AddPhoto(p)
		return nil
	})
}

func (s *Service) addPhoto(ctx context.Context, op string, input PhotoInput, attach func(*domain.Inspection, *domain.Photo) error) (ChildResult, error) {
	photo, err := domain.NewPhoto(s.newID(), input.URL, input.Caption)
	if err != nil {
		return ChildResult{}, err
	}
	insp, err := s.mutate(ctx, op, Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		return attach(insp, photo)
	})
	if err != nil {
		return ChildResult{}, err
	}
	return ChildResult{Inspection: insp, ChildID: photo.ID}, nil
}
