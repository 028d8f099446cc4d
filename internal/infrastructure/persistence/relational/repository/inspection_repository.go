package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"mrcfield/internal/domain/inspection"
	"mrcfield/internal/errs"
	"mrcfield/internal/infrastructure/persistence/relational/model"
	"mrcfield/internal/ports"
)

type InspectionRepository struct {
	db *gorm.DB
}

var _ ports.InspectionRepository = (*InspectionRepository)(nil)

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

func (r *InspectionRepository) Get(ctx context.Context, id string) (*inspection.Inspection, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	var row model.Inspection
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", inspection.ErrNotFound, id)
		}
		return nil, dbError(err, "query inspection")
	}

	insp := mapInspection(row)
	if err := loadChildren(db, insp); err != nil {
		return nil, err
	}
	return insp, nil
}

func loadChildren(db *gorm.DB, insp *inspection.Inspection) error {
	var areaRows []model.Area
	if err := db.Where("inspection_id = ?", insp.ID).Order("order_index asc").Find(&areaRows).Error; err != nil {
		return dbError(err, "query areas")
	}
	var readingRows []model.MoistureReading
	if err := db.Where("inspection_id = ?", insp.ID).Order("order_index asc").Find(&readingRows).Error; err != nil {
		return dbError(err, "query moisture readings")
	}
	var subfloorRows []model.SubfloorReading
	if err := db.Where("inspection_id = ?", insp.ID).Order("order_index asc").Find(&subfloorRows).Error; err != nil {
		return dbError(err, "query subfloor readings")
	}
	var photoRows []model.Photo
	if err := db.Where("inspection_id = ?", insp.ID).Order("order_index asc").Find(&photoRows).Error; err != nil {
		return dbError(err, "query photos")
	}

	photos := make(map[string][]*inspection.Photo, len(photoRows))
	for _, row := range photoRows {
		key := row.OwnerKind + "/" + row.OwnerID
		photos[key] = append(photos[key], mapPhoto(row))
	}
	photosOf := func(kind, ownerID string) []*inspection.Photo {
		return photos[kind+"/"+ownerID]
	}

	areas := make(map[string]*inspection.Area, len(areaRows))
	insp.Areas = make([]*inspection.Area, 0, len(areaRows))
	for _, row := range areaRows {
		area := mapArea(row)
		areas[area.ID] = area
		insp.Areas = append(insp.Areas, area)
	}
	for _, row := range readingRows {
		area, ok := areas[row.AreaID]
		if !ok {
			continue
		}
		area.Readings = append(area.Readings, &inspection.MoistureReading{
			ID:         row.ID,
			AreaID:     row.AreaID,
			Title:      row.Title,
			OrderIndex: row.OrderIndex,
			Photos:     photosOf(model.PhotoOwnerMoistureReading, row.ID),
		})
	}

	insp.SubfloorReadings = make([]*inspection.SubfloorReading, 0, len(subfloorRows))
	for _, row := range subfloorRows {
		insp.SubfloorReadings = append(insp.SubfloorReadings, &inspection.SubfloorReading{
			ID:            row.ID,
			InspectionID:  row.InspectionID,
			MoistureValue: row.MoistureValue,
			Location:      row.Location,
			OrderIndex:    row.OrderIndex,
			Photos:        photosOf(model.PhotoOwnerSubfloorReading, row.ID),
		})
	}

	insp.Subfloor.Photos = photosOf(model.PhotoOwnerSubfloor, insp.ID)
	insp.Outdoor.DirectionPhotos = photosOf(model.PhotoOwnerOutdoorDirection, insp.ID)
	return nil
}

func (r *InspectionRepository) Create(ctx context.Context, insp *inspection.Inspection) error {
	if insp == nil {
		return errors.New("inspection is required")
	}
	if insp.Version <= 0 {
		insp.Version = 1
	}

	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		row := inspectionToRow(insp)
		if err := tx.Create(&row).Error; err != nil {
			return dbError(err, "insert inspection")
		}
		return writeChildren(tx, insp)
	})
}

// Save applies the aggregate under an optimistic lock on the root version.
// Children are rewritten wholesale inside the same transaction.
func (r *InspectionRepository) Save(ctx context.Context, insp *inspection.Inspection) error {
	if insp == nil {
		return errors.New("inspection is required")
	}

	expected := insp.Version
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		row := inspectionToRow(insp)
		row.Version = expected + 1

		result := tx.Model(&model.Inspection{}).
			Where("id = ? AND version = ?", insp.ID, expected).
			Select("*").
			Omit("id", "created_at").
			Updates(&row)
		if result.Error != nil {
			return dbError(result.Error, "update inspection")
		}
		if result.RowsAffected == 0 {
			return staleOrMissing(tx, insp.ID, expected)
		}

		if err := deleteChildren(tx, insp.ID); err != nil {
			return err
		}
		return writeChildren(tx, insp)
	})
	if err != nil {
		return err
	}

	insp.Version = expected + 1
	return nil
}

func staleOrMissing(tx *gorm.DB, id string, expected int64) error {
	var current model.Inspection
	if err := tx.Select("id", "version").Where("id = ?", id).Take(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", inspection.ErrNotFound, id)
		}
		return dbError(err, "query inspection version")
	}
	return &inspection.VersionConflictError{Expected: expected, Current: current.Version}
}

func deleteChildren(tx *gorm.DB, inspectionID string) error {
	for _, m := range []any{&model.Photo{}, &model.MoistureReading{}, &model.SubfloorReading{}, &model.Area{}} {
		if err := tx.Where("inspection_id = ?", inspectionID).Delete(m).Error; err != nil {
			return errs.Wrapf(errs.WithStack(err), "delete children %T", m)
		}
	}
	return nil
}

func writeChildren(tx *gorm.DB, insp *inspection.Inspection) error {
	areas := make([]model.Area, 0, len(insp.Areas))
	readings := make([]model.MoistureReading, 0)
	photos := photoRows(insp.ID, model.PhotoOwnerSubfloor, insp.ID, insp.Subfloor.Photos)
	photos = append(photos, photoRows(insp.ID, model.PhotoOwnerOutdoorDirection, insp.ID, insp.Outdoor.DirectionPhotos)...)

	for _, area := range insp.Areas {
		area.InspectionID = insp.ID
		areas = append(areas, areaToRow(area))
		for _, reading := range area.Readings {
			readings = append(readings, model.MoistureReading{
				ID:           reading.ID,
				InspectionID: insp.ID,
				AreaID:       area.ID,
				Title:        reading.Title,
				OrderIndex:   reading.OrderIndex,
			})
			photos = append(photos, photoRows(insp.ID, model.PhotoOwnerMoistureReading, reading.ID, reading.Photos)...)
		}
	}

	subfloor := make([]model.SubfloorReading, 0, len(insp.SubfloorReadings))
	for _, reading := range insp.SubfloorReadings {
		subfloor = append(subfloor, model.SubfloorReading{
			ID:            reading.ID,
			InspectionID:  insp.ID,
			MoistureValue: reading.MoistureValue,
			Location:      reading.Location,
			OrderIndex:    reading.OrderIndex,
		})
		photos = append(photos, photoRows(insp.ID, model.PhotoOwnerSubfloorReading, reading.ID, reading.Photos)...)
	}

	if len(areas) > 0 {
		if err := tx.Create(&areas).Error; err != nil {
			return dbError(err, "insert areas")
		}
	}
	if len(readings) > 0 {
		if err := tx.Create(&readings).Error; err != nil {
			return dbError(err, "insert moisture readings")
		}
	}
	if len(subfloor) > 0 {
		if err := tx.Create(&subfloor).Error; err != nil {
			return dbError(err, "insert subfloor readings")
		}
	}
	if len(photos) > 0 {
		if err := tx.Create(&photos).Error; err != nil {
			return dbError(err, "insert photos")
		}
	}
	return nil
}

func (r *InspectionRepository) ListByStatus(ctx context.Context, status inspection.Status, limit int) ([]ports.InspectionSummary, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Inspection{}).
		Select("id", "lead_id", "job_number", "status", "version", "updated_at").
		Order("updated_at desc")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Inspection
	if err := query.Find(&rows).Error; err != nil {
		return nil, dbError(err, "query inspections")
	}

	items := make([]ports.InspectionSummary, 0, len(rows))
	for _, row := range rows {
		item := ports.InspectionSummary{
			ID:        row.ID,
			LeadID:    row.LeadID,
			Status:    inspection.Status(row.Status),
			Version:   row.Version,
			UpdatedAt: row.UpdatedAt,
		}
		if row.JobNumber != nil {
			item.JobNumber = *row.JobNumber
		}
		items = append(items, item)
	}
	return items, nil
}
