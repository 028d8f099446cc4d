package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"mrcfield/internal/domain/costing"
	"mrcfield/internal/domain/inspection"
	"mrcfield/internal/domain/lead"
	"mrcfield/internal/infrastructure/persistence/relational/model"
)

func leadToRow(l lead.Lead) model.Lead {
	return model.Lead{
		ID:          l.ID,
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		Email:       l.Email,
		Phone:       l.Phone,
		Address:     l.Address,
		Suburb:      l.Suburb,
		Postcode:    l.Postcode,
		ServiceType: l.ServiceType,
		Notes:       l.Notes,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt.UTC(),
		UpdatedAt:   l.UpdatedAt.UTC(),
	}
}

func mapLead(row model.Lead) lead.Lead {
	return lead.Lead{
		ID:          row.ID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email,
		Phone:       row.Phone,
		Address:     row.Address,
		Suburb:      row.Suburb,
		Postcode:    row.Postcode,
		ServiceType: row.ServiceType,
		Notes:       row.Notes,
		Status:      lead.Status(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func inspectionToRow(insp *inspection.Inspection) model.Inspection {
	row := model.Inspection{
		ID:           insp.ID,
		LeadID:       insp.LeadID,
		TechnicianID: insp.TechnicianID,
		InspectorID:  insp.InspectorID,
		Status:       string(insp.Status),
		Version:      insp.Version,
		ScheduledAt:  insp.ScheduledAt,
		ArrivedAt:    insp.ArrivedAt,
		StartedAt:    insp.StartedAt,
		CompletedAt:  insp.CompletedAt,

		AttentionTo:    insp.Header.AttentionTo,
		Triage:         insp.Header.Triage,
		Address:        insp.Header.Address,
		RequestedBy:    insp.Header.RequestedBy,
		InspectionDate: insp.Header.InspectionDate,

		PropertyOccupation: insp.Property.PropertyOccupation,
		DwellingType:       insp.Property.DwellingType,

		SubfloorEnabled:           insp.Subfloor.Enabled,
		SubfloorObservations:      insp.Subfloor.Observations,
		SubfloorLandscape:         insp.Subfloor.Landscape,
		SubfloorCommentsGenerated: insp.Subfloor.Comments.Generated,
		SubfloorCommentsEdited:    insp.Subfloor.Comments.Edited,
		SubfloorCommentsApproved:  insp.Subfloor.Comments.Approved,
		SubfloorSanitation:        insp.Subfloor.Sanitation,
		SubfloorRacking:           insp.Subfloor.Racking,
		SubfloorTreatmentMinutes:  insp.Subfloor.TreatmentTimeMinutes,

		OutdoorTemperature:     insp.Outdoor.Temperature,
		OutdoorHumidity:        insp.Outdoor.Humidity,
		OutdoorDewPoint:        insp.Outdoor.DewPoint,
		OutdoorComments:        insp.Outdoor.Comments,
		FrontDoorPhoto:         insp.Outdoor.FrontDoorPhoto,
		FrontHousePhoto:        insp.Outdoor.FrontHousePhoto,
		MailboxPhoto:           insp.Outdoor.MailboxPhoto,
		StreetPhoto:            insp.Outdoor.StreetPhoto,
		DirectionPhotosEnabled: insp.Outdoor.DirectionPhotosEnabled,

		WasteDisposalEnabled: insp.Waste.Enabled,
		WasteDisposalAmount:  insp.Waste.Amount,

		HepaVac:                    insp.Procedure.HepaVac,
		Antimicrobial:              insp.Procedure.Antimicrobial,
		StainRemovingAntimicrobial: insp.Procedure.StainRemovingAntimicrobial,
		HomeSanitationFogging:      insp.Procedure.HomeSanitationFogging,
		DryingEquipmentEnabled:     insp.Procedure.DryingEquipmentEnabled,
		DehumidifierQty:            insp.Procedure.DehumidifierQty,
		AirMoverQty:                insp.Procedure.AirMoverQty,
		RCDBoxQty:                  insp.Procedure.RCDBoxQty,
		DryingDays:                 insp.Procedure.DryingDays,

		RecommendDehumidifier:       insp.Summary.RecommendDehumidifier,
		DehumidifierSize:            insp.Summary.DehumidifierSize,
		CauseOfMouldGenerated:       insp.Summary.CauseOfMould.Generated,
		CauseOfMouldEdited:          insp.Summary.CauseOfMould.Edited,
		CauseOfMouldApproved:        insp.Summary.CauseOfMould.Approved,
		AdditionalInfoTechnician:    insp.Summary.AdditionalInfoTechnician,
		AdditionalEquipmentComments: insp.Summary.AdditionalEquipmentComments,
		ParkingOptions:              insp.Summary.ParkingOptions,

		CreatedAt: insp.CreatedAt.UTC(),
		UpdatedAt: insp.UpdatedAt.UTC(),
	}
	if insp.JobNumber != "" {
		jobNumber := insp.JobNumber
		row.JobNumber = &jobNumber
	}
	if c := insp.Cost; c != nil {
		row.LabourCost = nullDecimal(c.LabourCost)
		row.EquipmentCost = nullDecimal(c.EquipmentCost)
		row.Subtotal = nullDecimal(c.Subtotal)
		row.GST = nullDecimal(c.GST)
		row.TotalCost = nullDecimal(c.TotalCost)
		row.FinalCost = nullDecimal(c.FinalCost)
		row.FinalCostOverridden = c.FinalOverridden
		row.WorkType = string(c.WorkType)
		row.TotalHours = nullDecimal(c.TotalHours)
		row.DiscountPercent = nullDecimal(c.DiscountPercent)
	}
	return row
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func mapInspection(row model.Inspection) *inspection.Inspection {
	insp := &inspection.Inspection{
		ID:           row.ID,
		LeadID:       row.LeadID,
		TechnicianID: row.TechnicianID,
		InspectorID:  row.InspectorID,
		Status:       inspection.Status(row.Status),
		Version:      row.Version,
		ScheduledAt:  row.ScheduledAt,
		ArrivedAt:    row.ArrivedAt,
		StartedAt:    row.StartedAt,
		CompletedAt:  row.CompletedAt,
		Header: inspection.Header{
			AttentionTo:    row.AttentionTo,
			Triage:         row.Triage,
			Address:        row.Address,
			RequestedBy:    row.RequestedBy,
			InspectionDate: row.InspectionDate,
		},
		Property: inspection.Property{
			PropertyOccupation: row.PropertyOccupation,
			DwellingType:       row.DwellingType,
		},
		Subfloor: inspection.Subfloor{
			Enabled:      row.SubfloorEnabled,
			Observations: row.SubfloorObservations,
			Landscape:    row.SubfloorLandscape,
			Comments: inspection.TextTriple{
				Generated: row.SubfloorCommentsGenerated,
				Edited:    row.SubfloorCommentsEdited,
				Approved:  row.SubfloorCommentsApproved,
			},
			Sanitation:           row.SubfloorSanitation,
			Racking:              row.SubfloorRacking,
			TreatmentTimeMinutes: row.SubfloorTreatmentMinutes,
		},
		Outdoor: inspection.Outdoor{
			Temperature:            row.OutdoorTemperature,
			Humidity:               row.OutdoorHumidity,
			DewPoint:               row.OutdoorDewPoint,
			Comments:               row.OutdoorComments,
			FrontDoorPhoto:         row.FrontDoorPhoto,
			FrontHousePhoto:        row.FrontHousePhoto,
			MailboxPhoto:           row.MailboxPhoto,
			StreetPhoto:            row.StreetPhoto,
			DirectionPhotosEnabled: row.DirectionPhotosEnabled,
		},
		Waste: inspection.Waste{
			Enabled: row.WasteDisposalEnabled,
			Amount:  row.WasteDisposalAmount,
		},
		Procedure: inspection.Procedure{
			HepaVac:                    row.HepaVac,
			Antimicrobial:              row.Antimicrobial,
			StainRemovingAntimicrobial: row.StainRemovingAntimicrobial,
			HomeSanitationFogging:      row.HomeSanitationFogging,
			DryingEquipmentEnabled:     row.DryingEquipmentEnabled,
			DehumidifierQty:            row.DehumidifierQty,
			AirMoverQty:                row.AirMoverQty,
			RCDBoxQty:                  row.RCDBoxQty,
			DryingDays:                 row.DryingDays,
		},
		Summary: inspection.Summary{
			RecommendDehumidifier: row.RecommendDehumidifier,
			DehumidifierSize:      row.DehumidifierSize,
			CauseOfMould: inspection.TextTriple{
				Generated: row.CauseOfMouldGenerated,
				Edited:    row.CauseOfMouldEdited,
				Approved:  row.CauseOfMouldApproved,
			},
			AdditionalInfoTechnician:    row.AdditionalInfoTechnician,
			AdditionalEquipmentComments: row.AdditionalEquipmentComments,
			ParkingOptions:              row.ParkingOptions,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.JobNumber != nil {
		insp.JobNumber = *row.JobNumber
	}
	if row.TotalCost.Valid {
		insp.Cost = &inspection.CostSummary{
			LabourCost:      row.LabourCost.Decimal,
			EquipmentCost:   row.EquipmentCost.Decimal,
			Subtotal:        row.Subtotal.Decimal,
			GST:             row.GST.Decimal,
			TotalCost:       row.TotalCost.Decimal,
			FinalCost:       row.FinalCost.Decimal,
			FinalOverridden: row.FinalCostOverridden,
			WorkType:        costing.WorkType(row.WorkType),
			TotalHours:      row.TotalHours.Decimal,
			DiscountPercent: row.DiscountPercent.Decimal,
		}
	}
	return insp
}

func areaToRow(a *inspection.Area) model.Area {
	mode := a.Climate.Mode
	if mode == "" {
		mode = inspection.DewPointAuto
	}
	return model.Area{
		ID:                     a.ID,
		InspectionID:           a.InspectionID,
		Name:                   a.Name,
		OrderIndex:             a.OrderIndex,
		MouldVisibility:        datatypes.JSONSlice[string](a.MouldVisibility),
		Temperature:            a.Climate.Temperature,
		Humidity:               a.Climate.Humidity,
		DewPoint:               a.Climate.DewPoint,
		DewPointMode:           string(mode),
		JobTimeMinutes:         a.JobTimeMinutes,
		DemolitionRequired:     a.DemolitionRequired,
		DemolitionTimeMinutes:  a.DemolitionTimeMinutes,
		CommentsGenerated:      a.Comments.Generated,
		CommentsEdited:         a.Comments.Edited,
		CommentsApproved:       a.Comments.Approved,
		DemolitionGenerated:    a.Demolition.Generated,
		DemolitionEdited:       a.Demolition.Edited,
		DemolitionApproved:     a.Demolition.Approved,
		MoistureReadingEnabled: a.MoistureReadingEnabled,
		InfraredEnabled:        a.InfraredEnabled,
		RoomPhoto1:             a.RoomPhotos[0],
		RoomPhoto2:             a.RoomPhotos[1],
		RoomPhoto3:             a.RoomPhotos[2],
		InfraredPhoto:          a.InfraredPhoto,
		InfraredNaturalPhoto:   a.InfraredNaturalPhoto,
		CreatedAt:              a.CreatedAt.UTC(),
		UpdatedAt:              a.UpdatedAt.UTC(),
	}
}

func mapArea(row model.Area) *inspection.Area {
	return &inspection.Area{
		ID:              row.ID,
		InspectionID:    row.InspectionID,
		Name:            row.Name,
		OrderIndex:      row.OrderIndex,
		MouldVisibility: []string(row.MouldVisibility),
		Climate: inspection.AreaClimate{
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
			DewPoint:    row.DewPoint,
			Mode:        inspection.DewPointMode(row.DewPointMode),
		},
		JobTimeMinutes:        row.JobTimeMinutes,
		DemolitionRequired:    row.DemolitionRequired,
		DemolitionTimeMinutes: row.DemolitionTimeMinutes,
		Comments: inspection.TextTriple{
			Generated: row.CommentsGenerated,
			Edited:    row.CommentsEdited,
			Approved:  row.CommentsApproved,
		},
		Demolition: inspection.TextTriple{
			Generated: row.DemolitionGenerated,
			Edited:    row.DemolitionEdited,
			Approved:  row.DemolitionApproved,
		},
		MoistureReadingEnabled: row.MoistureReadingEnabled,
		InfraredEnabled:        row.InfraredEnabled,
		RoomPhotos:             [inspection.RoomPhotoSlots]string{row.RoomPhoto1, row.RoomPhoto2, row.RoomPhoto3},
		InfraredPhoto:          row.InfraredPhoto,
		InfraredNaturalPhoto:   row.InfraredNaturalPhoto,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
}

func photoRows(inspectionID, ownerKind, ownerID string, photos []*inspection.Photo) []model.Photo {
	rows := make([]model.Photo, 0, len(photos))
	for _, p := range photos {
		rows = append(rows, model.Photo{
			ID:           p.ID,
			InspectionID: inspectionID,
			OwnerKind:    ownerKind,
			OwnerID:      ownerID,
			URL:          p.URL,
			Caption:      p.Caption,
			OrderIndex:   p.OrderIndex,
		})
	}
	return rows
}

func mapPhoto(row model.Photo) *inspection.Photo {
	return &inspection.Photo{
		ID:         row.ID,
		URL:        row.URL,
		Caption:    row.Caption,
		OrderIndex: row.OrderIndex,
	}
}
