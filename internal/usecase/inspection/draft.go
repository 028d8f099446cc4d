package inspection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mrcfield/internal/bootstrap/logging"
	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/errs"
)

const syncReceiptTTL = 7 * 24 * time.Hour

// DraftSync is a client-held draft pushed back in one request. Drafts with an
// id patch the existing child; drafts without one are appended. Order lists
// must name exactly the children that existed before this sync, and are
// applied before new children are appended.
type DraftSync struct {
	InspectionID         string                 `json:"-"`
	BaseVersion          int64                  `json:"baseVersion" jsonschema:"minimum=1"`
	ClientMutationID     string                 `json:"clientMutationId,omitempty"`
	Header               *domain.HeaderPatch    `json:"header,omitempty"`
	Property             *domain.PropertyPatch  `json:"property,omitempty"`
	Subfloor             *domain.SubfloorPatch  `json:"subfloor,omitempty"`
	Outdoor              *domain.OutdoorPatch   `json:"outdoor,omitempty"`
	Waste                *domain.WastePatch     `json:"waste,omitempty"`
	Procedure            *domain.ProcedurePatch `json:"procedure,omitempty"`
	Summary              *domain.SummaryPatch   `json:"summary,omitempty"`
	Areas                []AreaDraft            `json:"areas,omitempty"`
	AreaOrder            []string               `json:"areaOrder,omitempty"`
	SubfloorReadings     []SubfloorReadingDraft `json:"subfloorReadings,omitempty"`
	SubfloorReadingOrder []string               `json:"subfloorReadingOrder,omitempty"`
}

type AreaDraft struct {
	ID string `json:"id,omitempty"`
	domain.AreaPatch
	Readings     []MoistureReadingDraft `json:"moistureReadings,omitempty"`
	ReadingOrder []string               `json:"moistureReadingOrder,omitempty"`
}

type MoistureReadingDraft struct {
	ID string `json:"id,omitempty"`
	domain.MoistureReadingPatch
}

type SubfloorReadingDraft struct {
	ID string `json:"id,omitempty"`
	domain.SubfloorReadingPatch
}

type SyncResult struct {
	Inspection     *domain.Inspection `json:"inspection"`
	AppliedVersion int64              `json:"appliedVersion"`
	Replayed       bool               `json:"replayed"`
}

type syncReceipt struct {
	Version   int64     `json:"version"`
	AppliedAt time.Time `json:"appliedAt"`
}

// GetDraft returns the full aggregate, children in order, with its version.
func (s *Service) GetDraft(ctx context.Context, inspectionID string) (*domain.Inspection, error) {
	return s.Get(ctx, inspectionID)
}

// SyncDraft applies a draft atomically. A replayed ClientMutationID returns
// the recorded outcome without applying the draft again.
func (s *Service) SyncDraft(ctx context.Context, input DraftSync) (SyncResult, error) {
	if err := checkContext(ctx); err != nil {
		return SyncResult{}, err
	}
	if err := s.requireStore(); err != nil {
		return SyncResult{}, err
	}
	id, err := requireID(input.InspectionID, "inspection id")
	if err != nil {
		return SyncResult{}, err
	}
	if input.BaseVersion <= 0 {
		return SyncResult{}, fmt.Errorf("%w: baseVersion is required", domain.ErrInvalidInput)
	}

	mutationID := strings.TrimSpace(input.ClientMutationID)
	receiptKey := "sync-receipt:" + id + ":" + mutationID
	logCtx := logging.WithAttrs(ctx,
		slog.String("component", component),
		slog.String("op", "sync_draft"),
		slog.String("inspection_id", id),
		slog.String("client_mutation_id", mutationID),
	)

	var result SyncResult
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if mutationID != "" && s.cache != nil {
			raw, found, err := s.cache.Get(txCtx, receiptKey)
			if err != nil {
				return errs.Wrap(err, "read sync receipt")
			}
			if found {
				var receipt syncReceipt
				if err := json.Unmarshal([]byte(raw), &receipt); err != nil {
					return errs.Wrap(err, "decode sync receipt")
				}
				insp, err := s.inspections.Get(txCtx, id)
				if err != nil {
					return err
				}
				result = SyncResult{Inspection: insp, AppliedVersion: receipt.Version, Replayed: true}
				return nil
			}
		}

		insp, err := s.inspections.Get(txCtx, id)
		if err != nil {
			return err
		}
		if err := insp.CheckVersion(input.BaseVersion); err != nil {
			return err
		}
		if err := insp.EnsureEditable(); err != nil {
			return err
		}
		if err := s.applyDraft(insp, input); err != nil {
			return err
		}

		insp.UpdatedAt = s.now()
		if err := s.inspections.Save(txCtx, insp); err != nil {
			return err
		}

		if mutationID != "" && s.cache != nil {
			raw, err := json.Marshal(syncReceipt{Version: insp.Version, AppliedAt: insp.UpdatedAt})
			if err != nil {
				return errs.Wrap(err, "encode sync receipt")
			}
			if err := s.cache.Set(txCtx, receiptKey, string(raw), syncReceiptTTL); err != nil {
				return errs.Wrap(err, "store sync receipt")
			}
		}
		result = SyncResult{Inspection: insp, AppliedVersion: insp.Version}
		return nil
	})
	if err != nil {
		s.logFailure(logCtx, err)
		return SyncResult{}, err
	}

	if result.Replayed {
		logging.Info(logCtx, "draft sync replayed", slog.Int64("version", result.AppliedVersion))
	} else {
		logging.Info(logCtx, "draft synced", slog.Int64("version", result.AppliedVersion))
	}
	return result, nil
}

func (s *Service) applyDraft(insp *domain.Inspection, d DraftSync) error {
	if d.Header != nil {
		d.Header.Apply(&insp.Header)
	}
	if d.Property != nil {
		d.Property.Apply(&insp.Property)
	}
	if d.Subfloor != nil {
		if err := d.Subfloor.Apply(&insp.Subfloor); err != nil {
			return err
		}
	}
	if d.Outdoor != nil {
		if err := d.Outdoor.Apply(&insp.Outdoor); err != nil {
			return err
		}
	}
	if d.Waste != nil {
		d.Waste.Apply(&insp.Waste)
	}
	if d.Procedure != nil {
		if err := d.Procedure.Apply(&insp.Procedure); err != nil {
			return err
		}
	}
	if d.Summary != nil {
		d.Summary.Apply(&insp.Summary)
	}

	now := s.now()
	var newAreas []AreaDraft
	for _, draft := range d.Areas {
		if strings.TrimSpace(draft.ID) == "" {
			newAreas = append(newAreas, draft)
			continue
		}
		area, err := insp.FindArea(draft.ID)
		if err != nil {
			return err
		}
		if err := draft.AreaPatch.Apply(area); err != nil {
			return err
		}
		if err := s.applyReadingDrafts(area, draft); err != nil {
			return err
		}
		area.UpdatedAt = now
	}
	if d.AreaOrder != nil {
		if err := insp.ReorderAreas(d.AreaOrder); err != nil {
			return err
		}
	}
	for _, draft := range newAreas {
		name, _ := draft.Name.Value()
		area, err := domain.NewArea(s.newID(), name)
		if err != nil {
			return err
		}
		if err := draft.AreaPatch.Apply(area); err != nil {
			return err
		}
		area.CreatedAt, area.UpdatedAt = now, now
		insp.AddArea(area)
		if draft.ReadingOrder != nil {
			return fmt.Errorf("%w: a new area cannot carry a reading order", domain.ErrInvalidInput)
		}
		if err := s.applyReadingDrafts(area, draft); err != nil {
			return err
		}
	}

	var newReadings []SubfloorReadingDraft
	for _, draft := range d.SubfloorReadings {
		if strings.TrimSpace(draft.ID) == "" {
			newReadings = append(newReadings, draft)
			continue
		}
		reading, err := insp.FindSubfloorReading(draft.ID)
		if err != nil {
			return err
		}
		if err := draft.SubfloorReadingPatch.Apply(reading); err != nil {
			return err
		}
	}
	if d.SubfloorReadingOrder != nil {
		if err := insp.ReorderSubfloorReadings(d.SubfloorReadingOrder); err != nil {
			return err
		}
	}
	for _, draft := range newReadings {
		reading := &domain.SubfloorReading{ID: s.newID()}
		if err := draft.SubfloorReadingPatch.Apply(reading); err != nil {
			return err
		}
		insp.AddSubfloorReading(reading)
	}
	return nil
}

func (s *Service) applyReadingDrafts(area *domain.Area, draft AreaDraft) error {
	var added []MoistureReadingDraft
	for _, rd := range draft.Readings {
		if strings.TrimSpace(rd.ID) == "" {
			added = append(added, rd)
			continue
		}
		reading, err := area.FindReading(rd.ID)
		if err != nil {
			return err
		}
		rd.MoistureReadingPatch.Apply(reading)
	}
	if draft.ReadingOrder != nil {
		if err := area.ReorderReadings(draft.ReadingOrder); err != nil {
			return err
		}
	}
	for _, rd := range added {
		reading := &domain.MoistureReading{ID: s.newID()}
		rd.MoistureReadingPatch.Apply(reading)
		area.AddReading(reading)
	}
	return nil
}
