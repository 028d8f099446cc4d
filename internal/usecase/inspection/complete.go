package inspection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/domain/costing"
	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/domain/lead"
	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

// PreviewCost prices an arbitrary input. Nothing is read or written.
func (s *Service) PreviewCost(ctx context.Context, input costing.CostInput) (costing.Breakdown, error) {
	if err := checkContext(ctx); err != nil {
		return costing.Breakdown{}, err
	}
	if s.engine == nil {
		return costing.Breakdown{}, errors.New("cost engine is required")
	}
	return s.engine.Calculate(input)
}

// PreviewInspectionCost prices the stored inspection without saving anything.
func (s *Service) PreviewInspectionCost(ctx context.Context, inspectionID string) (costing.Breakdown, error) {
	insp, err := s.Get(ctx, inspectionID)
	if err != nil {
		return costing.Breakdown{}, err
	}
	return s.PreviewCost(ctx, insp.CostInput())
}

type CompleteInput struct {
	InspectionID      string
	ExpectedVersion   int64
	FinalCostOverride *decimal.Decimal
}

// CompleteResult reports the committed completion. LeadUpdateError and
// EventError describe follow-up steps that failed after the commit.
type CompleteResult struct {
	Inspection      *domain.Inspection
	Breakdown       costing.Breakdown
	LeadUpdateError error
	EventError      error
}

// Complete prices the inspection, stores the cost fields and locks it. The
// lead status update and the completion event run afterwards and never undo
// the completion.
func (s *Service) Complete(ctx context.Context, input CompleteInput) (CompleteResult, error) {
	if s.engine == nil {
		return CompleteResult{}, errors.New("cost engine is required")
	}

	var breakdown costing.Breakdown
	insp, err := s.mutate(ctx, "complete", Ref{input.InspectionID, input.ExpectedVersion}, func(insp *domain.Inspection) error {
		b, err := s.engine.Calculate(insp.CostInput())
		if err != nil {
			return err
		}
		if err := insp.Complete(b, input.FinalCostOverride, s.now()); err != nil {
			return err
		}
		breakdown = b
		return nil
	})
	if err != nil {
		return CompleteResult{}, err
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", component),
		slog.String("op", "complete"),
		slog.String("inspection_id", insp.ID),
	)
	result := CompleteResult{Inspection: insp, Breakdown: breakdown}

	if s.leads != nil {
		if err := s.leads.UpdateStatus(ctx, insp.LeadID, lead.StatusFormCompleted, *insp.CompletedAt); err != nil {
			result.LeadUpdateError = err
			logging.Warn(logCtx, "lead status update failed after completion",
				slog.String("lead_id", insp.LeadID),
				slog.Any("err", errs.Loggable(err)),
			)
		}
	}

	if s.events != nil {
		evt := ports.InspectionCompleted{
			InspectionID: insp.ID,
			LeadID:       insp.LeadID,
			JobNumber:    insp.JobNumber,
			Version:      insp.Version,
			TotalCost:    insp.Cost.TotalCost,
			FinalCost:    insp.Cost.FinalCost,
			CompletedAt:  *insp.CompletedAt,
		}
		if err := s.events.PublishInspectionCompleted(ctx, evt); err != nil {
			result.EventError = err
			logging.Warn(logCtx, "completion event publish failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	logging.Info(logCtx, "inspection completed",
		slog.String("job_number", insp.JobNumber),
		slog.String("total_cost", insp.Cost.TotalCost.StringFixed(2)),
		slog.String("final_cost", insp.Cost.FinalCost.StringFixed(2)),
	)
	return result, nil
}
