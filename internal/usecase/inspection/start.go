package inspection

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"mrcfield/internal/bootstrap/logging"
	domain "mrcfield/internal/domain/inspection"
)

type ConvertLeadInput struct {
	LeadID       string
	TechnicianID string
	ScheduledAt  *time.Time
}

// ConvertLead books a scheduled inspection for an existing lead.
func (s *Service) ConvertLead(ctx context.Context, input ConvertLeadInput) (*domain.Inspection, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if s.leads == nil {
		return nil, errors.New("lead repository is required")
	}
	leadID, err := requireID(input.LeadID, "lead id")
	if err != nil {
		return nil, err
	}

	var created *domain.Inspection
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.leads.Get(txCtx, leadID); err != nil {
			return err
		}

		insp, err := domain.New(s.newID(), leadID, input.TechnicianID, input.ScheduledAt, s.now())
		if err != nil {
			return err
		}
		if err := s.inspections.Create(txCtx, insp); err != nil {
			return err
		}
		created = insp
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", component)),
		"lead converted to inspection",
		slog.String("lead_id", leadID),
		slog.String("inspection_id", created.ID),
	)
	return created, nil
}

// Start opens a scheduled inspection on site. Starting an inspection that is
// already in progress returns it unchanged.
func (s *Service) Start(ctx context.Context, ref Ref) (*domain.Inspection, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if s.leads == nil {
		return nil, errors.New("lead repository is required")
	}
	if s.jobNumbers == nil {
		return nil, errors.New("job number sequence is required")
	}
	id, err := requireID(ref.InspectionID, "inspection id")
	if err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", component),
		slog.String("op", "start"),
		slog.String("inspection_id", id),
	)

	var (
		out     *domain.Inspection
		started bool
	)
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		insp, err := s.inspections.Get(txCtx, id)
		if err != nil {
			return err
		}
		if insp.Status == domain.StatusInProgress {
			out = insp
			return nil
		}
		if err := insp.CheckVersion(ref.ExpectedVersion); err != nil {
			return err
		}

		l, err := s.leads.Get(txCtx, insp.LeadID)
		if err != nil {
			return err
		}

		now := s.now()
		jobNumber := insp.JobNumber
		if strings.TrimSpace(jobNumber) == "" && insp.Status == domain.StatusScheduled {
			seq, err := s.jobNumbers.Next(txCtx, now.Year())
			if err != nil {
				return err
			}
			jobNumber = domain.FormatJobNumber(s.jobPrefix, now.Year(), seq)
		}

		started, err = insp.Start(jobNumber, l, now)
		if err != nil {
			return err
		}
		insp.UpdatedAt = now
		if err := s.inspections.Save(txCtx, insp); err != nil {
			return err
		}
		out = insp
		return nil
	})
	if err != nil {
		s.logFailure(logCtx, err)
		return nil, err
	}

	if started {
		logging.Info(logCtx, "inspection started", slog.String("job_number", out.JobNumber), slog.Int64("version", out.Version))
	}
	return out, nil
}
