package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/domain/costing"
	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

const component = "usecase.inspection"

// Dependencies lists the collaborators of Service. Text, Events and
// Renderer are optional.
type Dependencies struct {
	Inspections     ports.InspectionRepository
	Leads           ports.LeadRepository
	JobNumbers      ports.JobNumberSequence
	UnitOfWork      ports.UnitOfWork
	Cache           ports.Cache
	Engine          *costing.Engine
	Text            ports.TextGenerator
	Events          ports.EventPublisher
	Renderer        ports.ReportRenderer
	JobNumberPrefix string
}

type Service struct {
	inspections ports.InspectionRepository
	leads       ports.LeadRepository
	jobNumbers  ports.JobNumberSequence
	uow         ports.UnitOfWork
	cache       ports.Cache
	engine      *costing.Engine
	text        ports.TextGenerator
	events      ports.EventPublisher
	renderer    ports.ReportRenderer
	jobPrefix   string
	now         func() time.Time
	newID       func() string
}

func NewService(deps Dependencies) *Service {
	prefix := strings.TrimSpace(deps.JobNumberPrefix)
	if prefix == "" {
		prefix = domain.DefaultJobNumberPrefix
	}
	return &Service{
		inspections: deps.Inspections,
		leads:       deps.Leads,
		jobNumbers:  deps.JobNumbers,
		uow:         deps.UnitOfWork,
		cache:       deps.Cache,
		engine:      deps.Engine,
		text:        deps.Text,
		events:      deps.Events,
		renderer:    deps.Renderer,
		jobPrefix:   prefix,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// Ref addresses an inspection for a write. ExpectedVersion zero skips the
// optimistic check.
type Ref struct {
	InspectionID    string
	ExpectedVersion int64
}

// ChildRef addresses one child of an inspection.
type ChildRef struct {
	InspectionID    string
	ChildID         string
	ExpectedVersion int64
}

type ReorderInput struct {
	InspectionID    string
	ExpectedVersion int64
	OrderedIDs      []string
}

// ChildResult is returned by operations that create a child.
type ChildResult struct {
	Inspection *domain.Inspection
	ChildID    string
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	return nil
}

func (s *Service) requireStore() error {
	if s.inspections == nil {
		return errors.New("inspection repository is required")
	}
	if s.uow == nil {
		return errors.New("inspection unit of work is required")
	}
	return nil
}

func requireID(id, name string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	return id, nil
}

// mutate runs one aggregate write: load, version check, editable check,
// change, save. All of it happens in a single transaction.
func (s *Service) mutate(ctx context.Context, op string, ref Ref, change func(insp *domain.Inspection) error) (*domain.Inspection, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	id, err := requireID(ref.InspectionID, "inspection id")
	if err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", component),
		slog.String("op", op),
		slog.String("inspection_id", id),
	)

	var saved *domain.Inspection
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		insp, err := s.inspections.Get(txCtx, id)
		if err != nil {
			return err
		}
		if err := insp.CheckVersion(ref.ExpectedVersion); err != nil {
			return err
		}
		if err := insp.EnsureEditable(); err != nil {
			return err
		}
		if err := change(insp); err != nil {
			return err
		}

		insp.UpdatedAt = s.now()
		if err := s.inspections.Save(txCtx, insp); err != nil {
			return err
		}
		saved = insp
		return nil
	})
	if err != nil {
		s.logFailure(logCtx, err)
		return nil, err
	}

	logging.Info(logCtx, "inspection updated", slog.Int64("version", saved.Version))
	return saved, nil
}

// logFailure keeps caller mistakes at info and everything unclassified at error.
func (s *Service) logFailure(ctx context.Context, err error) {
	if errs.KindOf(err) == errs.KindInternal {
		logging.Error(ctx, "inspection write failed", slog.Any("err", errs.Loggable(err)))
		return
	}
	logging.Info(ctx, "inspection write rejected",
		slog.String("kind", string(errs.KindOf(err))),
		slog.String("reason", err.Error()),
	)
}

// Get returns the stored aggregate without any status checks.
func (s *Service) Get(ctx context.Context, inspectionID string) (*domain.Inspection, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if s.inspections == nil {
		return nil, errors.New("inspection repository is required")
	}
	id, err := requireID(inspectionID, "inspection id")
	if err != nil {
		return nil, err
	}
	return s.inspections.Get(ctx, id)
}

type ListInput struct {
	Status string
	Limit  int
}

func (s *Service) List(ctx context.Context, input ListInput) ([]ports.InspectionSummary, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if s.inspections == nil {
		return nil, errors.New("inspection repository is required")
	}

	status := domain.Status(strings.ToUpper(strings.TrimSpace(input.Status)))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	return s.inspections.ListByStatus(ctx, status, limit)
}
