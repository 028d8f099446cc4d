package lead

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mrcfield/internal/bootstrap/logging"
	domainlead "mrcfield/internal/domain/lead"
	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

type Service struct {
	repo  ports.LeadRepository
	now   func() time.Time
	newID func() string
}

func NewService(repo ports.LeadRepository) *Service {
	return &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

type CreateLeadInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	Suburb      string
	Postcode    string
	ServiceType string
	Notes       string
}

// CreateLead records a new enquiry in status NEW.
func (s *Service) CreateLead(ctx context.Context, input CreateLeadInput) (domainlead.Lead, error) {
	if ctx == nil {
		return domainlead.Lead{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domainlead.Lead{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return domainlead.Lead{}, errors.New("lead repository is required")
	}

	now := s.now()
	l := domainlead.Lead{
		ID:          s.newID(),
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:       strings.TrimSpace(input.Phone),
		Address:     strings.TrimSpace(input.Address),
		Suburb:      strings.TrimSpace(input.Suburb),
		Postcode:    strings.TrimSpace(input.Postcode),
		ServiceType: strings.TrimSpace(input.ServiceType),
		Notes:       strings.TrimSpace(input.Notes),
		Status:      domainlead.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.Validate(); err != nil {
		return domainlead.Lead{}, err
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return domainlead.Lead{}, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.lead")),
		"lead created",
		slog.String("lead_id", l.ID),
		slog.String("suburb", l.Suburb),
	)
	return l, nil
}

func (s *Service) GetLead(ctx context.Context, id string) (domainlead.Lead, error) {
	if ctx == nil {
		return domainlead.Lead{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domainlead.Lead{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return domainlead.Lead{}, errors.New("lead repository is required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domainlead.Lead{}, errs.Wrap(domainlead.ErrInvalidInput, "lead id is required")
	}
	return s.repo.Get(ctx, id)
}
