package lead

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"mrcfield/internal/errs"
)

var (
	ErrNotFound     = errs.Sentinel(errs.KindNotFound, "lead not found")
	ErrInvalidInput = errs.Sentinel(errs.KindInvalidInput, "invalid lead")
)

type Status string

const (
	StatusNew           Status = "NEW"
	StatusContacted     Status = "CONTACTED"
	StatusFormCompleted Status = "FORM_COMPLETED"
	StatusQualified     Status = "QUALIFIED"
	StatusQuoted        Status = "QUOTED"
	StatusConverted     Status = "CONVERTED"
	StatusClosedLost    Status = "CLOSED_LOST"
	StatusFollowUp      Status = "FOLLOW_UP"
)

var statuses = []Status{
	StatusNew, StatusContacted, StatusFormCompleted, StatusQualified,
	StatusQuoted, StatusConverted, StatusClosedLost, StatusFollowUp,
}

func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range statuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

// State is the home state used when a lead only has suburb and postcode.
const State = "VIC"

type Lead struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	Suburb      string    `json:"suburb"`
	Postcode    string    `json:"postcode"`
	ServiceType string    `json:"serviceType"`
	Notes       string    `json:"notes,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (l Lead) Validate() error {
	if strings.TrimSpace(l.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(l.Phone) == "" && strings.TrimSpace(l.Email) == "" {
		return fmt.Errorf("%w: phone or email is required", ErrInvalidInput)
	}
	if email := strings.TrimSpace(l.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
		}
	}
	return nil
}

func (l Lead) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(l.FirstName) + " " + strings.TrimSpace(l.LastName))
}

// PropertyAddress prefers the street address and falls back to the suburb line.
func (l Lead) PropertyAddress() string {
	if addr := strings.TrimSpace(l.Address); addr != "" {
		return addr
	}
	parts := make([]string, 0, 2)
	if suburb := strings.TrimSpace(l.Suburb); suburb != "" {
		parts = append(parts, suburb)
	}
	if postcode := strings.TrimSpace(l.Postcode); postcode != "" {
		parts = append(parts, State+" "+postcode)
	}
	return strings.Join(parts, ", ")
}

// Triage is the one-line brief shown on the inspection header.
func (l Lead) Triage() string {
	if notes := strings.TrimSpace(l.Notes); notes != "" {
		return notes
	}
	service := strings.TrimSpace(l.ServiceType)
	suburb := strings.TrimSpace(l.Suburb)
	switch {
	case service != "" && suburb != "":
		return service + " - " + suburb
	case service != "":
		return service
	default:
		return suburb
	}
}
