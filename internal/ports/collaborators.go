package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"mrcfield/internal/domain/inspection"
)

type AreaTextInput struct {
	AreaName        string
	MouldVisibility []string
	Temperature     *float64
	Humidity        *float64
	DewPoint        *float64
	DemolitionTime  int
	Readings        []string
}

type InspectionTextInput struct {
	Address            string
	DwellingType       string
	Areas              []AreaTextInput
	OutdoorTemperature *float64
	OutdoorHumidity    *float64
	Observations       string
	Landscape          string
	Sanitation         bool
	Racking            bool
	ReadingValues      []float64
}

// TextGenerator supplies prose for the technician to review. The core only
// stores what it returns.
type TextGenerator interface {
	AreaComments(ctx context.Context, in AreaTextInput) (string, error)
	DemolitionDescription(ctx context.Context, in AreaTextInput) (string, error)
	CauseOfMould(ctx context.Context, in InspectionTextInput) (string, error)
	SubfloorComments(ctx context.Context, in InspectionTextInput) (string, error)
}

type InspectionCompleted struct {
	InspectionID string          `json:"inspectionId"`
	LeadID       string          `json:"leadId"`
	JobNumber    string          `json:"jobNumber"`
	Version      int64           `json:"version"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	FinalCost    decimal.Decimal `json:"finalCost"`
	CompletedAt  time.Time       `json:"completedAt"`
}

type EventPublisher interface {
	PublishInspectionCompleted(ctx context.Context, evt InspectionCompleted) error
}

// ReportRenderer writes a printable report of a stored inspection.
type ReportRenderer interface {
	Render(ctx context.Context, w io.Writer, insp *inspection.Inspection) error
	ContentType() string
}
