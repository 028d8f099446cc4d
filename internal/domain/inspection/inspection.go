package inspection

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mrcfield/internal/domain/costing"
	"mrcfield/internal/domain/lead"
)

// TextTriple keeps AI-generated prose next to the technician's edit.
type TextTriple struct {
	Generated string `json:"generated"`
	Edited    string `json:"edited"`
	Approved  bool   `json:"approved"`
}

// SetGenerated replaces the generated text and resets the edit to it.
func (t *TextTriple) SetGenerated(text string) {
	t.Generated = text
	t.Edited = text
	t.Approved = false
}

// Text is what reports print: the edit when present, else the generated text.
func (t TextTriple) Text() string {
	if strings.TrimSpace(t.Edited) != "" {
		return t.Edited
	}
	return t.Generated
}

type MoistureReading struct {
	ID         string   `json:"id"`
	AreaID     string   `json:"areaId"`
	Title      string   `json:"title"`
	OrderIndex int      `json:"orderIndex"`
	Photos     []*Photo `json:"photos"`
}

func (r *MoistureReading) ChildID() string   { return r.ID }
func (r *MoistureReading) Position() int     { return r.OrderIndex }
func (r *MoistureReading) SetPosition(i int) { r.OrderIndex = i }

type Area struct {
	ID                     string                 `json:"id"`
	InspectionID           string                 `json:"inspectionId"`
	Name                   string                 `json:"areaName"`
	OrderIndex             int                    `json:"orderIndex"`
	MouldVisibility        []string               `json:"mouldVisibility"`
	Climate                AreaClimate            `json:"climate"`
	JobTimeMinutes         int                    `json:"jobTime"`
	DemolitionRequired     bool                   `json:"demolitionRequired"`
	DemolitionTimeMinutes  int                    `json:"demolitionTime"`
	Comments               TextTriple             `json:"comments"`
	Demolition             TextTriple             `json:"demolitionDescription"`
	MoistureReadingEnabled bool                   `json:"moistureReadingEnabled"`
	InfraredEnabled        bool                   `json:"infraredEnabled"`
	RoomPhotos             [RoomPhotoSlots]string `json:"roomPhotos"`
	InfraredPhoto          string                 `json:"infraredPhoto,omitempty"`
	InfraredNaturalPhoto   string                 `json:"infraredNaturalPhoto,omitempty"`
	Readings               []*MoistureReading     `json:"moistureReadings"`
	CreatedAt              time.Time              `json:"createdAt"`
	UpdatedAt              time.Time              `json:"updatedAt"`
}

func (a *Area) ChildID() string   { return a.ID }
func (a *Area) Position() int     { return a.OrderIndex }
func (a *Area) SetPosition(i int) { a.OrderIndex = i }

func NewArea(id, name string) (*Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("area name is required")
	}
	return &Area{ID: id, Name: name, Climate: AreaClimate{Mode: DewPointAuto}}, nil
}

func (a *Area) AddReading(r *MoistureReading) {
	r.AreaID = a.ID
	a.Readings = Append(a.Readings, r)
}

func (a *Area) FindReading(id string) (*MoistureReading, error) {
	return Find(a.Readings, id)
}

func (a *Area) RemoveReading(id string) error {
	next, _, err := Remove(a.Readings, id)
	if err != nil {
		return err
	}
	a.Readings = next
	return nil
}

func (a *Area) ReorderReadings(ids []string) error {
	next, err := Reorder(a.Readings, ids)
	if err != nil {
		return err
	}
	a.Readings = next
	return nil
}

type SubfloorReading struct {
	ID            string   `json:"id"`
	InspectionID  string   `json:"inspectionId"`
	MoistureValue *float64 `json:"moistureValue"`
	Location      string   `json:"location"`
	OrderIndex    int      `json:"orderIndex"`
	Photos        []*Photo `json:"photos"`
}

func (r *SubfloorReading) ChildID() string   { return r.ID }
func (r *SubfloorReading) Position() int     { return r.OrderIndex }
func (r *SubfloorReading) SetPosition(i int) { r.OrderIndex = i }

type Header struct {
	AttentionTo    string     `json:"attentionTo"`
	Triage         string     `json:"triage"`
	Address        string     `json:"address"`
	RequestedBy    string     `json:"requestedBy"`
	InspectionDate *time.Time `json:"inspectionDate,omitempty"`
}

type Property struct {
	PropertyOccupation string `json:"propertyOccupation"`
	DwellingType       string `json:"dwellingType"`
}

type Subfloor struct {
	Enabled              bool       `json:"subfloorEnabled"`
	Observations         string     `json:"observations"`
	Landscape            string     `json:"landscape"`
	Comments             TextTriple `json:"comments"`
	Sanitation           bool       `json:"sanitation"`
	Racking              bool       `json:"racking"`
	TreatmentTimeMinutes int        `json:"treatmentTime"`
	Photos               []*Photo   `json:"photos"`
}

type Outdoor struct {
	Temperature            *float64 `json:"temperature"`
	Humidity               *float64 `json:"humidity"`
	DewPoint               *float64 `json:"dewPoint"`
	Comments               string   `json:"comments"`
	FrontDoorPhoto         string   `json:"frontDoorPhoto,omitempty"`
	FrontHousePhoto        string   `json:"frontHousePhoto,omitempty"`
	MailboxPhoto           string   `json:"mailboxPhoto,omitempty"`
	StreetPhoto            string   `json:"streetPhoto,omitempty"`
	DirectionPhotosEnabled bool     `json:"directionPhotosEnabled"`
	DirectionPhotos        []*Photo `json:"directionPhotos"`
}

type Waste struct {
	Enabled bool   `json:"wasteDisposalEnabled"`
	Amount  string `json:"wasteDisposalAmount"`
}

type Procedure struct {
	HepaVac                    bool  `json:"hepaVac"`
	Antimicrobial              bool  `json:"antimicrobial"`
	StainRemovingAntimicrobial bool  `json:"stainRemovingAntimicrobial"`
	HomeSanitationFogging      bool  `json:"homeSanitationFogging"`
	DryingEquipmentEnabled     *bool `json:"dryingEquipmentEnabled"`
	DehumidifierQty            int   `json:"dehumidifierQty"`
	AirMoverQty                int   `json:"airMoverQty"`
	RCDBoxQty                  int   `json:"rcdBoxQty"`
	DryingDays                 int   `json:"dryingDays"`
}

type Summary struct {
	RecommendDehumidifier       bool       `json:"recommendDehumidifier"`
	DehumidifierSize            string     `json:"dehumidifierSize"`
	CauseOfMould                TextTriple `json:"causeOfMould"`
	AdditionalInfoTechnician    string     `json:"additionalInfoTechnician"`
	AdditionalEquipmentComments string     `json:"additionalEquipmentComments"`
	ParkingOptions              string     `json:"parkingOptions"`
}

// CostSummary holds the derived cost fields written at completion.
type CostSummary struct {
	LabourCost      decimal.Decimal  `json:"labourCost"`
	EquipmentCost   decimal.Decimal  `json:"equipmentCost"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	GST             decimal.Decimal  `json:"gst"`
	TotalCost       decimal.Decimal  `json:"totalCost"`
	FinalCost       decimal.Decimal  `json:"finalCost"`
	FinalOverridden bool             `json:"finalCostOverridden"`
	WorkType        costing.WorkType `json:"workType"`
	TotalHours      decimal.Decimal  `json:"totalHours"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
}

type Inspection struct {
	ID               string             `json:"id"`
	LeadID           string             `json:"leadId"`
	TechnicianID     string             `json:"technicianId,omitempty"`
	InspectorID      string             `json:"inspectorId,omitempty"`
	Status           Status             `json:"status"`
	Version          int64              `json:"version"`
	JobNumber        string             `json:"jobNumber,omitempty"`
	ScheduledAt      *time.Time         `json:"scheduledAt,omitempty"`
	ArrivedAt        *time.Time         `json:"arrivedAt,omitempty"`
	StartedAt        *time.Time         `json:"startedAt,omitempty"`
	CompletedAt      *time.Time         `json:"completedAt,omitempty"`
	Header           Header             `json:"header"`
	Property         Property           `json:"property"`
	Areas            []*Area            `json:"areas"`
	Subfloor         Subfloor           `json:"subfloor"`
	SubfloorReadings []*SubfloorReading `json:"subfloorReadings"`
	Outdoor          Outdoor            `json:"outdoor"`
	Waste            Waste              `json:"waste"`
	Procedure        Procedure          `json:"procedure"`
	Summary          Summary            `json:"summary"`
	Cost             *CostSummary       `json:"cost,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// New creates a scheduled inspection for a converted lead.
func New(id, leadID, technicianID string, scheduledAt *time.Time, now time.Time) (*Inspection, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalidf("inspection id is required")
	}
	if strings.TrimSpace(leadID) == "" {
		return nil, invalidf("lead id is required")
	}
	return &Inspection{
		ID:           id,
		LeadID:       leadID,
		TechnicianID: strings.TrimSpace(technicianID),
		InspectorID:  strings.TrimSpace(technicianID),
		Status:       StatusScheduled,
		Version:      1,
		ScheduledAt:  scheduledAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckVersion compares the caller's expected version; zero skips the check.
func (i *Inspection) CheckVersion(expected int64) error {
	if expected == 0 || expected == i.Version {
		return nil
	}
	return &VersionConflictError{Expected: expected, Current: i.Version}
}

// EnsureEditable gates every section write.
func (i *Inspection) EnsureEditable() error {
	switch i.Status {
	case StatusInProgress:
		return nil
	case StatusCompleted:
		return fmt.Errorf("%w: %s", ErrInspectionLocked, i.ID)
	default:
		return fmt.Errorf("%w: %s is %s", ErrInspectionNotStarted, i.ID, i.Status)
	}
}

// Start moves a scheduled inspection into progress and copies the header
// from the lead. It reports false when the inspection was already started.
// jobNumber is only used when none is assigned yet.
func (i *Inspection) Start(jobNumber string, l lead.Lead, now time.Time) (bool, error) {
	switch i.Status {
	case StatusInProgress:
		return false, nil
	case StatusCompleted:
		return false, fmt.Errorf("%w: %s", ErrInspectionLocked, i.ID)
	}

	if i.JobNumber == "" {
		if strings.TrimSpace(jobNumber) == "" {
			return false, invalidf("job number is required to start")
		}
		i.JobNumber = jobNumber
	}

	if i.Header.Triage == "" {
		i.Header.Triage = l.Triage()
	}
	if i.Header.Address == "" {
		i.Header.Address = l.PropertyAddress()
	}
	if i.Header.RequestedBy == "" {
		i.Header.RequestedBy = l.FullName()
	}
	if i.Header.InspectionDate == nil {
		i.Header.InspectionDate = &now
	}
	if i.ArrivedAt == nil {
		i.ArrivedAt = &now
	}
	i.StartedAt = &now
	i.Status = StatusInProgress
	return true, nil
}

// CostInput flattens the aggregate into the cost engine's input, areas in order.
func (i *Inspection) CostInput() costing.CostInput {
	areas := make([]costing.AreaInput, 0, len(i.Areas))
	for _, a := range i.Areas {
		areas = append(areas, costing.AreaInput{
			Name:                  a.Name,
			JobTimeMinutes:        a.JobTimeMinutes,
			DemolitionRequired:    a.DemolitionRequired,
			DemolitionTimeMinutes: a.DemolitionTimeMinutes,
		})
	}

	var enabled *bool
	if i.Procedure.DryingEquipmentEnabled != nil {
		v := *i.Procedure.DryingEquipmentEnabled
		enabled = &v
	}

	treatment := 0
	if i.Subfloor.Enabled {
		treatment = i.Subfloor.TreatmentTimeMinutes
	}

	return costing.CostInput{
		Areas:                    areas,
		SubfloorTreatmentMinutes: treatment,
		SubfloorEnabled:          i.Subfloor.Enabled,
		DwellingType:             i.Property.DwellingType,
		DryingEquipmentEnabled:   enabled,
		DehumidifierQty:          i.Procedure.DehumidifierQty,
		AirMoverQty:              i.Procedure.AirMoverQty,
		RCDBoxQty:                i.Procedure.RCDBoxQty,
		DryingDays:               i.Procedure.DryingDays,
	}
}

// Complete writes the derived cost fields and locks the inspection.
// finalCost defaults to the computed total unless an override is given.
func (i *Inspection) Complete(b costing.Breakdown, finalOverride *decimal.Decimal, now time.Time) error {
	if err := i.EnsureEditable(); err != nil {
		return err
	}
	if finalOverride != nil && finalOverride.IsNegative() {
		return invalidf("final cost must not be negative")
	}

	summary := &CostSummary{
		LabourCost:      b.LabourCost,
		EquipmentCost:   b.EquipmentCost,
		Subtotal:        b.Subtotal,
		GST:             b.GST,
		TotalCost:       b.TotalCost,
		FinalCost:       b.TotalCost,
		WorkType:        b.WorkType,
		TotalHours:      b.TotalHours,
		DiscountPercent: b.DiscountPercent,
	}
	if finalOverride != nil {
		summary.FinalCost = finalOverride.Round(2)
		summary.FinalOverridden = true
	}

	i.Cost = summary
	i.Status = StatusCompleted
	i.CompletedAt = &now
	return nil
}

func (i *Inspection) AddArea(a *Area) {
	a.InspectionID = i.ID
	i.Areas = Append(i.Areas, a)
}

func (i *Inspection) FindArea(id string) (*Area, error) {
	return Find(i.Areas, id)
}

// RemoveArea deletes the area with its readings and renumbers the rest.
func (i *Inspection) RemoveArea(id string) error {
	next, _, err := Remove(i.Areas, id)
	if err != nil {
		return err
	}
	i.Areas = next
	return nil
}

func (i *Inspection) ReorderAreas(ids []string) error {
	next, err := Reorder(i.Areas, ids)
	if err != nil {
		return err
	}
	i.Areas = next
	return nil
}

// FindMoistureReading locates a reading anywhere in the aggregate.
func (i *Inspection) FindMoistureReading(areaID, readingID string) (*Area, *MoistureReading, error) {
	area, err := i.FindArea(areaID)
	if err != nil {
		return nil, nil, err
	}
	reading, err := area.FindReading(readingID)
	if err != nil {
		return nil, nil, err
	}
	return area, reading, nil
}

func (i *Inspection) AddSubfloorReading(r *SubfloorReading) {
	r.InspectionID = i.ID
	i.SubfloorReadings = Append(i.SubfloorReadings, r)
}

func (i *Inspection) FindSubfloorReading(id string) (*SubfloorReading, error) {
	return Find(i.SubfloorReadings, id)
}

func (i *Inspection) RemoveSubfloorReading(id string) error {
	next, _, err := Remove(i.SubfloorReadings, id)
	if err != nil {
		return err
	}
	i.SubfloorReadings = next
	return nil
}

func (i *Inspection) ReorderSubfloorReadings(ids []string) error {
	next, err := Reorder(i.SubfloorReadings, ids)
	if err != nil {
		return err
	}
	i.SubfloorReadings = next
	return nil
}

// RecomputeOutdoorDewPoint derives the outdoor dew point from its readings.
func (i *Inspection) RecomputeOutdoorDewPoint() error {
	dp, err := OutdoorDewPoint(i.Outdoor.Temperature, i.Outdoor.Humidity)
	if err != nil {
		return err
	}
	i.Outdoor.DewPoint = dp
	return nil
}

// FormatJobNumber renders PREFIX-YEAR-NNNN from a per-year sequence value.
func FormatJobNumber(prefix string, year int, seq int64) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultJobNumberPrefix
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

const DefaultJobNumberPrefix = "MRC"
