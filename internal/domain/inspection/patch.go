package inspection

import (
	"math"
	"strings"
	"time"

	"mrcfield/internal/domain/costing"
)

// Section patches only touch fields the client sent. A null clears the field.

type HeaderPatch struct {
	AttentionTo    Optional[string]    `json:"attentionTo,omitzero"`
	Triage         Optional[string]    `json:"triage,omitzero"`
	Address        Optional[string]    `json:"address,omitzero"`
	RequestedBy    Optional[string]    `json:"requestedBy,omitzero"`
	InspectionDate Optional[time.Time] `json:"inspectionDate,omitzero"`
}

func (p HeaderPatch) Apply(h *Header) {
	applyValue(p.AttentionTo, &h.AttentionTo)
	applyValue(p.Triage, &h.Triage)
	applyValue(p.Address, &h.Address)
	applyValue(p.RequestedBy, &h.RequestedBy)
	applyPointer(p.InspectionDate, &h.InspectionDate)
}

type PropertyPatch struct {
	PropertyOccupation Optional[string] `json:"propertyOccupation,omitzero"`
	DwellingType       Optional[string] `json:"dwellingType,omitzero"`
}

func (p PropertyPatch) Apply(pr *Property) {
	applyValue(p.PropertyOccupation, &pr.PropertyOccupation)
	if v, ok := p.DwellingType.Value(); ok {
		pr.DwellingType = strings.ToUpper(strings.TrimSpace(v))
	} else if p.DwellingType.IsNull() {
		pr.DwellingType = ""
	}
}

type AreaPatch struct {
	Name                   Optional[string]   `json:"areaName,omitzero"`
	MouldVisibility        Optional[[]string] `json:"mouldVisibility,omitzero"`
	Temperature            Optional[float64]  `json:"temperature,omitzero"`
	Humidity               Optional[float64]  `json:"humidity,omitzero"`
	DewPoint               Optional[float64]  `json:"dewPoint,omitzero"`
	JobTimeMinutes         Optional[int]      `json:"jobTime,omitzero"`
	DemolitionRequired     Optional[bool]     `json:"demolitionRequired,omitzero"`
	DemolitionTimeMinutes  Optional[int]      `json:"demolitionTime,omitzero"`
	MoistureReadingEnabled Optional[bool]     `json:"moistureReadingEnabled,omitzero"`
	InfraredEnabled        Optional[bool]     `json:"infraredEnabled,omitzero"`
	CommentsEdited         Optional[string]   `json:"commentsEdited,omitzero"`
	CommentsApproved       Optional[bool]     `json:"commentsApproved,omitzero"`
	DemolitionEdited       Optional[string]   `json:"demolitionDescriptionEdited,omitzero"`
	DemolitionApproved     Optional[bool]     `json:"demolitionDescriptionApproved,omitzero"`
}

func (p AreaPatch) Validate() error {
	if p.Name.IsNull() {
		return invalidf("area name cannot be cleared")
	}
	if v, ok := p.Name.Value(); ok && strings.TrimSpace(v) == "" {
		return invalidf("area name is required")
	}
	if v, ok := p.Humidity.Value(); ok {
		if err := validateHumidity(v); err != nil {
			return err
		}
	}
	for _, f := range []Optional[float64]{p.Temperature, p.DewPoint} {
		if v, ok := f.Value(); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return invalidf("climate readings must be finite numbers")
		}
	}
	if v, ok := p.JobTimeMinutes.Value(); ok {
		if err := validateMinutes("job time", v); err != nil {
			return err
		}
	}
	if v, ok := p.DemolitionTimeMinutes.Value(); ok {
		if err := validateMinutes("demolition time", v); err != nil {
			return err
		}
	}
	return nil
}

func validateMinutes(field string, v int) error {
	if v < 0 {
		return invalidf("%s must not be negative", field)
	}
	if v > costing.MaxFieldMinutes {
		return invalidf("%s must not exceed %d minutes", field, costing.MaxFieldMinutes)
	}
	return nil
}

// Apply validates first so a rejected patch leaves the area untouched.
// Temperature and humidity land before the dew point so that a pinned value
// sent in the same patch sees both readings.
func (p AreaPatch) Apply(a *Area) error {
	if err := p.Validate(); err != nil {
		return err
	}

	climate := a.Climate
	if p.Temperature.IsSet() {
		if err := climate.SetTemperature(pointerOf(p.Temperature)); err != nil {
			return err
		}
	}
	if p.Humidity.IsSet() {
		if err := climate.SetHumidity(pointerOf(p.Humidity)); err != nil {
			return err
		}
	}
	if p.DewPoint.IsNull() {
		if err := climate.RevertToAuto(); err != nil {
			return err
		}
	} else if v, ok := p.DewPoint.Value(); ok {
		if err := climate.OverrideDewPoint(v); err != nil {
			return err
		}
	}
	a.Climate = climate

	if v, ok := p.Name.Value(); ok {
		a.Name = strings.TrimSpace(v)
	}
	if p.MouldVisibility.IsSet() {
		a.MouldVisibility = normalizeTags(pointerOf(p.MouldVisibility))
	}

	applyValue(p.JobTimeMinutes, &a.JobTimeMinutes)
	applyValue(p.DemolitionRequired, &a.DemolitionRequired)
	applyValue(p.DemolitionTimeMinutes, &a.DemolitionTimeMinutes)
	applyValue(p.MoistureReadingEnabled, &a.MoistureReadingEnabled)
	applyValue(p.InfraredEnabled, &a.InfraredEnabled)
	applyValue(p.CommentsEdited, &a.Comments.Edited)
	applyValue(p.CommentsApproved, &a.Comments.Approved)
	applyValue(p.DemolitionEdited, &a.Demolition.Edited)
	applyValue(p.DemolitionApproved, &a.Demolition.Approved)
	return nil
}

func normalizeTags(tags *[]string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(*tags))
	seen := make(map[string]struct{}, len(*tags))
	for _, tag := range *tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

type MoistureReadingPatch struct {
	Title Optional[string] `json:"title,omitzero"`
}

func (p MoistureReadingPatch) Apply(r *MoistureReading) {
	if v, ok := p.Title.Value(); ok {
		r.Title = strings.TrimSpace(v)
	} else if p.Title.IsNull() {
		r.Title = ""
	}
}

type SubfloorPatch struct {
	Enabled              Optional[bool]   `json:"subfloorEnabled,omitzero"`
	Observations         Optional[string] `json:"observations,omitzero"`
	Landscape            Optional[string] `json:"landscape,omitzero"`
	CommentsEdited       Optional[string] `json:"commentsEdited,omitzero"`
	CommentsApproved     Optional[bool]   `json:"commentsApproved,omitzero"`
	Sanitation           Optional[bool]   `json:"sanitation,omitzero"`
	Racking              Optional[bool]   `json:"racking,omitzero"`
	TreatmentTimeMinutes Optional[int]    `json:"treatmentTime,omitzero"`
}

func (p SubfloorPatch) Apply(s *Subfloor) error {
	if v, ok := p.TreatmentTimeMinutes.Value(); ok {
		if err := validateMinutes("treatment time", v); err != nil {
			return err
		}
	}
	applyValue(p.Enabled, &s.Enabled)
	applyValue(p.Observations, &s.Observations)
	applyValue(p.Landscape, &s.Landscape)
	applyValue(p.CommentsEdited, &s.Comments.Edited)
	applyValue(p.CommentsApproved, &s.Comments.Approved)
	applyValue(p.Sanitation, &s.Sanitation)
	applyValue(p.Racking, &s.Racking)
	applyValue(p.TreatmentTimeMinutes, &s.TreatmentTimeMinutes)
	return nil
}

type SubfloorReadingPatch struct {
	MoistureValue Optional[float64] `json:"moistureValue,omitzero"`
	Location      Optional[string]  `json:"location,omitzero"`
}

func (p SubfloorReadingPatch) Apply(r *SubfloorReading) error {
	if v, ok := p.MoistureValue.Value(); ok && (v < 0 || math.IsNaN(v) || math.IsInf(v, 0)) {
		return invalidf("moisture value must be a non-negative number")
	}
	applyPointer(p.MoistureValue, &r.MoistureValue)
	applyValue(p.Location, &r.Location)
	return nil
}

type OutdoorPatch struct {
	Temperature            Optional[float64] `json:"temperature,omitzero"`
	Humidity               Optional[float64] `json:"humidity,omitzero"`
	Comments               Optional[string]  `json:"comments,omitzero"`
	DirectionPhotosEnabled Optional[bool]    `json:"directionPhotosEnabled,omitzero"`
}

// Apply always re-derives the outdoor dew point.
func (p OutdoorPatch) Apply(o *Outdoor) error {
	if v, ok := p.Humidity.Value(); ok {
		if err := validateHumidity(v); err != nil {
			return err
		}
	}
	if v, ok := p.Temperature.Value(); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return invalidf("temperature must be a finite number")
	}

	next := *o
	applyPointer(p.Temperature, &next.Temperature)
	applyPointer(p.Humidity, &next.Humidity)
	applyValue(p.Comments, &next.Comments)
	applyValue(p.DirectionPhotosEnabled, &next.DirectionPhotosEnabled)

	dp, err := OutdoorDewPoint(next.Temperature, next.Humidity)
	if err != nil {
		return err
	}
	next.DewPoint = dp
	*o = next
	return nil
}

type WastePatch struct {
	Enabled Optional[bool]   `json:"wasteDisposalEnabled,omitzero"`
	Amount  Optional[string] `json:"wasteDisposalAmount,omitzero"`
}

func (p WastePatch) Apply(w *Waste) {
	applyValue(p.Enabled, &w.Enabled)
	applyValue(p.Amount, &w.Amount)
}

type ProcedurePatch struct {
	HepaVac                    Optional[bool] `json:"hepaVac,omitzero"`
	Antimicrobial              Optional[bool] `json:"antimicrobial,omitzero"`
	StainRemovingAntimicrobial Optional[bool] `json:"stainRemovingAntimicrobial,omitzero"`
	HomeSanitationFogging      Optional[bool] `json:"homeSanitationFogging,omitzero"`
	// A null here means "derive from the quantities".
	DryingEquipmentEnabled Optional[bool] `json:"dryingEquipmentEnabled,omitzero"`
	DehumidifierQty        Optional[int]  `json:"dehumidifierQty,omitzero"`
	AirMoverQty            Optional[int]  `json:"airMoverQty,omitzero"`
	RCDBoxQty              Optional[int]  `json:"rcdBoxQty,omitzero"`
	DryingDays             Optional[int]  `json:"dryingDays,omitzero"`
}

func (p ProcedurePatch) Apply(pr *Procedure) error {
	for _, q := range []Optional[int]{p.DehumidifierQty, p.AirMoverQty, p.RCDBoxQty, p.DryingDays} {
		if v, ok := q.Value(); ok && v < 0 {
			return invalidf("equipment quantities and drying days must not be negative")
		}
	}
	applyValue(p.HepaVac, &pr.HepaVac)
	applyValue(p.Antimicrobial, &pr.Antimicrobial)
	applyValue(p.StainRemovingAntimicrobial, &pr.StainRemovingAntimicrobial)
	applyValue(p.HomeSanitationFogging, &pr.HomeSanitationFogging)
	applyPointer(p.DryingEquipmentEnabled, &pr.DryingEquipmentEnabled)
	applyValue(p.DehumidifierQty, &pr.DehumidifierQty)
	applyValue(p.AirMoverQty, &pr.AirMoverQty)
	applyValue(p.RCDBoxQty, &pr.RCDBoxQty)
	applyValue(p.DryingDays, &pr.DryingDays)
	return nil
}

type SummaryPatch struct {
	RecommendDehumidifier       Optional[bool]   `json:"recommendDehumidifier,omitzero"`
	DehumidifierSize            Optional[string] `json:"dehumidifierSize,omitzero"`
	CauseOfMouldEdited          Optional[string] `json:"causeOfMouldEdited,omitzero"`
	CauseOfMouldApproved        Optional[bool]   `json:"causeOfMouldApproved,omitzero"`
	AdditionalInfoTechnician    Optional[string] `json:"additionalInfoTechnician,omitzero"`
	AdditionalEquipmentComments Optional[string] `json:"additionalEquipmentComments,omitzero"`
	ParkingOptions              Optional[string] `json:"parkingOptions,omitzero"`
}

func (p SummaryPatch) Apply(s *Summary) {
	applyValue(p.RecommendDehumidifier, &s.RecommendDehumidifier)
	applyValue(p.DehumidifierSize, &s.DehumidifierSize)
	applyValue(p.CauseOfMouldEdited, &s.CauseOfMould.Edited)
	applyValue(p.CauseOfMouldApproved, &s.CauseOfMould.Approved)
	applyValue(p.AdditionalInfoTechnician, &s.AdditionalInfoTechnician)
	applyValue(p.AdditionalEquipmentComments, &s.AdditionalEquipmentComments)
	applyValue(p.ParkingOptions, &s.ParkingOptions)
}
