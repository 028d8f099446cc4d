package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mrcfield/internal/errs"
)

var ErrInvalidCostInput = errs.Sentinel(errs.KindInvalidInput, "invalid cost input")

const minutesPerDay = 24 * 60

// MaxFieldMinutes bounds a single time entry; MaxTotalMinutes bounds the job.
const (
	MaxFieldMinutes = 30 * minutesPerDay
	MaxTotalMinutes = 365 * minutesPerDay
)

type AreaInput struct {
	Name                  string `json:"areaName" yaml:"areaName"`
	JobTimeMinutes        int    `json:"jobTime" yaml:"jobTime"`
	DemolitionRequired    bool   `json:"demolitionRequired" yaml:"demolitionRequired"`
	DemolitionTimeMinutes int    `json:"demolitionTime,omitempty" yaml:"demolitionTime"`
}

// CostInput is shared by the live preview and the completion flow, so it
// carries no completion-only assumptions: an empty area list prices to zero.
type CostInput struct {
	Areas                    []AreaInput `json:"areas" yaml:"areas"`
	SubfloorTreatmentMinutes int         `json:"subfloorTreatmentTime" yaml:"subfloorTreatmentTime"`
	SubfloorEnabled          bool        `json:"subfloorEnabled" yaml:"subfloorEnabled"`
	DwellingType             string      `json:"dwellingType,omitempty" yaml:"dwellingType"`
	// DryingEquipmentEnabled falls back to "any quantity > 0" when nil.
	DryingEquipmentEnabled *bool `json:"dryingEquipmentEnabled,omitempty" yaml:"dryingEquipmentEnabled"`
	DehumidifierQty        int   `json:"dehumidifierQty" yaml:"dehumidifierQty"`
	AirMoverQty            int   `json:"airMoverQty" yaml:"airMoverQty"`
	RCDBoxQty              int   `json:"rcdBoxQty" yaml:"rcdBoxQty"`
	// DryingDays overrides the derived hire duration when positive.
	DryingDays int `json:"dryingDays,omitempty" yaml:"dryingDays"`
}

type AreaDetail struct {
	Name                  string `json:"areaName"`
	JobTimeMinutes        int    `json:"jobTime"`
	DemolitionTimeMinutes int    `json:"demolitionTime"`
	TotalMinutes          int    `json:"totalMinutes"`
}

type EquipmentLine struct {
	Qty  int             `json:"qty"`
	Days int             `json:"days"`
	Cost decimal.Decimal `json:"cost"`
}

type EquipmentDetails struct {
	Dehumidifiers EquipmentLine `json:"dehumidifiers"`
	AirMovers     EquipmentLine `json:"airMovers"`
	RCDBoxes      EquipmentLine `json:"rcdBox"`
}

type Breakdown struct {
	LabourCost      decimal.Decimal  `json:"labourCost"`
	EquipmentCost   decimal.Decimal  `json:"equipmentCost"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	GST             decimal.Decimal  `json:"gst"`
	TotalCost       decimal.Decimal  `json:"totalCost"`
	WorkType        WorkType         `json:"workType"`
	TotalHours      decimal.Decimal  `json:"totalHours"`
	HourlyRate      decimal.Decimal  `json:"hourlyRate"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
	TotalMinutes    int              `json:"totalMinutes"`
	Areas           []AreaDetail     `json:"areaDetails"`
	Equipment       EquipmentDetails `json:"equipmentDetails"`
}

// Engine prices an inspection from a rate card. It holds no mutable state.
type Engine struct {
	card RateCard
}

func NewEngine(card RateCard) (*Engine, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return &Engine{card: card}, nil
}

func (e *Engine) RateCard() RateCard { return e.card }

func (e *Engine) Calculate(in CostInput) (Breakdown, error) {
	if err := in.Validate(); err != nil {
		return Breakdown{}, err
	}

	totalMinutes, areas := sumMinutes(in)
	minutes := decimal.NewFromInt(int64(totalMinutes))
	hours := minutes.Div(decimal.NewFromInt(60))

	workType := ClassifyWorkType(in)
	rate := e.card.hourlyRate(workType, hours)
	discount := e.card.discount(hours)

	labour := rate.Mul(minutes).
		Div(decimal.NewFromInt(60)).
		Mul(decimal.NewFromInt(1).Sub(discount)).
		Round(2)

	equipment := e.equipment(in, totalMinutes)
	equipmentCost := equipment.Dehumidifiers.Cost.
		Add(equipment.AirMovers.Cost).
		Add(equipment.RCDBoxes.Cost).
		Round(2)

	subtotal := labour.Add(equipmentCost)
	gst := subtotal.Mul(e.card.GSTRate).Round(2)

	return Breakdown{
		LabourCost:      labour,
		EquipmentCost:   equipmentCost,
		Subtotal:        subtotal,
		GST:             gst,
		TotalCost:       subtotal.Add(gst),
		WorkType:        workType,
		TotalHours:      hours.Round(2),
		HourlyRate:      rate.Round(2),
		DiscountPercent: discount,
		TotalMinutes:    totalMinutes,
		Areas:           areas,
		Equipment:       equipment,
	}, nil
}

func (in CostInput) Validate() error {
	total := 0
	for i, area := range in.Areas {
		if area.JobTimeMinutes < 0 {
			return fmt.Errorf("%w: area %d job time must not be negative", ErrInvalidCostInput, i)
		}
		if area.DemolitionTimeMinutes < 0 {
			return fmt.Errorf("%w: area %d demolition time must not be negative", ErrInvalidCostInput, i)
		}
		if area.JobTimeMinutes > MaxFieldMinutes || area.DemolitionTimeMinutes > MaxFieldMinutes {
			return fmt.Errorf("%w: area %d time exceeds %d minutes", ErrInvalidCostInput, i, MaxFieldMinutes)
		}
		// each term is bounded, so the running total cannot wrap before the check
		total += area.JobTimeMinutes + area.DemolitionTimeMinutes
		if total > MaxTotalMinutes {
			return fmt.Errorf("%w: total time exceeds %d minutes", ErrInvalidCostInput, MaxTotalMinutes)
		}
	}
	if in.SubfloorTreatmentMinutes > MaxFieldMinutes {
		return fmt.Errorf("%w: subfloor treatment time exceeds %d minutes", ErrInvalidCostInput, MaxFieldMinutes)
	}
	if total+max(in.SubfloorTreatmentMinutes, 0) > MaxTotalMinutes {
		return fmt.Errorf("%w: total time exceeds %d minutes", ErrInvalidCostInput, MaxTotalMinutes)
	}

	checks := []struct {
		name  string
		value int
	}{
		{"subfloor treatment time", in.SubfloorTreatmentMinutes},
		{"dehumidifier quantity", in.DehumidifierQty},
		{"air mover quantity", in.AirMoverQty},
		{"rcd box quantity", in.RCDBoxQty},
		{"drying days", in.DryingDays},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidCostInput, c.name)
		}
	}
	return nil
}

// EquipmentEnabled reports whether drying equipment is on hire for this job.
func (in CostInput) EquipmentEnabled() bool {
	if in.DryingEquipmentEnabled != nil {
		return *in.DryingEquipmentEnabled
	}
	return in.DehumidifierQty > 0 || in.AirMoverQty > 0 || in.RCDBoxQty > 0
}

// ClassifyWorkType applies the priority subfloor > demolition > construction > surface.
func ClassifyWorkType(in CostInput) WorkType {
	if in.SubfloorEnabled {
		return WorkTypeSubfloor
	}
	for _, area := range in.Areas {
		if area.DemolitionRequired && area.DemolitionTimeMinutes > 0 {
			return WorkTypeDemolition
		}
	}
	if in.DwellingType == DwellingConstruction {
		return WorkTypeConstruction
	}
	return WorkTypeSurface
}

func sumMinutes(in CostInput) (int, []AreaDetail) {
	total := in.SubfloorTreatmentMinutes
	details := make([]AreaDetail, 0, len(in.Areas))
	for _, area := range in.Areas {
		demolition := 0
		if area.DemolitionRequired {
			demolition = area.DemolitionTimeMinutes
		}
		areaTotal := area.JobTimeMinutes + demolition
		total += areaTotal
		details = append(details, AreaDetail{
			Name:                  area.Name,
			JobTimeMinutes:        area.JobTimeMinutes,
			DemolitionTimeMinutes: demolition,
			TotalMinutes:          areaTotal,
		})
	}
	return total, details
}

func (e *Engine) equipment(in CostInput, totalMinutes int) EquipmentDetails {
	var out EquipmentDetails
	if !in.EquipmentEnabled() {
		return out
	}

	days := in.DryingDays
	if days <= 0 {
		// partial days bill as full days
		days = (totalMinutes + minutesPerDay - 1) / minutesPerDay
	}

	line := func(qty int, rate decimal.Decimal) EquipmentLine {
		if qty <= 0 {
			return EquipmentLine{}
		}
		return EquipmentLine{
			Qty:  qty,
			Days: days,
			Cost: rate.Mul(decimal.NewFromInt(int64(qty))).Mul(decimal.NewFromInt(int64(days))),
		}
	}

	out.Dehumidifiers = line(in.DehumidifierQty, e.card.Equipment.Dehumidifier)
	out.AirMovers = line(in.AirMoverQty, e.card.Equipment.AirMover)
	out.RCDBoxes = line(in.RCDBoxQty, e.card.Equipment.RCDBox)
	return out
}
