package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type WorkType string

const (
	WorkTypeSurface      WorkType = "SURFACE"
	WorkTypeDemolition   WorkType = "DEMOLITION"
	WorkTypeConstruction WorkType = "CONSTRUCTION"
	WorkTypeSubfloor     WorkType = "SUBFLOOR"
)

// DwellingConstruction is the dwelling type that prices as construction work.
const DwellingConstruction = "CONSTRUCTION"

var workTypes = []WorkType{WorkTypeSurface, WorkTypeDemolition, WorkTypeConstruction, WorkTypeSubfloor}

// Anchor holds the ex-GST job price at the two pricing anchor points.
type Anchor struct {
	TwoHours   decimal.Decimal
	EightHours decimal.Decimal
}

func (a Anchor) twoHourRate() decimal.Decimal   { return a.TwoHours.Div(decimal.NewFromInt(2)) }
func (a Anchor) eightHourRate() decimal.Decimal { return a.EightHours.Div(decimal.NewFromInt(8)) }

// EquipmentRates are per-unit, per-day hire rates.
type EquipmentRates struct {
	Dehumidifier decimal.Decimal
	AirMover     decimal.Decimal
	RCDBox       decimal.Decimal
}

// DiscountTier applies Percent to jobs strictly longer than AboveHours.
type DiscountTier struct {
	AboveHours decimal.Decimal
	Percent    decimal.Decimal
}

type RateCard struct {
	Anchors   map[WorkType]Anchor
	Equipment EquipmentRates
	Discounts []DiscountTier
	GSTRate   decimal.Decimal
}

// DefaultRateCard returns the current published pricing.
func DefaultRateCard() RateCard {
	return RateCard{
		Anchors: map[WorkType]Anchor{
			WorkTypeSurface:      {TwoHours: decimal.RequireFromString("612.00"), EightHours: decimal.RequireFromString("1216.99")},
			WorkTypeDemolition:   {TwoHours: decimal.RequireFromString("711.90"), EightHours: decimal.RequireFromString("1798.90")},
			WorkTypeConstruction: {TwoHours: decimal.RequireFromString("661.96"), EightHours: decimal.RequireFromString("1507.95")},
			WorkTypeSubfloor:     {TwoHours: decimal.RequireFromString("900.00"), EightHours: decimal.RequireFromString("2334.69")},
		},
		Equipment: EquipmentRates{
			Dehumidifier: decimal.NewFromInt(132),
			AirMover:     decimal.NewFromInt(46),
			RCDBox:       decimal.NewFromInt(5),
		},
		Discounts: []DiscountTier{
			{AboveHours: decimal.NewFromInt(8), Percent: decimal.RequireFromString("0.075")},
			{AboveHours: decimal.NewFromInt(16), Percent: decimal.RequireFromString("0.10")},
			{AboveHours: decimal.NewFromInt(24), Percent: decimal.RequireFromString("0.13")},
		},
		GSTRate: decimal.RequireFromString("0.10"),
	}
}

func (c RateCard) Validate() error {
	for _, wt := range workTypes {
		anchor, ok := c.Anchors[wt]
		if !ok {
			return fmt.Errorf("rate card: missing anchor for %s", wt)
		}
		if !anchor.TwoHours.IsPositive() || !anchor.EightHours.IsPositive() {
			return fmt.Errorf("rate card: anchors for %s must be positive", wt)
		}
	}

	if c.Equipment.Dehumidifier.IsNegative() || c.Equipment.AirMover.IsNegative() || c.Equipment.RCDBox.IsNegative() {
		return fmt.Errorf("rate card: equipment rates must not be negative")
	}

	one := decimal.NewFromInt(1)
	for i, tier := range c.Discounts {
		if tier.Percent.IsNegative() || tier.Percent.GreaterThanOrEqual(one) {
			return fmt.Errorf("rate card: discount tier %d percent must be in [0, 1)", i)
		}
		if tier.AboveHours.IsNegative() {
			return fmt.Errorf("rate card: discount tier %d threshold must not be negative", i)
		}
		if i > 0 && !tier.AboveHours.GreaterThan(c.Discounts[i-1].AboveHours) {
			return fmt.Errorf("rate card: discount tiers must be strictly ascending")
		}
	}

	if c.GSTRate.IsNegative() || c.GSTRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("rate card: gst rate must be in [0, 1)")
	}
	return nil
}

// hourlyRate interpolates linearly between the 2h and 8h anchor rates and
// holds the nearest anchor rate outside that range.
func (c RateCard) hourlyRate(wt WorkType, hours decimal.Decimal) decimal.Decimal {
	anchor := c.Anchors[wt]
	rate2 := anchor.twoHourRate()
	rate8 := anchor.eightHourRate()

	two := decimal.NewFromInt(2)
	eight := decimal.NewFromInt(8)
	switch {
	case hours.LessThanOrEqual(two):
		return rate2
	case hours.GreaterThanOrEqual(eight):
		return rate8
	}

	slope := rate8.Sub(rate2).Div(eight.Sub(two))
	return rate2.Add(slope.Mul(hours.Sub(two)))
}

func (c RateCard) discount(hours decimal.Decimal) decimal.Decimal {
	pct := decimal.Zero
	for _, tier := range c.Discounts {
		if hours.GreaterThan(tier.AboveHours) {
			pct = tier.Percent
		}
	}
	return pct
}
