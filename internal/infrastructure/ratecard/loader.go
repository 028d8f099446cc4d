package ratecard

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"mrcfield/internal/domain/costing"
	"mrcfield/internal/errs"
)

const fileVersion = 1

type anchorConfig struct {
	TwoHours   string `toml:"two_hours"`
	EightHours string `toml:"eight_hours"`
}

type equipmentConfig struct {
	Dehumidifier string `toml:"dehumidifier"`
	AirMover     string `toml:"air_mover"`
	RCDBox       string `toml:"rcd_box"`
}

type discountConfig struct {
	AboveHours string `toml:"above_hours"`
	Percent    string `toml:"percent"`
}

// Money is written as strings so no value passes through a float.
type rateCardFile struct {
	Version   int                     `toml:"version"`
	GSTRate   string                  `toml:"gst_rate"`
	Anchors   map[string]anchorConfig `toml:"anchors"`
	Equipment equipmentConfig         `toml:"equipment"`
	Discounts []discountConfig        `toml:"discounts"`
}

// Load returns the default rate card when path is empty, otherwise the
// card in the TOML file at path. The result is validated either way.
func Load(path string) (costing.RateCard, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return costing.DefaultRateCard(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return costing.RateCard{}, errs.Wrapf(err, "read rate card %q", path)
	}
	card, err := Parse(raw)
	if err != nil {
		return costing.RateCard{}, errs.Wrapf(err, "parse rate card %q", path)
	}
	return card, nil
}

func Parse(raw []byte) (costing.RateCard, error) {
	var file rateCardFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return costing.RateCard{}, err
	}
	if file.Version != fileVersion {
		return costing.RateCard{}, fmt.Errorf("unsupported rate card version %d, expected %d", file.Version, fileVersion)
	}

	// unspecified sections keep their defaults
	card := costing.DefaultRateCard()
	p := parser{}

	if file.GSTRate != "" {
		card.GSTRate = p.decimal("gst_rate", file.GSTRate)
	}
	for name, anchor := range file.Anchors {
		wt := costing.WorkType(strings.ToUpper(strings.TrimSpace(name)))
		card.Anchors[wt] = costing.Anchor{
			TwoHours:   p.decimal("anchors."+name+".two_hours", anchor.TwoHours),
			EightHours: p.decimal("anchors."+name+".eight_hours", anchor.EightHours),
		}
	}
	if v := file.Equipment.Dehumidifier; v != "" {
		card.Equipment.Dehumidifier = p.decimal("equipment.dehumidifier", v)
	}
	if v := file.Equipment.AirMover; v != "" {
		card.Equipment.AirMover = p.decimal("equipment.air_mover", v)
	}
	if v := file.Equipment.RCDBox; v != "" {
		card.Equipment.RCDBox = p.decimal("equipment.rcd_box", v)
	}
	if len(file.Discounts) > 0 {
		card.Discounts = make([]costing.DiscountTier, 0, len(file.Discounts))
		for i, d := range file.Discounts {
			card.Discounts = append(card.Discounts, costing.DiscountTier{
				AboveHours: p.decimal(fmt.Sprintf("discounts[%d].above_hours", i), d.AboveHours),
				Percent:    p.decimal(fmt.Sprintf("discounts[%d].percent", i), d.Percent),
			})
		}
	}

	if err := errors.Join(p.errs...); err != nil {
		return costing.RateCard{}, err
	}
	if err := card.Validate(); err != nil {
		return costing.RateCard{}, err
	}
	return card, nil
}

type parser struct {
	errs []error
}

func (p *parser) decimal(field, value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a decimal", field, value))
		return decimal.Zero
	}
	return d
}
