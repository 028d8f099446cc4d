package costing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAUD renders an amount as "$1,234.56".
func FormatAUD(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// FormatPercent renders a fraction as a percentage with one decimal, e.g. 0.075 -> "7.5%".
func FormatPercent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
