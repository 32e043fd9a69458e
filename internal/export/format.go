package export

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money renders a currency amount fixed to two decimals, e.g. "1234.50".
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent renders a percentage fixed to two decimals with a trailing sign.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// Amount renders a coin quantity with the given number of decimals, trailing zeros trimmed.
func Amount(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// PercentPtr is Percent for optional figures; nil renders as "n/a".
func PercentPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return Percent(*v)
}

// Display renders an amount with thousands separators for on-screen panels,
// e.g. "$12,345.68". Exports use Money instead.
func Display(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	rounded, _ := d.Float64()
	return sign + "$" + humanize.CommafWithDigits(rounded, 2)
}
