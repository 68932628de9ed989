package numeric

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// displayFraction overrides the ISO minor units for display purposes.
// Peso amounts are shown without cents.
var displayFraction = map[string]int{
	"COP": 0,
}

// Every amount is grouped the same way regardless of the currency's locale.
const (
	displayDecimal  = "."
	displayThousand = ","
)

// FormatCurrency renders d for display in the given currency, e.g. "$1,234.56"
// for USD and "$1,234,567 COP" for pesos. This is the only place a decimal
// is turned into presentation text with currency symbols.
func (c Context) FormatCurrency(d decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return c.Fixed(d, 2) + " " + code
	}

	fraction := cur.Fraction
	if f, ok := displayFraction[code]; ok {
		fraction = f
	}

	minor := c.roundPlaces(d, int32(fraction)).Shift(int32(fraction)).IntPart()
	formatted := money.NewFormatter(fraction, displayDecimal, displayThousand, cur.Grapheme, cur.Template).Format(minor)
	if code != "USD" {
		formatted += " " + code
	}
	return formatted
}
