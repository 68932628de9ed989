// Package numeric provides the decimal arithmetic used wherever money or
// quantities are touched. Precision and rounding live in an explicit Context
// value built from configuration; nothing here is process-wide state.
package numeric

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinPrecision is the lowest number of significant digits a Context accepts.
const MinPrecision int32 = 20

// guardDigits are extra digits carried by a division before the final rounding.
const guardDigits int32 = 4

var (
	// ErrDivisionByZero is returned by Div when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidDecimal is returned when a value cannot be parsed as a decimal.
	ErrInvalidDecimal = errors.New("invalid decimal value")

	// ErrInvalidContext is returned by NewContext for unusable settings.
	ErrInvalidContext = errors.New("invalid decimal context")
)

// Rounding selects how results are rounded to the context precision.
type Rounding int

const (
	// RoundHalfUp rounds ties away from zero.
	RoundHalfUp Rounding = iota
	// RoundHalfEven rounds ties to the nearest even digit.
	RoundHalfEven
	// RoundDown truncates toward zero.
	RoundDown
)

// String returns the configuration name of the rounding mode.
func (r Rounding) String() string {
	switch r {
	case RoundHalfUp:
		return "half_up"
	case RoundHalfEven:
		return "half_even"
	case RoundDown:
		return "down"
	default:
		return fmt.Sprintf("rounding(%d)", int(r))
	}
}

// ParseRounding maps a configuration name to a Rounding mode.
func ParseRounding(name string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "half_up", "halfup":
		return RoundHalfUp, nil
	case "half_even", "halfeven", "bank":
		return RoundHalfEven, nil
	case "down", "truncate":
		return RoundDown, nil
	default:
		return RoundHalfUp, fmt.Errorf("%w: unknown rounding mode %q", ErrInvalidContext, name)
	}
}

// Context carries the precision (significant digits) and rounding mode applied
// to every arithmetic result.
type Context struct {
	Precision int32
	Rounding  Rounding
}

// DefaultContext returns 20 significant digits with half-up rounding.
func DefaultContext() Context {
	return Context{Precision: MinPrecision, Rounding: RoundHalfUp}
}

// NewContext validates and returns a Context.
func NewContext(precision int32, rounding Rounding) (Context, error) {
	if precision < MinPrecision {
		return Context{}, fmt.Errorf("%w: precision %d is below %d significant digits", ErrInvalidContext, precision, MinPrecision)
	}
	switch rounding {
	case RoundHalfUp, RoundHalfEven, RoundDown:
	default:
		return Context{}, fmt.Errorf("%w: %s", ErrInvalidContext, rounding)
	}
	return Context{Precision: precision, Rounding: rounding}, nil
}

// Parse builds a decimal from its string form.
func (c Context) Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", ErrInvalidDecimal)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	return c.Round(d), nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func (c Context) MustParse(s string) decimal.Decimal {
	d, err := c.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromFloat converts a float64 at a display or solver boundary.
func (c Context) FromFloat(f float64) decimal.Decimal {
	return c.Round(decimal.NewFromFloat(f))
}

// FromInt converts an integer.
func (c Context) FromInt(i int64) decimal.Decimal {
	return decimal.NewFromInt(i)
}

// Add returns a+b.
func (c Context) Add(a, b decimal.Decimal) decimal.Decimal {
	return c.Round(a.Add(b))
}

// Sub returns a-b.
func (c Context) Sub(a, b decimal.Decimal) decimal.Decimal {
	return c.Round(a.Sub(b))
}

// Mul returns a*b.
func (c Context) Mul(a, b decimal.Decimal) decimal.Decimal {
	return c.Round(a.Mul(b))
}

// Sum adds all values.
func (c Context) Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return c.Round(total)
}

// Div returns a/b rounded to the context precision, or ErrDivisionByZero.
func (c Context) Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	if a.IsZero() {
		return decimal.Zero, nil
	}
	places := c.Precision - (magnitude(a) - magnitude(b)) + guardDigits
	return c.Round(a.DivRound(b, places)), nil
}

// DivOrZero returns a/b, or zero when b is zero.
func (c Context) DivOrZero(a, b decimal.Decimal) decimal.Decimal {
	q, err := c.Div(a, b)
	if err != nil {
		return decimal.Zero
	}
	return q
}

// Percent returns part/whole*100, or zero when whole is zero.
func (c Context) Percent(part, whole decimal.Decimal) decimal.Decimal {
	return c.Mul(c.DivOrZero(part, whole), decimal.NewFromInt(100))
}

// Round rounds d to the context's significant digits.
func (c Context) Round(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	places := c.Precision - magnitude(d)
	if -d.Exponent() <= places {
		return d
	}
	return c.roundPlaces(d, places)
}

// Fixed formats d with exactly places digits after the point.
func (c Context) Fixed(d decimal.Decimal, places int32) string {
	return c.roundPlaces(d, places).StringFixed(places)
}

func (c Context) roundPlaces(d decimal.Decimal, places int32) decimal.Decimal {
	switch c.Rounding {
	case RoundHalfEven:
		return d.RoundBank(places)
	case RoundDown:
		return d.RoundDown(places)
	default:
		return d.Round(places)
	}
}

// magnitude is the count of digits before the decimal point; it is zero or
// negative for values below one (0.0012 -> -2).
func magnitude(d decimal.Decimal) int32 {
	return int32(d.NumDigits()) + d.Exponent()
}
