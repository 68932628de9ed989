// Package portfolio is the accounting and performance-analytics engine.
//
// Every function here is a pure, deterministic function of its inputs: it never
// mutates the ledger it is given, performs no I/O and keeps no state between
// calls, so concurrent use is safe. All money and quantity arithmetic goes
// through the Engine's numeric.Context; float64 is used only inside the XIRR
// root finder.
package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/numeric"
)

// Engine runs the portfolio computations under one decimal context.
type Engine struct {
	num numeric.Context
}

// NewEngine creates an Engine using the given decimal context.
func NewEngine(num numeric.Context) Engine {
	return Engine{num: num}
}

// Numeric returns the decimal context used by the engine.
func (e Engine) Numeric() numeric.Context {
	return e.num
}

// InputError reports a malformed ledger row. It unwraps to one of the
// apperrors input sentinels (ErrInvalidTrade, ErrInvalidCashFlow, ErrInvalidFxRate).
type InputError struct {
	Err      error
	RecordID string
	Field    string
	Reason   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: record %q field %s: %s", e.Err, e.RecordID, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func invalidTrade(t model.Trade, field, reason string) error {
	return &InputError{Err: apperrors.ErrInvalidTrade, RecordID: t.ID, Field: field, Reason: reason}
}

func invalidCashFlow(c model.CashFlow, field, reason string) error {
	return &InputError{Err: apperrors.ErrInvalidCashFlow, RecordID: c.ID, Field: field, Reason: reason}
}

// ValidateTrade checks the fields the holdings walk depends on.
func ValidateTrade(t model.Trade) error {
	switch {
	case t.Ticker == "":
		return invalidTrade(t, "ticker", "ticker is required")
	case t.Date.IsZero():
		return invalidTrade(t, "date", "date is missing or unparseable")
	case t.Side != model.SideBuy && t.Side != model.SideSell:
		return invalidTrade(t, "side", fmt.Sprintf("unknown side %q", t.Side))
	case !t.Quantity.IsPositive():
		return invalidTrade(t, "quantity", "quantity must be positive")
	case t.Price.IsNegative():
		return invalidTrade(t, "price", "price cannot be negative")
	case t.Fee.IsNegative():
		return invalidTrade(t, "fee", "fee cannot be negative")
	}
	return nil
}

// ValidateCashFlow checks type, currency, amount and the FX rate rule for COP rows.
func ValidateCashFlow(c model.CashFlow) error {
	switch c.Type {
	case model.CashFlowDeposit, model.CashFlowWithdrawal, model.CashFlowFee:
	default:
		return invalidCashFlow(c, "type", fmt.Sprintf("unknown type %q", c.Type))
	}
	switch {
	case c.Date.IsZero():
		return invalidCashFlow(c, "date", "date is missing or unparseable")
	case !c.Amount.IsPositive():
		return invalidCashFlow(c, "amount", "amount must be positive")
	case c.UsdAmount.IsNegative():
		return invalidCashFlow(c, "usd_amount", "usd amount cannot be negative")
	}
	switch c.Currency {
	case model.CurrencyUSD:
	case model.CurrencyCOP:
		if c.FxRate == nil {
			return invalidCashFlow(c, "fx_rate", "fx rate is required for COP entries")
		}
		if !c.FxRate.IsPositive() {
			return invalidCashFlow(c, "fx_rate", "fx rate must be positive")
		}
	default:
		return invalidCashFlow(c, "currency", fmt.Sprintf("unsupported currency %q", c.Currency))
	}
	return nil
}

// TradeTotal computes the ledger total of a trade: quantity*price+fee for a
// buy, quantity*price-fee for a sell.
func (e Engine) TradeTotal(side string, quantity, price, fee decimal.Decimal) decimal.Decimal {
	gross := e.num.Mul(quantity, price)
	if side == model.SideSell {
		return e.num.Sub(gross, fee)
	}
	return e.num.Add(gross, fee)
}

// UsdAmount converts a native cash flow amount to USD. COP amounts are divided
// by the COP-per-USD rate, which must be present and positive.
func (e Engine) UsdAmount(currency string, amount decimal.Decimal, fxRate *decimal.Decimal) (decimal.Decimal, error) {
	switch currency {
	case model.CurrencyUSD:
		return amount, nil
	case model.CurrencyCOP:
		if fxRate == nil {
			return decimal.Zero, fmt.Errorf("%w: fx rate is required for COP entries", apperrors.ErrInvalidCashFlow)
		}
		usd, err := e.num.Div(amount, *fxRate)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %w", apperrors.ErrInvalidCashFlow, err)
		}
		return usd, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrInvalidCashFlow, currency)
	}
}

// LatestFxRate returns the most recent rate by date, or nil when there is none.
func LatestFxRate(rates []model.FxRate) *model.FxRate {
	var latest *model.FxRate
	for i := range rates {
		r := rates[i]
		if latest == nil || r.Date.After(latest.Date) ||
			(r.Date.Equal(latest.Date) && r.CreatedAt.After(latest.CreatedAt)) {
			latest = &r
		}
	}
	return latest
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
