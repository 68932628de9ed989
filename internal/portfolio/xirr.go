package portfolio

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// Solver parameters.
const (
	DefaultXIRRGuess = 0.10

	xirrMaxIterations = 100
	xirrTolerance     = 1e-6
	xirrMinRate       = -0.99
	xirrMaxRate       = 10.0
	msPerYear         = 365.25 * 24 * 60 * 60 * 1000
)

// XIRRFlow is a dated amount from the investor's point of view: money put in
// is negative, money taken out (or still held) is positive.
type XIRRFlow struct {
	Date   time.Time
	Amount decimal.Decimal
}

// XIRRResult is the outcome of the root finder. Rate is an annual fraction
// (0.1 is 10%). A result that did not converge carries Rate 0.
type XIRRResult struct {
	Rate       float64
	Percent    decimal.Decimal
	Iterations int
	Converged  bool
}

// BuildXIRRFlows converts deposits and withdrawals into XIRR flows and appends
// the current portfolio value as a terminal flow dated asOf. Fee rows are
// skipped: they are internal to the account and already reduce terminalValue.
func BuildXIRRFlows(flows []model.CashFlow, terminalValue decimal.Decimal, asOf time.Time) []XIRRFlow {
	out := make([]XIRRFlow, 0, len(flows)+1)
	for _, cf := range flows {
		switch cf.Type {
		case model.CashFlowDeposit:
			out = append(out, XIRRFlow{Date: cf.Date, Amount: cf.UsdAmount.Neg()})
		case model.CashFlowWithdrawal:
			out = append(out, XIRRFlow{Date: cf.Date, Amount: cf.UsdAmount})
		}
	}
	return append(out, XIRRFlow{Date: asOf, Amount: terminalValue})
}

// SolveXIRR finds the annualized rate r with sum(amount / (1+r)^years) = 0
// using Newton-Raphson. Years are measured from the earliest flow.
//
// Fewer than two flows is not an error and yields a zero rate. When the
// derivative goes flat or the iteration budget runs out, the zero result is
// returned together with apperrors.ErrNonConvergence.
func (e Engine) SolveXIRR(flows []XIRRFlow, guess float64) (XIRRResult, error) {
	if len(flows) < 2 {
		return XIRRResult{Percent: decimal.Zero}, nil
	}

	origin := slices.MinFunc(flows, func(a, b XIRRFlow) int {
		return a.Date.Compare(b.Date)
	}).Date

	years := make([]float64, len(flows))
	amounts := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = float64(f.Date.Sub(origin).Milliseconds()) / msPerYear
		amounts[i] = f.Amount.InexactFloat64()
	}

	rate := guess
	for i := 0; i < xirrMaxIterations; i++ {
		npv, dnpv := 0.0, 0.0
		for j := range amounts {
			base := math.Pow(1+rate, years[j])
			npv += amounts[j] / base
			dnpv -= years[j] * amounts[j] / (base * (1 + rate))
		}

		if math.Abs(npv) < xirrTolerance {
			return XIRRResult{
				Rate:       rate,
				Percent:    e.num.FromFloat(rate * 100),
				Iterations: i,
				Converged:  true,
			}, nil
		}

		if math.Abs(dnpv) < xirrTolerance {
			return XIRRResult{Percent: decimal.Zero, Iterations: i},
				fmt.Errorf("%w: derivative vanished at rate %.6f", apperrors.ErrNonConvergence, rate)
		}

		rate -= npv / dnpv
		rate = math.Max(xirrMinRate, math.Min(xirrMaxRate, rate))
	}

	return XIRRResult{Percent: decimal.Zero, Iterations: xirrMaxIterations},
		fmt.Errorf("%w: no root after %d iterations", apperrors.ErrNonConvergence, xirrMaxIterations)
}

// XIRRPercent formats the rate as a percentage with two decimals, or "0" when
// the solver produced no rate.
func (e Engine) XIRRPercent(r XIRRResult) string {
	if !r.Converged {
		return "0"
	}
	return e.num.Fixed(r.Percent, 2)
}
