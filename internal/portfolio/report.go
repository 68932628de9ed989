package portfolio

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// Ledger is the full input of one portfolio computation.
type Ledger struct {
	Trades    []model.Trade
	CashFlows []model.CashFlow
	FxRates   []model.FxRate
	Prices    map[string]decimal.Decimal
}

// Report is every derived figure for a ledger at a point in time.
type Report struct {
	AsOf         time.Time
	Holdings     map[string]model.Holding
	Summary      model.CashFlowSummary
	CashBalance  decimal.Decimal
	LatestFxRate *decimal.Decimal
	XIRR         XIRRResult
	// XIRRErr is set when the solver did not converge. The rest of the report
	// is still valid and XIRR reads as "0".
	XIRRErr     error
	Attribution model.ReturnAttribution
	NetWorth    model.NetWorthSummary
	Performance model.PerformanceMetrics
}

// Analyze runs the whole pipeline: holdings, mark-to-market, cash flow
// summary, cash balance, XIRR on net worth, attribution, net worth and
// performance. Malformed ledger rows fail the call; XIRR non-convergence does not.
func (e Engine) Analyze(l Ledger, asOf time.Time) (Report, error) {
	holdings, err := e.CalculateHoldings(l.Trades)
	if err != nil {
		return Report{}, err
	}
	holdings = e.ApplyMarketPrices(holdings, l.Prices)

	summary, err := e.SummarizeCashFlows(l.CashFlows)
	if err != nil {
		return Report{}, err
	}
	cash, err := e.CashBalance(l.CashFlows, l.Trades)
	if err != nil {
		return Report{}, err
	}

	var latestRate *decimal.Decimal
	if latest := LatestFxRate(l.FxRates); latest != nil {
		latestRate = &latest.Rate
	}

	terminal := e.num.Add(e.HoldingsValue(holdings), cash)
	xirr, xirrErr := e.SolveXIRR(BuildXIRRFlows(l.CashFlows, terminal, asOf), DefaultXIRRGuess)
	if xirrErr != nil && !errors.Is(xirrErr, apperrors.ErrNonConvergence) {
		return Report{}, xirrErr
	}

	attribution, err := e.AttributeReturns(AttributionInput{
		CashFlows:    l.CashFlows,
		Holdings:     holdings,
		LatestFxRate: latestRate,
		XIRR:         xirr,
	})
	if err != nil {
		return Report{}, err
	}

	netWorth := e.NetWorth(NetWorthInput{
		Holdings:     holdings,
		Summary:      summary,
		CashBalance:  cash,
		LatestFxRate: latestRate,
		XIRR:         xirr,
	})

	return Report{
		AsOf:         asOf,
		Holdings:     holdings,
		Summary:      summary,
		CashBalance:  cash,
		LatestFxRate: latestRate,
		XIRR:         xirr,
		XIRRErr:      xirrErr,
		Attribution:  attribution,
		NetWorth:     netWorth,
		Performance:  e.Performance(netWorth, attribution.FXImpact, xirr),
	}, nil
}

// Snapshot captures the report as a storable daily snapshot. The caller assigns the ID.
func (r Report) Snapshot() model.PortfolioSnapshot {
	return model.PortfolioSnapshot{
		SnapshotDate:     r.AsOf.UTC().Truncate(24 * time.Hour),
		TotalValueUSD:    r.NetWorth.NetWorth,
		TotalInvestedUSD: r.Summary.NetInvested,
		TotalCashUSD:     r.CashBalance,
		TotalFeesUSD:     r.Summary.Fees,
		TotalFXImpactUSD: r.Attribution.FXImpact,
		Holdings:         SortedHoldings(r.Holdings),
	}
}
