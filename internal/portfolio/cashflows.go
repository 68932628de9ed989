package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// ValidateCashFlows checks every flow and returns the first *InputError found.
func ValidateCashFlows(flows []model.CashFlow) error {
	for _, cf := range flows {
		if err := ValidateCashFlow(cf); err != nil {
			return err
		}
	}
	return nil
}

// SummarizeCashFlows aggregates the cash flow ledger in USD. Net invested is
// deposits minus withdrawals; fees are reported separately and by category.
// The result does not depend on the order of flows.
func (e Engine) SummarizeCashFlows(flows []model.CashFlow) (model.CashFlowSummary, error) {
	if err := ValidateCashFlows(flows); err != nil {
		return model.CashFlowSummary{}, err
	}

	summary := model.CashFlowSummary{
		Deposits:       decimal.Zero,
		Withdrawals:    decimal.Zero,
		Fees:           decimal.Zero,
		FeesByType:     make(map[string]decimal.Decimal),
		FeesByMonth:    make(map[string]decimal.Decimal),
		NetFlowByMonth: make(map[string]decimal.Decimal),
		Count:          len(flows),
	}

	for _, cf := range flows {
		month := monthKey(cf.Date)
		switch cf.Type {
		case model.CashFlowDeposit:
			summary.Deposits = e.num.Add(summary.Deposits, cf.UsdAmount)
			summary.NetFlowByMonth[month] = e.num.Add(summary.NetFlowByMonth[month], cf.UsdAmount)
		case model.CashFlowWithdrawal:
			summary.Withdrawals = e.num.Add(summary.Withdrawals, cf.UsdAmount)
			summary.NetFlowByMonth[month] = e.num.Sub(summary.NetFlowByMonth[month], cf.UsdAmount)
		case model.CashFlowFee:
			category := cf.FeeCategory()
			summary.Fees = e.num.Add(summary.Fees, cf.UsdAmount)
			summary.FeesByType[category] = e.num.Add(summary.FeesByType[category], cf.UsdAmount)
			summary.FeesByMonth[month] = e.num.Add(summary.FeesByMonth[month], cf.UsdAmount)
		}
	}

	summary.NetInvested = e.num.Sub(summary.Deposits, summary.Withdrawals)
	return summary, nil
}

// CashBalance is the uninvested USD left in the account: deposits minus
// withdrawals minus buy totals plus sell totals minus fees. A fee row linked to
// a trade is already inside that trade's total and is not subtracted again.
func (e Engine) CashBalance(flows []model.CashFlow, trades []model.Trade) (decimal.Decimal, error) {
	if err := ValidateCashFlows(flows); err != nil {
		return decimal.Zero, err
	}
	for _, t := range trades {
		if err := ValidateTrade(t); err != nil {
			return decimal.Zero, err
		}
	}

	balance := decimal.Zero
	for _, cf := range flows {
		switch cf.Type {
		case model.CashFlowDeposit:
			balance = e.num.Add(balance, cf.UsdAmount)
		case model.CashFlowWithdrawal:
			balance = e.num.Sub(balance, cf.UsdAmount)
		case model.CashFlowFee:
			if !cf.LinkedToTrade() {
				balance = e.num.Sub(balance, cf.UsdAmount)
			}
		}
	}
	for _, t := range trades {
		if t.IsBuy() {
			balance = e.num.Sub(balance, t.Total)
		} else {
			balance = e.num.Add(balance, t.Total)
		}
	}
	return balance, nil
}

// FeeBreakdown splits fee cash flows by category and month.
func (e Engine) FeeBreakdown(flows []model.CashFlow) (model.FeeBreakdown, error) {
	summary, err := e.SummarizeCashFlows(flows)
	if err != nil {
		return model.FeeBreakdown{}, err
	}

	byType := func(category string) decimal.Decimal {
		if v, ok := summary.FeesByType[category]; ok {
			return v
		}
		return decimal.Zero
	}

	breakdown := model.FeeBreakdown{
		DepositFees:     byType(model.FeeTypeDeposit),
		TradingFees:     byType(model.FeeTypeTrading),
		ClosingFees:     byType(model.FeeTypeClosing),
		MaintenanceFees: byType(model.FeeTypeMaintenance),
		WithdrawalFees:  byType(model.FeeTypeWithdrawal),
		TotalFees:       summary.Fees,
		FeesByMonth:     summary.FeesByMonth,
	}

	// Anything not in a named bucket, including unknown categories, is "other".
	named := e.num.Sum(breakdown.DepositFees, breakdown.TradingFees, breakdown.ClosingFees,
		breakdown.MaintenanceFees, breakdown.WithdrawalFees)
	breakdown.OtherFees = e.num.Sub(summary.Fees, named)

	return breakdown, nil
}
