package portfolio

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

const fxReportMonths = 12

// FXImpactReport compares the rate at which COP deposits were converted with the
// latest known rate. AvgInvestmentRate is weighted by the USD amount of each COP
// deposit. When no rate has been recorded the current rate falls back to that
// average. AvgRateByMonth covers the most recent twelve months with rates.
func (e Engine) FXImpactReport(flows []model.CashFlow, rates []model.FxRate) (model.FXImpactReport, error) {
	summary, err := e.SummarizeCashFlows(flows)
	if err != nil {
		return model.FXImpactReport{}, err
	}

	weighted, weights := decimal.Zero, decimal.Zero
	for _, cf := range flows {
		if cf.Type != model.CashFlowDeposit || cf.FxRate == nil {
			continue
		}
		weighted = e.num.Add(weighted, e.num.Mul(cf.UsdAmount, *cf.FxRate))
		weights = e.num.Add(weights, cf.UsdAmount)
	}
	avg := e.num.DivOrZero(weighted, weights)

	var latestRate *decimal.Decimal
	current := avg
	if latest := LatestFxRate(rates); latest != nil {
		latestRate = &latest.Rate
		current = latest.Rate
	}

	impact, err := e.FXImpact(flows, latestRate)
	if err != nil {
		return model.FXImpactReport{}, err
	}

	return model.FXImpactReport{
		AvgInvestmentRate: avg,
		CurrentRate:       current,
		RateChangePct:     e.num.Percent(e.num.Sub(current, avg), avg),
		FXImpactUSD:       impact,
		FXImpactPct:       e.num.Percent(impact, summary.NetInvested),
		AvgRateByMonth:    e.monthlyAverageRates(rates),
	}, nil
}

func (e Engine) monthlyAverageRates(rates []model.FxRate) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for _, r := range rates {
		m := monthKey(r.Date)
		sums[m] = e.num.Add(sums[m], r.Rate)
		counts[m]++
	}

	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	slices.Sort(months)
	if len(months) > fxReportMonths {
		months = months[len(months)-fxReportMonths:]
	}

	out := make(map[string]decimal.Decimal, len(months))
	for _, m := range months {
		out[m] = e.num.DivOrZero(sums[m], e.num.FromInt(counts[m]))
	}
	return out
}
