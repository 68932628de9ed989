package portfolio

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// Timeline intervals.
const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// NormalizeInterval maps unknown intervals to IntervalDay.
func NormalizeInterval(interval string) string {
	switch interval {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalYear:
		return interval
	}
	return IntervalDay
}

func bucketKey(t time.Time, interval string) string {
	t = t.UTC()
	switch interval {
	case IntervalWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case IntervalMonth:
		return t.Format("2006-01")
	case IntervalYear:
		return t.Format("2006")
	}
	return t.Format(time.DateOnly)
}

// Timeline builds the performance series. Stored snapshots are used when there
// are any. Otherwise the series is rebuilt from the ledger dates with the
// portfolio value approximated by invested capital, since historic prices are
// not kept. Points are reduced to the last one in each interval bucket.
func (e Engine) Timeline(snapshots []model.PortfolioSnapshot, flows []model.CashFlow, trades []model.Trade, interval string) []model.PerformancePoint {
	interval = NormalizeInterval(interval)

	var points []model.PerformancePoint
	if len(snapshots) > 0 {
		points = e.pointsFromSnapshots(snapshots)
	} else {
		points = e.pointsFromLedger(flows, trades)
	}

	out := make([]model.PerformancePoint, 0, len(points))
	lastKey := ""
	for _, p := range points {
		key := bucketKey(p.Date, interval)
		if len(out) > 0 && key == lastKey {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
		lastKey = key
	}
	return out
}

func (e Engine) point(date time.Time, value, invested, fees, fx decimal.Decimal) model.PerformancePoint {
	netReturn := e.num.Sub(value, invested)
	return model.PerformancePoint{
		Date:               date,
		PortfolioValue:     value,
		InvestedCapital:    invested,
		CumulativeFees:     fees,
		CumulativeFXImpact: fx,
		NetReturn:          netReturn,
		NetReturnPct:       e.num.Percent(netReturn, invested),
	}
}

func (e Engine) pointsFromSnapshots(snapshots []model.PortfolioSnapshot) []model.PerformancePoint {
	sorted := slices.Clone(snapshots)
	slices.SortStableFunc(sorted, func(a, b model.PortfolioSnapshot) int {
		return a.SnapshotDate.Compare(b.SnapshotDate)
	})

	points := make([]model.PerformancePoint, 0, len(sorted))
	for _, s := range sorted {
		points = append(points, e.point(s.SnapshotDate, s.TotalValueUSD, s.TotalInvestedUSD, s.TotalFeesUSD, s.TotalFXImpactUSD))
	}
	return points
}

func (e Engine) pointsFromLedger(flows []model.CashFlow, trades []model.Trade) []model.PerformancePoint {
	dates := make([]time.Time, 0, len(flows)+len(trades))
	for _, cf := range flows {
		dates = append(dates, cf.Date)
	}
	for _, t := range trades {
		dates = append(dates, t.Date)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	dates = slices.CompactFunc(dates, func(a, b time.Time) bool { return a.Equal(b) })

	sortedFlows := slices.Clone(flows)
	slices.SortStableFunc(sortedFlows, func(a, b model.CashFlow) int { return a.Date.Compare(b.Date) })

	points := make([]model.PerformancePoint, 0, len(dates))
	invested, fees := decimal.Zero, decimal.Zero
	next := 0
	for _, d := range dates {
		for next < len(sortedFlows) && !sortedFlows[next].Date.After(d) {
			cf := sortedFlows[next]
			switch cf.Type {
			case model.CashFlowDeposit:
				invested = e.num.Add(invested, cf.UsdAmount)
			case model.CashFlowWithdrawal:
				invested = e.num.Sub(invested, cf.UsdAmount)
			case model.CashFlowFee:
				fees = e.num.Add(fees, cf.UsdAmount)
			}
			next++
		}
		points = append(points, e.point(d, invested, invested, fees, decimal.Zero))
	}
	return points
}
