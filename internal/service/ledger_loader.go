package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
)

// LedgerLoader reads every collection the accounting engine needs in one call.
// The four reads are independent, so they run concurrently and the first
// failure cancels the rest.
type LedgerLoader struct {
	tradeRepo       *repository.TradeRepository
	cashFlowRepo    *repository.CashFlowRepository
	fxRateRepo      *repository.FxRateRepository
	marketPriceRepo *repository.MarketPriceRepository
}

// NewLedgerLoader creates a new LedgerLoader with the provided repositories.
func NewLedgerLoader(
	tradeRepo *repository.TradeRepository,
	cashFlowRepo *repository.CashFlowRepository,
	fxRateRepo *repository.FxRateRepository,
	marketPriceRepo *repository.MarketPriceRepository,
) *LedgerLoader {
	return &LedgerLoader{
		tradeRepo:       tradeRepo,
		cashFlowRepo:    cashFlowRepo,
		fxRateRepo:      fxRateRepo,
		marketPriceRepo: marketPriceRepo,
	}
}

// Load returns the complete ledger: all trades and cash flows in date order,
// every FX rate and the cached market prices keyed by ticker.
func (l *LedgerLoader) Load(ctx context.Context) (portfolio.Ledger, error) {
	var (
		trades []model.Trade
		flows  []model.CashFlow
		rates  []model.FxRate
		prices []model.MarketPrice
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		trades, err = l.tradeRepo.GetTrades(ctx, repository.TradeFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		flows, err = l.cashFlowRepo.GetCashFlows(ctx, repository.CashFlowFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = l.fxRateRepo.GetFxRates(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = l.marketPriceRepo.GetMarketPrices(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return portfolio.Ledger{}, fmt.Errorf("load ledger: %w", err)
	}

	return portfolio.Ledger{
		Trades:    trades,
		CashFlows: flows,
		FxRates:   rates,
		Prices:    model.PriceMap(prices),
	}, nil
}
