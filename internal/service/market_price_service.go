package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/yahoo"
)

// maxConcurrentQuotes bounds the number of in-flight quote requests.
const maxConcurrentQuotes = 4

// QuoteClient is the part of the Yahoo client the price refresh uses.
type QuoteClient interface {
	QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (yahoo.Response, error)
	ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error)
}

// MarketPriceService maintains the market price cache.
type MarketPriceService struct {
	marketPriceRepo *repository.MarketPriceRepository
	tradeRepo       *repository.TradeRepository
	engine          portfolio.Engine
	quotes          QuoteClient
	log             zerolog.Logger
}

// NewMarketPriceService creates a new MarketPriceService.
func NewMarketPriceService(
	marketPriceRepo *repository.MarketPriceRepository,
	tradeRepo *repository.TradeRepository,
	engine portfolio.Engine,
	quotes QuoteClient,
	log zerolog.Logger,
) *MarketPriceService {
	return &MarketPriceService{
		marketPriceRepo: marketPriceRepo,
		tradeRepo:       tradeRepo,
		engine:          engine,
		quotes:          quotes,
		log:             log.With().Str("service", "market_price").Logger(),
	}
}

func (s *MarketPriceService) GetMarketPrices(ctx context.Context) ([]model.MarketPrice, error) {
	return s.marketPriceRepo.GetMarketPrices(ctx)
}

func (s *MarketPriceService) GetMarketPrice(ctx context.Context, ticker string) (model.MarketPrice, error) {
	return s.marketPriceRepo.GetMarketPrice(ctx, validation.NormalizeTicker(ticker))
}

// SetMarketPrice stores a manually entered price.
func (s *MarketPriceService) SetMarketPrice(ctx context.Context, ticker string, req request.SetMarketPriceRequest) (*model.MarketPrice, error) {
	mp := &model.MarketPrice{
		Ticker:    validation.NormalizeTicker(ticker),
		Price:     req.Price,
		Currency:  model.CurrencyUSD,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.marketPriceRepo.UpsertMarketPrice(ctx, mp); err != nil {
		return nil, err
	}
	return mp, nil
}

// HeldTickers returns the tickers with an open position, sorted.
func (s *MarketPriceService) HeldTickers(ctx context.Context) ([]string, error) {
	trades, err := s.tradeRepo.GetTrades(ctx, repository.TradeFilter{})
	if err != nil {
		return nil, err
	}
	holdings, err := s.engine.CalculateHoldings(trades)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(holdings)), nil
}

// RefreshPrices fetches a quote for every held ticker and updates the cache.
// A ticker that cannot be priced is reported in the result rather than
// failing the run; only storage errors abort.
func (s *MarketPriceService) RefreshPrices(ctx context.Context) (model.PriceRefreshResult, error) {
	tickers, err := s.HeldTickers(ctx)
	if err != nil {
		return model.PriceRefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}

	result := model.PriceRefreshResult{
		Updated: []string{},
		Failed:  map[string]string{},
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	for _, ticker := range tickers {
		g.Go(func() error {
			mp, err := s.fetchQuote(gctx, ticker)
			if err != nil {
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote unavailable")
				mu.Lock()
				result.Failed[ticker] = err.Error()
				mu.Unlock()
				return nil
			}

			if err := s.marketPriceRepo.UpsertMarketPrice(gctx, mp); err != nil {
				return err
			}

			mu.Lock()
			result.Updated = append(result.Updated, ticker)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}

	slices.Sort(result.Updated)
	return result, nil
}

func (s *MarketPriceService) fetchQuote(ctx context.Context, ticker string) (*model.MarketPrice, error) {
	resp, err := s.quotes.QueryYahooFiveDaySymbol(ctx, ticker)
	if err != nil {
		return nil, err
	}
	chart, err := s.quotes.ParseChart(resp)
	if err != nil {
		return nil, err
	}
	if chart.Currency != "" && chart.Currency != model.CurrencyUSD {
		return nil, fmt.Errorf("quote currency %s is not USD", chart.Currency)
	}

	price, ok := chart.LatestPrice()
	if !ok || !price.IsPositive() {
		return nil, errors.New("no usable price in quote")
	}

	return &model.MarketPrice{
		Ticker:    ticker,
		Price:     price,
		Currency:  model.CurrencyUSD,
		UpdatedAt: time.Now().UTC(),
	}, nil
}
