package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
)

// TradeService handles trade ledger operations. The stored total is derived
// here at write time so the ledger always agrees with the engine's formula.
type TradeService struct {
	tradeRepo *repository.TradeRepository
	engine    portfolio.Engine
}

// NewTradeService creates a new TradeService.
func NewTradeService(tradeRepo *repository.TradeRepository, engine portfolio.Engine) *TradeService {
	return &TradeService{
		tradeRepo: tradeRepo,
		engine:    engine,
	}
}

// GetTrades lists trades, optionally narrowed by ticker and date range.
func (s *TradeService) GetTrades(ctx context.Context, filters request.LedgerFilters) ([]model.Trade, error) {
	return s.tradeRepo.GetTrades(ctx, repository.TradeFilter{
		Ticker:    filters.Ticker,
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
	})
}

// GetTrade retrieves a single trade by its ID.
func (s *TradeService) GetTrade(ctx context.Context, tradeID string) (model.Trade, error) {
	return s.tradeRepo.GetTrade(ctx, tradeID)
}

func (s *TradeService) CreateTrade(ctx context.Context, req request.CreateTradeRequest) (*model.Trade, error) {
	tradeDate, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	fee := decimal.Zero
	if req.Fee != nil {
		fee = *req.Fee
	}

	now := time.Now().UTC()
	trade := &model.Trade{
		ID:        uuid.New().String(),
		Date:      tradeDate,
		Ticker:    validation.NormalizeTicker(req.Ticker),
		AssetType: req.AssetType,
		Side:      req.Side,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Fee:       fee,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	trade.Total = s.engine.TradeTotal(trade.Side, trade.Quantity, trade.Price, trade.Fee)

	if err := portfolio.ValidateTrade(*trade); err != nil {
		return nil, err
	}

	if err := s.tradeRepo.InsertTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	return trade, nil
}

// UpdateTrade applies the provided fields to a stored trade and recomputes its total.
func (s *TradeService) UpdateTrade(ctx context.Context, tradeID string, req request.UpdateTradeRequest) (*model.Trade, error) {
	trade, err := s.tradeRepo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		d, err := validation.ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		trade.Date = d
	}
	if req.Ticker != nil {
		trade.Ticker = validation.NormalizeTicker(*req.Ticker)
	}
	if req.AssetType != nil {
		trade.AssetType = *req.AssetType
	}
	if req.Side != nil {
		trade.Side = *req.Side
	}
	if req.Quantity != nil {
		trade.Quantity = *req.Quantity
	}
	if req.Price != nil {
		trade.Price = *req.Price
	}
	if req.Fee != nil {
		trade.Fee = *req.Fee
	}
	if req.Notes != nil {
		trade.Notes = req.Notes
	}

	trade.Total = s.engine.TradeTotal(trade.Side, trade.Quantity, trade.Price, trade.Fee)
	trade.UpdatedAt = time.Now().UTC()

	if err := portfolio.ValidateTrade(trade); err != nil {
		return nil, err
	}

	if err := s.tradeRepo.UpdateTrade(ctx, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

func (s *TradeService) DeleteTrade(ctx context.Context, tradeID string) error {
	return s.tradeRepo.DeleteTrade(ctx, tradeID)
}
