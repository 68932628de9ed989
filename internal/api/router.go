package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fintu-Tracking-Backend/internal/api/middleware"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/config"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
)

// Services groups the services the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Trade       *service.TradeService
	CashFlow    *service.CashFlowService
	FxRate      *service.FxRateService
	MarketPrice *service.MarketPriceService
	Portfolio   *service.PortfolioService
	Analytics   *service.AnalyticsService
	Import      *service.ImportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// Writes are guarded only when a key is configured.
	protect := func(r chi.Router) chi.Router {
		if cfg.Security.InternalAPIKey == "" {
			return r
		}
		return r.With(custommiddleware.APIKeyMiddleware)
	}

	systemHandler := handlers.NewSystemHandler(svc.System)
	tradeHandler := handlers.NewTradeHandler(svc.Trade)
	cashFlowHandler := handlers.NewCashFlowHandler(svc.CashFlow)
	fxRateHandler := handlers.NewFxRateHandler(svc.FxRate)
	marketPriceHandler := handlers.NewMarketPriceHandler(svc.MarketPrice)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Portfolio, svc.Analytics)
	importHandler := handlers.NewImportHandler(svc.Import)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/trade", func(r chi.Router) {
			r.Get("/", tradeHandler.Trades)
			protect(r).Post("/", tradeHandler.CreateTrade)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", tradeHandler.GetTrade)
				protect(r).Put("/", tradeHandler.UpdateTrade)
				protect(r).Delete("/", tradeHandler.DeleteTrade)
			})
		})

		r.Route("/cash-flow", func(r chi.Router) {
			r.Get("/", cashFlowHandler.CashFlows)
			protect(r).Post("/", cashFlowHandler.CreateCashFlow)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", cashFlowHandler.GetCashFlow)
				protect(r).Put("/", cashFlowHandler.UpdateCashFlow)
				protect(r).Delete("/", cashFlowHandler.DeleteCashFlow)
			})
		})

		r.Route("/fx-rate", func(r chi.Router) {
			r.Get("/", fxRateHandler.FxRates)
			r.Get("/latest", fxRateHandler.LatestFxRate)
			protect(r).Post("/", fxRateHandler.CreateFxRate)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				protect(r).Put("/", fxRateHandler.UpdateFxRate)
				protect(r).Delete("/", fxRateHandler.DeleteFxRate)
			})
		})

		r.Route("/market-price", func(r chi.Router) {
			r.Get("/", marketPriceHandler.MarketPrices)
			protect(r).Post("/refresh", marketPriceHandler.RefreshPrices)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Get("/", marketPriceHandler.GetMarketPrice)
				protect(r).Put("/", marketPriceHandler.SetMarketPrice)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/holdings", portfolioHandler.Holdings)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/performance", portfolioHandler.Performance)
			r.Get("/net-worth", portfolioHandler.NetWorth)
			r.Get("/cash-flows/summary", portfolioHandler.CashFlowSummary)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/return-attribution", analyticsHandler.ReturnAttribution)
			r.Get("/fees", analyticsHandler.Fees)
			r.Get("/fees/trades", analyticsHandler.TradeFees)
			r.Get("/fees/efficiency", analyticsHandler.FeeEfficiency)
			r.Get("/fx-impact", analyticsHandler.FXImpact)
			r.Get("/reconciliation", analyticsHandler.Reconciliation)
			r.Get("/timeline", analyticsHandler.Timeline)
			protect(r).Post("/snapshot", analyticsHandler.CreateSnapshot)
		})

		r.Route("/import", func(r chi.Router) {
			protect(r).Post("/ibkr", importHandler.ImportIBKR)
			protect(r).Post("/ibkr/sync", importHandler.SyncIBKR)
		})
	})

	return r
}
