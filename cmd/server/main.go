package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/config"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/database"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/ibkr"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/logger"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/scheduler"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/version"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// No configured logger yet
		log := logger.New(logger.Config{})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
	logger.SetGlobalLogger(log)

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	log.Info().Str("path", cfg.Database.Path).Str("version", version.Version).Msg("Connected to database")

	engine := portfolio.NewEngine(cfg.Decimal)

	// Create repositories
	tradeRepo := repository.NewTradeRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	fxRateRepo := repository.NewFxRateRepository(db)
	marketPriceRepo := repository.NewMarketPriceRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	loader := service.NewLedgerLoader(tradeRepo, cashFlowRepo, fxRateRepo, marketPriceRepo)

	// Create services
	services := api.Services{
		System:      service.NewSystemService(db),
		Trade:       service.NewTradeService(tradeRepo, engine),
		CashFlow:    service.NewCashFlowService(cashFlowRepo, tradeRepo, engine),
		FxRate:      service.NewFxRateService(fxRateRepo),
		MarketPrice: service.NewMarketPriceService(marketPriceRepo, tradeRepo, engine, yahoo.NewFinanceClient(), log),
		Portfolio:   service.NewPortfolioService(loader, snapshotRepo, engine, log),
		Analytics:   service.NewAnalyticsService(loader, snapshotRepo, engine, log),
		Import:      service.NewImportService(tradeRepo, cashFlowRepo, fxRateRepo, engine, ibkr.NewFlexClient(), log).
			WithFlexQuery(cfg.IBKR.FlexToken, cfg.IBKR.FlexQueryID),
	}

	// Background jobs
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		if err := sched.AddJob(cfg.Scheduler.PriceRefreshSchedule, scheduler.NewPriceRefreshJob(log, services.MarketPrice)); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule price refresh")
		}
		if err := sched.AddJob(cfg.Scheduler.SnapshotSchedule, scheduler.NewSnapshotJob(log, services.Portfolio)); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule snapshots")
		}
		if cfg.IBKR.SyncSchedule != "" {
			if err := sched.AddJob(cfg.IBKR.SyncSchedule, scheduler.NewIBKRSyncJob(log, services.Import)); err != nil {
				log.Fatal().Err(err).Msg("Failed to schedule IBKR sync")
			}
		}
		sched.Start()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited")
}
