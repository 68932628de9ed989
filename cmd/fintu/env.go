package main

import (
	"database/sql"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/config"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/database"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/ibkr"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/logger"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/numeric"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/repository"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/yahoo"
)

// env is what every command needs: the open database and the services on top.
type env struct {
	db          *sql.DB
	num         numeric.Context
	log         zerolog.Logger
	portfolio   *service.PortfolioService
	marketPrice *service.MarketPriceService
	imports     *service.ImportService
}

// commonFlags are shared by every report command.
type commonFlags struct {
	dbPath string
	asOf   string
}

func (c *commonFlags) register(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "Path to the ledger database (defaults to DB_DIR/fintu.db)")
	f.StringVar(&c.asOf, "as-of", "", "Valuation date YYYY-MM-DD (defaults to now)")
}

// open loads configuration, opens the database and wires the services.
func (c *commonFlags) open() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if c.dbPath != "" {
		cfg.Database.Path = c.dbPath
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: true})

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	engine := portfolio.NewEngine(cfg.Decimal)
	tradeRepo := repository.NewTradeRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	fxRateRepo := repository.NewFxRateRepository(db)
	marketPriceRepo := repository.NewMarketPriceRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	loader := service.NewLedgerLoader(tradeRepo, cashFlowRepo, fxRateRepo, marketPriceRepo)

	portfolioService := service.NewPortfolioService(loader, snapshotRepo, engine, log)
	if c.asOf != "" {
		asOf, err := validation.ParseDate(c.asOf)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid -as-of: %w", err)
		}
		// End of day so trades recorded on the date are included.
		asOf = asOf.Add(24*time.Hour - time.Second)
		portfolioService.WithClock(func() time.Time { return asOf })
	}

	return &env{
		db:          db,
		num:         cfg.Decimal,
		log:         log,
		portfolio:   portfolioService,
		marketPrice: service.NewMarketPriceService(marketPriceRepo, tradeRepo, engine, yahoo.NewFinanceClient(), log),
		imports:     service.NewImportService(tradeRepo, cashFlowRepo, fxRateRepo, engine, ibkr.NewFlexClient(), log).
			WithFlexQuery(cfg.IBKR.FlexToken, cfg.IBKR.FlexQueryID),
	}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}
