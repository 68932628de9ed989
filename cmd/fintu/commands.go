package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/numeric"
)

var commands = []subcommands.Command{
	&holdingsCmd{},
	&summaryCmd{},
	&attributionCmd{},
}

// run opens the environment, calls fn and maps failures to exit codes.
func run(flags *commonFlags, fn func(ctx context.Context, e *env) error) subcommands.ExitStatus {
	e, err := flags.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer e.Close()

	if err := fn(context.Background(), e); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type holdingsCmd struct {
	flags commonFlags
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list open positions marked to market" }
func (*holdingsCmd) Usage() string {
	return `fintu holdings [-db <path>] [-as-of <date>]

  Lists every open position with its average cost and unrealized P&L.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) { c.flags.register(f) }

func (c *holdingsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(&c.flags, func(ctx context.Context, e *env) error {
		holdings, err := e.portfolio.GetHoldings(ctx)
		if err != nil {
			return err
		}
		return renderHoldings(os.Stdout, e.num, holdings)
	})
}

type summaryCmd struct {
	flags commonFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display net worth, cash and XIRR" }
func (*summaryCmd) Usage() string {
	return `fintu summary [-db <path>] [-as-of <date>]

  Displays invested capital, market value, cash, net worth in USD and COP,
  and the money-weighted annual return.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.flags.register(f) }

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(&c.flags, func(ctx context.Context, e *env) error {
		nw, err := e.portfolio.GetNetWorth(ctx)
		if err != nil {
			return err
		}
		return renderNetWorth(os.Stdout, e.num, nw)
	})
}

type attributionCmd struct {
	flags commonFlags
}

func (*attributionCmd) Name() string     { return "attribution" }
func (*attributionCmd) Synopsis() string { return "break the return down into gains, fees and FX" }
func (*attributionCmd) Usage() string {
	return `fintu attribution [-db <path>] [-as-of <date>]

  Prints the return waterfall from starting capital to net position.
`
}

func (c *attributionCmd) SetFlags(f *flag.FlagSet) { c.flags.register(f) }

func (c *attributionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(&c.flags, func(ctx context.Context, e *env) error {
		report, err := e.portfolio.GetReturnAttribution(ctx)
		if err != nil {
			return err
		}
		return renderAttribution(os.Stdout, e.num, report)
	})
}

type refreshCmd struct {
	flags commonFlags
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch market prices for every held ticker" }
func (*refreshCmd) Usage() string {
	return `fintu refresh [-db <path>]

  Queries the quote provider for each open position and updates the price cache.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) { c.flags.register(f) }

func (c *refreshCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(&c.flags, func(ctx context.Context, e *env) error {
		result, err := e.marketPrice.RefreshPrices(ctx)
		if err != nil {
			return err
		}
		for _, ticker := range result.Updated {
			fmt.Printf("updated  %s\n", ticker)
		}
		for ticker, reason := range result.Failed {
			fmt.Printf("failed   %s: %s\n", ticker, reason)
		}
		return nil
	})
}

type snapshotCmd struct {
	flags commonFlags
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "store today's portfolio snapshot" }
func (*snapshotCmd) Usage() string {
	return `fintu snapshot [-db <path>] [-as-of <date>]

  Stores a snapshot for the valuation date, replacing one already taken that day.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) { c.flags.register(f) }

func (c *snapshotCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(&c.flags, func(ctx context.Context, e *env) error {
		snap, err := e.portfolio.CreateSnapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("snapshot %s  %s\n", snap.SnapshotDate.Format("2006-01-02"), e.num.FormatCurrency(snap.TotalValueUSD, model.CurrencyUSD))
		return nil
	})
}

type importCmd struct {
	flags commonFlags
	file  string
}

func (*importCmd) Name() string     { return "import-ibkr" }
func (*importCmd) Synopsis() string { return "import an IBKR Activity Flex statement" }
func (*importCmd) Usage() string {
	return `fintu import-ibkr [-db <path>] [-f <statement.xml>]

  Imports trades, commissions, deposits, withdrawals and USD/COP rates from a
  Flex statement. Without -f the statement is downloaded using IBKR_FLEX_TOKEN
  and IBKR_FLEX_QUERY_ID. Rows imported earlier are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	c.flags.register(f)
	f.StringVar(&c.file, "f", "", "Flex statement XML file")
}

func (c *importCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(&c.flags, func(ctx context.Context, e *env) error {
		var result model.ImportResult
		if c.file != "" {
			data, err := os.ReadFile(c.file)
			if err != nil {
				return err
			}
			if result, err = e.imports.ImportStatement(ctx, data); err != nil {
				return err
			}
		} else {
			var err error
			if result, err = e.imports.SyncIBKR(ctx); err != nil {
				return err
			}
		}
		return renderImport(os.Stdout, result)
	})
}

func renderImport(w io.Writer, r model.ImportResult) error {
	fmt.Fprintf(w, "trades      %d\n", r.TradesImported)
	fmt.Fprintf(w, "cash flows  %d\n", r.CashFlowsImported)
	fmt.Fprintf(w, "fx rates    %d\n", r.FxRatesImported)
	fmt.Fprintf(w, "duplicates  %d\n", r.Duplicates)
	for _, row := range r.Skipped {
		fmt.Fprintf(w, "skipped %s %s: %s\n", row.Kind, row.SourceID, row.Reason)
	}
	return nil
}

func renderHoldings(w io.Writer, num numeric.Context, holdings []model.Holding) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Ticker\tQuantity\tAvg cost\tInvested\tValue\tP&L\tP&L %\t")
	for _, h := range holdings {
		value, pl, plPct := "-", "-", "-"
		if h.Priced {
			value = num.FormatCurrency(h.MarketValue, model.CurrencyUSD)
			pl = num.FormatCurrency(h.UnrealizedPL, model.CurrencyUSD)
			plPct = num.Fixed(h.UnrealizedPLPercent, 2) + "%"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			h.Ticker,
			h.Quantity.String(),
			num.FormatCurrency(h.AvgCost, model.CurrencyUSD),
			num.FormatCurrency(h.TotalInvested, model.CurrencyUSD),
			value, pl, plPct,
		)
	}
	return tw.Flush()
}

func renderNetWorth(w io.Writer, num numeric.Context, nw model.NetWorthSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Invested\t%s\n", num.FormatCurrency(nw.TotalInvested, model.CurrencyUSD))
	fmt.Fprintf(tw, "Market value\t%s\n", num.FormatCurrency(nw.HoldingsValue, model.CurrencyUSD))
	fmt.Fprintf(tw, "Cash\t%s\n", num.FormatCurrency(nw.CashBalance, model.CurrencyUSD))
	fmt.Fprintf(tw, "Net worth\t%s\n", num.FormatCurrency(nw.NetWorth, model.CurrencyUSD))
	// Zero when no FX rate has been recorded.
	if !nw.NetWorthCOP.IsZero() {
		fmt.Fprintf(tw, "Net worth (COP)\t%s\n", num.FormatCurrency(nw.NetWorthCOP, model.CurrencyCOP))
	}
	fmt.Fprintf(tw, "Gain/loss\t%s (%s%%)\n", num.FormatCurrency(nw.TotalGainLoss, model.CurrencyUSD), num.Fixed(nw.TotalGainLossPct, 2))
	fmt.Fprintf(tw, "XIRR\t%s%%\n", nw.XIRR)
	return tw.Flush()
}

func renderAttribution(w io.Writer, num numeric.Context, report model.ReturnAttributionReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Stage\tChange\tRunning\t%\t")
	for _, s := range report.Waterfall {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t\n",
			s.Name,
			num.FormatCurrency(s.Delta, model.CurrencyUSD),
			num.FormatCurrency(s.Running, model.CurrencyUSD),
			num.Fixed(s.Pct, 2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nXIRR %s%%\n", report.XIRR)
	return err
}
