package ibkr

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

const statement = `<FlexQueryResponse queryName="q" type="AF">
<FlexStatements count="1">
<FlexStatement accountId="U1">
<Trades>
<Trade currency="USD" assetCategory="STK" symbol="aapl" quantity="10" tradePrice="185.5" ibCommission="-1" transactionID="1001" tradeDate="20240110" buySell="BUY" />
<Trade currency="USD" assetCategory="CRYPTO" symbol="BTC" quantity="-0.5" tradePrice="42000" ibCommission="0" transactionID="1002" tradeDate="2024-01-25" buySell="SELL" />
<Trade currency="EUR" assetCategory="STK" symbol="ASML" quantity="1" tradePrice="600" ibCommission="-3" transactionID="1003" tradeDate="20240126" buySell="BUY" />
</Trades>
<CashTransactions>
<CashTransaction currency="COP" dateTime="20240105;101500" amount="8000000" type="Deposits/Withdrawals" transactionID="2001" />
<CashTransaction currency="USD" dateTime="20240120" amount="-500" type="Deposits/Withdrawals" transactionID="2002" />
<CashTransaction currency="COP" dateTime="20240121" amount="100000" type="Deposits/Withdrawals" transactionID="2003" />
<CashTransaction currency="USD" dateTime="20240131" amount="-10" type="Other Fees" transactionID="2004" />
<CashTransaction currency="USD" dateTime="20240115" amount="2.4" type="Dividends" transactionID="2005" />
</CashTransactions>
<ConversionRates>
<ConversionRate reportDate="20240105" fromCurrency="USD" toCurrency="COP" rate="4000" />
<ConversionRate reportDate="20240106" fromCurrency="COP" toCurrency="USD" rate="0.00025" />
<ConversionRate reportDate="20240105" fromCurrency="EUR" toCurrency="USD" rate="1.09" />
</ConversionRates>
</FlexStatement>
</FlexStatements>
</FlexQueryResponse>`

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseStatement(t *testing.T) {
	resp, err := ParseStatement([]byte(statement))
	require.NoError(t, err)
	require.Len(t, resp.FlexStatements.FlexStatement, 1)

	stmt := resp.FlexStatements.FlexStatement[0]
	assert.Equal(t, "U1", stmt.AccountID)
	assert.Len(t, stmt.Trades.Trade, 3)
	assert.True(t, stmt.Trades.Trade[0].TradePrice.Equal(dec("185.5")))
	assert.True(t, stmt.Trades.Trade[1].Quantity.Equal(dec("-0.5")))

	_, err = ParseStatement([]byte("<html>maintenance</html>"))
	assert.Error(t, err)
}

func TestToLedger(t *testing.T) {
	resp, err := ParseStatement([]byte(statement))
	require.NoError(t, err)

	batch := ToLedger(resp)

	t.Run("trades", func(t *testing.T) {
		require.Len(t, batch.Trades, 2)

		buy := batch.Trades[0]
		assert.Equal(t, RowID("trade", "1001"), buy.ID)
		assert.Equal(t, "AAPL", buy.Ticker)
		assert.Equal(t, model.SideBuy, buy.Side)
		assert.Equal(t, model.AssetTypeStock, buy.AssetType)
		assert.True(t, buy.Fee.Equal(dec("1")))
		assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), buy.Date)

		sell := batch.Trades[1]
		assert.Equal(t, model.SideSell, sell.Side)
		assert.Equal(t, model.AssetTypeCrypto, sell.AssetType)
		assert.True(t, sell.Quantity.Equal(dec("0.5")))
		assert.True(t, sell.Fee.IsZero())
	})

	t.Run("commission becomes a linked trading fee", func(t *testing.T) {
		var fees []model.CashFlow
		for _, cf := range batch.CashFlows {
			if cf.LinkedToTrade() {
				fees = append(fees, cf)
			}
		}
		require.Len(t, fees, 1)
		assert.Equal(t, RowID("trade", "1001"), *fees[0].RelatedTradeID)
		assert.Equal(t, model.FeeTypeTrading, fees[0].FeeCategory())
		assert.True(t, fees[0].Amount.Equal(dec("1")))
	})

	t.Run("cash transactions", func(t *testing.T) {
		byID := make(map[string]model.CashFlow)
		for _, cf := range batch.CashFlows {
			byID[cf.ID] = cf
		}

		deposit := byID[RowID("cash", "2001")]
		assert.Equal(t, model.CashFlowDeposit, deposit.Type)
		assert.Equal(t, model.CurrencyCOP, deposit.Currency)
		require.NotNil(t, deposit.FxRate)
		assert.True(t, deposit.FxRate.Equal(dec("4000")))

		withdrawal := byID[RowID("cash", "2002")]
		assert.Equal(t, model.CashFlowWithdrawal, withdrawal.Type)
		assert.True(t, withdrawal.Amount.Equal(dec("500")))

		fee := byID[RowID("cash", "2004")]
		assert.Equal(t, model.FeeTypeMaintenance, fee.FeeCategory())
		assert.False(t, fee.LinkedToTrade())
	})

	t.Run("rates are COP per USD", func(t *testing.T) {
		require.Len(t, batch.FxRates, 2)
		assert.True(t, batch.FxRates[0].Rate.Equal(dec("4000")))
		assert.True(t, batch.FxRates[1].Rate.Equal(dec("4000")))
		assert.Equal(t, "ibkr", batch.FxRates[0].Source)
	})

	t.Run("unsupported rows are skipped with a reason", func(t *testing.T) {
		skipped := make(map[string]string)
		for _, row := range batch.Skipped {
			skipped[row.SourceID] = row.Reason
		}
		assert.Contains(t, skipped["1003"], "EUR")
		assert.Contains(t, skipped["2003"], "no COP rate")
		assert.Contains(t, skipped["2005"], "Dividends")
		assert.Len(t, batch.Skipped, 3)
	})
}

func TestToLedger_FeeRefundsAreSkipped(t *testing.T) {
	const refunds = `<FlexQueryResponse><FlexStatements count="1"><FlexStatement accountId="U1">
<CashTransactions>
<CashTransaction currency="USD" dateTime="20240131" amount="-10" type="Other Fees" transactionID="3001" />
<CashTransaction currency="USD" dateTime="20240210" amount="10" type="Other Fees" transactionID="3002" />
<CashTransaction currency="USD" dateTime="20240211" amount="-0.35" type="Commission Adjustments" transactionID="3003" />
<CashTransaction currency="USD" dateTime="20240212" amount="0.35" type="Commission Adjustments" transactionID="3004" />
</CashTransactions>
</FlexStatement></FlexStatements></FlexQueryResponse>`

	resp, err := ParseStatement([]byte(refunds))
	require.NoError(t, err)
	batch := ToLedger(resp)

	require.Len(t, batch.CashFlows, 2)
	assert.Equal(t, RowID("cash", "3001"), batch.CashFlows[0].ID)
	assert.Equal(t, model.FeeTypeMaintenance, batch.CashFlows[0].FeeCategory())
	assert.True(t, batch.CashFlows[0].Amount.Equal(dec("10")))
	assert.Equal(t, RowID("cash", "3003"), batch.CashFlows[1].ID)
	assert.Equal(t, model.FeeTypeTrading, batch.CashFlows[1].FeeCategory())

	require.Len(t, batch.Skipped, 2)
	assert.Equal(t, "3002", batch.Skipped[0].SourceID)
	assert.Equal(t, "fee refund", batch.Skipped[0].Reason)
	assert.Equal(t, "3004", batch.Skipped[1].SourceID)
}

func TestRowID_IsStable(t *testing.T) {
	assert.Equal(t, RowID("trade", "42"), RowID("trade", "42"))
	assert.NotEqual(t, RowID("trade", "42"), RowID("cash", "42"))
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"20240315", "2024-03-15", "20240315;101500", "2024-03-15 10:15:00"} {
		got, err := parseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got, in)
	}

	_, err := parseDate("15/03/2024")
	assert.Error(t, err)
}
