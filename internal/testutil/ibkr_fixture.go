package testutil

// SampleFlexStatement is a trimmed Activity Flex statement with two USD
// trades, a COP deposit, a maintenance fee, a dividend (not imported) and a
// EUR trade (not imported).
const SampleFlexStatement = `<FlexQueryResponse queryName="fintu" type="AF">
<FlexStatements count="1">
<FlexStatement accountId="U1234567" fromDate="20240101" toDate="20240131" period="LastMonth" whenGenerated="20240201;080000">
<Trades>
<Trade currency="USD" assetCategory="STK" symbol="AAPL" description="APPLE INC" quantity="10" tradePrice="185.5" ibCommission="-1" transactionID="1001" tradeDate="20240110" buySell="BUY" />
<Trade currency="USD" assetCategory="STK" symbol="AAPL" description="APPLE INC" quantity="-4" tradePrice="190" ibCommission="-1.05" transactionID="1002" tradeDate="20240125" buySell="SELL" />
<Trade currency="EUR" assetCategory="STK" symbol="ASML" description="ASML HOLDING" quantity="1" tradePrice="600" ibCommission="-3" transactionID="1003" tradeDate="20240126" buySell="BUY" />
</Trades>
<CashTransactions>
<CashTransaction currency="COP" description="CASH RECEIPTS" dateTime="20240105;101500" amount="8000000" type="Deposits/Withdrawals" transactionID="2001" />
<CashTransaction currency="USD" description="MONTHLY MINIMUM FEE" dateTime="20240131" amount="-10" type="Other Fees" transactionID="2002" />
<CashTransaction currency="USD" description="AAPL CASH DIVIDEND" dateTime="20240115" amount="2.4" type="Dividends" transactionID="2003" />
</CashTransactions>
<ConversionRates>
<ConversionRate reportDate="20240105" fromCurrency="USD" toCurrency="COP" rate="4000" />
<ConversionRate reportDate="20240105" fromCurrency="EUR" toCurrency="USD" rate="1.09" />
</ConversionRates>
</FlexStatement>
</FlexStatements>
</FlexQueryResponse>`
