package ibkr

import (
	"encoding/xml"

	"github.com/shopspring/decimal"
)

// FlexRequestResponse is the reply to SendRequest: a reference code to poll
// for the statement, or an error.
type FlexRequestResponse struct {
	XMLName       xml.Name `xml:"FlexStatementResponse"`
	Timestamp     string   `xml:"timestamp,attr"`
	Status        string   `xml:"Status"`        // Success or Fail
	ReferenceCode int      `xml:"ReferenceCode"` // Code to download the requested statement
	URL           string   `xml:"Url"`           // URL to download statement
	ErrorCode     *int     `xml:"ErrorCode"`
	ErrorMessage  *string  `xml:"ErrorMessage"`
}

// FlexQueryResponse is a downloaded Activity Flex statement.
type FlexQueryResponse struct {
	XMLName        xml.Name `xml:"FlexQueryResponse"`
	QueryName      string   `xml:"queryName,attr"`
	Type           string   `xml:"type,attr"`
	FlexStatements struct {
		Count         string          `xml:"count,attr"`
		FlexStatement []FlexStatement `xml:"FlexStatement"`
	} `xml:"FlexStatements"`
}

// FlexStatement is one account's activity for the statement period.
type FlexStatement struct {
	AccountID     string `xml:"accountId,attr"`
	FromDate      string `xml:"fromDate,attr"`
	ToDate        string `xml:"toDate,attr"`
	Period        string `xml:"period,attr"`
	WhenGenerated string `xml:"whenGenerated,attr"`
	Trades        struct {
		Trade []Trade `xml:"Trade"`
	} `xml:"Trades"`
	CashTransactions struct {
		CashTransaction []CashTransaction `xml:"CashTransaction"`
	} `xml:"CashTransactions"`
	ConversionRates struct {
		ConversionRate []ConversionRate `xml:"ConversionRate"`
	} `xml:"ConversionRates"`
}

// Trade is an execution. Quantity is negative for sells and IBCommission is
// negative when charged.
type Trade struct {
	Currency      string          `xml:"currency,attr"`
	AssetCategory string          `xml:"assetCategory,attr"` // STK, CRYPTO, ...
	Symbol        string          `xml:"symbol,attr"`
	Description   string          `xml:"description,attr"`
	Quantity      decimal.Decimal `xml:"quantity,attr"`
	TradePrice    decimal.Decimal `xml:"tradePrice,attr"`
	IBCommission  decimal.Decimal `xml:"ibCommission,attr"`
	TransactionID string          `xml:"transactionID,attr"`
	TradeDate     string          `xml:"tradeDate,attr"`
	BuySell       string          `xml:"buySell,attr"`
}

// CashTransaction is a non-trade cash movement: deposits, withdrawals, fees.
// Amount is signed from the account's point of view.
type CashTransaction struct {
	Currency      string          `xml:"currency,attr"`
	Description   string          `xml:"description,attr"`
	DateTime      string          `xml:"dateTime,attr"`
	Amount        decimal.Decimal `xml:"amount,attr"`
	Type          string          `xml:"type,attr"`
	TransactionID string          `xml:"transactionID,attr"`
}

// ConversionRate is the broker's daily rate from one currency to another.
type ConversionRate struct {
	ReportDate   string          `xml:"reportDate,attr"`
	FromCurrency string          `xml:"fromCurrency,attr"`
	ToCurrency   string          `xml:"toCurrency,attr"`
	Rate         decimal.Decimal `xml:"rate,attr"`
}
