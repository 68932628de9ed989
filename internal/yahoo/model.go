package yahoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response is the raw JSON body of the Yahoo Finance chart endpoint.
// Quote arrays hold pointers because Yahoo reports missing sessions as null.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart wraps the results and the optional API error message.
type Chart struct {
	Result []Result     `json:"result"`
	Error  *ChartError `json:"error"`
}

// ChartError is the error object Yahoo returns for unknown symbols and similar failures.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds one symbol's metadata and time series.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta describes the quoted instrument.
type Meta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	ExchangeName       string   `json:"exchangeName"`
	FullExchangeName   string   `json:"fullExchangeName"`
	LongName           string   `json:"longName"`
	Shortname          string   `json:"shortName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}

type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart is the parsed form of a Response.
type PriceChart struct {
	Currency         string          `json:"currency"`
	Symbol           string          `json:"symbol"`
	ExchangeName     string          `json:"exchangeName"`
	FullExchangeName string          `json:"fullExchangeName"`
	LongName         string          `json:"longName"`
	Shortname        string          `json:"shortName"`
	MarketPrice      decimal.Decimal `json:"marketPrice"` // Zero when Yahoo omits it
	Indicators       []Indicators    `json:"indicators"`
}

// Indicators is one trading day. Sessions Yahoo reported as null are skipped
// during parsing, so every field here is populated.
type Indicators struct {
	Date       time.Time
	PriceOpen  decimal.Decimal
	PriceClose decimal.Decimal
	Volume     int64
	PriceHigh  decimal.Decimal
	PriceLow   decimal.Decimal
}
