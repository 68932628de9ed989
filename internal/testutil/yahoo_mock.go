package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/yahoo"
)

// MockYahooClient is a stand-in for yahoo.FinanceClient. Responses are keyed
// by symbol; symbols without an entry get MockResponse.
type MockYahooClient struct {
	mu sync.Mutex

	MockResponse yahoo.Response
	Responses    map[string]yahoo.Response
	Errors       map[string]error
	MockError    error
	QueryCount   int
}

// NewMockYahooClient creates a mock returning five days of USD prices.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockResponse: CreateMockYahooResponse(5),
		Responses:    map[string]yahoo.Response{},
		Errors:       map[string]error{},
	}
}

// QueryYahooFiveDaySymbol returns the configured response or error for symbol.
func (m *MockYahooClient) QueryYahooFiveDaySymbol(_ context.Context, symbol string) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	if err, ok := m.Errors[symbol]; ok {
		return yahoo.Response{}, err
	}
	if m.MockError != nil {
		return yahoo.Response{}, m.MockError
	}
	if resp, ok := m.Responses[symbol]; ok {
		return resp, nil
	}
	return m.MockResponse, nil
}

// ParseChart delegates to the real parser since it has no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	return yahoo.NewFinanceClient().ParseChart(yahooResult)
}

// WithError makes every query fail with err.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithSymbolError makes queries for symbol fail with err.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	m.Errors[symbol] = err
	return m
}

// WithPrice makes queries for symbol return a single bar closing at price.
func (m *MockYahooClient) WithPrice(symbol string, price float64) *MockYahooClient {
	m.Responses[symbol] = CreateMockYahooResponseForDate(time.Now().UTC().AddDate(0, 0, -1), price)
	return m
}

// WithResponse configures the default response.
func (m *MockYahooClient) WithResponse(resp yahoo.Response) *MockYahooClient {
	m.MockResponse = resp
	return m
}

// CreateMockYahooResponse creates `days` days of price data ending yesterday.
// The last close is 100 + (days-1)*0.5 + 0.25.
func CreateMockYahooResponse(days int) yahoo.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	timestamps := make([]int64, days)
	opens := make([]*float64, days)
	highs := make([]*float64, days)
	lows := make([]*float64, days)
	closes := make([]*float64, days)
	volumes := make([]*int64, days)

	basePrice := 100.0
	for i := 0; i < days; i++ {
		date := yesterday.AddDate(0, 0, -days+i+1)
		timestamps[i] = date.Unix()

		dayPrice := basePrice + float64(i)*0.5
		open := dayPrice
		high := dayPrice + 1.0
		low := dayPrice - 0.5
		closePrice := dayPrice + 0.25
		volume := int64(1000000 + i*10000)

		opens[i] = &open
		highs[i] = &high
		lows[i] = &low
		closes[i] = &closePrice
		volumes[i] = &volume
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:       "TEST",
						Currency:     "USD",
						ExchangeName: "NMS",
						LongName:     "Test Corp.",
						Shortname:    "TEST",
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{{
							Open:   opens,
							High:   highs,
							Low:    lows,
							Close:  closes,
							Volume: volumes,
						}},
					},
				},
			},
		},
	}
}

// CreateMockYahooResponseForDate creates a single bar closing at price.
func CreateMockYahooResponseForDate(date time.Time, price float64) yahoo.Response {
	volume := int64(1000000)

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:   "TEST",
						Currency: "USD",
					},
					Timestamp: []int64{date.Unix()},
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{{
							Open:   []*float64{&price},
							High:   []*float64{&price},
							Low:    []*float64{&price},
							Close:  []*float64{&price},
							Volume: []*int64{&volume},
						}},
					},
				},
			},
		},
	}
}
