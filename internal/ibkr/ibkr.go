// Package ibkr downloads Interactive Brokers Activity Flex statements and
// maps them onto ledger rows.
package ibkr

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://ndcdyn.interactivebrokers.com/AccountManagement/FlexWebService"

// Error codes IBKR returns while a statement is still being generated.
var retryableCodes = map[int]bool{1018: true, 1019: true, 1021: true}

// ErrMissingCredentials is returned when no Flex token or query ID is configured.
var ErrMissingCredentials = errors.New("ibkr flex token and query id are required")

// Client fetches Flex statements from IBKR.
type Client interface {
	FetchStatement(ctx context.Context, token string, queryID int) ([]byte, error)
}

// FlexClient talks to the Flex Web Service.
type FlexClient struct {
	httpClient  *http.Client
	baseURL     string
	backoff     time.Duration
	maxBackoff  time.Duration
	maxAttempts int
}

// NewFlexClient creates a client for the production Flex Web Service.
func NewFlexClient() *FlexClient {
	return NewFlexClientWithBaseURL(defaultBaseURL, &http.Client{Timeout: 30 * time.Second})
}

// NewFlexClientWithBaseURL creates a client against baseURL. Used by tests.
func NewFlexClientWithBaseURL(baseURL string, httpClient *http.Client) *FlexClient {
	return &FlexClient{
		httpClient:  httpClient,
		baseURL:     baseURL,
		backoff:     2 * time.Second,
		maxBackoff:  30 * time.Second,
		maxAttempts: 10,
	}
}

// WithBackoff overrides the polling backoff.
func (c *FlexClient) WithBackoff(initial, maxBackoff time.Duration, attempts int) *FlexClient {
	c.backoff = initial
	c.maxBackoff = maxBackoff
	c.maxAttempts = attempts
	return c
}

// FetchStatement requests a statement for queryID and polls until it is ready.
// The raw XML is returned so it can be archived as well as parsed.
func (c *FlexClient) FetchStatement(ctx context.Context, token string, queryID int) ([]byte, error) {
	if token == "" || queryID == 0 {
		return nil, ErrMissingCredentials
	}

	request, err := c.sendRequest(ctx, token, queryID)
	if err != nil {
		return nil, err
	}
	return c.pollStatement(ctx, token, request)
}

func (c *FlexClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ibkr returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *FlexClient) sendRequest(ctx context.Context, token string, queryID int) (FlexRequestResponse, error) {
	queryURL := fmt.Sprintf("%s/SendRequest?t=%s&q=%d&v=3", c.baseURL, url.QueryEscape(token), queryID)
	data, err := c.get(ctx, queryURL)
	if err != nil {
		return FlexRequestResponse{}, err
	}

	var response FlexRequestResponse
	if err := xml.Unmarshal(data, &response); err != nil {
		return FlexRequestResponse{}, fmt.Errorf("decode flex request response: %w", err)
	}
	if response.ErrorCode != nil {
		return response, flexError(response)
	}
	if response.Status != "Success" {
		return response, fmt.Errorf("flex request status %q", response.Status)
	}
	return response, nil
}

func (c *FlexClient) pollStatement(ctx context.Context, token string, request FlexRequestResponse) ([]byte, error) {
	statementURL := request.URL
	if statementURL == "" {
		statementURL = c.baseURL + "/GetStatement"
	}
	queryURL := fmt.Sprintf("%s?t=%s&q=%d&v=3", statementURL, url.QueryEscape(token), request.ReferenceCode)

	backoff := c.backoff
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, c.maxBackoff)
		}

		data, err := c.get(ctx, queryURL)
		if err != nil {
			return nil, err
		}

		// A ready statement is a FlexQueryResponse; anything else is a status reply.
		var status FlexRequestResponse
		if err := xml.Unmarshal(data, &status); err != nil {
			return data, nil
		}
		if status.ErrorCode != nil && retryableCodes[*status.ErrorCode] {
			continue
		}
		return nil, flexError(status)
	}
	return nil, fmt.Errorf("flex statement not ready after %d attempts", c.maxAttempts)
}

func flexError(r FlexRequestResponse) error {
	code, msg := 0, "unknown error"
	if r.ErrorCode != nil {
		code = *r.ErrorCode
	}
	if r.ErrorMessage != nil {
		msg = *r.ErrorMessage
	}
	return fmt.Errorf("ibkr error %d: %s", code, msg)
}

// ParseStatement decodes a Flex statement.
func ParseStatement(data []byte) (FlexQueryResponse, error) {
	var response FlexQueryResponse
	if err := xml.Unmarshal(data, &response); err != nil {
		return FlexQueryResponse{}, fmt.Errorf("decode flex statement: %w", err)
	}
	return response, nil
}
