// Package alphavantage is a thin HTTP client for the Alpha Vantage
// daily time-series and company-overview endpoints.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	apperrors "stockhub/internal/errors"
)

const (
	// OutputSizeCompact returns roughly the latest 100 data points.
	OutputSizeCompact = "compact"
	// OutputSizeFull returns the full available history.
	OutputSizeFull = "full"

	timeSeriesKey = "Time Series (Daily)"
)

// Bar is one raw daily entry from the time series. Numeric fields are
// kept as strings; normalization happens at ingestion time.
type Bar struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// Overview is the company-overview record for a symbol.
type Overview struct {
	Symbol               string `json:"Symbol"`
	AssetType            string `json:"AssetType"`
	Name                 string `json:"Name"`
	Description          string `json:"Description"`
	Exchange             string `json:"Exchange"`
	Country              string `json:"Country"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	MarketCapitalization string `json:"MarketCapitalization"`
}

// Client calls the market-data provider over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a client with an explicit request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type dailyResponse struct {
	Series map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// DailySeries fetches the daily time series for a symbol, ordered by
// date ascending. outputSize is OutputSizeCompact or OutputSizeFull.
func (c *Client) DailySeries(ctx context.Context, symbol, outputSize string) ([]Bar, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", outputSize)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	// Probe for the series key first: the provider reports errors and
	// rate limits as 200 responses without it.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrNoDataForSymbol, err)
	}
	if _, ok := probe[timeSeriesKey]; !ok {
		return nil, apperrors.WithMessage(apperrors.ErrNoDataForSymbol,
			fmt.Sprintf("no daily series returned for symbol %s", symbol))
	}

	var daily dailyResponse
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrNoDataForSymbol, err)
	}

	bars := make([]Bar, 0, len(daily.Series))
	for date, entry := range daily.Series {
		bars = append(bars, Bar{
			Date:   date,
			Open:   entry.Open,
			High:   entry.High,
			Low:    entry.Low,
			Close:  entry.Close,
			Volume: entry.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

// CompanyOverview fetches the company-overview record for a symbol.
func (c *Client) CompanyOverview(ctx context.Context, symbol string) (*Overview, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var overview Overview
	if err := json.Unmarshal(body, &overview); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrNoDataForSymbol, err)
	}
	// Unknown symbols come back as 200 with an empty object.
	if overview.Symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrNoDataForSymbol,
			fmt.Sprintf("no overview returned for symbol %s", symbol))
	}
	return &overview, nil
}

// get performs a GET against the provider and returns the response body,
// mapping transport failures to upstream errors.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.Wrap(apperrors.ErrUpstreamTimeout, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.WithMessage(apperrors.ErrUpstreamUnavailable,
			fmt.Sprintf("market data provider returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
