package yahoo

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	xhttp "MarketBrief/pkg/http"
)

// Client implements QuoteProvider against a Yahoo-style quote API.
// Calls are synchronous and blocking; the aggregation layer dispatches them
// through the worker pool so one slow symbol cannot stall the batch.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// New creates a new quote/history client.
func New(baseURL string, timeout time.Duration) drepo.QuoteProvider {
	return &Client{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
	TrailingPE                 *float64 `json:"trailingPE"`
	ForwardPE                  *float64 `json:"forwardPE"`
	MarketCap                  *float64 `json:"marketCap"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Quote fetches the current quote and valuation fields for one symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.ProviderQuote, error) {
	var resp quoteResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v7/finance/quote",
		QueryParams: map[string][]string{
			"symbols": {symbol},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if e := resp.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("quote %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("quote %s: no result", symbol)
	}

	r := resp.QuoteResponse.Result[0]
	return &models.ProviderQuote{
		Symbol:           symbol,
		CurrentPrice:     r.RegularMarketPrice,
		FiftyTwoWeekHigh: r.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  r.FiftyTwoWeekLow,
		PERatio:          r.TrailingPE,
		ForwardPE:        r.ForwardPE,
		MarketCap:        r.MarketCap,
		PreviousClose:    r.RegularMarketPreviousClose,
		ChangePct:        r.RegularMarketChangePercent,
	}, nil
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// History fetches daily OHLCV bars for the given lookback window ("1mo",
// "3mo"). Bars are returned oldest-first; days with a null close (holidays,
// partial data) are skipped.
func (c *Client) History(ctx context.Context, symbol string, lookback string) ([]models.Bar, error) {
	var resp chartResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + symbol,
		QueryParams: map[string][]string{
			"range":    {lookback},
			"interval": {"1d"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("history %s %s: %w", symbol, lookback, err)
	}
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("history %s %s: %s: %s", symbol, lookback, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("history %s %s: no result", symbol, lookback)
	}

	r := resp.Chart.Result[0]
	q := r.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		b := models.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			b.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			b.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			b.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			b.Volume = *q.Volume[i]
		}
		bars = append(bars, b)
	}
	return bars, nil
}
