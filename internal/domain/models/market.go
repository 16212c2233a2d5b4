package models

import "time"

// ProviderQuote is the raw quote as returned by the upstream provider.
// Fields are pointers because the provider omits what it does not know.
type ProviderQuote struct {
	Symbol           string
	CurrentPrice     *float64
	FiftyTwoWeekHigh *float64
	FiftyTwoWeekLow  *float64
	PERatio          *float64
	ForwardPE        *float64
	MarketCap        *float64
	PreviousClose    *float64
	ChangePct        *float64
}

// Bar is one daily OHLCV record, oldest-first in history slices.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// SymbolQuote is the consolidated per-symbol quote with derived metrics.
// Invariant: Error and the numeric fields are mutually exclusive; when Error
// is set, every numeric field is nil.
type SymbolQuote struct {
	Symbol           string   `json:"symbol"`
	CurrentPrice     *float64 `json:"current_price,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
	PERatio          *float64 `json:"pe_ratio,omitempty"`
	ForwardPE        *float64 `json:"forward_pe,omitempty"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	Perf1MPct        *float64 `json:"perf_1m_pct,omitempty"`
	Perf3MPct        *float64 `json:"perf_3m_pct,omitempty"`
	VolumeRatio5D20D *float64 `json:"volume_ratio_5d_20d,omitempty"`
	Error            string   `json:"error,omitempty"`
	FetchedAt        string   `json:"fetched_at"`
}

// MacroIndicator is one market-wide signal (VIX, 10Y yield, ...).
type MacroIndicator struct {
	Value         *float64 `json:"value"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	ChangePct     *float64 `json:"change_pct,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// MacroData holds all tracked macro indicators for one batch. Error is set
// only on a total provider outage; per-instrument failures live on the
// individual indicators.
type MacroData struct {
	Indicators map[string]*MacroIndicator `json:"indicators"`
	Error      string                     `json:"error,omitempty"`
	FetchedAt  string                     `json:"fetched_at"`
}

// NewsItem is one headline. Title is always non-empty; untitled articles are
// dropped at fetch time.
type NewsItem struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// MarketSnapshot is the aggregated market-data result for one batch of
// symbols. Stocks and News contain exactly one entry per requested symbol.
// The snapshot is immutable once returned by the aggregator.
type MarketSnapshot struct {
	Stocks    map[string]*SymbolQuote `json:"stocks"`
	Macro     *MacroData              `json:"macro"`
	News      map[string][]NewsItem   `json:"news"`
	FetchedAt string                  `json:"fetched_at"`
}
