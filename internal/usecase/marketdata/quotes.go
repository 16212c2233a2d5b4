package marketdata

import (
	"context"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

// tradingDaysPerMonth approximates one calendar month of daily bars.
const tradingDaysPerMonth = 21

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func f64(v float64) *float64 { return &v }

// QuoteFetcher consolidates a raw provider quote with derived history metrics
// into a SymbolQuote.
type QuoteFetcher struct {
	provider drepo.QuoteProvider
	metrics  drepo.Metrics
	logger   *applogger.Logger
}

// NewQuoteFetcher creates a quote fetcher.
func NewQuoteFetcher(provider drepo.QuoteProvider, metrics drepo.Metrics, logger *applogger.Logger) *QuoteFetcher {
	return &QuoteFetcher{provider: provider, metrics: metrics, logger: logger}
}

// Fetch never returns an error. A quote failure yields a SymbolQuote carrying
// only Symbol, Error and FetchedAt; history failures degrade to nil derived
// metrics on an otherwise complete quote.
func (f *QuoteFetcher) Fetch(ctx context.Context, symbol string) *models.SymbolQuote {
	fetchedAt := nowUTC()

	pq, err := f.provider.Quote(ctx, symbol)
	if err != nil {
		f.logger.Warn("quote fetch failed",
			applogger.String("symbol", symbol),
			applogger.Error(err))
		f.metrics.RecordError("quote")
		return &models.SymbolQuote{
			Symbol:    symbol,
			Error:     err.Error(),
			FetchedAt: fetchedAt,
		}
	}

	q := &models.SymbolQuote{
		Symbol:           symbol,
		CurrentPrice:     pq.CurrentPrice,
		FiftyTwoWeekHigh: pq.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  pq.FiftyTwoWeekLow,
		PERatio:          pq.PERatio,
		ForwardPE:        pq.ForwardPE,
		MarketCap:        pq.MarketCap,
		FetchedAt:        fetchedAt,
	}
	f.metrics.RecordFetch("quotes", symbol)
	if pq.CurrentPrice != nil {
		f.metrics.RecordLastPrice(symbol, *pq.CurrentPrice)
	}

	f.applyPerformance(ctx, symbol, q)
	f.applyVolumeTrend(ctx, symbol, q)
	return q
}

// applyPerformance derives 1-month and 3-month price change from the 3-month
// daily window. One calendar month back is approximated as 21 trading days.
func (f *QuoteFetcher) applyPerformance(ctx context.Context, symbol string, q *models.SymbolQuote) {
	bars, err := f.provider.History(ctx, symbol, "3mo")
	if err != nil {
		f.logger.Debug("history fetch failed",
			applogger.String("symbol", symbol),
			applogger.String("lookback", "3mo"),
			applogger.Error(err))
		return
	}
	if len(bars) < 2 {
		return
	}

	last := bars[len(bars)-1].Close
	first := bars[0].Close
	if first != 0 {
		q.Perf3MPct = f64(util.Round2((last - first) / first * 100))
	}

	idx := len(bars) - tradingDaysPerMonth
	if idx < 0 {
		idx = 0
	}
	monthAgo := bars[idx].Close
	if monthAgo != 0 {
		q.Perf1MPct = f64(util.Round2((last - monthAgo) / monthAgo * 100))
	}
}

// applyVolumeTrend derives the 5-day vs 20-day average volume ratio from the
// 1-month daily window. Requires at least 20 bars and a nonzero 20-day mean.
func (f *QuoteFetcher) applyVolumeTrend(ctx context.Context, symbol string, q *models.SymbolQuote) {
	bars, err := f.provider.History(ctx, symbol, "1mo")
	if err != nil {
		f.logger.Debug("history fetch failed",
			applogger.String("symbol", symbol),
			applogger.String("lookback", "1mo"),
			applogger.Error(err))
		return
	}
	if len(bars) < 20 {
		return
	}

	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	vol5 := util.Mean(vols[len(vols)-5:])
	vol20 := util.Mean(vols[len(vols)-20:])
	if vol20 > 0 {
		q.VolumeRatio5D20D = f64(util.Round2(vol5 / vol20))
	}
}
