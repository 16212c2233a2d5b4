package marketdata

import (
	"context"
	"fmt"
	"testing"

	"MarketBrief/internal/domain/models"
)

func TestFetchConsolidatesQuoteAndHistory(t *testing.T) {
	p := newFakeProvider()
	pe := 25.0
	p.quotes["NVDA"] = &models.ProviderQuote{
		CurrentPrice: f64(110),
		PERatio:      &pe,
	}

	// 63 trading days: first close 80, one month back (index 42) 100, last 110.
	perf := flatBars(63, 100, 0)
	perf[0].Close = 80
	perf[62].Close = 110
	p.history["NVDA/3mo"] = perf

	// 22 trading days: last 5 volumes double the baseline.
	vols := flatBars(22, 100, 100)
	for i := 17; i < 22; i++ {
		vols[i].Volume = 200
	}
	p.history["NVDA/1mo"] = vols

	f := NewQuoteFetcher(p, nopMetrics{}, testLogger(t))
	q := f.Fetch(context.Background(), "NVDA")

	if q.Error != "" {
		t.Fatalf("unexpected error %q", q.Error)
	}
	if q.CurrentPrice == nil || *q.CurrentPrice != 110 {
		t.Fatalf("unexpected price %v", q.CurrentPrice)
	}
	if q.Perf3MPct == nil || *q.Perf3MPct != 37.5 {
		t.Fatalf("unexpected perf_3m %v", q.Perf3MPct)
	}
	if q.Perf1MPct == nil || *q.Perf1MPct != 10 {
		t.Fatalf("unexpected perf_1m %v", q.Perf1MPct)
	}
	// vol5 = 200, vol20 = (5*200 + 15*100)/20 = 125.
	if q.VolumeRatio5D20D == nil || *q.VolumeRatio5D20D != 1.6 {
		t.Fatalf("unexpected volume ratio %v", q.VolumeRatio5D20D)
	}
	if q.FetchedAt == "" {
		t.Fatal("fetched_at should be set")
	}
}

func TestFetchQuoteErrorIsErrorOnly(t *testing.T) {
	p := newFakeProvider()
	p.quoteErr["BAD"] = fmt.Errorf("upstream 500")

	f := NewQuoteFetcher(p, nopMetrics{}, testLogger(t))
	q := f.Fetch(context.Background(), "BAD")

	if q.Error == "" {
		t.Fatal("expected error to be set")
	}
	if q.CurrentPrice != nil || q.Perf1MPct != nil || q.Perf3MPct != nil || q.VolumeRatio5D20D != nil {
		t.Fatal("numeric fields must be nil on a failed quote")
	}
	if q.FetchedAt == "" {
		t.Fatal("fetched_at should be set even on failure")
	}
	if p.historyCallCount() != 0 {
		t.Fatal("history should not be fetched after a quote failure")
	}
}

func TestFetchHistoryErrorLeavesMetricsNil(t *testing.T) {
	p := newFakeProvider()
	p.quotes["AAPL"] = quoteOf(190)
	p.historyErr = fmt.Errorf("chart unavailable")

	f := NewQuoteFetcher(p, nopMetrics{}, testLogger(t))
	q := f.Fetch(context.Background(), "AAPL")

	if q.Error != "" {
		t.Fatalf("history failure must not fail the quote, got %q", q.Error)
	}
	if q.CurrentPrice == nil || *q.CurrentPrice != 190 {
		t.Fatalf("unexpected price %v", q.CurrentPrice)
	}
	if q.Perf1MPct != nil || q.Perf3MPct != nil || q.VolumeRatio5D20D != nil {
		t.Fatal("derived metrics must be nil when history fails")
	}
}

func TestFetchShortHistorySkipsDerived(t *testing.T) {
	p := newFakeProvider()
	p.quotes["IPO"] = quoteOf(40)
	p.history["IPO/3mo"] = flatBars(1, 40, 0)
	p.history["IPO/1mo"] = flatBars(19, 40, 1000)

	f := NewQuoteFetcher(p, nopMetrics{}, testLogger(t))
	q := f.Fetch(context.Background(), "IPO")

	if q.Perf1MPct != nil || q.Perf3MPct != nil {
		t.Fatal("performance needs at least 2 bars")
	}
	if q.VolumeRatio5D20D != nil {
		t.Fatal("volume ratio needs at least 20 bars")
	}
}

func TestFetchPerf1MClampsToWindowStart(t *testing.T) {
	p := newFakeProvider()
	p.quotes["NEW"] = quoteOf(105)
	// Fewer than 21 bars: the 1-month reference clamps to the first bar.
	bars := flatBars(10, 100, 0)
	bars[9].Close = 105
	p.history["NEW/3mo"] = bars

	f := NewQuoteFetcher(p, nopMetrics{}, testLogger(t))
	q := f.Fetch(context.Background(), "NEW")

	if q.Perf3MPct == nil || *q.Perf3MPct != 5 {
		t.Fatalf("unexpected perf_3m %v", q.Perf3MPct)
	}
	if q.Perf1MPct == nil || *q.Perf1MPct != 5 {
		t.Fatalf("unexpected perf_1m %v", q.Perf1MPct)
	}
}

func TestFetchZeroVolumeBaseline(t *testing.T) {
	p := newFakeProvider()
	p.quotes["THIN"] = quoteOf(12)
	p.history["THIN/1mo"] = flatBars(22, 12, 0)

	f := NewQuoteFetcher(p, nopMetrics{}, testLogger(t))
	q := f.Fetch(context.Background(), "THIN")

	if q.VolumeRatio5D20D != nil {
		t.Fatal("volume ratio must stay nil for a zero 20-day baseline")
	}
}
