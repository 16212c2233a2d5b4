package marketdata

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"MarketBrief/internal/domain/models"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/queue"
)

func newTestAggregator(t *testing.T, p *fakeProvider, s *fakeSearcher) (*Aggregator, *queue.Pool) {
	t.Helper()
	l := testLogger(t)
	pool := queue.NewPool(queue.WithWorkers(4), queue.WithQueueSize(32))
	pool.Start()
	t.Cleanup(pool.Stop)

	quotes := NewQuoteFetcher(p, nopMetrics{}, l)
	macro := NewMacroFetcher(p, nopMetrics{}, l)
	news := NewNewsFetcher(s, 7, nopMetrics{}, l)
	return NewAggregator(quotes, macro, news, pool, nopMetrics{}, l), pool
}

func seedMacro(p *fakeProvider) {
	p.quotes["^VIX"] = quoteOf(15)
	p.quotes["^TNX"] = quoteOf(4.3)
	p.quotes["DX-Y.NYB"] = quoteOf(104.2)
	p.quotes["CL=F"] = quoteOf(78.6)
}

func TestFetchAllOneEntryPerSymbol(t *testing.T) {
	p := newFakeProvider()
	seedMacro(p)
	p.quotes["NVDA"] = quoteOf(110)
	p.quotes["AAPL"] = quoteOf(190)
	p.quoteErr["BAD"] = fmt.Errorf("upstream 500")
	s := &fakeSearcher{enabled: true, items: []models.NewsItem{{Title: "headline"}}}

	a, _ := newTestAggregator(t, p, s)
	snap := a.FetchAll(context.Background(), []string{"NVDA", "AAPL", "BAD"})

	if len(snap.Stocks) != 3 || len(snap.News) != 3 {
		t.Fatalf("expected 3 stock and 3 news entries, got %d/%d", len(snap.Stocks), len(snap.News))
	}
	if snap.Stocks["NVDA"].Error != "" || snap.Stocks["AAPL"].Error != "" {
		t.Fatal("healthy symbols must not carry errors")
	}
	if snap.Stocks["BAD"].Error == "" {
		t.Fatal("failed symbol must carry an error")
	}
	if snap.Stocks["BAD"].CurrentPrice != nil {
		t.Fatal("failed symbol must not carry numeric fields")
	}
	for _, sym := range []string{"NVDA", "AAPL", "BAD"} {
		if snap.News[sym] == nil {
			t.Fatalf("news for %s must be non-nil", sym)
		}
	}
	if snap.Macro == nil || snap.Macro.Error != "" {
		t.Fatalf("unexpected macro %+v", snap.Macro)
	}
	if snap.FetchedAt == "" {
		t.Fatal("snapshot fetched_at should be set")
	}
}

func TestFetchAllQuotePanicIsIsolated(t *testing.T) {
	p := newFakeProvider()
	seedMacro(p)
	p.quotes["NVDA"] = quoteOf(110)
	p.quotePanic["BOOM"] = true
	s := &fakeSearcher{enabled: false}

	a, _ := newTestAggregator(t, p, s)
	snap := a.FetchAll(context.Background(), []string{"NVDA", "BOOM"})

	if snap.Stocks["BOOM"].Error == "" {
		t.Fatal("panicking symbol must degrade to an error-only quote")
	}
	if snap.Stocks["NVDA"].Error != "" {
		t.Fatal("neighbor symbol must be unaffected")
	}
}

func TestFetchAllEmptySymbols(t *testing.T) {
	p := newFakeProvider()
	seedMacro(p)
	s := &fakeSearcher{enabled: false}

	a, _ := newTestAggregator(t, p, s)
	snap := a.FetchAll(context.Background(), nil)

	if len(snap.Stocks) != 0 || len(snap.News) != 0 {
		t.Fatalf("expected empty maps, got %d/%d", len(snap.Stocks), len(snap.News))
	}
	if snap.Macro == nil || len(snap.Macro.Indicators) != 4 {
		t.Fatal("macro must still be fetched for an empty batch")
	}
}

// clearTimestamps zeroes every fetched_at so snapshots from different calls
// can be compared directly.
func clearTimestamps(s *models.MarketSnapshot) {
	s.FetchedAt = ""
	for _, q := range s.Stocks {
		q.FetchedAt = ""
	}
	if s.Macro != nil {
		s.Macro.FetchedAt = ""
	}
}

func TestFetchAllRepeatedCallsMatch(t *testing.T) {
	p := newFakeProvider()
	seedMacro(p)
	p.quotes["NVDA"] = quoteOf(110)
	p.quotes["XOM"] = quoteOf(105)
	p.quoteErr["BAD"] = fmt.Errorf("upstream 500")
	p.history["NVDA/3mo"] = flatBars(63, 100, 0)
	p.history["NVDA/1mo"] = flatBars(22, 100, 100)
	s := &fakeSearcher{enabled: true, items: []models.NewsItem{{Title: "headline", Source: "wire"}}}

	a, _ := newTestAggregator(t, p, s)
	symbols := []string{"NVDA", "XOM", "BAD"}
	first := a.FetchAll(context.Background(), symbols)
	second := a.FetchAll(context.Background(), symbols)

	clearTimestamps(first)
	clearTimestamps(second)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated fetches diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestFetchAllStoppedPoolDegrades(t *testing.T) {
	p := newFakeProvider()
	s := &fakeSearcher{enabled: false}
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	pool := queue.NewPool(queue.WithWorkers(1))
	pool.Start()
	pool.Stop()

	a := NewAggregator(
		NewQuoteFetcher(p, nopMetrics{}, l),
		NewMacroFetcher(p, nopMetrics{}, l),
		NewNewsFetcher(s, 7, nopMetrics{}, l),
		pool, nopMetrics{}, l)

	snap := a.FetchAll(context.Background(), []string{"NVDA"})
	if snap.Stocks["NVDA"].Error == "" {
		t.Fatal("expected error-only quote when the pool is stopped")
	}
	if snap.Macro == nil || snap.Macro.Error == "" {
		t.Fatal("expected macro error when the pool is stopped")
	}
}
