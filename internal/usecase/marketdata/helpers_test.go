package marketdata

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"MarketBrief/internal/domain/models"
	applogger "MarketBrief/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(provider, symbol string)        {}
func (nopMetrics) RecordError(kind string)                    {}
func (nopMetrics) RecordLastPrice(symbol string, p float64)   {}
func (nopMetrics) RecordLatency(op string, seconds float64)   {}

// fakeProvider serves canned quotes and history keyed by symbol and lookback.
type fakeProvider struct {
	mu           sync.Mutex
	quotes       map[string]*models.ProviderQuote
	quoteErr     map[string]error
	quotePanic   map[string]bool
	history      map[string][]models.Bar // key: symbol + "/" + lookback
	historyErr   error
	quoteCalls   []string
	historyCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		quotes:     map[string]*models.ProviderQuote{},
		quoteErr:   map[string]error{},
		quotePanic: map[string]bool{},
		history:    map[string][]models.Bar{},
	}
}

func (p *fakeProvider) Quote(ctx context.Context, symbol string) (*models.ProviderQuote, error) {
	p.mu.Lock()
	p.quoteCalls = append(p.quoteCalls, symbol)
	p.mu.Unlock()
	if p.quotePanic[symbol] {
		panic("provider blew up on " + symbol)
	}
	if err, ok := p.quoteErr[symbol]; ok {
		return nil, err
	}
	if q, ok := p.quotes[symbol]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("no quote for %s", symbol)
}

func (p *fakeProvider) History(ctx context.Context, symbol string, lookback string) ([]models.Bar, error) {
	p.mu.Lock()
	p.historyCalls++
	p.mu.Unlock()
	if p.historyErr != nil {
		return nil, p.historyErr
	}
	return p.history[symbol+"/"+lookback], nil
}

func (p *fakeProvider) quoteCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.quoteCalls)
}

func (p *fakeProvider) historyCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.historyCalls
}

// fakeSearcher serves canned headlines and records queries.
type fakeSearcher struct {
	mu       sync.Mutex
	enabled  bool
	items    []models.NewsItem
	err      error
	queries  []string
	pageSize int
}

func (s *fakeSearcher) Enabled() bool { return s.enabled }

func (s *fakeSearcher) Search(ctx context.Context, query string, pageSize int) ([]models.NewsItem, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.pageSize = pageSize
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *fakeSearcher) lastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queries) == 0 {
		return ""
	}
	return s.queries[len(s.queries)-1]
}

func quoteOf(price float64) *models.ProviderQuote {
	return &models.ProviderQuote{CurrentPrice: &price}
}

// flatBars builds n bars with the given close and volume on every bar.
func flatBars(n int, close, volume float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Close: close, Volume: volume}
	}
	return bars
}
