package marketdata

import (
	"context"
	"strings"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/service/competitors"
	applogger "MarketBrief/pkg/logger"
)

// maxCompetitorTerms caps how many competitor tickers join the news query.
const maxCompetitorTerms = 5

// NewsFetcher fetches headlines for a symbol and its competitors. News is
// strictly best-effort; every failure mode degrades to an empty list.
type NewsFetcher struct {
	searcher drepo.NewsSearcher
	pageSize int
	metrics  drepo.Metrics
	logger   *applogger.Logger
}

// NewNewsFetcher creates a news fetcher.
func NewNewsFetcher(searcher drepo.NewsSearcher, pageSize int, metrics drepo.Metrics, logger *applogger.Logger) *NewsFetcher {
	return &NewsFetcher{searcher: searcher, pageSize: pageSize, metrics: metrics, logger: logger}
}

// Fetch returns recent headlines for symbol plus up to five competitors.
// Returns an empty (never nil) slice when news is disabled or the search
// fails.
func (f *NewsFetcher) Fetch(ctx context.Context, symbol string) []models.NewsItem {
	if f.searcher == nil || !f.searcher.Enabled() {
		return []models.NewsItem{}
	}

	terms := []string{symbol}
	comp := competitors.For(symbol)
	if len(comp) > maxCompetitorTerms {
		comp = comp[:maxCompetitorTerms]
	}
	terms = append(terms, comp...)
	query := strings.Join(terms, " OR ")

	items, err := f.searcher.Search(ctx, query, f.pageSize)
	if err != nil {
		f.logger.Warn("news fetch failed",
			applogger.String("symbol", symbol),
			applogger.Error(err))
		f.metrics.RecordError("news")
		return []models.NewsItem{}
	}
	if items == nil {
		items = []models.NewsItem{}
	}
	f.metrics.RecordFetch("news", symbol)
	return items
}
