package marketdata

import (
	"context"
	"sync"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/queue"
)

// Aggregator fans out quote, macro, and news fetches for a batch of symbols
// and assembles one MarketSnapshot. For N symbols it runs 2N+1 concurrent
// units: N quote fetches, N news fetches, and one macro fetch.
type Aggregator struct {
	quotes  *QuoteFetcher
	macro   *MacroFetcher
	news    *NewsFetcher
	pool    *queue.Pool
	metrics drepo.Metrics
	logger  *applogger.Logger
}

// NewAggregator creates the snapshot aggregator.
func NewAggregator(quotes *QuoteFetcher, macro *MacroFetcher, news *NewsFetcher, pool *queue.Pool, metrics drepo.Metrics, logger *applogger.Logger) *Aggregator {
	return &Aggregator{
		quotes:  quotes,
		macro:   macro,
		news:    news,
		pool:    pool,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAll never returns an error. Every requested symbol appears in both
// Stocks and News; a failed unit degrades to an error-only quote or an empty
// headline list without touching its neighbors. The snapshot FetchedAt is
// captured before any fetch starts.
func (a *Aggregator) FetchAll(ctx context.Context, symbols []string) *models.MarketSnapshot {
	fetchedAt := nowUTC()
	start := time.Now()

	quoteFutures := make([]*queue.Future[*models.SymbolQuote], len(symbols))
	for i, sym := range symbols {
		sym := sym
		quoteFutures[i] = queue.Dispatch(a.pool, ctx, func(ctx context.Context) (*models.SymbolQuote, error) {
			return a.quotes.Fetch(ctx, sym), nil
		})
	}

	macroFuture := queue.Dispatch(a.pool, ctx, func(ctx context.Context) (*models.MacroData, error) {
		return a.macro.Fetch(ctx), nil
	})

	newsResults := make([][]models.NewsItem, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.logger.Warn("news fetch panicked",
						applogger.String("symbol", sym),
						applogger.Any("panic", r))
				}
			}()
			newsResults[i] = a.news.Fetch(ctx, sym)
		}(i, sym)
	}

	stocks := make(map[string]*models.SymbolQuote, len(symbols))
	for i, sym := range symbols {
		q, err := quoteFutures[i].Wait(ctx)
		if err != nil || q == nil {
			msg := "quote fetch aborted"
			if err != nil {
				msg = err.Error()
			}
			q = &models.SymbolQuote{Symbol: sym, Error: msg, FetchedAt: fetchedAt}
		}
		stocks[sym] = q
	}

	macro, err := macroFuture.Wait(ctx)
	if err != nil || macro == nil {
		msg := "macro fetch aborted"
		if err != nil {
			msg = err.Error()
		}
		macro = &models.MacroData{Error: msg, FetchedAt: fetchedAt}
	}

	wg.Wait()
	news := make(map[string][]models.NewsItem, len(symbols))
	for i, sym := range symbols {
		r := newsResults[i]
		if r == nil {
			r = []models.NewsItem{}
		}
		news[sym] = r
	}

	a.metrics.RecordLatency("fetch_all", time.Since(start).Seconds())
	a.logger.Info("market snapshot assembled",
		applogger.Int("symbols", len(symbols)),
		applogger.Duration("elapsed", time.Since(start)))

	return &models.MarketSnapshot{
		Stocks:    stocks,
		Macro:     macro,
		News:      news,
		FetchedAt: fetchedAt,
	}
}
