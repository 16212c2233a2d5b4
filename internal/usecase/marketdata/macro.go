package marketdata

import (
	"context"
	"fmt"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
)

// macroInstruments are the tracked market-wide signals, in report order.
var macroInstruments = []struct {
	Label  string
	Symbol string
}{
	{"VIX", "^VIX"},
	{"US_10Y_YIELD", "^TNX"},
	{"DXY", "DX-Y.NYB"},
	{"CRUDE_OIL", "CL=F"},
}

// MacroFetcher fetches the fixed set of macro indicators.
type MacroFetcher struct {
	provider drepo.QuoteProvider
	metrics  drepo.Metrics
	logger   *applogger.Logger
}

// NewMacroFetcher creates a macro fetcher.
func NewMacroFetcher(provider drepo.QuoteProvider, metrics drepo.Metrics, logger *applogger.Logger) *MacroFetcher {
	return &MacroFetcher{provider: provider, metrics: metrics, logger: logger}
}

// Fetch never returns an error. Each instrument fails independently into its
// own Error field; the top-level Error is set only when the fetch as a whole
// blows up, in which case Indicators is nil.
func (f *MacroFetcher) Fetch(ctx context.Context) (data *models.MacroData) {
	fetchedAt := nowUTC()
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("macro fetch panicked", applogger.Any("panic", r))
			f.metrics.RecordError("macro")
			data = &models.MacroData{
				Error:     fmt.Sprintf("macro fetch failed: %v", r),
				FetchedAt: fetchedAt,
			}
		}
	}()

	data = &models.MacroData{
		Indicators: make(map[string]*models.MacroIndicator, len(macroInstruments)),
		FetchedAt:  fetchedAt,
	}
	for _, inst := range macroInstruments {
		data.Indicators[inst.Label] = f.fetchOne(ctx, inst.Label, inst.Symbol)
	}
	return data
}

func (f *MacroFetcher) fetchOne(ctx context.Context, label, symbol string) *models.MacroIndicator {
	pq, err := f.provider.Quote(ctx, symbol)
	if err != nil {
		f.logger.Warn("macro indicator fetch failed",
			applogger.String("label", label),
			applogger.String("symbol", symbol),
			applogger.Error(err))
		f.metrics.RecordError("macro")
		return &models.MacroIndicator{Error: err.Error()}
	}
	f.metrics.RecordFetch("macro", symbol)
	return &models.MacroIndicator{
		Value:         pq.CurrentPrice,
		PreviousClose: pq.PreviousClose,
		ChangePct:     pq.ChangePct,
	}
}
