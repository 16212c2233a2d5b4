package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	models "MarketBrief/internal/domain/models"
	"MarketBrief/internal/usecase/briefing"
)

type nopMetrics struct{}

func (nopMetrics) RecordFetch(provider, symbol string)      {}
func (nopMetrics) RecordError(kind string)                  {}
func (nopMetrics) RecordLastPrice(symbol string, p float64) {}
func (nopMetrics) RecordLatency(op string, seconds float64) {}

type fakeSnapshots struct{}

func (fakeSnapshots) FetchAll(ctx context.Context, symbols []string) *models.MarketSnapshot {
	stocks := make(map[string]*models.SymbolQuote, len(symbols))
	news := make(map[string][]models.NewsItem, len(symbols))
	for _, s := range symbols {
		stocks[s] = &models.SymbolQuote{Symbol: s}
		news[s] = []models.NewsItem{}
	}
	return &models.MarketSnapshot{Stocks: stocks, Macro: &models.MacroData{}, News: news}
}

type fakeNarrator struct {
	response string
}

func (n *fakeNarrator) Generate(ctx context.Context, system, user string) (string, error) {
	return n.response, nil
}
func (n *fakeNarrator) Model() string { return "test-model" }

func newIntelligenceServer(t *testing.T, store *fakeStore, narrator *fakeNarrator) *echo.Echo {
	t.Helper()
	gen := briefing.NewGenerator(store, fakeSnapshots{}, narrator, nil, nopMetrics{}, testLogger(t))
	e := echo.New()
	NewIntelligenceEchoHandler(testLogger(t), gen).RegisterRoutes(e)
	return e
}

func TestGenerateBriefingEndpoint(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.portfolios[id] = &models.Portfolio{
		ID:   id,
		Name: "growth",
		Holdings: []*models.Holding{
			{ID: uuid.New(), PortfolioID: id, Symbol: "NVDA", Quantity: 10, AvgCost: 450},
		},
	}
	narrator := &fakeNarrator{response: `{"holdings_analyses":[{"symbol":"NVDA","analysis":"the trade is long","sentiment":"bullish"}],"portfolio_summary":"ok","risk_alerts":["one"]}`}
	e := newIntelligenceServer(t, store, narrator)

	rec := doJSON(e, http.MethodPost, "/api/intelligence/briefing",
		`{"portfolio_id":"`+id.String()+`"}`)
	if got := bodyStatus(t, rec); got != http.StatusOK {
		t.Fatalf("expected 200 in body, got %d (%s)", got, rec.Body.String())
	}
}

func TestGenerateBriefingInvalidID(t *testing.T) {
	e := newIntelligenceServer(t, newFakeStore(), &fakeNarrator{})

	rec := doJSON(e, http.MethodPost, "/api/intelligence/briefing", `{"portfolio_id":"nope"}`)
	if got := bodyStatus(t, rec); got != http.StatusBadRequest {
		t.Fatalf("expected 400 in body, got %d", got)
	}
}

func TestGenerateBriefingUnknownPortfolio(t *testing.T) {
	e := newIntelligenceServer(t, newFakeStore(), &fakeNarrator{})

	rec := doJSON(e, http.MethodPost, "/api/intelligence/briefing",
		`{"portfolio_id":"`+uuid.NewString()+`"}`)
	if got := bodyStatus(t, rec); got != http.StatusNotFound {
		t.Fatalf("expected 404 in body, got %d", got)
	}
}

func TestGenerateBriefingEmptyPortfolio(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.portfolios[id] = &models.Portfolio{ID: id, Name: "empty"}
	e := newIntelligenceServer(t, store, &fakeNarrator{})

	rec := doJSON(e, http.MethodPost, "/api/intelligence/briefing",
		`{"portfolio_id":"`+id.String()+`"}`)
	if got := bodyStatus(t, rec); got != http.StatusBadRequest {
		t.Fatalf("expected 400 in body, got %d", got)
	}
}
