package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
)

// SnapshotFetcher assembles a market snapshot for a batch of symbols.
type SnapshotFetcher interface {
	FetchAll(ctx context.Context, symbols []string) *models.MarketSnapshot
}

// Generator produces portfolio briefings: it loads the portfolio, assembles a
// live market snapshot, runs the narrator, and parses its JSON verdict.
type Generator struct {
	store      drepo.PortfolioStore
	aggregator SnapshotFetcher
	narrator   drepo.Narrator
	events     drepo.EventPublisher
	metrics    drepo.Metrics
	logger     *applogger.Logger
}

// NewGenerator creates a briefing generator. narrator and events may be nil
// when unconfigured; a nil narrator rejects generation, a nil events bus
// skips event publishing.
func NewGenerator(store drepo.PortfolioStore, aggregator SnapshotFetcher, narrator drepo.Narrator, events drepo.EventPublisher, metrics drepo.Metrics, logger *applogger.Logger) *Generator {
	return &Generator{
		store:      store,
		aggregator: aggregator,
		narrator:   narrator,
		events:     events,
		metrics:    metrics,
		logger:     logger,
	}
}

// narratorPayload is the JSON contract the system prompt pins the narrator to.
type narratorPayload struct {
	HoldingsAnalyses []struct {
		Symbol    string `json:"symbol"`
		Thesis    string `json:"thesis"`
		Analysis  string `json:"analysis"`
		Sentiment string `json:"sentiment"`
	} `json:"holdings_analyses"`
	PortfolioSummary string   `json:"portfolio_summary"`
	RiskAlerts       []string `json:"risk_alerts"`
}

// extractJSON strips an optional markdown code fence before unmarshalling.
// Narrators are told not to fence the response but occasionally do anyway.
func extractJSON(text string) (*narratorPayload, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		}
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
	}

	var payload narratorPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Generate builds a briefing for the portfolio. Errors carry HTTP semantics:
// unknown portfolio is 404, a portfolio without holdings is 400, missing
// narrator configuration or a malformed narrator response is 500, and an
// upstream generation failure is 502.
func (g *Generator) Generate(ctx context.Context, portfolioID uuid.UUID) (*models.Briefing, error) {
	start := time.Now()

	p, err := g.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return nil, xhttp.NotFoundErrorf("portfolio %s not found", portfolioID)
		}
		return nil, xhttp.InternalError("failed to load portfolio").WithError(err)
	}
	if p == nil {
		return nil, xhttp.NotFoundErrorf("portfolio %s not found", portfolioID)
	}
	if len(p.Holdings) == 0 {
		return nil, xhttp.BadRequestError("portfolio has no holdings to analyze")
	}
	if g.narrator == nil {
		return nil, xhttp.InternalError("intelligence service is not configured")
	}

	symbols := make([]string, len(p.Holdings))
	for i, h := range p.Holdings {
		symbols[i] = h.Symbol
	}
	g.logger.Info("fetching market data for briefing",
		applogger.String("portfolio_id", portfolioID.String()),
		applogger.Strings("symbols", symbols))
	snapshot := g.aggregator.FetchAll(ctx, symbols)

	userMessage := buildUserMessage(p.Holdings, snapshot)

	g.logger.Info("generating briefing",
		applogger.String("portfolio_id", portfolioID.String()),
		applogger.Int("holdings", len(p.Holdings)),
		applogger.String("model", g.narrator.Model()))

	raw, err := g.narrator.Generate(ctx, systemPrompt, userMessage)
	if err != nil {
		g.metrics.RecordError("narrator")
		return nil, xhttp.BadGatewayError("intelligence service request failed").WithError(err)
	}

	payload, err := extractJSON(raw)
	if err != nil {
		g.logger.Error("failed to parse narrator response",
			applogger.Error(err),
			applogger.String("raw_prefix", truncate(raw, 500)))
		g.metrics.RecordError("narrator_parse")
		return nil, xhttp.InternalError("intelligence service returned malformed response, please try again").WithError(err)
	}

	analyses := make([]models.HoldingAnalysis, 0, len(payload.HoldingsAnalyses))
	for _, item := range payload.HoldingsAnalyses {
		sentiment := item.Sentiment
		if sentiment == "" {
			sentiment = "neutral"
		}
		analyses = append(analyses, models.HoldingAnalysis{
			Symbol:    item.Symbol,
			Thesis:    item.Thesis,
			Analysis:  item.Analysis,
			Sentiment: sentiment,
		})
	}

	b := &models.Briefing{
		PortfolioID:      portfolioID,
		GeneratedAt:      time.Now().UTC(),
		HoldingsAnalyses: analyses,
		PortfolioSummary: payload.PortfolioSummary,
		RiskAlerts:       payload.RiskAlerts,
		MarketSnapshot:   snapshot,
	}
	if b.RiskAlerts == nil {
		b.RiskAlerts = []string{}
	}

	g.publishEvent(ctx, b, len(p.Holdings))
	g.metrics.RecordLatency("briefing", time.Since(start).Seconds())
	return b, nil
}

// publishEvent emits briefing.generated; failures are logged, never surfaced.
func (g *Generator) publishEvent(ctx context.Context, b *models.Briefing, holdings int) {
	if g.events == nil {
		return
	}
	event := models.BriefingEvent{
		PortfolioID: b.PortfolioID,
		Holdings:    holdings,
		Model:       g.narrator.Model(),
		GeneratedAt: b.GeneratedAt,
	}
	if err := g.events.Publish(ctx, []byte(b.PortfolioID.String()), event); err != nil {
		g.logger.Warn("failed to publish briefing event",
			applogger.String("portfolio_id", b.PortfolioID.String()),
			applogger.Error(err))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
