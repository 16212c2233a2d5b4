package repository

import (
	"context"

	"MarketBrief/internal/domain/models"

	"github.com/google/uuid"
)

// QuoteProvider is the upstream quote/history source. Calls are blocking and
// must be dispatched through the worker pool by callers that fan out.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*models.ProviderQuote, error)
	History(ctx context.Context, symbol string, lookback string) ([]models.Bar, error)
}

// NewsSearcher queries the news search endpoint. Enabled reports whether an
// API key is configured; when false, Search is never called.
type NewsSearcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, pageSize int) ([]models.NewsItem, error)
}

// PortfolioStore persists portfolios and their holdings.
type PortfolioStore interface {
	Init(ctx context.Context) error
	CreatePortfolio(ctx context.Context, p *models.Portfolio) error
	ListPortfolios(ctx context.Context) ([]*models.Portfolio, error)
	GetPortfolio(ctx context.Context, id uuid.UUID) (*models.Portfolio, error)
	AddHolding(ctx context.Context, h *models.Holding) error
	DeleteHolding(ctx context.Context, portfolioID, holdingID uuid.UUID) error
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher emits service events (briefing.generated) to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, key []byte, payload interface{}) error
	Close() error
}

// Narrator turns a system prompt plus a user message into narrative text.
type Narrator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Model() string
}

type Metrics interface {
	RecordFetch(provider, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
