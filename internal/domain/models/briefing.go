package models

import (
	"time"

	"github.com/google/uuid"
)

// HoldingAnalysis is the narrative verdict for one position.
type HoldingAnalysis struct {
	Symbol    string `json:"symbol"`
	Thesis    string `json:"thesis,omitempty"`
	Analysis  string `json:"analysis"`
	Sentiment string `json:"sentiment"`
}

// Briefing is the generated portfolio intelligence report, including the
// market snapshot it was built from.
type Briefing struct {
	PortfolioID      uuid.UUID         `json:"portfolio_id"`
	GeneratedAt      time.Time         `json:"generated_at"`
	HoldingsAnalyses []HoldingAnalysis `json:"holdings_analyses"`
	PortfolioSummary string            `json:"portfolio_summary"`
	RiskAlerts       []string          `json:"risk_alerts"`
	MarketSnapshot   *MarketSnapshot   `json:"market_snapshot,omitempty"`
}

// BriefingEvent is published after each successful briefing generation.
type BriefingEvent struct {
	PortfolioID uuid.UUID `json:"portfolio_id"`
	Holdings    int       `json:"holdings"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}
