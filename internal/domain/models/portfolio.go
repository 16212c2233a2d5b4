package models

import (
	"time"

	"github.com/google/uuid"
)

// Portfolio groups a set of holdings under a name.
type Portfolio struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	Holdings  []*Holding `json:"holdings"`
}

// Holding is one position inside a portfolio. Thesis is the owner's optional
// investment thesis, echoed back verbatim in briefing analyses.
type Holding struct {
	ID          uuid.UUID `json:"id"`
	PortfolioID uuid.UUID `json:"portfolio_id"`
	Symbol      string    `json:"symbol"`
	Quantity    float64   `json:"quantity"`
	AvgCost     float64   `json:"avg_cost"`
	Thesis      string    `json:"thesis,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
