package models

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type CreatePortfolioRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type AddHoldingRequest struct {
	Symbol   string  `json:"symbol" validate:"required,max=20"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	AvgCost  float64 `json:"avg_cost" validate:"required,gt=0"`
	Thesis   string  `json:"thesis" validate:"max=1000"`
}

type BriefingRequest struct {
	PortfolioID string `json:"portfolio_id" validate:"required,uuid4"`
}
