package api

import "github.com/labstack/echo/v4"

// Handler aggregates all route groups behind a single RegisterRoutes.
type Handler struct {
	portfolios   *PortfoliosEchoHandler
	intelligence *IntelligenceEchoHandler
}

func NewHandler(portfolios *PortfoliosEchoHandler, intelligence *IntelligenceEchoHandler) *Handler {
	return &Handler{portfolios: portfolios, intelligence: intelligence}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	h.portfolios.RegisterRoutes(e)
	h.intelligence.RegisterRoutes(e)
}
