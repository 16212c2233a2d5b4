package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	models "MarketBrief/internal/domain/models"
	"MarketBrief/internal/usecase/briefing"
	xhttp "MarketBrief/pkg/http"
	xlogger "MarketBrief/pkg/logger"
)

// IntelligenceEchoHandler serves briefing generation.
type IntelligenceEchoHandler struct {
	logger    *xlogger.Logger
	generator *briefing.Generator
}

func NewIntelligenceEchoHandler(logger *xlogger.Logger, generator *briefing.Generator) *IntelligenceEchoHandler {
	return &IntelligenceEchoHandler{logger: logger, generator: generator}
}

func (h *IntelligenceEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/intelligence")
	g.POST("/briefing", h.GenerateBriefing)
}

func (h *IntelligenceEchoHandler) GenerateBriefing(c echo.Context) error {
	start := time.Now()
	req := &models.BriefingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	portfolioID, err := uuid.Parse(req.PortfolioID)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid portfolio id"))
	}

	b, err := h.generator.Generate(c.Request().Context(), portfolioID)
	if err != nil {
		h.logger.Error("briefing generation failed",
			xlogger.String("portfolio_id", portfolioID.String()),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	h.logger.Info("briefing generated",
		xlogger.String("portfolio_id", portfolioID.String()),
		xlogger.Int("analyses", len(b.HoldingsAnalyses)),
		xlogger.Duration("duration_ms", time.Since(start)))
	return xhttp.SuccessResponse(c, b)
}
