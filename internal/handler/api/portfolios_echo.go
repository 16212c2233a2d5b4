package api

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	models "MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	xhttp "MarketBrief/pkg/http"
	xlogger "MarketBrief/pkg/logger"
)

// PortfoliosEchoHandler serves portfolio and holding CRUD.
type PortfoliosEchoHandler struct {
	logger *xlogger.Logger
	store  domrepo.PortfolioStore
}

func NewPortfoliosEchoHandler(logger *xlogger.Logger, store domrepo.PortfolioStore) *PortfoliosEchoHandler {
	return &PortfoliosEchoHandler{logger: logger, store: store}
}

func (h *PortfoliosEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/portfolios")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/holdings", h.AddHolding)
	g.DELETE("/:id/holdings/:holding_id", h.DeleteHolding)

	e.GET("/healthz", h.Health)
}

func (h *PortfoliosEchoHandler) List(c echo.Context) error {
	portfolios, err := h.store.ListPortfolios(c.Request().Context())
	if err != nil {
		h.logger.Error("list portfolios failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, portfolios)
}

func (h *PortfoliosEchoHandler) Create(c echo.Context) error {
	req := &models.CreatePortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p := &models.Portfolio{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
		Holdings:  []*models.Holding{},
	}
	if err := h.store.CreatePortfolio(c.Request().Context(), p); err != nil {
		h.logger.Error("create portfolio failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, p)
}

func (h *PortfoliosEchoHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid portfolio id"))
	}

	p, err := h.store.GetPortfolio(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("portfolio %s not found", id))
		}
		h.logger.Error("get portfolio failed",
			xlogger.String("portfolio_id", id.String()),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *PortfoliosEchoHandler) AddHolding(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid portfolio id"))
	}

	req := &models.AddHoldingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	holding := &models.Holding{
		ID:          uuid.New(),
		PortfolioID: id,
		Symbol:      strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Quantity:    req.Quantity,
		AvgCost:     req.AvgCost,
		Thesis:      req.Thesis,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := h.store.AddHolding(c.Request().Context(), holding); err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("portfolio %s not found", id))
		}
		h.logger.Error("add holding failed",
			xlogger.String("portfolio_id", id.String()),
			xlogger.String("symbol", holding.Symbol),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, holding)
}

func (h *PortfoliosEchoHandler) DeleteHolding(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid portfolio id"))
	}
	holdingID, err := uuid.Parse(c.Param("holding_id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid holding id"))
	}

	if err := h.store.DeleteHolding(c.Request().Context(), id, holdingID); err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("holding %s not found", holdingID))
		}
		h.logger.Error("delete holding failed",
			xlogger.String("holding_id", holdingID.String()),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *PortfoliosEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
