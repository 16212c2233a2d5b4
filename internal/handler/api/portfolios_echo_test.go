package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	models "MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
)

type fakeStore struct {
	portfolios map[uuid.UUID]*models.Portfolio
	created    *models.Portfolio
	added      *models.Holding
	deleted    uuid.UUID
	healthErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{portfolios: map[uuid.UUID]*models.Portfolio{}}
}

func (s *fakeStore) Init(ctx context.Context) error { return nil }

func (s *fakeStore) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	s.created = p
	s.portfolios[p.ID] = p
	return nil
}

func (s *fakeStore) ListPortfolios(ctx context.Context) ([]*models.Portfolio, error) {
	out := make([]*models.Portfolio, 0, len(s.portfolios))
	for _, p := range s.portfolios {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) GetPortfolio(ctx context.Context, id uuid.UUID) (*models.Portfolio, error) {
	p, ok := s.portfolios[id]
	if !ok {
		return nil, domrepo.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) AddHolding(ctx context.Context, h *models.Holding) error {
	if _, ok := s.portfolios[h.PortfolioID]; !ok {
		return domrepo.ErrNotFound
	}
	s.added = h
	return nil
}

func (s *fakeStore) DeleteHolding(ctx context.Context, portfolioID, holdingID uuid.UUID) error {
	if _, ok := s.portfolios[portfolioID]; !ok {
		return domrepo.ErrNotFound
	}
	s.deleted = holdingID
	return nil
}

func (s *fakeStore) Health(ctx context.Context) error { return s.healthErr }
func (s *fakeStore) Close() error                     { return nil }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newPortfolioServer(t *testing.T, store *fakeStore) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewPortfoliosEchoHandler(testLogger(t), store).RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bodyStatus(t *testing.T, rec *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return resp.Status
}

func TestCreatePortfolio(t *testing.T) {
	store := newFakeStore()
	e := newPortfolioServer(t, store)

	rec := doJSON(e, http.MethodPost, "/api/portfolios", `{"name":"  growth "}`)
	if got := bodyStatus(t, rec); got != http.StatusCreated {
		t.Fatalf("expected 201 in body, got %d (%s)", got, rec.Body.String())
	}
	if store.created == nil || store.created.Name != "growth" {
		t.Fatalf("unexpected stored portfolio %+v", store.created)
	}
	if store.created.ID == uuid.Nil {
		t.Fatal("portfolio id must be assigned")
	}
}

func TestCreatePortfolioValidation(t *testing.T) {
	store := newFakeStore()
	e := newPortfolioServer(t, store)

	rec := doJSON(e, http.MethodPost, "/api/portfolios", `{"name":""}`)
	if got := bodyStatus(t, rec); got != http.StatusBadRequest {
		t.Fatalf("expected 400 in body, got %d", got)
	}
	if store.created != nil {
		t.Fatal("invalid request must not reach the store")
	}
}

func TestGetPortfolioNotFound(t *testing.T) {
	e := newPortfolioServer(t, newFakeStore())

	rec := doJSON(e, http.MethodGet, "/api/portfolios/"+uuid.NewString(), "")
	if got := bodyStatus(t, rec); got != http.StatusNotFound {
		t.Fatalf("expected 404 in body, got %d", got)
	}
}

func TestGetPortfolioInvalidID(t *testing.T) {
	e := newPortfolioServer(t, newFakeStore())

	rec := doJSON(e, http.MethodGet, "/api/portfolios/not-a-uuid", "")
	if got := bodyStatus(t, rec); got != http.StatusBadRequest {
		t.Fatalf("expected 400 in body, got %d", got)
	}
}

func TestAddHoldingNormalizesSymbol(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.portfolios[id] = &models.Portfolio{ID: id, Name: "growth"}
	e := newPortfolioServer(t, store)

	rec := doJSON(e, http.MethodPost, "/api/portfolios/"+id.String()+"/holdings",
		`{"symbol":" nvda ","quantity":10,"avg_cost":450.5,"thesis":"AI capex"}`)
	if got := bodyStatus(t, rec); got != http.StatusCreated {
		t.Fatalf("expected 201 in body, got %d (%s)", got, rec.Body.String())
	}
	if store.added == nil || store.added.Symbol != "NVDA" {
		t.Fatalf("symbol should be trimmed and uppercased, got %+v", store.added)
	}
}

func TestAddHoldingRejectsNonPositiveQuantity(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.portfolios[id] = &models.Portfolio{ID: id, Name: "growth"}
	e := newPortfolioServer(t, store)

	rec := doJSON(e, http.MethodPost, "/api/portfolios/"+id.String()+"/holdings",
		`{"symbol":"NVDA","quantity":-1,"avg_cost":450}`)
	if got := bodyStatus(t, rec); got != http.StatusBadRequest {
		t.Fatalf("expected 400 in body, got %d", got)
	}
}

func TestAddHoldingUnknownPortfolio(t *testing.T) {
	e := newPortfolioServer(t, newFakeStore())

	rec := doJSON(e, http.MethodPost, "/api/portfolios/"+uuid.NewString()+"/holdings",
		`{"symbol":"NVDA","quantity":10,"avg_cost":450}`)
	if got := bodyStatus(t, rec); got != http.StatusNotFound {
		t.Fatalf("expected 404 in body, got %d", got)
	}
}

func TestDeleteHolding(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.portfolios[id] = &models.Portfolio{ID: id, Name: "growth"}
	e := newPortfolioServer(t, store)

	holdingID := uuid.New()
	rec := doJSON(e, http.MethodDelete,
		"/api/portfolios/"+id.String()+"/holdings/"+holdingID.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if store.deleted != holdingID {
		t.Fatalf("unexpected deleted id %s", store.deleted)
	}
}

func TestHealthz(t *testing.T) {
	e := newPortfolioServer(t, newFakeStore())

	rec := doJSON(e, http.MethodGet, "/healthz", "")
	if got := bodyStatus(t, rec); got != http.StatusOK {
		t.Fatalf("expected 200 in body, got %d", got)
	}
}
