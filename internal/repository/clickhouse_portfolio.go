package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	pkgch "MarketBrief/pkg/clickhouse"
	applogger "MarketBrief/pkg/logger"
)

// Portfolio rows are versioned by updated_at; deletes are tombstone inserts
// with is_deleted=1 and ReplacingMergeTree collapses to the latest version.
// All reads go through FINAL and filter is_deleted=0.
var portfolioSchema = []string{
	`CREATE DATABASE IF NOT EXISTS marketbrief`,
	`CREATE TABLE IF NOT EXISTS marketbrief.portfolios (
        id         UUID,
        name       String,
        created_at DateTime64(3, 'UTC'),
        updated_at DateTime64(3, 'UTC'),
        is_deleted UInt8
    ) ENGINE = ReplacingMergeTree(updated_at)
    ORDER BY id`,
	`CREATE TABLE IF NOT EXISTS marketbrief.holdings (
        id           UUID,
        portfolio_id UUID,
        symbol       String,
        quantity     Float64,
        avg_cost     Float64,
        thesis       String,
        updated_at   DateTime64(3, 'UTC'),
        is_deleted   UInt8
    ) ENGINE = ReplacingMergeTree(updated_at)
    ORDER BY (portfolio_id, id)`,
}

// CHPortfolioStore implements PortfolioStore backed by ClickHouse.
type CHPortfolioStore struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

func NewCHPortfolioStore(ch *pkgch.Client, l *applogger.Logger) *CHPortfolioStore {
	return &CHPortfolioStore{client: ch, db: ch.DB(), l: l}
}

// Init ensures the database and tables exist. Idempotent.
func (s *CHPortfolioStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, portfolioSchema)
}

func (s *CHPortfolioStore) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	const q = `
        INSERT INTO marketbrief.portfolios (id, name, created_at, updated_at, is_deleted)
        VALUES (?, ?, ?, ?, 0)
    `
	if _, err := s.db.ExecContext(ctx, q, p.ID.String(), p.Name, p.CreatedAt, p.CreatedAt); err != nil {
		s.l.Error("clickhouse create_portfolio error",
			applogger.String("portfolio_id", p.ID.String()),
			applogger.Error(err),
		)
		return fmt.Errorf("create portfolio: %w", err)
	}
	return nil
}

func (s *CHPortfolioStore) ListPortfolios(ctx context.Context) ([]*models.Portfolio, error) {
	const q = `
        SELECT id, name, created_at
        FROM marketbrief.portfolios FINAL
        WHERE is_deleted = 0
        ORDER BY created_at ASC
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		s.l.Error("clickhouse list_portfolios error", applogger.Error(err))
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Portfolio, 0, 16)
	byID := make(map[uuid.UUID]*models.Portfolio)
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if len(out) == 0 {
		return out, nil
	}
	if err := s.attachHoldings(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CHPortfolioStore) GetPortfolio(ctx context.Context, id uuid.UUID) (*models.Portfolio, error) {
	const q = `
        SELECT id, name, created_at
        FROM marketbrief.portfolios FINAL
        WHERE id = ? AND is_deleted = 0
        LIMIT 1
    `
	rows, err := s.db.QueryContext(ctx, q, id.String())
	if err != nil {
		s.l.Error("clickhouse get_portfolio error",
			applogger.String("portfolio_id", id.String()),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows: %w", err)
		}
		return nil, domrepo.ErrNotFound
	}
	p, err := scanPortfolio(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachHoldings(ctx, map[uuid.UUID]*models.Portfolio{p.ID: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CHPortfolioStore) AddHolding(ctx context.Context, h *models.Holding) error {
	if err := s.portfolioExists(ctx, h.PortfolioID); err != nil {
		return err
	}

	const q = `
        INSERT INTO marketbrief.holdings
            (id, portfolio_id, symbol, quantity, avg_cost, thesis, updated_at, is_deleted)
        VALUES (?, ?, ?, ?, ?, ?, ?, 0)
    `
	_, err := s.db.ExecContext(ctx, q,
		h.ID.String(), h.PortfolioID.String(), h.Symbol, h.Quantity, h.AvgCost, h.Thesis, h.UpdatedAt)
	if err != nil {
		s.l.Error("clickhouse add_holding error",
			applogger.String("portfolio_id", h.PortfolioID.String()),
			applogger.String("symbol", h.Symbol),
			applogger.Error(err),
		)
		return fmt.Errorf("add holding: %w", err)
	}
	return nil
}

func (s *CHPortfolioStore) DeleteHolding(ctx context.Context, portfolioID, holdingID uuid.UUID) error {
	h, err := s.getHolding(ctx, portfolioID, holdingID)
	if err != nil {
		return err
	}

	const q = `
        INSERT INTO marketbrief.holdings
            (id, portfolio_id, symbol, quantity, avg_cost, thesis, updated_at, is_deleted)
        VALUES (?, ?, ?, ?, ?, ?, ?, 1)
    `
	_, err = s.db.ExecContext(ctx, q,
		h.ID.String(), h.PortfolioID.String(), h.Symbol, h.Quantity, h.AvgCost, h.Thesis, time.Now().UTC())
	if err != nil {
		s.l.Error("clickhouse delete_holding error",
			applogger.String("holding_id", holdingID.String()),
			applogger.Error(err),
		)
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}

func (s *CHPortfolioStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *CHPortfolioStore) Close() error {
	return s.client.Close()
}

func (s *CHPortfolioStore) portfolioExists(ctx context.Context, id uuid.UUID) error {
	const q = `
        SELECT count()
        FROM marketbrief.portfolios FINAL
        WHERE id = ? AND is_deleted = 0
    `
	var n uint64
	if err := s.db.QueryRowContext(ctx, q, id.String()).Scan(&n); err != nil {
		return fmt.Errorf("check portfolio: %w", err)
	}
	if n == 0 {
		return domrepo.ErrNotFound
	}
	return nil
}

func (s *CHPortfolioStore) getHolding(ctx context.Context, portfolioID, holdingID uuid.UUID) (*models.Holding, error) {
	const q = `
        SELECT id, portfolio_id, symbol, quantity, avg_cost, thesis, updated_at
        FROM marketbrief.holdings FINAL
        WHERE portfolio_id = ? AND id = ? AND is_deleted = 0
        LIMIT 1
    `
	rows, err := s.db.QueryContext(ctx, q, portfolioID.String(), holdingID.String())
	if err != nil {
		return nil, fmt.Errorf("get holding: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows: %w", err)
		}
		return nil, domrepo.ErrNotFound
	}
	return scanHolding(rows)
}

// attachHoldings loads live holdings for every portfolio in byID.
func (s *CHPortfolioStore) attachHoldings(ctx context.Context, byID map[uuid.UUID]*models.Portfolio) error {
	ids := make([]interface{}, 0, len(byID))
	placeholders := ""
	for id := range byID {
		if placeholders != "" {
			placeholders += ", "
		}
		placeholders += "?"
		ids = append(ids, id.String())
	}

	q := fmt.Sprintf(`
        SELECT id, portfolio_id, symbol, quantity, avg_cost, thesis, updated_at
        FROM marketbrief.holdings FINAL
        WHERE portfolio_id IN (%s) AND is_deleted = 0
        ORDER BY updated_at ASC
    `, placeholders)
	rows, err := s.db.QueryContext(ctx, q, ids...)
	if err != nil {
		s.l.Error("clickhouse load_holdings error", applogger.Error(err))
		return fmt.Errorf("load holdings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return err
		}
		if p, ok := byID[h.PortfolioID]; ok {
			p.Holdings = append(p.Holdings, h)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}

	for _, p := range byID {
		if p.Holdings == nil {
			p.Holdings = []*models.Holding{}
		}
	}
	return nil
}

func scanPortfolio(rows *sql.Rows) (*models.Portfolio, error) {
	var (
		idStr     string
		name      string
		createdAt time.Time
	)
	if err := rows.Scan(&idStr, &name, &createdAt); err != nil {
		return nil, fmt.Errorf("scan portfolio: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse portfolio id: %w", err)
	}
	return &models.Portfolio{ID: id, Name: name, CreatedAt: createdAt}, nil
}

func scanHolding(rows *sql.Rows) (*models.Holding, error) {
	var (
		idStr  string
		pidStr string
		h      models.Holding
	)
	if err := rows.Scan(&idStr, &pidStr, &h.Symbol, &h.Quantity, &h.AvgCost, &h.Thesis, &h.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan holding: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse holding id: %w", err)
	}
	pid, err := uuid.Parse(pidStr)
	if err != nil {
		return nil, fmt.Errorf("parse holding portfolio id: %w", err)
	}
	h.ID = id
	h.PortfolioID = pid
	return &h, nil
}
