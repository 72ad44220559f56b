// Package sqlite implements the transaction source on an embedded SQLite
// database. Amounts are stored as integer cents and converted to exact
// decimals at the boundary; occurrence times are stored as unix seconds so
// window comparisons stay numeric.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"finsight/internal/core"
	"finsight/internal/source"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var _ source.TransactionSource = (*Repository)(nil)

// NewRepository opens (creating if needed) the database at dbPath and runs
// the embedded migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Workspaces(ctx context.Context) ([]core.Workspace, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM workspaces ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query workspaces: %w", err)
	}
	defer rows.Close()

	var out []core.Workspace
	for rows.Next() {
		var raw string
		var ws core.Workspace
		if err := rows.Scan(&raw, &ws.Name); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse workspace id %q: %w", raw, err)
		}
		ws.ID = id
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (r *Repository) Categories(ctx context.Context, kind core.CategoryKind) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, kind, parent_id FROM categories WHERE kind = ? ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Kind, &parent); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parent.Valid {
			c.ParentID = &parent.Int64
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) ListTransactions(ctx context.Context, workspace uuid.UUID, categoryID int64, window core.Window) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, workspace_id, category_id, amount_cents, occurred_at, note
		FROM transactions
		WHERE workspace_id = ? AND category_id = ? AND occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at, id`,
		workspace.String(), categoryID, window.Start.Unix(), window.End.Unix())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx     core.Transaction
			rawWS  string
			cents  int64
			atUnix int64
		)
		if err := rows.Scan(&tx.ID, &rawWS, &tx.CategoryID, &cents, &atUnix, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		id, err := uuid.Parse(rawWS)
		if err != nil {
			return nil, fmt.Errorf("parse workspace id %q: %w", rawWS, err)
		}
		tx.WorkspaceID = id
		tx.Amount = core.CentsToAmount(cents)
		tx.OccurredAt = time.Unix(atUnix, 0).UTC()
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *Repository) RootCategoryTotals(ctx context.Context, workspace uuid.UUID, window core.Window) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH RECURSIVE tree (root_id, id) AS (
			SELECT id, id FROM categories WHERE parent_id IS NULL AND kind = 'expense'
			UNION ALL
			SELECT tree.root_id, c.id FROM categories c JOIN tree ON c.parent_id = tree.id
			WHERE c.kind = 'expense'
		)
		SELECT r.id, r.name, r.color, SUM(t.amount_cents), COUNT(t.id)
		FROM transactions t
		JOIN tree ON t.category_id = tree.id
		JOIN categories r ON r.id = tree.root_id
		WHERE t.workspace_id = ? AND t.occurred_at >= ? AND t.occurred_at < ?
		GROUP BY r.id, r.name, r.color
		ORDER BY SUM(t.amount_cents) DESC, r.id`,
		workspace.String(), window.Start.Unix(), window.End.Unix())
	if err != nil {
		return nil, fmt.Errorf("query root category totals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var (
			ct    core.CategoryTotal
			cents int64
		)
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Color, &cents, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Total = core.CentsToAmount(cents)
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r *Repository) DailyTotals(ctx context.Context, workspace uuid.UUID, window core.Window) ([]core.DayTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date(t.occurred_at, 'unixepoch') AS day, SUM(t.amount_cents), COUNT(t.id)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.workspace_id = ? AND c.kind = 'expense' AND t.occurred_at >= ? AND t.occurred_at < ?
		GROUP BY day
		ORDER BY day`,
		workspace.String(), window.Start.Unix(), window.End.Unix())
	if err != nil {
		return nil, fmt.Errorf("query daily totals: %w", err)
	}
	defer rows.Close()

	var out []core.DayTotal
	for rows.Next() {
		var (
			day   string
			cents int64
			dt    core.DayTotal
		)
		if err := rows.Scan(&day, &cents, &dt.Count); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		dt.Date = date
		dt.Total = core.CentsToAmount(cents)
		out = append(out, dt)
	}
	return out, rows.Err()
}

// CreateWorkspace registers a workspace. Existing rows with the same id
// are left untouched.
func (r *Repository) CreateWorkspace(ctx context.Context, ws core.Workspace) error {
	if ws.ID == uuid.Nil {
		return core.ErrUnknownWorkspace
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`,
		ws.ID.String(), ws.Name)
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

// CreateCategory inserts a category and returns its id.
func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	var parent any
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, color, kind, parent_id) VALUES (?, ?, ?, ?)`,
		c.Name, c.Color, string(c.Kind), parent)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category id: %w", err)
	}
	return id, nil
}

// AddTransaction inserts a transaction and returns its id.
func (r *Repository) AddTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (workspace_id, category_id, amount_cents, occurred_at, note)
		 VALUES (?, ?, ?, ?, ?)`,
		tx.WorkspaceID.String(), tx.CategoryID, core.AmountToCents(tx.Amount), tx.OccurredAt.UTC().Unix(), tx.Note)
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	return id, nil
}
