// Package source defines the read-only transaction provider the analysis
// consumes, with SQLite and in-memory implementations in subpackages.
package source

import (
	"context"

	"github.com/google/uuid"

	"finsight/internal/core"
)

// TransactionSource supplies workspace-scoped financial data for explicit
// half-open windows. The analysis treats every call as an independent
// point-in-time snapshot; implementations must support concurrent reads.
type TransactionSource interface {
	// Workspaces lists every known workspace, ordered by name.
	Workspaces(ctx context.Context) ([]core.Workspace, error)

	// Categories returns every category of the given kind, roots and
	// children alike, ordered by id.
	Categories(ctx context.Context, kind core.CategoryKind) ([]core.Category, error)

	// ListTransactions returns the transactions booked directly on one
	// category inside the window, ordered by occurrence time ascending.
	ListTransactions(ctx context.Context, workspace uuid.UUID, categoryID int64, window core.Window) ([]core.Transaction, error)

	// RootCategoryTotals sums expense spending per root category inside
	// the window with descendant categories rolled up. Roots without
	// spending are absent from the result.
	RootCategoryTotals(ctx context.Context, workspace uuid.UUID, window core.Window) ([]core.CategoryTotal, error)

	// DailyTotals sums expense spending per calendar day inside the
	// window. Days without spending are absent from the result.
	DailyTotals(ctx context.Context, workspace uuid.UUID, window core.Window) ([]core.DayTotal, error)

	// Close releases the underlying resources.
	Close() error
}
