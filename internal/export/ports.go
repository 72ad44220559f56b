// Package export defines where finished monthly reports can be written,
// with Google Sheets and in-memory implementations in subpackages.
package export

import (
	"context"

	"finsight/internal/core"
)

// ReportSink appends one monthly report to a destination and returns an
// implementation-specific reference to where it landed, e.g. a sheet
// range or a synthetic row id.
type ReportSink interface {
	WriteMonthlyReport(ctx context.Context, report core.MonthlyReport) (string, error)
}
