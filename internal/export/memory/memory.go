// Package memory provides an in-process report sink for tests and local
// runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finsight/internal/core"
	"finsight/internal/export"
)

// Store collects written reports in memory.
type Store struct {
	mu    sync.Mutex
	items []core.MonthlyReport
}

var _ export.ReportSink = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// WriteMonthlyReport stores the report and returns a synthetic row
// reference.
func (s *Store) WriteMonthlyReport(_ context.Context, report core.MonthlyReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, report)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Reports returns a copy of everything written so far.
func (s *Store) Reports() []core.MonthlyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MonthlyReport(nil), s.items...)
}
