// Package services composes the transaction source, the calendar and the
// analysis engine into per-feature reports for one workspace and one
// anchor month.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finsight/internal/analysis"
	"finsight/internal/calendar"
	"finsight/internal/core"
	"finsight/internal/source"
)

// ReportService fetches windowed data from the source and runs the
// analysis passes over it. The service holds no per-request state, so one
// instance serves concurrent report builds.
type ReportService struct {
	source source.TransactionSource
	ranger calendar.Ranger
	engine *analysis.Engine
	cfg    analysis.Config
}

// NewReportService validates the analysis configuration and wires the
// service. The configuration also drives window selection, so an invalid
// one is rejected here rather than surfacing mid-report.
func NewReportService(src source.TransactionSource, ranger calendar.Ranger, cfg analysis.Config) (*ReportService, error) {
	engine, err := analysis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("new report service: %w", err)
	}
	return &ReportService{
		source: src,
		ranger: ranger,
		engine: engine,
		cfg:    cfg,
	}, nil
}

// RecurringReport detects recurring charges over the configured lookback
// span ending with the anchor month. Every expense category is evaluated
// on its own transactions; parent and child categories are independent
// candidates.
func (s *ReportService) RecurringReport(ctx context.Context, workspace uuid.UUID, anchor time.Time) (core.RecurringReport, error) {
	month := s.ranger.Month(anchor, 0)
	span := s.ranger.Span(anchor, s.cfg.RecurringLookbackMonths)

	categories, err := s.source.Categories(ctx, core.KindExpense)
	if err != nil {
		return core.RecurringReport{}, fmt.Errorf("list expense categories: %w", err)
	}

	items := make([]analysis.CategoryTransactions, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range categories {
		i, cat := i, cat
		g.Go(func() error {
			txs, err := s.source.ListTransactions(gctx, workspace, cat.ID, span)
			if err != nil {
				return fmt.Errorf("list transactions for %q: %w", cat.Name, err)
			}
			items[i] = analysis.CategoryTransactions{Category: cat, Transactions: txs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.RecurringReport{}, err
	}

	found, summary := s.engine.RecurringExpenses(items)
	return core.RecurringReport{
		Month:   month.Label,
		Range:   month,
		Items:   found,
		Summary: summary,
	}, nil
}

// SavingsReport compares the anchor month's spend per root category
// against the mean of the configured number of preceding months. Months
// where a category had no spending still feed the baseline as zeros.
func (s *ReportService) SavingsReport(ctx context.Context, workspace uuid.UUID, anchor time.Time) (core.SavingsReport, error) {
	month := s.ranger.Month(anchor, 0)
	baseline := s.ranger.Preceding(anchor, s.cfg.BaselineLookbackMonths)

	roots, err := s.rootCategories(ctx)
	if err != nil {
		return core.SavingsReport{}, err
	}

	windows := append([]core.Window{month}, baseline...)
	totals, err := s.rootTotalsPerWindow(ctx, workspace, windows)
	if err != nil {
		return core.SavingsReport{}, err
	}
	current, history := totals[0], totals[1:]

	items := make([]analysis.CategoryHistory, 0, len(roots))
	for _, root := range roots {
		h := make([]decimal.Decimal, len(history))
		for i, m := range history {
			h[i] = m[root.ID].Total
		}
		items = append(items, analysis.CategoryHistory{
			Category: root,
			Current:  current[root.ID].Total,
			History:  h,
		})
	}

	opportunities, summary := s.engine.SavingsOpportunities(items)
	return core.SavingsReport{
		Month:   month.Label,
		Range:   month,
		Items:   opportunities,
		Summary: summary,
	}, nil
}

// InsightsReport classifies the change per root category between the
// anchor month and the month before it.
func (s *ReportService) InsightsReport(ctx context.Context, workspace uuid.UUID, anchor time.Time) (core.InsightsReport, error) {
	month := s.ranger.Month(anchor, 0)
	previous := s.ranger.Month(anchor, -1)

	roots, err := s.rootCategories(ctx)
	if err != nil {
		return core.InsightsReport{}, err
	}

	totals, err := s.rootTotalsPerWindow(ctx, workspace, []core.Window{month, previous})
	if err != nil {
		return core.InsightsReport{}, err
	}

	pairs := make([]analysis.CategoryPair, 0, len(roots))
	for _, root := range roots {
		pairs = append(pairs, analysis.CategoryPair{
			Category: root,
			Current:  totals[0][root.ID].Total,
			Previous: totals[1][root.ID].Total,
		})
	}

	insights, summary := s.engine.SpendingInsights(pairs)
	return core.InsightsReport{
		Month:   month.Label,
		Range:   month,
		Items:   insights,
		Summary: summary,
	}, nil
}

// TrendsReport builds per-root spending series over the configured number
// of trailing months ending with the anchor month.
func (s *ReportService) TrendsReport(ctx context.Context, workspace uuid.UUID, anchor time.Time) (core.TrendsReport, error) {
	month := s.ranger.Month(anchor, 0)
	windows := s.ranger.Trailing(anchor, s.cfg.TrendMonths)

	roots, err := s.rootCategories(ctx)
	if err != nil {
		return core.TrendsReport{}, err
	}

	totals, err := s.rootTotalsPerWindow(ctx, workspace, windows)
	if err != nil {
		return core.TrendsReport{}, err
	}

	series := make([]analysis.CategoryMonths, 0, len(roots))
	for _, root := range roots {
		months := make([]analysis.MonthTotal, len(windows))
		for i, w := range windows {
			t := totals[i][root.ID]
			months[i] = analysis.MonthTotal{Label: w.Label, Amount: t.Total, Count: t.Count}
		}
		series = append(series, analysis.CategoryMonths{Category: root, Months: months})
	}

	trends, summary := s.engine.CategoryTrends(series)
	return core.TrendsReport{
		Month:   month.Label,
		Items:   trends,
		Summary: summary,
	}, nil
}

// HeatmapReport expands the anchor month's daily totals into one cell per
// calendar day.
func (s *ReportService) HeatmapReport(ctx context.Context, workspace uuid.UUID, anchor time.Time) (core.HeatmapReport, error) {
	month := s.ranger.Month(anchor, 0)

	days, err := s.source.DailyTotals(ctx, workspace, month)
	if err != nil {
		return core.HeatmapReport{}, fmt.Errorf("daily totals for %s: %w", month.Label, err)
	}

	cells, summary := s.engine.DailyHeatmap(month, days)
	return core.HeatmapReport{
		Month:   month.Label,
		Range:   month,
		Cells:   cells,
		Summary: summary,
	}, nil
}

// MonthlyReport assembles every section for one workspace, building the
// sections concurrently. The first failing section cancels the rest.
func (s *ReportService) MonthlyReport(ctx context.Context, workspace uuid.UUID, anchor time.Time) (core.MonthlyReport, error) {
	report := core.MonthlyReport{
		WorkspaceID: workspace,
		Month:       s.ranger.Month(anchor, 0).Label,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.Recurring, err = s.RecurringReport(gctx, workspace, anchor)
		return err
	})
	g.Go(func() (err error) {
		report.Savings, err = s.SavingsReport(gctx, workspace, anchor)
		return err
	})
	g.Go(func() (err error) {
		report.Insights, err = s.InsightsReport(gctx, workspace, anchor)
		return err
	})
	g.Go(func() (err error) {
		report.Trends, err = s.TrendsReport(gctx, workspace, anchor)
		return err
	})
	g.Go(func() (err error) {
		report.Heatmap, err = s.HeatmapReport(gctx, workspace, anchor)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MonthlyReport{}, fmt.Errorf("monthly report for workspace %s: %w", workspace, err)
	}

	return report, nil
}

// rootCategories returns the expense categories without a parent, in id
// order. Rollup totals are keyed by these ids.
func (s *ReportService) rootCategories(ctx context.Context) ([]core.Category, error) {
	categories, err := s.source.Categories(ctx, core.KindExpense)
	if err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	roots := make([]core.Category, 0, len(categories))
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	return roots, nil
}

// rootTotalsPerWindow fetches rollup totals for each window concurrently
// and indexes them by root category id. Roots without spending in a
// window are simply absent; the zero value stands in for them.
func (s *ReportService) rootTotalsPerWindow(ctx context.Context, workspace uuid.UUID, windows []core.Window) ([]map[int64]core.CategoryTotal, error) {
	totals := make([]map[int64]core.CategoryTotal, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			rows, err := s.source.RootCategoryTotals(gctx, workspace, w)
			if err != nil {
				return fmt.Errorf("root totals for %s: %w", w.Label, err)
			}
			byID := make(map[int64]core.CategoryTotal, len(rows))
			for _, row := range rows {
				byID[row.CategoryID] = row
			}
			totals[i] = byID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return totals, nil
}
