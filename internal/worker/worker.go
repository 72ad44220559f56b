// Package worker runs the scheduled analysis across every workspace and
// fans the findings out to alert publishing and report export.
package worker

import (
	"context"
	"fmt"
	"time"

	"finsight/internal/amqp"
	"finsight/internal/cache"
	"finsight/internal/core"
	"finsight/internal/export"
	"finsight/internal/log"
	"finsight/internal/services"
	"finsight/internal/source"
	"finsight/internal/trace"
)

// defaultDedupKeys bounds the suppression cache. A key is one category
// alert in one month, so even a crowded instance stays far below this.
const defaultDedupKeys = 4096

// AlertPublisher is the slice of the AMQP client the worker needs.
type AlertPublisher interface {
	PublishSpendingAlert(ctx context.Context, msg *amqp.SpendingAlertMessage) error
}

// RunStats summarizes one analysis pass.
type RunStats struct {
	Workspaces       int
	AlertsSent       int
	AlertsSuppressed int
	Exports          int
}

// AnalysisWorker builds monthly reports per workspace, publishes one
// alert per noteworthy finding and optionally exports the full report.
// Publisher and sink may be nil; the worker then only logs its runs.
type AnalysisWorker struct {
	source    source.TransactionSource
	reports   *services.ReportService
	publisher AlertPublisher
	sink      export.ReportSink
	dedup     *cache.Deduper
	metrics   trace.Metrics
}

func New(src source.TransactionSource, reports *services.ReportService, publisher AlertPublisher, sink export.ReportSink, dedupTTL time.Duration) *AnalysisWorker {
	return &AnalysisWorker{
		source:    src,
		reports:   reports,
		publisher: publisher,
		sink:      sink,
		dedup:     cache.NewDeduper(defaultDedupKeys, dedupTTL),
	}
}

// RunOnce analyzes every workspace for the month containing now. A
// failing workspace is logged and skipped so one bad workspace cannot
// starve the rest; only a failing workspace listing aborts the run.
func (w *AnalysisWorker) RunOnce(ctx context.Context, now time.Time) (RunStats, error) {
	runID := trace.NewRunID()
	logger := log.FromContext(ctx).WithComponent(log.ComponentWorker).With(log.FieldRunID, runID)
	ctx = log.IntoContext(trace.WithRunID(ctx, runID), logger)
	start := time.Now()

	workspaces, err := w.source.Workspaces(ctx)
	if err != nil {
		return RunStats{}, fmt.Errorf("list workspaces: %w", err)
	}

	stats := RunStats{Workspaces: len(workspaces)}
	for _, ws := range workspaces {
		report, err := w.reports.MonthlyReport(ctx, ws.ID, now)
		if err != nil {
			logger.ErrorContext(ctx, "Monthly report failed", log.NewFields().
				WithWorkspace(ws.Name).
				WithError(err).
				ToSlice()...)
			continue
		}

		sent, suppressed := w.publishAlerts(ctx, report)
		stats.AlertsSent += sent
		stats.AlertsSuppressed += suppressed

		if w.sink != nil {
			ref, err := w.sink.WriteMonthlyReport(ctx, report)
			if err != nil {
				logger.ErrorContext(ctx, "Report export failed", log.NewFields().
					WithOperation(log.OpExport).
					WithWorkspace(ws.Name).
					WithMonth(report.Month).
					WithError(err).
					ToSlice()...)
			} else {
				stats.Exports++
				logger.InfoContext(ctx, "Report exported",
					log.FieldWorkspace, ws.Name,
					log.FieldMonth, report.Month,
					log.FieldSheetsRef, ref)
			}
		}
	}

	elapsed := time.Since(start)
	w.metrics.RecordRun(elapsed)
	logger.InfoContext(ctx, "Analysis run complete",
		log.FieldOperation, log.OpAnalyze,
		"workspaces", stats.Workspaces,
		"alerts_sent", stats.AlertsSent,
		"alerts_suppressed", stats.AlertsSuppressed,
		"exports", stats.Exports,
		log.FieldDuration, elapsed)

	return stats, nil
}

// publishAlerts sends one message per finding, skipping findings already
// alerted within the suppression window. A failed publish forgets its
// key so the next run retries it.
func (w *AnalysisWorker) publishAlerts(ctx context.Context, report core.MonthlyReport) (sent, suppressed int) {
	if w.publisher == nil {
		return 0, 0
	}

	logger := log.FromContext(ctx)
	for _, msg := range alertMessages(report) {
		key := msg.DedupKey()
		if !w.dedup.FirstSight(key) {
			suppressed++
			continue
		}
		if err := w.publisher.PublishSpendingAlert(ctx, msg); err != nil {
			w.dedup.Forget(key)
			logger.ErrorContext(ctx, "Failed to publish spending alert", log.NewFields().
				WithOperation(log.OpPublish).
				WithAlert(msg.Kind, msg.Category, msg.Amount.StringFixed(2)).
				WithError(err).
				ToSlice()...)
			continue
		}
		sent++
	}
	return sent, suppressed
}

// alertMessages flattens a report's noteworthy findings: every savings
// opportunity and every significant insight becomes one message.
func alertMessages(report core.MonthlyReport) []*amqp.SpendingAlertMessage {
	var out []*amqp.SpendingAlertMessage
	for _, o := range report.Savings.Items {
		out = append(out, amqp.NewSpendingAlertMessage(
			report.WorkspaceID, report.Month, amqp.KindSavingsOpportunity,
			o.CategoryID, o.CategoryName, o.PotentialSavings, o.Message))
	}
	for _, i := range report.Insights.Items {
		out = append(out, amqp.NewSpendingAlertMessage(
			report.WorkspaceID, report.Month, string(i.InsightType),
			i.CategoryID, i.CategoryName, i.ChangeAmount, i.Message))
	}
	return out
}

// DedupCache exposes the suppression cache so the binary can register
// it for periodic expiry sweeps.
func (w *AnalysisWorker) DedupCache() cache.Cleaner {
	return w.dedup
}

// Metrics exposes the run counters for status logging.
func (w *AnalysisWorker) Metrics() *trace.Metrics {
	return &w.metrics
}
