// Command finsight runs the spending analysis once and prints the result
// as JSON on stdout. Logs go to stderr so the output stays pipeable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"finsight/internal/calendar"
	"finsight/internal/cli"
	"finsight/internal/core"
	"finsight/internal/log"
	"finsight/internal/services"
	"finsight/internal/source"
)

const monthLayout = "2006-01"

// workspaceReport attributes a report to its workspace when the command
// runs over every workspace at once.
type workspaceReport struct {
	WorkspaceID   uuid.UUID `json:"workspace_id"`
	WorkspaceName string    `json:"workspace_name"`
	Report        any       `json:"report"`
}

func main() {
	monthFlag := flag.String("month", "", "report month in YYYY-MM form (default: current month)")
	workspaceFlag := flag.String("workspace", "", "workspace name or id (default: every workspace)")
	reportFlag := flag.String("report", "monthly", "report to produce: monthly, recurring, savings, insights, trends or heatmap")
	flag.Parse()

	cfg, logger := cli.Bootstrap(os.Stderr)

	anchor, err := parseMonth(*monthFlag, time.Now())
	if err != nil {
		logger.Error("Invalid month flag", log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	res := cli.InitSource(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Source cleanup failed", log.FieldError, err)
		}
	}()

	reports, err := services.NewReportService(res.Source, calendar.Gregorian{}, cfg.AnalysisConfig())
	if err != nil {
		logger.Error("Failed to initialize report service", log.FieldError, err)
		os.Exit(1)
	}

	workspaces, err := resolveWorkspaces(ctx, res.Source, *workspaceFlag)
	if err != nil {
		logger.Error("Failed to resolve workspaces", log.FieldError, err)
		os.Exit(1)
	}

	out := make([]workspaceReport, 0, len(workspaces))
	for _, ws := range workspaces {
		report, err := buildReport(ctx, reports, *reportFlag, ws.ID, anchor)
		if err != nil {
			logger.Error("Report failed",
				log.FieldWorkspace, ws.ID.String(),
				log.FieldError, err)
			os.Exit(1)
		}
		out = append(out, workspaceReport{WorkspaceID: ws.ID, WorkspaceName: ws.Name, Report: report})
	}

	// A named workspace prints the bare report; the all-workspaces form
	// wraps each report with its workspace for attribution.
	var payload any = out
	if *workspaceFlag != "" && len(out) == 1 {
		payload = out[0].Report
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		logger.Error("Failed to encode report", log.FieldError, err)
		os.Exit(1)
	}
}

// parseMonth interprets the -month flag, defaulting to now. An explicit
// value anchors the analysis to the first day of that month.
func parseMonth(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	t, err := time.Parse(monthLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q (want YYYY-MM): %w", value, err)
	}
	return t, nil
}

// resolveWorkspaces turns the -workspace flag into the list of workspaces
// to report on. An empty selector means every workspace; otherwise the
// selector matches a workspace id or, case-insensitively, a name.
func resolveWorkspaces(ctx context.Context, src source.TransactionSource, selector string) ([]core.Workspace, error) {
	workspaces, err := src.Workspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	if selector == "" {
		return workspaces, nil
	}
	if id, err := uuid.Parse(selector); err == nil {
		for _, ws := range workspaces {
			if ws.ID == id {
				return []core.Workspace{ws}, nil
			}
		}
	}
	for _, ws := range workspaces {
		if strings.EqualFold(ws.Name, selector) {
			return []core.Workspace{ws}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnknownWorkspace, selector)
}

func buildReport(ctx context.Context, reports *services.ReportService, kind string, workspace uuid.UUID, anchor time.Time) (any, error) {
	switch kind {
	case "monthly":
		return reports.MonthlyReport(ctx, workspace, anchor)
	case "recurring":
		return reports.RecurringReport(ctx, workspace, anchor)
	case "savings":
		return reports.SavingsReport(ctx, workspace, anchor)
	case "insights":
		return reports.InsightsReport(ctx, workspace, anchor)
	case "trends":
		return reports.TrendsReport(ctx, workspace, anchor)
	case "heatmap":
		return reports.HeatmapReport(ctx, workspace, anchor)
	default:
		return nil, fmt.Errorf("unknown report %q (want monthly, recurring, savings, insights, trends or heatmap)", kind)
	}
}
