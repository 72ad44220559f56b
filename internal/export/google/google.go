// Package google writes monthly reports to a Google Sheets spreadsheet,
// one tab per year, one row per finding.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finsight/internal/cache"
	"finsight/internal/core"
	"finsight/internal/export"
)

const (
	monthLayout = "2006-01"

	// Tab existence rarely changes; remembering it for a while keeps one
	// metadata round trip off every report write.
	tabCacheSize = 16
	tabCacheTTL  = time.Hour
)

// Options carries everything needed to reach one spreadsheet. Credentials
// accept inline JSON or a file path, inline winning when both are set.
type Options struct {
	SpreadsheetID string
	// TabBase is the tab name without the year; written tabs become
	// "<year> <TabBase>".
	TabBase    string
	ClientJSON string
	ClientFile string
	TokenJSON  string
	TokenFile  string
}

// Client appends report rows to year tabs of a single spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	tabBase       string
	knownTabs     *cache.LRUCache[bool]
}

var _ export.ReportSink = (*Client)(nil)

// New builds a Sheets client from user OAuth credentials obtained with
// the sheets-auth command.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	tabBase := strings.TrimSpace(opts.TabBase)
	if tabBase == "" {
		tabBase = "Reports"
	}

	clientSecret, err := readOneOf(opts.ClientJSON, opts.ClientFile, "oauth client")
	if err != nil {
		return nil, err
	}
	oauthCfg, err := oauthgoogle.ConfigFromJSON(clientSecret, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tokenJSON, err := readOneOf(opts.TokenJSON, opts.TokenFile, "oauth token")
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		tabBase:       tabBase,
		knownTabs:     cache.NewLRUCache[bool](tabCacheSize, tabCacheTTL),
	}, nil
}

// WriteMonthlyReport appends the report to the tab of its year, creating
// the tab on first use, and returns the updated range.
func (c *Client) WriteMonthlyReport(ctx context.Context, report core.MonthlyReport) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	month, err := time.Parse(monthLayout, report.Month)
	if err != nil {
		return "", fmt.Errorf("parse report month %q: %w", report.Month, err)
	}

	tab := yearTabName(c.tabBase, month.Year())
	if err := c.ensureTab(ctx, tab); err != nil {
		return "", err
	}

	vr := &gsheet.ValueRange{Values: reportRows(report)}
	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, fmt.Sprintf("%s!A:K", tab), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", tab, err)
	}

	ref := tab
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// ensureTab makes sure the tab exists, consulting the local cache before
// the spreadsheet metadata.
func (c *Client) ensureTab(ctx context.Context, tab string) error {
	if _, ok := c.knownTabs.Get(tab); ok {
		return nil
	}

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tab {
			c.knownTabs.Set(tab, true)
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: tab},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create tab %s: %w", tab, err)
	}
	c.knownTabs.Set(tab, true)
	return nil
}

// InvalidateTabCache drops the cached tab names, forcing the next write
// to re-check the spreadsheet. Useful after tabs are renamed by hand.
func (c *Client) InvalidateTabCache() {
	c.knownTabs = cache.NewLRUCache[bool](tabCacheSize, tabCacheTTL)
}

// reportRows flattens a monthly report into sheet rows. The first row
// summarizes the month; every finding follows as its own row tagged with
// a kind column, so a whole year of reports stays filterable in place.
func reportRows(report core.MonthlyReport) [][]any {
	ws := report.WorkspaceID.String()
	rows := [][]any{{
		report.Month, ws, "summary",
		report.Recurring.Summary.TotalRecurring,
		report.Recurring.Summary.TotalMonthlyCost.StringFixed(2),
		report.Savings.Summary.TotalOpportunities,
		report.Savings.Summary.TotalPotentialSavings.StringFixed(2),
		report.Insights.Summary.TotalInsights,
		report.Heatmap.Summary.DaysWithSpending,
		report.Heatmap.Summary.MaxDailySpending.StringFixed(2),
	}}

	for _, r := range report.Recurring.Items {
		next := ""
		if r.NextExpectedDate != nil {
			next = *r.NextExpectedDate
		}
		rows = append(rows, []any{
			report.Month, ws, "recurring",
			r.CategoryName, string(r.Frequency), r.Occurrences,
			r.AverageAmount.StringFixed(2), r.TotalAmount.StringFixed(2),
			next, r.IsSubscription,
		})
	}
	for _, o := range report.Savings.Items {
		rows = append(rows, []any{
			report.Month, ws, "savings",
			o.CategoryName, o.CurrentAmount.StringFixed(2), o.AverageAmount.StringFixed(2),
			o.SpikePercentage.StringFixed(2), o.PotentialSavings.StringFixed(2),
			o.Message,
		})
	}
	for _, i := range report.Insights.Items {
		rows = append(rows, []any{
			report.Month, ws, "insight",
			i.CategoryName, string(i.InsightType),
			i.CurrentAmount.StringFixed(2), i.PreviousAmount.StringFixed(2),
			i.ChangePercentage.StringFixed(2), i.ChangeAmount.StringFixed(2),
			i.Message,
		})
	}
	return rows
}

// yearTabName returns "<year> <base>" unless base already starts with a
// 4-digit year.
func yearTabName(base string, year int) string {
	base = strings.TrimSpace(base)
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

// readOneOf resolves inline-or-file credential material.
func readOneOf(inline, file, what string) ([]byte, error) {
	switch {
	case strings.TrimSpace(inline) != "":
		return []byte(inline), nil
	case strings.TrimSpace(file) != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s file: %w", what, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("missing %s (set the inline JSON or file variable)", what)
	}
}
