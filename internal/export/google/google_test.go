package google

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

const validClientJSON = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`

func TestNewMissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing spreadsheet id" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewMissingClientCredentials(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "test-id"})
	if err == nil {
		t.Fatal("expected error for missing oauth client")
	}
	if !strings.Contains(err.Error(), "missing oauth client") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewRejectsInvalidClientJSON(t *testing.T) {
	_, err := New(context.Background(), Options{
		SpreadsheetID: "test-id",
		ClientJSON:    "invalid-json",
		TokenJSON:     `{"access_token":"test"}`,
	})
	if err == nil {
		t.Fatal("expected error with invalid client JSON")
	}
	if !strings.Contains(err.Error(), "oauth config") {
		t.Errorf("expected oauth config error, got: %v", err)
	}
}

func TestNewMissingToken(t *testing.T) {
	_, err := New(context.Background(), Options{
		SpreadsheetID: "test-id",
		ClientJSON:    validClientJSON,
	})
	if err == nil {
		t.Fatal("expected error for missing oauth token")
	}
	if !strings.Contains(err.Error(), "missing oauth token") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewWithInlineCredentials(t *testing.T) {
	c, err := New(context.Background(), Options{
		SpreadsheetID: "test-id",
		ClientJSON:    validClientJSON,
		TokenJSON:     `{"access_token":"test","token_type":"Bearer"}`,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.tabBase != "Reports" {
		t.Errorf("default tab base = %s, want Reports", c.tabBase)
	}
}

func TestWriteMonthlyReportRequiresService(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	_, err := c.WriteMonthlyReport(context.Background(), core.MonthlyReport{Month: "2026-08"})
	if err == nil || err.Error() != "sheets service not initialized" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWriteMonthlyReportRejectsBadMonth(t *testing.T) {
	c, err := New(context.Background(), Options{
		SpreadsheetID: "test-id",
		ClientJSON:    validClientJSON,
		TokenJSON:     `{"access_token":"test"}`,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.WriteMonthlyReport(context.Background(), core.MonthlyReport{Month: "August 2026"})
	if err == nil || !strings.Contains(err.Error(), "parse report month") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvalidateTabCache(t *testing.T) {
	c, err := New(context.Background(), Options{
		SpreadsheetID: "test-id",
		ClientJSON:    validClientJSON,
		TokenJSON:     `{"access_token":"test"}`,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.knownTabs.Set("2026 Reports", true)
	c.InvalidateTabCache()
	if _, ok := c.knownTabs.Get("2026 Reports"); ok {
		t.Error("tab cache should be empty after invalidation")
	}
}

func TestYearTabName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Reports", 2026, "2026 Reports"},
		{"  Reports  ", 2026, "2026 Reports"},
		{"2025 Reports", 2026, "2025 Reports"},
		{"1850 Ledger", 2026, "2026 1850 Ledger"},
	}
	for _, tt := range tests {
		if got := yearTabName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearTabName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestReportRows(t *testing.T) {
	next := "2026-09-08"
	report := core.MonthlyReport{
		WorkspaceID: uuid.MustParse("2b1f8a54-9c5e-4b19-9f6d-0a1b2c3d4e5f"),
		Month:       "2026-08",
		Recurring: core.RecurringReport{
			Items: []core.RecurringExpense{{
				CategoryName:     "Streaming",
				Frequency:        core.FrequencyMonthly,
				Occurrences:      3,
				AverageAmount:    decimal.RequireFromString("9.99"),
				TotalAmount:      decimal.RequireFromString("29.97"),
				NextExpectedDate: &next,
				IsSubscription:   true,
			}},
			Summary: core.RecurringSummary{TotalRecurring: 1, TotalMonthlyCost: decimal.RequireFromString("9.99"), SubscriptionsCount: 1},
		},
		Savings: core.SavingsReport{
			Items: []core.SavingsOpportunity{{
				CategoryName:     "Dining",
				CurrentAmount:    decimal.RequireFromString("150"),
				AverageAmount:    decimal.RequireFromString("100"),
				SpikePercentage:  decimal.RequireFromString("50"),
				PotentialSavings: decimal.RequireFromString("50"),
				Message:          "Dining spending is 50% above average. Potential savings: 50.00",
			}},
			Summary: core.SavingsSummary{TotalOpportunities: 1, TotalPotentialSavings: decimal.RequireFromString("50")},
		},
		Insights: core.InsightsReport{
			Items: []core.Insight{{
				CategoryName:     "Hobby",
				InsightType:      core.InsightNewSpending,
				CurrentAmount:    decimal.RequireFromString("30"),
				PreviousAmount:   decimal.Zero,
				ChangePercentage: decimal.Zero,
				ChangeAmount:     decimal.RequireFromString("30"),
				Message:          "You started spending on Hobby this month (30.00)",
			}},
			Summary: core.InsightSummary{TotalInsights: 1},
		},
	}

	rows := reportRows(report)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (summary + one per finding)", len(rows))
	}

	summary := rows[0]
	if summary[0] != "2026-08" || summary[2] != "summary" {
		t.Errorf("summary row = %v", summary)
	}
	if summary[4] != "9.99" || summary[6] != "50.00" {
		t.Errorf("summary amounts = %v", summary)
	}

	recurring := rows[1]
	if recurring[2] != "recurring" || recurring[3] != "Streaming" || recurring[8] != "2026-09-08" {
		t.Errorf("recurring row = %v", recurring)
	}
	if recurring[9] != true {
		t.Errorf("recurring subscription flag = %v", recurring[9])
	}

	savings := rows[2]
	if savings[2] != "savings" || savings[7] != "50.00" {
		t.Errorf("savings row = %v", savings)
	}

	insight := rows[3]
	if insight[2] != "insight" || insight[4] != "new_spending" {
		t.Errorf("insight row = %v", insight)
	}

	// Every row carries month and workspace so a year tab stays filterable.
	for i, row := range rows {
		if row[0] != "2026-08" || row[1] != report.WorkspaceID.String() {
			t.Errorf("row %d missing month/workspace prefix: %v", i, row)
		}
	}
}

func TestReadOneOfPrefersInline(t *testing.T) {
	b, err := readOneOf("inline-data", "/does/not/exist", "oauth client")
	if err != nil {
		t.Fatalf("readOneOf: %v", err)
	}
	if string(b) != "inline-data" {
		t.Errorf("got %q", b)
	}
}
