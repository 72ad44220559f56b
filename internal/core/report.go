package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InsightIncrease    InsightKind = "increase"
	InsightDecrease    InsightKind = "decrease"
	InsightNewSpending InsightKind = "new_spending"
	InsightNoSpending  InsightKind = "no_spending"
)

const (
	IntensityNone     Intensity = "none"
	IntensityLow      Intensity = "low"
	IntensityMedium   Intensity = "medium"
	IntensityHigh     Intensity = "high"
	IntensityVeryHigh Intensity = "very_high"
)

type (
	InsightKind string

	// Intensity buckets a day's spending relative to the busiest day of
	// the window, for heatmap rendering.
	Intensity string

	// RecurringExpense is one detected recurring charge for a category.
	RecurringExpense struct {
		CategoryID       int64           `json:"category_id"`
		CategoryName     string          `json:"category_name"`
		CategoryColor    string          `json:"category_color"`
		AverageAmount    decimal.Decimal `json:"average_amount"`
		Frequency        Frequency       `json:"frequency"`
		Occurrences      int             `json:"occurrences"`
		TotalAmount      decimal.Decimal `json:"total_amount"`
		NextExpectedDate *string         `json:"next_expected_date"`
		IsSubscription   bool            `json:"is_subscription"`
	}

	RecurringSummary struct {
		TotalRecurring     int             `json:"total_recurring"`
		TotalMonthlyCost   decimal.Decimal `json:"total_monthly_cost"`
		SubscriptionsCount int             `json:"subscriptions_count"`
	}

	RecurringReport struct {
		Month   string             `json:"month"`
		Range   Window             `json:"month_range"`
		Items   []RecurringExpense `json:"recurring_expenses"`
		Summary RecurringSummary   `json:"summary"`
	}

	// SavingsOpportunity flags a category whose current spend spiked above
	// its historical baseline.
	SavingsOpportunity struct {
		CategoryID       int64           `json:"category_id"`
		CategoryName     string          `json:"category_name"`
		CategoryColor    string          `json:"category_color"`
		CurrentAmount    decimal.Decimal `json:"current_amount"`
		AverageAmount    decimal.Decimal `json:"average_amount"`
		SpikePercentage  decimal.Decimal `json:"spike_percentage"`
		PotentialSavings decimal.Decimal `json:"potential_savings"`
		Message          string          `json:"message"`
	}

	SavingsSummary struct {
		TotalOpportunities    int             `json:"total_opportunities"`
		TotalPotentialSavings decimal.Decimal `json:"total_potential_savings"`
	}

	SavingsReport struct {
		Month   string               `json:"month"`
		Range   Window               `json:"month_range"`
		Items   []SavingsOpportunity `json:"opportunities"`
		Summary SavingsSummary       `json:"summary"`
	}

	// Insight is one significant period-over-period change for a category.
	Insight struct {
		CategoryID       int64           `json:"category_id"`
		CategoryName     string          `json:"category_name"`
		CategoryColor    string          `json:"category_color"`
		InsightType      InsightKind     `json:"insight_type"`
		Message          string          `json:"message"`
		CurrentAmount    decimal.Decimal `json:"current_amount"`
		PreviousAmount   decimal.Decimal `json:"previous_amount"`
		ChangePercentage decimal.Decimal `json:"change_percentage"`
		ChangeAmount     decimal.Decimal `json:"change_amount"`
	}

	InsightSummary struct {
		TotalInsights        int `json:"total_insights"`
		SignificantIncreases int `json:"significant_increases"`
		SignificantDecreases int `json:"significant_decreases"`
	}

	InsightsReport struct {
		Month   string         `json:"month"`
		Range   Window         `json:"month_range"`
		Items   []Insight      `json:"insights"`
		Summary InsightSummary `json:"summary"`
	}

	TrendPoint struct {
		Month            string          `json:"month"`
		Amount           decimal.Decimal `json:"amount"`
		TransactionCount int             `json:"transaction_count"`
	}

	CategoryTrend struct {
		CategoryID       int64           `json:"category_id"`
		CategoryName     string          `json:"category_name"`
		CategoryColor    string          `json:"category_color"`
		Points           []TrendPoint    `json:"trends"`
		ChangePercentage decimal.Decimal `json:"change_percentage"`
	}

	TrendsSummary struct {
		TotalMonths       int `json:"total_months"`
		CategoriesTracked int `json:"categories_tracked"`
	}

	TrendsReport struct {
		Month   string          `json:"month"`
		Items   []CategoryTrend `json:"category_trends"`
		Summary TrendsSummary   `json:"summary"`
	}

	HeatmapCell struct {
		Date             string          `json:"date"`
		Amount           decimal.Decimal `json:"amount"`
		TransactionCount int             `json:"transaction_count"`
		Intensity        Intensity       `json:"intensity"`
	}

	HeatmapSummary struct {
		TotalDays            int             `json:"total_days"`
		DaysWithSpending     int             `json:"days_with_spending"`
		AverageDailySpending decimal.Decimal `json:"average_daily_spending"`
		MaxDailySpending     decimal.Decimal `json:"max_daily_spending"`
		MinDailySpending     decimal.Decimal `json:"min_daily_spending"`
	}

	HeatmapReport struct {
		Month   string         `json:"month"`
		Range   Window         `json:"month_range"`
		Cells   []HeatmapCell  `json:"heatmap"`
		Summary HeatmapSummary `json:"summary"`
	}

	// MonthlyReport bundles every analysis section for one workspace and
	// one anchor month.
	MonthlyReport struct {
		WorkspaceID uuid.UUID       `json:"workspace_id"`
		Month       string          `json:"month"`
		Recurring   RecurringReport `json:"recurring"`
		Savings     SavingsReport   `json:"savings"`
		Insights    InsightsReport  `json:"insights"`
		Trends      TrendsReport    `json:"trends"`
		Heatmap     HeatmapReport   `json:"heatmap"`
	}
)
