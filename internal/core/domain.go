package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyBiWeekly  Frequency = "bi-weekly"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyIrregular Frequency = "irregular"
	FrequencyUnknown   Frequency = "unknown"
)

const (
	KindExpense CategoryKind = "expense"
	KindIncome  CategoryKind = "income"
)

type (
	Frequency string

	CategoryKind string

	Workspace struct {
		ID   uuid.UUID
		Name string
	}

	Category struct {
		ID       int64
		Name     string
		Color    string
		Kind     CategoryKind
		ParentID *int64
	}

	Transaction struct {
		ID          int64
		WorkspaceID uuid.UUID
		CategoryID  int64
		Amount      decimal.Decimal
		OccurredAt  time.Time
		Note        string
	}

	// Window is a half-open [Start, End) interval. Label carries the
	// display form of the period, e.g. "2026-08".
	Window struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
		Label string    `json:"label"`
	}

	// CategoryTotal is an aggregate for one category over one window.
	CategoryTotal struct {
		CategoryID int64
		Name       string
		Color      string
		Total      decimal.Decimal
		Count      int
	}

	// DayTotal is an aggregate for one calendar day.
	DayTotal struct {
		Date  time.Time
		Total decimal.Decimal
		Count int
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid category kind")
	ErrInvalidWindow    = errors.New("invalid window")
	ErrInvalidConfig    = errors.New("invalid analysis configuration")
	ErrEmptyName        = errors.New("empty name")
	ErrUnknownWorkspace = errors.New("unknown workspace")
)

// Valid reports whether f is one of the defined frequency labels.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyBiWeekly, FrequencyWeekly,
		FrequencyQuarterly, FrequencyIrregular, FrequencyUnknown:
		return true
	default:
		return false
	}
}

// SubscriptionLike reports whether the frequency indicates a subscription.
// Monthly, bi-weekly and quarterly patterns count; weekly and irregular
// spending does not.
func (f Frequency) SubscriptionLike() bool {
	switch f {
	case FrequencyMonthly, FrequencyBiWeekly, FrequencyQuarterly:
		return true
	default:
		return false
	}
}

func (k CategoryKind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidWindow
	}
	if !w.End.After(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.WorkspaceID == uuid.Nil {
		return ErrUnknownWorkspace
	}
	if t.CategoryID == 0 {
		return errors.New("transaction has no category")
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.OccurredAt.IsZero() {
		return errors.New("transaction has no occurrence time")
	}
	return nil
}
