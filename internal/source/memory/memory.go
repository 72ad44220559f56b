// Package memory provides an in-memory transaction source seeded from CSV
// files. It backs tests and the demo backend where no database is wanted.
package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"finsight/internal/core"
	"finsight/internal/source"
)

const (
	defaultColor   = "#8884d8"
	seedFileName   = "transactions.csv"
	seedDateLayout = "2006-01-02"
)

// csvHeader is the required first row of a seed file.
var csvHeader = []string{"workspace", "category", "parent", "amount", "occurred_at", "note"}

var _ source.TransactionSource = (*Store)(nil)

// Store keeps workspaces, categories and transactions in process memory.
// Identifiers are assigned on insert, so parents always precede children.
type Store struct {
	mu           sync.RWMutex
	workspaces   map[uuid.UUID]core.Workspace
	categories   map[int64]core.Category
	transactions []core.Transaction
	nextCategory int64
	nextTx       int64
}

func New() *Store {
	return &Store{
		workspaces: map[uuid.UUID]core.Workspace{},
		categories: map[int64]core.Category{},
	}
}

// NewFromDir builds a store seeded from transactions.csv under base.
// A missing seed file yields an empty store.
func NewFromDir(base string) (*Store, error) {
	s := New()
	if err := s.LoadCSVFile(filepath.Join(base, seedFileName)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	return s, nil
}

// WorkspaceID derives a stable identifier from a workspace name, so
// repeated seed loads address the same workspace.
func WorkspaceID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}

// AddWorkspace registers a workspace, replacing any previous entry with
// the same identifier.
func (s *Store) AddWorkspace(ws core.Workspace) error {
	if ws.ID == uuid.Nil {
		return core.ErrUnknownWorkspace
	}
	if strings.TrimSpace(ws.Name) == "" {
		return core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[ws.ID] = ws
	return nil
}

// AddCategory stores a category and returns its assigned identifier. The
// identifier on the argument is ignored.
func (s *Store) AddCategory(c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ParentID != nil {
		if _, ok := s.categories[*c.ParentID]; !ok {
			return 0, fmt.Errorf("parent category %d not found", *c.ParentID)
		}
	}
	if c.Color == "" {
		c.Color = defaultColor
	}
	s.nextCategory++
	c.ID = s.nextCategory
	s.categories[c.ID] = c
	return c.ID, nil
}

// AddTransaction stores a transaction and returns its assigned identifier.
func (s *Store) AddTransaction(tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[tx.WorkspaceID]; !ok {
		return 0, fmt.Errorf("%w: %s", core.ErrUnknownWorkspace, tx.WorkspaceID)
	}
	if _, ok := s.categories[tx.CategoryID]; !ok {
		return 0, fmt.Errorf("category %d not found", tx.CategoryID)
	}
	s.nextTx++
	tx.ID = s.nextTx
	s.transactions = append(s.transactions, tx)
	return tx.ID, nil
}

func (s *Store) Workspaces(_ context.Context) ([]core.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) Categories(_ context.Context, kind core.CategoryKind) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Category
	for _, c := range s.categories {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context, workspace uuid.UUID, categoryID int64, window core.Window) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.WorkspaceID != workspace || tx.CategoryID != categoryID {
			continue
		}
		if !window.Contains(tx.OccurredAt) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) RootCategoryTotals(_ context.Context, workspace uuid.UUID, window core.Window) ([]core.CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := map[int64]*core.CategoryTotal{}
	for _, tx := range s.transactions {
		if tx.WorkspaceID != workspace || !window.Contains(tx.OccurredAt) {
			continue
		}
		rootID, ok := s.rootOf(tx.CategoryID)
		if !ok {
			continue
		}
		t, ok := totals[rootID]
		if !ok {
			root := s.categories[rootID]
			t = &core.CategoryTotal{CategoryID: rootID, Name: root.Name, Color: root.Color}
			totals[rootID] = t
		}
		t.Total = t.Total.Add(tx.Amount)
		t.Count++
	}
	out := make([]core.CategoryTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (s *Store) DailyTotals(_ context.Context, workspace uuid.UUID, window core.Window) ([]core.DayTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := map[time.Time]*core.DayTotal{}
	for _, tx := range s.transactions {
		if tx.WorkspaceID != workspace || !window.Contains(tx.OccurredAt) {
			continue
		}
		if c, ok := s.categories[tx.CategoryID]; !ok || c.Kind != core.KindExpense {
			continue
		}
		day := civilDay(tx.OccurredAt)
		t, ok := totals[day]
		if !ok {
			t = &core.DayTotal{Date: day}
			totals[day] = t
		}
		t.Total = t.Total.Add(tx.Amount)
		t.Count++
	}
	out := make([]core.DayTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Close implements source.TransactionSource; there is nothing to release.
func (s *Store) Close() error { return nil }

// rootOf resolves the top-level ancestor of a category. The walk only
// crosses expense categories; spending reachable through an income
// category is not rolled up.
func (s *Store) rootOf(id int64) (int64, bool) {
	for {
		c, ok := s.categories[id]
		if !ok || c.Kind != core.KindExpense {
			return 0, false
		}
		if c.ParentID == nil {
			return c.ID, true
		}
		id = *c.ParentID
	}
}

func civilDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LoadCSVFile seeds the store from a CSV file at path.
func (s *Store) LoadCSVFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	if err := s.LoadCSV(f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadCSV seeds the store from CSV rows of the form
//
//	workspace,category,parent,amount,occurred_at,note
//
// Workspaces and categories are created on first sight; a non-empty
// parent names a root category the row's category is filed under.
// Amounts accept a comma or dot decimal separator, dates are
// YYYY-MM-DD. Seeded categories are always expense categories.
func (s *Store) LoadCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read seed header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(csvHeader, ",") {
		return fmt.Errorf("unexpected seed header %q", strings.Join(header, ","))
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read seed row: %w", err)
		}
		if err := s.addSeedRow(record); err != nil {
			return fmt.Errorf("seed row %d: %w", line, err)
		}
	}
}

func (s *Store) addSeedRow(record []string) error {
	wsName := strings.TrimSpace(record[0])
	ws := core.Workspace{ID: WorkspaceID(wsName), Name: wsName}
	if err := s.AddWorkspace(ws); err != nil {
		return err
	}

	categoryID, err := s.ensureCategory(strings.TrimSpace(record[1]), strings.TrimSpace(record[2]))
	if err != nil {
		return err
	}

	amount, err := core.ParseAmount(record[3])
	if err != nil {
		return err
	}
	occurredAt, err := time.Parse(seedDateLayout, strings.TrimSpace(record[4]))
	if err != nil {
		return fmt.Errorf("parse occurred_at: %w", err)
	}

	_, err = s.AddTransaction(core.Transaction{
		WorkspaceID: ws.ID,
		CategoryID:  categoryID,
		Amount:      amount,
		OccurredAt:  occurredAt,
		Note:        strings.TrimSpace(record[5]),
	})
	return err
}

// ensureCategory finds or creates an expense category by name under the
// named parent. An empty parent means the category is itself a root.
func (s *Store) ensureCategory(name, parent string) (int64, error) {
	if name == "" {
		return 0, core.ErrEmptyName
	}
	var parentID *int64
	if parent != "" {
		id, err := s.ensureCategory(parent, "")
		if err != nil {
			return 0, err
		}
		parentID = &id
	}
	if id, ok := s.findCategory(name, parentID); ok {
		return id, nil
	}
	return s.AddCategory(core.Category{
		Name:     name,
		Kind:     core.KindExpense,
		ParentID: parentID,
	})
}

func (s *Store) findCategory(name string, parentID *int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, c := range s.categories {
		if c.Name != name {
			continue
		}
		if (c.ParentID == nil) != (parentID == nil) {
			continue
		}
		if c.ParentID != nil && *c.ParentID != *parentID {
			continue
		}
		return id, true
	}
	return 0, false
}
