// Package backend assembles the transaction source named by the
// configuration, keeping the binaries agnostic of where the data lives.
package backend

import (
	"context"

	"finsight/internal/source"
)

// CleanupFunc releases a source's resources.
type CleanupFunc func() error

// Result contains the assembled source and its cleanup function.
type Result struct {
	Source  source.TransactionSource
	Cleanup CleanupFunc
}

// Factory creates sources based on configuration.
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for source assembly.
type Config struct {
	Type SourceType

	// SQLite specific
	DBPath string

	// Memory source specific
	SeedDir string
}

// SourceType selects the transaction source implementation.
type SourceType string

const (
	SQLiteSource SourceType = "sqlite"
	MemorySource SourceType = "memory"
)

// String implements fmt.Stringer
func (t SourceType) String() string {
	return string(t)
}

// IsValid returns true if the source type is valid
func (t SourceType) IsValid() bool {
	switch t {
	case SQLiteSource, MemorySource:
		return true
	default:
		return false
	}
}
