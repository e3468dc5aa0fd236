package schema

import (
	"context"
	"database/sql"
	"errors"
)

var errMockNotImplemented = errors.New("mock: not implemented")

// TestExecer is a mock Execer that records executed statements.
// Exported for use in schema_test package.
type TestExecer struct {
	D          Dialect
	Statements []string

	// FailAt makes the n-th statement (1-based) fail. Zero never fails.
	FailAt int
}

// NewTestExecer creates a TestExecer with the given Dialect.
func NewTestExecer(d Dialect) *TestExecer {
	return &TestExecer{D: d}
}

func (te *TestExecer) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	te.Statements = append(te.Statements, query)
	if te.FailAt == len(te.Statements) {
		return nil, errMockNotImplemented
	}
	return testResult{}, nil
}

func (te *TestExecer) Dialect() Dialect { return te.D }

var _ Execer = (*TestExecer)(nil)

type testResult struct{}

func (testResult) LastInsertId() (int64, error) { return 0, nil }
func (testResult) RowsAffected() (int64, error) { return 0, nil }

var TopoSort = topoSort
