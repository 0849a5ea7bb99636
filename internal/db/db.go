package db

import (
	"context"
)

type Column struct {
	Name string
	Type string
}

type Row []any

type Rows struct {
	Columns []Column
	Data    []Row
}

// Backend is a single relational data source. A Backend handle is not safe
// for concurrent use unless the underlying driver guarantees it; the
// assistant issues one query at a time.
type Backend interface {
	// Engine returns a short driver label ("sqlite", "postgres", ...)
	// used in error payloads and the UI header.
	Engine() string
	Close() error
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]Column, error)
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)
}
