// Package datasource defines where catalog bytes and rows come from and the
// DataSourceError every source reports failures with.
package datasource

import (
	"context"
	"fmt"
	"io"
)

// Source yields the raw bytes of a delimited dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Rows is a result set read from a structured source: a header and one
// nullable text cell per column per row.
type Rows struct {
	Columns []string
	Values  [][]*string
}

// RowSource yields rows directly, bypassing text parsing.
type RowSource interface {
	Rows(ctx context.Context) (*Rows, error)
}

// DataSourceError reports a dataset that could not be opened, read, or
// parsed. Path names the file, URL or driver the failure refers to.
type DataSourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
