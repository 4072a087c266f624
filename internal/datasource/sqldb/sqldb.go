// Package sqldb reads the catalog from a SQL database. Driver packages
// register a Querier factory for their kind at init time; importing
// catalogsummary/internal/datasource/sqldb/all enables every built-in kind.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"catalogsummary/internal/datasource"
)

// Querier runs a single read query and returns its rows as nullable text.
type Querier interface {
	Query(ctx context.Context, query string) (*datasource.Rows, error)
	Close() error
}

// Factory opens a Querier for a DSN.
type Factory func(ctx context.Context, dsn string) (Querier, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// Kinds lists the registered kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open returns a Querier for kind.
func Open(ctx context.Context, kind, dsn string) (Querier, error) {
	mu.RLock()
	f, ok := factories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("sqldb: no driver registered for kind %q (have %v)", kind, Kinds())
	}
	return f(ctx, dsn)
}

// Source is a datasource.RowSource backed by one query.
type Source struct {
	Kind  string
	DSN   string
	Query string
}

// Rows opens a connection, runs the query, and closes the connection.
// Failures are reported as *datasource.DataSourceError naming the kind.
func (s Source) Rows(ctx context.Context) (*datasource.Rows, error) {
	q, err := Open(ctx, s.Kind, s.DSN)
	if err != nil {
		return nil, &datasource.DataSourceError{Op: "connect", Path: s.Kind, Err: err}
	}
	defer q.Close()

	rows, err := q.Query(ctx, s.Query)
	if err != nil {
		return nil, &datasource.DataSourceError{Op: "query", Path: s.Kind, Err: err}
	}
	return rows, nil
}

// Text converts a driver value to a nullable cell. Dates render as
// YYYY-MM-DD so they go through the same parser as text input.
func Text(v any) *string {
	var s string
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		s = x
	case []byte:
		s = string(x)
	case time.Time:
		s = x.Format("2006-01-02")
	case int64:
		s = strconv.FormatInt(x, 10)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	default:
		s = fmt.Sprint(x)
	}
	return &s
}

// DB adapts a database/sql handle to Querier.
type DB struct {
	db *sql.DB
}

// OpenDB opens driverName via database/sql and pings it.
func OpenDB(ctx context.Context, driverName, dsn string) (*DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driverName, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", driverName, err)
	}
	return &DB{db: db}, nil
}

// Query runs query and scans every column into nullable text.
func (d *DB) Query(ctx context.Context, query string) (*datasource.Rows, error) {
	rs, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}
	out := &datasource.Rows{Columns: cols}
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rs.Next() {
		if err := rs.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]*string, len(cols))
		for i, v := range dest {
			row[i] = Text(v)
		}
		out.Values = append(out.Values, row)
	}
	return out, rs.Err()
}

// Close closes the handle.
func (d *DB) Close() error { return d.db.Close() }
