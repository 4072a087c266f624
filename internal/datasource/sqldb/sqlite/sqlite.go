// Package sqlite registers the "sqlite" sqldb kind using the pure-Go
// modernc.org/sqlite driver. The DSN is a file path or a URI such as
// "file:catalog.db?mode=ro".
package sqlite

import (
	"context"

	_ "modernc.org/sqlite"

	"catalogsummary/internal/datasource/sqldb"
)

func init() {
	sqldb.Register("sqlite", func(ctx context.Context, dsn string) (sqldb.Querier, error) {
		return sqldb.OpenDB(ctx, "sqlite", dsn)
	})
}
