// Package mysql registers the "mysql" sqldb kind using go-sql-driver/mysql.
package mysql

import (
	"context"
	"fmt"

	driver "github.com/go-sql-driver/mysql"

	"catalogsummary/internal/datasource/sqldb"
)

func init() {
	sqldb.Register("mysql", open)
}

func open(ctx context.Context, dsn string) (sqldb.Querier, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	// DATE and DATETIME columns come back as time.Time.
	cfg.ParseTime = true
	return sqldb.OpenDB(ctx, "mysql", cfg.FormatDSN())
}
