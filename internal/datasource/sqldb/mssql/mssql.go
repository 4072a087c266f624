// Package mssql registers the "mssql" sqldb kind using go-mssqldb.
package mssql

import (
	"context"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"catalogsummary/internal/datasource/sqldb"
)

func init() {
	sqldb.Register("mssql", open)
}

func open(ctx context.Context, dsn string) (sqldb.Querier, error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	return sqldb.OpenDB(ctx, "sqlserver", dsn)
}
