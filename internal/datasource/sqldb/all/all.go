// Package all enables every built-in sqldb kind. Import it for side effects:
//
//	import _ "catalogsummary/internal/datasource/sqldb/all"
//
// after which "postgres", "sqlite", "mssql" and "mysql" are available to
// sqldb.Open.
package all

import (
	_ "catalogsummary/internal/datasource/sqldb/mssql"
	_ "catalogsummary/internal/datasource/sqldb/mysql"
	_ "catalogsummary/internal/datasource/sqldb/postgres"
	_ "catalogsummary/internal/datasource/sqldb/sqlite"
)
