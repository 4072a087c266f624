// Package postgres registers the "postgres" sqldb kind. It talks to the
// server through pgx's native interface rather than database/sql.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"catalogsummary/internal/datasource"
	"catalogsummary/internal/datasource/sqldb"
)

func init() {
	sqldb.Register("postgres", func(ctx context.Context, dsn string) (sqldb.Querier, error) {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("pgx connect: %w", err)
		}
		return &querier{conn: conn}, nil
	})
}

type querier struct {
	conn *pgx.Conn
}

func (q *querier) Query(ctx context.Context, query string) (*datasource.Rows, error) {
	rows, err := q.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	out := &datasource.Rows{Columns: make([]string, len(fds))}
	for i, fd := range fds {
		out.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]*string, len(vals))
		for i, v := range vals {
			row[i] = sqldb.Text(v)
		}
		out.Values = append(out.Values, row)
	}
	return out, rows.Err()
}

func (q *querier) Close() error {
	return q.conn.Close(context.Background())
}
