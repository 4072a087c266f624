// Package loader turns the configured source into a schema-checked table.
package loader

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"catalogsummary/internal/config"
	"catalogsummary/internal/datasource"
	"catalogsummary/internal/datasource/file"
	"catalogsummary/internal/datasource/httpds"
	"catalogsummary/internal/datasource/sqldb"
	pcsv "catalogsummary/internal/parser/csv"
	"catalogsummary/internal/schema"
	"catalogsummary/internal/table"
)

// Load reads the dataset described by src, parses it with the parser options
// and verifies the required columns. A missing, unreadable or malformed
// source yields a *datasource.DataSourceError; a dataset without the
// required columns yields a *schema.SchemaError.
func Load(ctx context.Context, src config.Source, parser config.Parser) (*table.Table, error) {
	opt := pcsv.OptionsFrom(parser.Options)

	var (
		t   *table.Table
		err error
	)
	switch src.Kind {
	case "", "file":
		t, err = parse(ctx, file.NewLocal(src.File.Path), src.File.Path, opt)
	case "http":
		c := httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(src.HTTP.TimeoutSeconds) * time.Second,
			MaxRetries:         src.HTTP.MaxRetries,
			InsecureSkipVerify: src.HTTP.Insecure,
		})
		t, err = parse(ctx, httpds.NewSource(c, src.HTTP.URL), src.HTTP.URL, opt)
	case "sql":
		t, err = query(ctx, sqldb.Source{Kind: src.SQL.Driver, DSN: src.SQL.DSN, Query: src.SQL.Query}, opt)
	default:
		return nil, errors.Errorf("loader: unsupported source.kind=%s", src.Kind)
	}
	if err != nil {
		return nil, err
	}

	if err := schema.Check(t.Columns(), schema.Required); err != nil {
		var se *schema.SchemaError
		if errors.As(err, &se) {
			se.Source = Describe(src)
		}
		return nil, err
	}
	return t, nil
}

// Describe names the source for logs and errors.
func Describe(src config.Source) string {
	switch src.Kind {
	case "http":
		return src.HTTP.URL
	case "sql":
		return src.SQL.Driver + " query"
	default:
		return src.File.Path
	}
}

func parse(ctx context.Context, s datasource.Source, name string, opt pcsv.Options) (*table.Table, error) {
	rc, err := s.Open(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loader: open")
	}
	defer rc.Close()

	t, err := pcsv.NewParser(opt).Parse(rc)
	if err != nil {
		return nil, errors.Wrap(&datasource.DataSourceError{Op: "parse", Path: name, Err: err}, "loader")
	}
	return t, nil
}

func query(ctx context.Context, s sqldb.Source, opt pcsv.Options) (*table.Table, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loader: query")
	}
	cols := schema.CanonicalHeaders(rows.Columns, opt.HeaderMap)
	vals := make([][]table.Value, len(rows.Values))
	for i, r := range rows.Values {
		row := make([]table.Value, len(r))
		for j, c := range r {
			row[j] = table.Text(c)
		}
		vals[i] = row
	}
	t, err := table.New(cols, vals)
	if err != nil {
		return nil, &datasource.DataSourceError{Op: "query", Path: s.Kind, Err: err}
	}
	return t, nil
}
