// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"io"
	"os"

	"catalogsummary/internal/datasource"
)

// Local is a filesystem data source that opens a file from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured path.
func (l *Local) Path() string { return l.path }

// Open opens the configured path for reading.
//
// Behavior:
//   - If the context is already canceled, Open returns the context error
//     without touching the filesystem.
//   - A filesystem failure is returned as a *datasource.DataSourceError naming
//     the path; errors.Is(err, os.ErrNotExist) still works through it.
//   - A directory is rejected up front rather than failing on first read.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, &datasource.DataSourceError{Op: "open", Path: l.path, Err: err}
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &datasource.DataSourceError{Op: "stat", Path: l.path, Err: err}
	}
	if st.IsDir() {
		f.Close()
		return nil, &datasource.DataSourceError{Op: "open", Path: l.path, Err: errIsDir}
	}
	return f, nil
}

type dirError struct{}

func (dirError) Error() string { return "is a directory" }

var errIsDir error = dirError{}
