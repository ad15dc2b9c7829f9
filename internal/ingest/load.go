package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tscheck/internal/errors"
	"tscheck/internal/series"
)

// Load reads the file at path and dispatches to the CSV or XLSX loader based
// on its extension.
func Load(path string, logger *slog.Logger) (*series.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return LoadReader(f, filepath.Base(path), logger)
}

// LoadReader dispatches on the extension of filename, for callers that hold a
// stream rather than a path (e.g. a multipart upload).
func LoadReader(r io.Reader, filename string, logger *slog.Logger) (*series.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return LoadCSV(r, logger)
	case ".xlsx":
		return LoadXLSX(r, logger)
	default:
		return nil, errors.NewAppValidationError(
			fmt.Sprintf("unsupported file type %q: expected .csv or .xlsx", filepath.Ext(filename)))
	}
}
