package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/models"
	"vehicles-dashboard/utils"
)

// CSVReader reads raw listings from a CSV export with a header row.
type CSVReader struct {
	path   string
	logger *utils.Logger
}

// NewCSVReader returns a reader for the file at path. The file is opened
// on each Read.
func NewCSVReader(path string, logger *utils.Logger) *CSVReader {
	return &CSVReader{path: path, logger: logger}
}

// Read parses the whole file. A missing file or a header without any known
// column is fatal; rows with the wrong number of fields are skipped.
func (c *CSVReader) Read(ctx context.Context) ([]*models.RawListing, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFound(fmt.Sprintf("csv: data file %q", c.path), err)
		}
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	return c.parse(ctx, f)
}

func (c *CSVReader) parse(ctx context.Context, src io.Reader) ([]*models.RawListing, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("csv: read header of %q", c.path), err)
	}

	// position in record -> column name; "" for ignored columns
	mapping := make([]string, len(header))
	known := 0
	for i, name := range header {
		if i == 0 {
			name = trimBOM(name)
		}
		if col, ok := columnIndex(name); ok {
			mapping[i] = col
			known++
		}
	}
	if known == 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("csv: %q has no known listing column", c.path), nil)
	}

	var (
		listings []*models.RawListing
		skipped  int
		line     = 1
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				c.logger.Debug("[csv] skipping line %d: %v", line, err)
				continue
			}
			return nil, fmt.Errorf("csv: read %q: %w", c.path, err)
		}
		if len(record) != len(header) {
			skipped++
			c.logger.Debug("[csv] skipping line %d: %d fields, want %d", line, len(record), len(header))
			continue
		}

		if line%50000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("csv: read %q: %w", c.path, err)
			}
		}

		raw := &models.RawListing{}
		for i, col := range mapping {
			if col == "" {
				continue
			}
			*raw.Field(col) = record[i]
		}
		listings = append(listings, raw)
	}

	if skipped > 0 {
		c.logger.Warn("[csv] skipped %d malformed rows in %s", skipped, c.path)
	}
	c.logger.Info("[csv] read %d rows from %s", len(listings), c.path)
	return listings, nil
}

// Close is a no-op; the file is closed at the end of each Read.
func (c *CSVReader) Close() error {
	return nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
