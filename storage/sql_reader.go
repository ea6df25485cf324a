package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/models"
	"vehicles-dashboard/utils"
)

// Supported SQL drivers.
const (
	DriverPostgres   = "postgres"
	DriverDuckDB     = "duckdb"
	DriverSQLite     = "sqlite"
	DriverClickHouse = "clickhouse"
)

// Drivers lists the accepted values of the source setting besides "csv".
var Drivers = []string{DriverPostgres, DriverDuckDB, DriverSQLite, DriverClickHouse}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLReader reads raw listings from a table through database/sql.
type SQLReader struct {
	db     *sql.DB
	table  string
	logger *utils.Logger
}

// NewSQLReader opens a connection with the named driver and waits for the
// database to answer, retrying with back-off.
func NewSQLReader(ctx context.Context, driver, dsn, table string, retry *utils.RetryConfig, logger *utils.Logger) (*SQLReader, error) {
	if !identifierRe.MatchString(table) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("sql: table name %q is not a plain identifier", table), nil)
	}

	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, err
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1, Logger: logger}
	}
	err = retry.Do(ctx, driver+" ping", func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, apperrors.Unavailable(fmt.Sprintf("sql: %s not reachable", driver), err)
	}

	logger.Info("[sql] connected to %s, reading table %s", driver, table)
	return &SQLReader{db: db, table: table, logger: logger}, nil
}

// NewSQLReaderFromDB wraps an already open database handle.
func NewSQLReaderFromDB(db *sql.DB, table string, logger *utils.Logger) (*SQLReader, error) {
	if !identifierRe.MatchString(table) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("sql: table name %q is not a plain identifier", table), nil)
	}
	return &SQLReader{db: db, table: table, logger: logger}, nil
}

func openDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverClickHouse:
		opts, err := clickhouse.ParseDSN(dsn)
		if err != nil {
			return nil, apperrors.InvalidInput("sql: parse clickhouse dsn", err)
		}
		opts.DialTimeout = 30 * time.Second
		return clickhouse.OpenDB(opts), nil
	case DriverPostgres, DriverDuckDB, DriverSQLite:
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("sql: open %s: %w", driver, err)
		}
		return db, nil
	}
	return nil, apperrors.InvalidInput(fmt.Sprintf("sql: unsupported driver %q (want one of %s)", driver, strings.Join(Drivers, ", ")), nil)
}

// Read selects every row of the table. Columns are matched to listing
// columns by name, ignoring case; other columns are ignored.
func (r *SQLReader) Read(ctx context.Context) ([]*models.RawListing, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+r.table)
	if err != nil {
		return nil, fmt.Errorf("sql: query %s: %w", r.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sql: columns of %s: %w", r.table, err)
	}
	mapping := make([]string, len(cols))
	known := 0
	for i, name := range cols {
		if col, ok := columnIndex(name); ok {
			mapping[i] = col
			known++
		}
	}
	if known == 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("sql: table %s has no known listing column", r.table), nil)
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var listings []*models.RawListing
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sql: scan row: %w", err)
		}
		raw := &models.RawListing{}
		for i, col := range mapping {
			if col == "" {
				continue
			}
			*raw.Field(col) = formatValue(values[i])
		}
		listings = append(listings, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql: read %s: %w", r.table, err)
	}

	r.logger.Info("[sql] read %d rows from %s", len(listings), r.table)
	return listings, nil
}

func (r *SQLReader) Close() error {
	return r.db.Close()
}

// formatValue renders a scanned driver value the way it would appear in a
// CSV export. NULL, NaN and infinities become the empty string.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.RFC3339Nano)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return ""
		}
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	}
	return fmt.Sprintf("%v", v)
}
