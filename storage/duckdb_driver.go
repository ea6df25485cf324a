//go:build cgo

package storage

// The DuckDB driver requires cgo; it is registered only in cgo builds.
import _ "github.com/marcboeker/go-duckdb"
