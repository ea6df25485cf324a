package storage

import (
	"context"
	"strings"

	"vehicles-dashboard/models"
)

// ListingReader is the interface any listing source must satisfy.
type ListingReader interface {
	Read(ctx context.Context) ([]*models.RawListing, error)
	Close() error
}

// columnIndex maps a source column name to the known listing column it
// feeds. Matching ignores case and surrounding whitespace; unknown names
// report false.
func columnIndex(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, col := range models.SourceColumns {
		if key == col {
			return col, true
		}
	}
	return "", false
}
