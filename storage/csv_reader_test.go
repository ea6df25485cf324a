package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/utils"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReaderMapsHeaderCaseInsensitively(t *testing.T) {
	path := writeFile(t, "vehicles.csv",
		"id,Price, YEAR ,model,state,posting_date,url\n"+
			"1,12000,2015,civic,ca,2021-04-01T10:00:00-0700,http://x\n"+
			"2,,2010,\"f-150, xl\",TX,,http://y\n")

	rows, err := NewCSVReader(path, utils.NewNopLogger()).Read(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "12000", rows[0].Price)
	assert.Equal(t, "2015", rows[0].Year)
	assert.Equal(t, "ca", rows[0].State)
	assert.Equal(t, "2021-04-01T10:00:00-0700", rows[0].PostingDate)
	assert.Equal(t, "", rows[1].Price)
	assert.Equal(t, "f-150, xl", rows[1].Model)
	assert.Equal(t, "", rows[1].Region)
}

func TestCSVReaderSkipsRaggedRows(t *testing.T) {
	path := writeFile(t, "vehicles.csv",
		"price,model\n"+
			"1000,a\n"+
			"2000\n"+
			"3000,c,extra\n"+
			"4000,d\n")

	rows, err := NewCSVReader(path, utils.NewNopLogger()).Read(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Model)
	assert.Equal(t, "d", rows[1].Model)
}

func TestCSVReaderStripsBOM(t *testing.T) {
	path := writeFile(t, "vehicles.csv", "\ufeffprice,model\n1,a\n")

	rows, err := NewCSVReader(path, utils.NewNopLogger()).Read(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].Price)
}

func TestCSVReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		errType apperrors.ErrorType
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			errType: apperrors.ErrTypeNotFound,
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeFile(t, "empty.csv", "") },
			errType: apperrors.ErrTypeInvalidInput,
		},
		{
			name:    "no known column",
			path:    func(t *testing.T) string { return writeFile(t, "other.csv", "a,b\n1,2\n") },
			errType: apperrors.ErrTypeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVReader(tt.path(t), utils.NewNopLogger()).Read(context.Background())
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.errType), "got %v", err)
		})
	}
}

func TestCSVReaderParseFromReader(t *testing.T) {
	c := NewCSVReader("inline", utils.NewNopLogger())

	rows, err := c.parse(context.Background(), strings.NewReader("STATE\nny\n\n"))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ny", rows[0].State)
}
