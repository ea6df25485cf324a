package services

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vehicles-dashboard/models"
	"vehicles-dashboard/utils"
)

// postingDateLayouts are tried in order; the first that parses wins.
var postingDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
	"01/02/2006 15:04",
	"01/02/2006",
}

// naTokens are the cell values read as missing, the same set pandas uses
// by default when it loads a CSV.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// Normaliser turns raw rows into the immutable listing table. It never
// drops a row: values that fail to parse become missing.
type Normaliser struct {
	logger *utils.Logger
	upper  cases.Caser
}

// NewNormaliser creates a Normaliser with the given logger.
func NewNormaliser(logger *utils.Logger) *Normaliser {
	return &Normaliser{logger: logger, upper: cases.Upper(language.Und)}
}

// Normalise parses every raw row and derives posting_year, vehicle_age and
// the upper-cased state.
func (n *Normaliser) Normalise(raw []*models.RawListing) *models.Table {
	rows := make([]models.Listing, 0, len(raw))
	badDates := 0

	for _, r := range raw {
		l := models.Listing{
			Region:       normaliseText(r.Region),
			Price:        parseFloat(r.Price),
			Year:         parseInt(r.Year),
			Manufacturer: normaliseText(r.Manufacturer),
			Model:        normaliseText(r.Model),
			Condition:    normaliseText(r.Condition),
			Cylinders:    normaliseText(r.Cylinders),
			Fuel:         normaliseText(r.Fuel),
			Odometer:     parseFloat(r.Odometer),
			TitleStatus:  normaliseText(r.TitleStatus),
			Transmission: normaliseText(r.Transmission),
			Drive:        normaliseText(r.Drive),
			Size:         normaliseText(r.Size),
			Type:         normaliseText(r.Type),
			PaintColor:   normaliseText(r.PaintColor),
			State:        n.upper.String(normaliseText(r.State)),
			PostingDate:  parsePostingDate(r.PostingDate),
		}
		if !l.PostingDate.Valid && strings.TrimSpace(r.PostingDate) != "" {
			badDates++
		}

		l.PostingYear, l.VehicleAge = deriveAge(l.PostingDate, l.Year)
		rows = append(rows, l)
	}

	if badDates > 0 {
		n.logger.Warn("[normaliser] %d posting dates could not be parsed and were left missing", badDates)
	}
	n.logger.Info("[normaliser] Normalised %d listings", len(rows))
	return models.NewTable(rows)
}

// deriveAge computes posting_year from the posting date and vehicle_age as
// posting_year minus the model year. The age is deliberately not clamped.
func deriveAge(posted sql.NullTime, year sql.NullInt64) (sql.NullInt64, sql.NullInt64) {
	if !posted.Valid {
		return sql.NullInt64{}, sql.NullInt64{}
	}
	py := sql.NullInt64{Int64: int64(posted.Time.Year()), Valid: true}
	if !year.Valid {
		return py, sql.NullInt64{}
	}
	return py, sql.NullInt64{Int64: py.Int64 - year.Int64, Valid: true}
}

// parsePostingDate accepts the common timestamp shapes, converts to UTC and
// returns missing for anything else.
func parsePostingDate(raw string) sql.NullTime {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullTime{}
	}
	for _, layout := range postingDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}
		}
	}
	return sql.NullTime{}
}

// parseFloat reads a numeric cell. A float-formatted integer such as
// "2015.0" is accepted; thousands separators are stripped.
// NA tokens, NaN and infinities are missing.
func parseFloat(raw string) sql.NullFloat64 {
	raw = strings.TrimSpace(raw)
	if isNA(raw) {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func parseInt(raw string) sql.NullInt64 {
	f := parseFloat(raw)
	if !f.Valid || math.Abs(f.Float64) > maxExactInt {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(f.Float64), Valid: true}
}

func isNA(s string) bool {
	if s == "" {
		return true
	}
	_, ok := naTokens[s]
	return ok
}

// normaliseText strips leading/trailing whitespace and collapses internal
// whitespace. NA tokens become the empty (missing) category.
func normaliseText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if isNA(s) {
		return ""
	}
	return s
}
