package models

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Column names as they appear in the cleaned Craigslist export.
const (
	ColRegion       = "region"
	ColPrice        = "price"
	ColYear         = "year"
	ColManufacturer = "manufacturer"
	ColModel        = "model"
	ColCondition    = "condition"
	ColCylinders    = "cylinders"
	ColFuel         = "fuel"
	ColOdometer     = "odometer"
	ColTitleStatus  = "title_status"
	ColTransmission = "transmission"
	ColDrive        = "drive"
	ColSize         = "size"
	ColType         = "type"
	ColPaintColor   = "paint_color"
	ColState        = "state"
	ColPostingDate  = "posting_date"
	ColPostingYear  = "posting_year"
	ColVehicleAge   = "vehicle_age"
)

// SourceColumns lists the columns read from a data source, in display order.
var SourceColumns = []string{
	ColRegion, ColPrice, ColYear, ColManufacturer, ColModel, ColCondition,
	ColCylinders, ColFuel, ColOdometer, ColTitleStatus, ColTransmission,
	ColDrive, ColSize, ColType, ColPaintColor, ColState, ColPostingDate,
}

// TableColumns is SourceColumns plus the derived columns.
var TableColumns = append(append([]string{}, SourceColumns...), ColPostingYear, ColVehicleAge)

// NumericColumns are the columns summarised with mean/std/quantiles.
var NumericColumns = map[string]bool{
	ColPrice: true, ColYear: true, ColOdometer: true,
	ColPostingYear: true, ColVehicleAge: true,
}

// RawListing holds one row exactly as read from the source, before parsing.
// An empty string means the value was absent.
type RawListing struct {
	Region       string
	Price        string
	Year         string
	Manufacturer string
	Model        string
	Condition    string
	Cylinders    string
	Fuel         string
	Odometer     string
	TitleStatus  string
	Transmission string
	Drive        string
	Size         string
	Type         string
	PaintColor   string
	State        string
	PostingDate  string
}

// Field returns a pointer to the raw field backing the named column, or nil
// for unknown columns.
func (r *RawListing) Field(column string) *string {
	switch column {
	case ColRegion:
		return &r.Region
	case ColPrice:
		return &r.Price
	case ColYear:
		return &r.Year
	case ColManufacturer:
		return &r.Manufacturer
	case ColModel:
		return &r.Model
	case ColCondition:
		return &r.Condition
	case ColCylinders:
		return &r.Cylinders
	case ColFuel:
		return &r.Fuel
	case ColOdometer:
		return &r.Odometer
	case ColTitleStatus:
		return &r.TitleStatus
	case ColTransmission:
		return &r.Transmission
	case ColDrive:
		return &r.Drive
	case ColSize:
		return &r.Size
	case ColType:
		return &r.Type
	case ColPaintColor:
		return &r.PaintColor
	case ColState:
		return &r.State
	case ColPostingDate:
		return &r.PostingDate
	}
	return nil
}

// Listing is one parsed vehicle listing. Empty categorical strings and
// invalid Null* values mean "missing".
type Listing struct {
	Region       string
	Price        sql.NullFloat64
	Year         sql.NullInt64
	Manufacturer string
	Model        string
	Condition    string
	Cylinders    string
	Fuel         string
	Odometer     sql.NullFloat64
	TitleStatus  string
	Transmission string
	Drive        string
	Size         string
	Type         string
	PaintColor   string
	State        string
	PostingDate  sql.NullTime

	PostingYear sql.NullInt64
	VehicleAge  sql.NullInt64
}

// Category returns the value of a categorical column and whether it is
// present. Unknown or non-categorical columns report false.
func (l *Listing) Category(column string) (string, bool) {
	var v string
	switch column {
	case ColRegion:
		v = l.Region
	case ColManufacturer:
		v = l.Manufacturer
	case ColModel:
		v = l.Model
	case ColCondition:
		v = l.Condition
	case ColCylinders:
		v = l.Cylinders
	case ColFuel:
		v = l.Fuel
	case ColTitleStatus:
		v = l.TitleStatus
	case ColTransmission:
		v = l.Transmission
	case ColDrive:
		v = l.Drive
	case ColSize:
		v = l.Size
	case ColType:
		v = l.Type
	case ColPaintColor:
		v = l.PaintColor
	case ColState:
		v = l.State
	default:
		return "", false
	}
	return v, v != ""
}

// Number returns the value of a numeric column and whether it is present.
func (l *Listing) Number(column string) (float64, bool) {
	switch column {
	case ColPrice:
		return l.Price.Float64, l.Price.Valid
	case ColOdometer:
		return l.Odometer.Float64, l.Odometer.Valid
	case ColYear:
		return float64(l.Year.Int64), l.Year.Valid
	case ColPostingYear:
		return float64(l.PostingYear.Int64), l.PostingYear.Valid
	case ColVehicleAge:
		return float64(l.VehicleAge.Int64), l.VehicleAge.Valid
	}
	return 0, false
}

// Cell renders a column for tabular display; missing values render as "".
func (l *Listing) Cell(column string) string {
	switch column {
	case ColPrice, ColOdometer:
		if f, ok := l.Number(column); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	case ColYear, ColPostingYear, ColVehicleAge:
		if f, ok := l.Number(column); ok {
			return strconv.FormatInt(int64(f), 10)
		}
		return ""
	case ColPostingDate:
		if l.PostingDate.Valid {
			return l.PostingDate.Time.Format(time.DateTime)
		}
		return ""
	}
	v, _ := l.Category(column)
	return v
}

// IsMissing reports whether the named column has no value.
func (l *Listing) IsMissing(column string) bool {
	return strings.TrimSpace(l.Cell(column)) == ""
}
