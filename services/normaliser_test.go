package services

import (
	"testing"
	"time"

	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/models"
	"vehicles-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestNormaliseUppercasesState(t *testing.T) {
	n := NewNormaliser(newTestLogger())
	raw := []*models.RawListing{
		{State: "ca"},
		{State: "TX"},
		{State: ""},
	}

	tbl := n.Normalise(raw)

	want := []string{"CA", "TX", ""}
	for i, w := range want {
		if got := tbl.At(i).State; got != w {
			t.Errorf("row %d state: got %q, want %q", i, got, w)
		}
	}
}

func TestNormaliseDerivesAge(t *testing.T) {
	n := NewNormaliser(newTestLogger())
	raw := []*models.RawListing{
		{Year: "2015", PostingDate: "2021-05-04T12:31:18-0500"},
		{Year: "2015.0", PostingDate: "2021-04-30T23:00:00-0700"},
		{Year: "2023", PostingDate: "2021-05-04T12:31:18-0500"},
		{Year: "", PostingDate: "2021-05-04T12:31:18-0500"},
		{Year: "2010", PostingDate: "not a date"},
		{Year: "2010", PostingDate: ""},
	}

	tbl := n.Normalise(raw)

	tests := []struct {
		postingYear int64
		hasYear     bool
		age         int64
		hasAge      bool
	}{
		{2021, true, 6, true},
		{2021, true, 6, true},
		{2021, true, -2, true},
		{2021, true, 0, false},
		{0, false, 0, false},
		{0, false, 0, false},
	}

	for i, tt := range tests {
		l := tbl.At(i)
		if l.PostingYear.Valid != tt.hasYear || (tt.hasYear && l.PostingYear.Int64 != tt.postingYear) {
			t.Errorf("row %d posting_year: got %+v, want %d (valid=%v)", i, l.PostingYear, tt.postingYear, tt.hasYear)
		}
		if l.VehicleAge.Valid != tt.hasAge || (tt.hasAge && l.VehicleAge.Int64 != tt.age) {
			t.Errorf("row %d vehicle_age: got %+v, want %d (valid=%v)", i, l.VehicleAge, tt.age, tt.hasAge)
		}
	}
}

func TestNormaliseAgeMatchesYears(t *testing.T) {
	n := NewNormaliser(newTestLogger())
	raw := []*models.RawListing{
		{Year: "1999", PostingDate: "2020-01-01"},
		{Year: "2030", PostingDate: "2020-12-31 10:00:00"},
		{Year: "x", PostingDate: "2020-06-01"},
	}

	tbl := n.Normalise(raw)
	for i := 0; i < tbl.Len(); i++ {
		l := tbl.At(i)
		both := l.Year.Valid && l.PostingYear.Valid
		if both != l.VehicleAge.Valid {
			t.Fatalf("row %d: vehicle_age validity %v, want %v", i, l.VehicleAge.Valid, both)
		}
		if both && l.VehicleAge.Int64 != l.PostingYear.Int64-l.Year.Int64 {
			t.Errorf("row %d: vehicle_age %d != %d - %d", i, l.VehicleAge.Int64, l.PostingYear.Int64, l.Year.Int64)
		}
	}
}

func TestParsePostingDateConvertsToUTC(t *testing.T) {
	got := parsePostingDate("2021-04-30T23:00:00-0700")
	if !got.Valid {
		t.Fatal("expected a valid date")
	}
	want := time.Date(2021, 5, 1, 6, 0, 0, 0, time.UTC)
	if !got.Time.Equal(want) || got.Time.Location() != time.UTC {
		t.Errorf("got %v, want %v", got.Time, want)
	}
}

func TestParsePostingDateLayouts(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"2021-05-04T12:31:18-0500", true},
		{"2021-05-04T12:31:18Z", true},
		{"2021-05-04T12:31:18+02:00", true},
		{"2021-05-04 12:31:18", true},
		{"2021-05-04", true},
		{"05/04/2021", true},
		{"", false},
		{"yesterday", false},
		{"2021-13-45", false},
	}

	for _, tt := range tests {
		if got := parsePostingDate(tt.raw); got.Valid != tt.valid {
			t.Errorf("parsePostingDate(%q).Valid = %v; want %v", tt.raw, got.Valid, tt.valid)
		}
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"12500", 12500, true},
		{"12,500", 12500, true},
		{" 57923.0 ", 57923, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
		{"nan", 0, false},
		{"-nan", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
		{"+Infinity", 0, false},
		{"1e400", 0, false},
		{"NULL", 0, false},
		{"None", 0, false},
	}

	for _, tt := range tests {
		got := parseFloat(tt.raw)
		if got.Valid != tt.valid || got.Float64 != tt.want {
			t.Errorf("parseFloat(%q) = %+v; want %v (valid=%v)", tt.raw, got, tt.want, tt.valid)
		}
	}
}

func TestNormaliseKeepsEveryRow(t *testing.T) {
	n := NewNormaliser(newTestLogger())
	raw := []*models.RawListing{{}, {Price: "bad"}, {Model: "  civic   lx "}}

	tbl := n.Normalise(raw)
	if tbl.Len() != 3 {
		t.Fatalf("rows: got %d, want 3", tbl.Len())
	}
	if got := tbl.At(2).Model; got != "civic lx" {
		t.Errorf("model: got %q, want %q", got, "civic lx")
	}
	if tbl.At(1).Price.Valid {
		t.Error("unparseable price should be missing")
	}
}

func TestParseIntRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"nan", "NaN", "Inf", "-Inf", "1e300"} {
		if got := parseInt(raw); got.Valid {
			t.Errorf("parseInt(%q) = %+v; want missing", raw, got)
		}
	}
	if got := parseInt("2015.0"); !got.Valid || got.Int64 != 2015 {
		t.Errorf("parseInt(%q) = %+v; want 2015", "2015.0", got)
	}
}

func TestNormaliseNATokensAreMissing(t *testing.T) {
	n := NewNormaliser(newTestLogger())
	raw := []*models.RawListing{
		{Model: "a", Price: "NaN", Year: "nan", Odometer: "Inf", State: "NA", Fuel: "null", PostingDate: "2021-05-04"},
		{Model: "b", Price: "5000", Year: "2015", State: "ca", PostingDate: "2021-05-04"},
		{Model: "c", Price: "3000", Year: "None", State: "N/A", PostingDate: "2021-05-04"},
	}

	tbl := n.Normalise(raw)

	a := tbl.At(0)
	if a.Price.Valid || a.Year.Valid || a.Odometer.Valid || a.VehicleAge.Valid {
		t.Errorf("row 0: NaN/Inf cells should be missing, got price=%+v year=%+v odometer=%+v age=%+v",
			a.Price, a.Year, a.Odometer, a.VehicleAge)
	}
	if a.State != "" || a.Fuel != "" {
		t.Errorf("row 0: NA tokens should be missing, got state=%q fuel=%q", a.State, a.Fuel)
	}
	if got := tbl.At(2).State; got != "" {
		t.Errorf("row 2 state: got %q, want missing", got)
	}
	if b := tbl.At(1); !b.VehicleAge.Valid || b.VehicleAge.Int64 != 6 {
		t.Errorf("row 1 vehicle_age: got %+v, want 6", b.VehicleAge)
	}

	top := dashboard.TopModelMeans(tbl.All(), 10)
	if len(top) != 2 || top[0].Key != "b" || top[1].Key != "c" {
		t.Errorf("top models: got %+v, want b then c", top)
	}

	r := NewInsightService(newTestLogger()).Generate(tbl)
	if r.PricedCount != 2 {
		t.Errorf("priced count: got %d, want 2", r.PricedCount)
	}
	if r.AveragePrice != 4000 {
		t.Errorf("average price: got %v, want 4000", r.AveragePrice)
	}
}
