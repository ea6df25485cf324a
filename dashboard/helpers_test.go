package dashboard

import (
	"database/sql"
	"time"

	"vehicles-dashboard/models"
)

type row struct {
	price     float64
	noPrice   bool
	odometer  float64
	model     string
	state     string
	condition string
	fuel      string
	trans     string
	age       int64
	noAge     bool
	posted    time.Time
}

func listing(r row) models.Listing {
	l := models.Listing{
		Model:        r.model,
		State:        r.state,
		Condition:    r.condition,
		Fuel:         r.fuel,
		Transmission: r.trans,
	}
	if !r.noPrice {
		l.Price = sql.NullFloat64{Float64: r.price, Valid: true}
	}
	if r.odometer > 0 {
		l.Odometer = sql.NullFloat64{Float64: r.odometer, Valid: true}
	}
	if !r.noAge {
		l.VehicleAge = sql.NullInt64{Int64: r.age, Valid: true}
	}
	if !r.posted.IsZero() {
		l.PostingDate = sql.NullTime{Time: r.posted, Valid: true}
		l.PostingYear = sql.NullInt64{Int64: int64(r.posted.Year()), Valid: true}
	}
	return l
}

func table(rows ...row) *models.Table {
	ls := make([]models.Listing, len(rows))
	for i, r := range rows {
		ls[i] = listing(r)
	}
	return models.NewTable(ls)
}

func prices(sel models.Selection) []float64 {
	out := make([]float64, sel.Len())
	for i := range out {
		out[i] = sel.At(i).Price.Float64
	}
	return out
}

// bigTable builds n priced listings with ages and odometers so that the
// sampled views have more rows than they draw.
func bigTable(n int) *models.Table {
	rows := make([]row, n)
	conds := []string{"good", "excellent", "fair", ""}
	for i := range rows {
		rows[i] = row{
			price:     float64(1000 + i),
			odometer:  float64(100 + i*10),
			age:       int64(i % 25),
			condition: conds[i%len(conds)],
			model:     "m",
		}
	}
	return table(rows...)
}
