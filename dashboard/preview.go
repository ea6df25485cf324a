package dashboard

import (
	"github.com/go-gota/gota/series"

	"vehicles-dashboard/models"
)

// RawPreview returns the first PreviewRows rows as display cells together
// with per-column statistics and missing counts.
func RawPreview(t *models.Table) models.Preview {
	head := t.Head(PreviewRows)
	p := models.Preview{
		Columns:  models.TableColumns,
		Rows:     t.Len(),
		HeadRows: head.Len(),
		Head:     make([][]string, head.Len()),
	}
	for i := range p.Head {
		l := head.At(i)
		row := make([]string, len(p.Columns))
		for j, col := range p.Columns {
			row[j] = l.Cell(col)
		}
		p.Head[i] = row
	}

	for _, col := range p.Columns {
		if models.NumericColumns[col] {
			p.Stats = append(p.Stats, numericStats(t, col))
		} else {
			p.Stats = append(p.Stats, categoricalStats(t, col))
		}
	}
	return p
}

func numericStats(t *models.Table, column string) models.ColumnStats {
	values := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if v, ok := t.At(i).Number(column); ok {
			values = append(values, v)
		}
	}

	st := models.ColumnStats{
		Column:  column,
		Numeric: true,
		Count:   len(values),
		Missing: t.Len() - len(values),
	}
	if len(values) == 0 {
		return st
	}

	s := series.Floats(values)
	st.Mean = s.Mean()
	st.Min = s.Min()
	st.Max = s.Max()
	st.Median = s.Median()
	st.Q25 = s.Quantile(0.25)
	st.Q75 = s.Quantile(0.75)
	if len(values) > 1 {
		st.Std = s.StdDev()
	}
	return st
}

func categoricalStats(t *models.Table, column string) models.ColumnStats {
	st := models.ColumnStats{Column: column}
	freq := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		v := t.At(i).Cell(column)
		if v == "" {
			st.Missing++
			continue
		}
		st.Count++
		freq[v]++
	}

	st.Unique = len(freq)
	for v, n := range freq {
		if n > st.Freq || (n == st.Freq && v < st.Top) {
			st.Top, st.Freq = v, n
		}
	}
	return st
}
