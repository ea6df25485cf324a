package services

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"vehicles-dashboard/models"
)

// PrintPreview writes the raw preview as three tables: the first maxRows
// rows (all preview rows when maxRows <= 0), the missing counts and the
// descriptive statistics.
func PrintPreview(w io.Writer, p models.Preview, maxRows int) {
	head := p.Head
	if maxRows > 0 && len(head) > maxRows {
		head = head[:maxRows]
	}

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("  Raw data (first %d of %s rows)", len(head), humanize.Comma(int64(p.Rows)))))
	tw := newTable(w)
	header := make(table.Row, len(p.Columns))
	for i, c := range p.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)
	for _, cells := range head {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		tw.AppendRow(row)
	}
	tw.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("  General information (%s rows, %d columns)",
		humanize.Comma(int64(p.Rows)), len(p.Columns))))
	tw = newTable(w)
	tw.AppendHeader(table.Row{"Column", "Non-missing", "Missing"})
	for _, s := range p.Stats {
		tw.AppendRow(table.Row{s.Column, humanize.Comma(int64(s.Count)), humanize.Comma(int64(s.Missing))})
	}
	tw.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("  Descriptive statistics"))
	tw = newTable(w)
	tw.AppendHeader(table.Row{"Column", "count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"})
	for _, s := range p.Stats {
		tw.AppendRow(statsRow(s))
	}
	tw.Render()
	fmt.Fprintln(w)
}

func statsRow(s models.ColumnStats) table.Row {
	row := table.Row{s.Column, humanize.Comma(int64(s.Count))}
	if !s.Numeric {
		return append(row, humanize.Comma(int64(s.Unique)), s.Top, humanize.Comma(int64(s.Freq)), "", "", "", "", "", "", "")
	}
	if s.Count == 0 {
		return append(row, "", "", "", "", "", "", "", "", "", "")
	}
	return append(row, "", "", "",
		humanize.CommafWithDigits(s.Mean, 2),
		humanize.CommafWithDigits(s.Std, 2),
		humanize.CommafWithDigits(s.Min, 2),
		humanize.CommafWithDigits(s.Q25, 2),
		humanize.CommafWithDigits(s.Median, 2),
		humanize.CommafWithDigits(s.Q75, 2),
		humanize.CommafWithDigits(s.Max, 2),
	)
}
