package headless

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Column is a report column. Numeric columns are right aligned.
type Column struct {
	Header  string
	Numeric bool
}

// Report is a rounded go-pretty table whose rows are built to the width of
// Columns.
type Report struct {
	Columns []Column
	Rows    []table.Row
}

// Render draws the report. Headers keep their case.
func (r Report) Render() string {
	if len(r.Columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(r.Columns))
	configs := make([]table.ColumnConfig, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Header
		align := text.AlignLeft
		if c.Numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.AppendRows(r.Rows)
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
