package markdown

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

type Column struct {
	Title string
	Align Align
}

// Table renders a pipe table padded so it also reads well as plain text.
type Table struct {
	Columns []Column
	rows    [][]string
}

func NewTable(columns ...Column) *Table {
	return &Table{Columns: columns}
}

// Row appends one row. Missing cells are blank and extra cells are dropped.
func (t *Table) Row(cells ...string) {
	row := make([]string, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = escapeCell(cells[i])
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) String() string {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = max(runewidth.StringWidth(c.Title), 3)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	header := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = pad(c.Title, widths[i], c.Align)
		if c.Align == AlignRight {
			rule[i] = strings.Repeat("-", widths[i]-1) + ":"
		} else {
			rule[i] = strings.Repeat("-", widths[i])
		}
	}
	writeRow(&b, header)
	writeRow(&b, rule)
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i], t.Columns[i].Align)
		}
		writeRow(&b, cells)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func pad(s string, width int, align Align) string {
	if align == AlignRight {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
