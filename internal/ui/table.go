package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table lays rows out in space-separated columns. Cells may carry lipgloss
// styling; widths are measured on the visible text.
type Table struct {
	ncols  int
	header []string
	rows   [][]string
	gap    string
}

// NewTable returns a table of cols columns. Extra cells are dropped and
// missing ones left blank.
func NewTable(cols int) *Table {
	return &Table{ncols: cols, gap: "  "}
}

func (t *Table) fit(cells []string) []string {
	row := make([]string, t.ncols)
	copy(row, cells)
	return row
}

// SetHeader sets a header row, rendered bold above the rows.
func (t *Table) SetHeader(cells ...string) {
	t.header = t.fit(cells)
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, t.fit(cells))
}

// String renders the table; the last column is not padded.
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}
	all := t.rows
	if len(t.header) > 0 {
		all = append([][]string{t.header}, t.rows...)
	}

	widths := make([]int, t.ncols)
	for _, row := range all {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for n, row := range all {
		for i, cell := range row {
			if n == 0 && len(t.header) > 0 && cell != "" {
				cell = Bold.Render(cell)
			}
			if i > 0 {
				b.WriteString(t.gap)
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// List renders bulleted, indented items.
type List struct {
	items  []string
	bullet string
}

// NewList returns an empty list with a "•" bullet.
func NewList() *List {
	return &List{bullet: "•"}
}

// SetBullet replaces the bullet.
func (l *List) SetBullet(bullet string) { l.bullet = bullet }

// Add appends an item.
func (l *List) Add(item string) { l.items = append(l.items, item) }

func (l *List) String() string {
	var b strings.Builder
	for _, item := range l.items {
		b.WriteString("  " + l.bullet + " " + item + "\n")
	}
	return b.String()
}
