// Package grid holds the immutable symbol grid searched by the engines.
//
// A Grid is built once from its rows. Construction materializes every row
// line and every column line (the transpose) so searches never touch the
// raw cells again. Symbols are runes; two symbols are equal only when their
// code points are equal.
package grid

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// ErrMalformedGrid is returned for empty grids, empty rows and jagged rows.
var ErrMalformedGrid = errors.New("malformed grid")

// Error describes why a set of rows was rejected.
type Error struct {
	Row    int // -1 when the problem is not tied to a row
	Reason string
}

func (e *Error) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: %s", ErrMalformedGrid, e.Reason)
	}
	return fmt.Sprintf("%v: row %d: %s", ErrMalformedGrid, e.Row, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedGrid.
func (e *Error) Unwrap() error {
	return ErrMalformedGrid
}

// Orientation tells whether a line id refers to a row or a column.
type Orientation uint8

const (
	Row Orientation = iota
	Column
)

func (o Orientation) String() string {
	if o == Column {
		return "column"
	}
	return "row"
}

// Grid is a rectangular, read-only container of symbols.
// Line ids 0..RowCount()-1 are rows, followed by one id per column.
type Grid struct {
	rows     []string
	cols     []string
	rowCount int
	colCount int
}

// New validates rows and builds the grid with its column lines.
func New(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, &Error{Row: -1, Reason: "no rows"}
	}

	width := utf8.RuneCountInString(rows[0])
	for i, row := range rows {
		if !utf8.ValidString(row) {
			return nil, &Error{Row: i, Reason: "invalid UTF-8"}
		}
		n := utf8.RuneCountInString(row)
		if n == 0 {
			return nil, &Error{Row: i, Reason: "empty row"}
		}
		if n != width {
			return nil, &Error{Row: i, Reason: fmt.Sprintf("has %d symbols, want %d", n, width)}
		}
	}

	g := &Grid{
		rows:     slices.Clone(rows),
		rowCount: len(rows),
		colCount: width,
	}
	g.cols = transpose(g.rows, width)
	return g, nil
}

// transpose builds column c from rows[r][c] for every r.
func transpose(rows []string, width int) []string {
	cols := make([][]rune, width)
	for c := range cols {
		cols[c] = make([]rune, 0, len(rows))
	}
	for _, row := range rows {
		c := 0
		for _, r := range row {
			cols[c] = append(cols[c], r)
			c++
		}
	}

	out := make([]string, width)
	for c, col := range cols {
		out[c] = string(col)
	}
	return out
}

// RowCount returns the number of rows.
func (g *Grid) RowCount() int { return g.rowCount }

// ColCount returns the number of columns (symbols per row).
func (g *Grid) ColCount() int { return g.colCount }

// RowLines returns a copy of the row lines.
func (g *Grid) RowLines() []string { return slices.Clone(g.rows) }

// ColLines returns a copy of the column lines.
func (g *Grid) ColLines() []string { return slices.Clone(g.cols) }

// LineCount is RowCount()+ColCount().
func (g *Grid) LineCount() int { return g.rowCount + g.colCount }

// Line returns the line with the given id.
func (g *Grid) Line(id int) string {
	if id < g.rowCount {
		return g.rows[id]
	}
	return g.cols[id-g.rowCount]
}

// LineLen returns the length in symbols of the line with the given id.
func (g *Grid) LineLen(id int) int {
	if id < g.rowCount {
		return g.colCount
	}
	return g.rowCount
}

// Orientation reports whether id is a row or a column line.
func (g *Grid) Orientation(id int) Orientation {
	if id < g.rowCount {
		return Row
	}
	return Column
}

// Lines yields every line id with its content, rows first.
func (g *Grid) Lines(yield func(id int, line string) bool) {
	for i, row := range g.rows {
		if !yield(i, row) {
			return
		}
	}
	for i, col := range g.cols {
		if !yield(g.rowCount+i, col) {
			return
		}
	}
}

// MaxLineLen is the longest line in either orientation.
// No word with more symbols can be present.
func (g *Grid) MaxLineLen() int {
	return max(g.rowCount, g.colCount)
}

// Transpose returns the grid whose rows are this grid's columns.
func (g *Grid) Transpose() *Grid {
	return &Grid{
		rows:     slices.Clone(g.cols),
		cols:     slices.Clone(g.rows),
		rowCount: g.colCount,
		colCount: g.rowCount,
	}
}
