package domain

import "time"

// CellKind tells exporters how to render a Cell.
type CellKind int

const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one value of an export Table.
type Cell struct {
	Kind   CellKind  `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Number float64   `json:"number,omitempty"`
	Date   time.Time `json:"date,omitempty"`
}

// TextCell returns a text cell.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell, or an absent cell for an absent Value.
func NumberCell(v Value) Cell {
	if !v.Valid {
		return Cell{Kind: CellAbsent}
	}
	return Cell{Kind: CellNumber, Number: v.Float64}
}

// DateCell returns a date cell, or an absent cell when ok is false.
func DateCell(t time.Time, ok bool) Cell {
	if !ok {
		return Cell{Kind: CellAbsent}
	}
	return Cell{Kind: CellDate, Date: t}
}

// Table is a rows x named-columns set ready for export.
type Table struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// Empty reports whether the table has no rows or no columns.
func (t Table) Empty() bool {
	return len(t.Rows) == 0 || len(t.Columns) == 0
}
