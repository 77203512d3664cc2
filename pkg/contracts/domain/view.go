package domain

// View is the filtered record set produced by the range and category
// filter. Records keep source order and are shared with the source set;
// Columns lists what the view exposes, in display order.
type View struct {
	Criteria FilterCriteria `json:"criteria"`
	Columns  []string       `json:"columns"`
	Records  []Record       `json:"records"`
}

// Len returns the number of records in the view.
func (v View) Len() int {
	return len(v.Records)
}

// NumericColumns returns the view columns other than the date.
func (v View) NumericColumns() []string {
	out := make([]string, 0, len(v.Columns))
	for _, c := range v.Columns {
		if c != ColumnDate {
			out = append(out, c)
		}
	}
	return out
}

// HasColumn reports whether column is exposed by the view.
func (v View) HasColumn(column string) bool {
	for _, c := range v.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Series returns the values of a numeric column aligned to Records.
// Records without the field yield absent values.
func (v View) Series(column string) []Value {
	out := make([]Value, len(v.Records))
	for i, r := range v.Records {
		if val, ok := r.Field(column); ok {
			out[i] = val
		}
	}
	return out
}

// Table projects the view onto its columns.
func (v View) Table(title string) Table {
	t := Table{Title: title, Columns: append([]string(nil), v.Columns...)}
	t.Rows = make([][]Cell, 0, len(v.Records))
	for _, r := range v.Records {
		row := make([]Cell, len(v.Columns))
		for i, c := range v.Columns {
			if c == ColumnDate {
				row[i] = DateCell(r.Date, r.HasDate)
				continue
			}
			val, _ := r.Field(c)
			row[i] = NumberCell(val)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
