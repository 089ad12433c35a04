package sheets

import (
	"encoding/csv"
	"io"
	"strings"
)

// Row is one spreadsheet line keyed by (trimmed) header name.
type Row map[string]string

// Table is an in-memory snapshot of one spreadsheet tab. Rows hold raw cell
// text; all parsing (dates, money, survey answers) happens in the consumers.
type Table struct {
	Columns []string
	Rows    []Row
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// FindColumn returns the first column whose lowercased header contains any of
// the given fragments, in column order. Survey sheets name their timestamp and
// question columns inconsistently, so lookups go through this heuristic.
func (t *Table) FindColumn(fragments ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		for _, frag := range fragments {
			if strings.Contains(lower, frag) {
				return col, true
			}
		}
	}
	return "", false
}

// Copy returns a deep copy so cached snapshots are never mutated by readers.
func (t *Table) Copy() *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		dup := make(Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		out.Rows = append(out.Rows, dup)
	}
	return out
}

// ParseCSV reads a CSV export into a Table. Header names are whitespace
// trimmed; short records are padded with empty cells.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &Table{}, nil
		}
		return nil, err
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := &Table{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
