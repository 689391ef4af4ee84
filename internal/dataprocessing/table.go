package dataprocessing

// Table is a parsed delimited file: a header row and string cells.
// Every row has exactly len(Columns) cells; short rows are padded with
// empty strings when parsed.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ConcatTables stacks tables row-wise. The result's columns are the union of
// all input columns in first-seen order; cells for columns a table lacks are
// left empty, which downstream code treats as missing.
func ConcatTables(tables []*Table) *Table {
	combined := &Table{}
	position := make(map[string]int)

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := position[c]; !ok {
				position[c] = len(combined.Columns)
				combined.Columns = append(combined.Columns, c)
			}
		}
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		mapping := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			mapping[i] = position[c]
		}
		for _, row := range t.Rows {
			out := make([]string, len(combined.Columns))
			for i, cell := range row {
				out[mapping[i]] = cell
			}
			combined.Rows = append(combined.Rows, out)
		}
	}

	return combined
}

// naValues are the cell spellings treated as missing, matching the usual
// defaults of delimited-text readers in the analysis ecosystem.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a cell holds no value.
func IsMissing(cell string) bool {
	_, ok := naValues[cell]
	return ok
}
