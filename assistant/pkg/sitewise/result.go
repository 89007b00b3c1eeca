package sitewise

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/iotsitewise/types"
)

type CellKind int

const (
	CellNull CellKind = iota
	CellNumber
	CellString
)

// Cell is a single value of a query result column.
type Cell struct {
	kind CellKind
	raw  string
	num  float64
}

func NullCell() Cell {
	return Cell{kind: CellNull}
}

func NumberCell(v float64) Cell {
	return Cell{kind: CellNumber, num: v, raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

func StringCell(s string) Cell {
	return Cell{kind: CellString, raw: s}
}

func (c Cell) Kind() CellKind { return c.kind }

func (c Cell) IsNull() bool { return c.kind == CellNull }

// Float returns the numeric value of the cell. String cells holding a finite
// number are parsed.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case CellNumber:
		return c.num, true
	case CellString:
		return parseFinite(strings.TrimSpace(c.raw))
	}
	return 0, false
}

// parseFinite rejects NaN and infinities, which have no JSON encoding.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int returns the integer value of the cell without going through float64, so
// nanosecond epochs keep their precision.
func (c Cell) Int() (int64, bool) {
	if c.kind == CellNull {
		return 0, false
	}
	if i, err := strconv.ParseInt(strings.TrimSpace(c.raw), 10, 64); err == nil {
		return i, true
	}
	if f, ok := c.Float(); ok {
		return int64(f), true
	}
	return 0, false
}

// Text returns the cell as it was sent by the store.
func (c Cell) Text() (string, bool) {
	if c.kind == CellNull {
		return "", false
	}
	return c.raw, true
}

// QueryResult holds query output column by column.
type QueryResult struct {
	Columns []string
	Values  map[string][]Cell
	Count   int
}

func NewQueryResult(columns ...string) *QueryResult {
	values := make(map[string][]Cell, len(columns))
	for _, col := range columns {
		values[col] = nil
	}
	return &QueryResult{
		Columns: columns,
		Values:  values,
	}
}

// AppendRow adds a row; cells are matched to columns by position and missing
// trailing cells are null.
func (r *QueryResult) AppendRow(cells ...Cell) {
	for i, col := range r.Columns {
		cell := NullCell()
		if i < len(cells) {
			cell = cells[i]
		}
		r.Values[col] = append(r.Values[col], cell)
	}
	r.Count++
}

func (r *QueryResult) Has(column string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Values[column]
	return ok
}

// Cell returns the value at (column, row), or a null cell if either is out of
// range.
func (r *QueryResult) Cell(column string, row int) Cell {
	if r == nil {
		return NullCell()
	}
	values, ok := r.Values[column]
	if !ok || row < 0 || row >= len(values) {
		return NullCell()
	}
	return values[row]
}

func (r *QueryResult) Empty() bool {
	return r == nil || r.Count == 0
}

func (r *QueryResult) merge(other *QueryResult) {
	for _, col := range r.Columns {
		r.Values[col] = append(r.Values[col], other.Values[col]...)
	}
	r.Count += other.Count
}

// DecodeResult converts the row oriented ExecuteQuery payload into a
// QueryResult. DOUBLE and INT columns become numbers, everything else is kept
// as text.
func DecodeResult(columns []types.ColumnInfo, rows []types.Row) (*QueryResult, error) {
	names := make([]string, len(columns))
	numeric := make([]bool, len(columns))
	for i, col := range columns {
		if col.Name == nil {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		names[i] = *col.Name
		if col.Type != nil {
			switch col.Type.ScalarType {
			case types.ScalarTypeDouble, types.ScalarTypeInt:
				numeric[i] = true
			}
		}
	}

	result := NewQueryResult(names...)
	for i, row := range rows {
		if len(row.Data) > len(names) {
			return nil, fmt.Errorf("row %d has %d cells, expected at most %d", i, len(row.Data), len(names))
		}
		cells := make([]Cell, len(names))
		for j := range names {
			if j >= len(row.Data) {
				cells[j] = NullCell()
				continue
			}
			cells[j] = decodeDatum(row.Data[j], numeric[j])
		}
		result.AppendRow(cells...)
	}
	return result, nil
}

func decodeDatum(d types.Datum, numeric bool) Cell {
	if d.NullValue != nil && *d.NullValue {
		return NullCell()
	}
	if d.ScalarValue == nil {
		return NullCell()
	}
	raw := *d.ScalarValue
	if numeric {
		if f, ok := parseFinite(raw); ok {
			return Cell{kind: CellNumber, num: f, raw: raw}
		}
	}
	return StringCell(raw)
}

// Quote renders s as a SQL string literal. The SiteWise query engine has no
// bind parameters, so values are escaped instead.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
