package table

import (
	"fmt"

	"github.com/tabforge/collate/pkg/errors"
)

// Row holds one row's cell values, positionally aligned with a record's
// columns. A nil cell is an absent value.
type Row []any

// Record is the normalized form of one ingested file: an ordered column
// schema plus an ordered sequence of rows. Records are treated as
// immutable once ingestion completes; every transformation in the
// pipeline produces a new Record.
type Record struct {
	// Source names the submission the record came from, typically the
	// file name. Used in error and log messages only.
	Source string

	columns []Label
	rows    []Row
}

// New creates an empty record with the given column schema. Duplicate
// labels are rejected, since positional lookup by label would be
// ambiguous.
func New(source string, columns []Label) (*Record, error) {
	seen := make(map[Label]struct{}, len(columns))
	for i, col := range columns {
		if _, dup := seen[col]; dup {
			return nil, errors.NewValidationError("columns", col.String(),
				fmt.Sprintf("duplicate column label at index %d", i))
		}
		seen[col] = struct{}{}
	}
	return &Record{
		Source:  source,
		columns: append([]Label(nil), columns...),
	}, nil
}

// Append adds a row. The row length must equal the column count.
func (r *Record) Append(row Row) error {
	if len(row) != len(r.columns) {
		return errors.NewValidationError("row", len(row),
			fmt.Sprintf("row has %d cells, schema has %d columns", len(row), len(r.columns)))
	}
	r.rows = append(r.rows, row)
	return nil
}

// Columns returns the column schema. The caller must not modify it.
func (r *Record) Columns() []Label {
	return r.columns
}

// Len returns the number of rows.
func (r *Record) Len() int {
	return len(r.rows)
}

// Row returns the row at index i. The caller must not modify it.
func (r *Record) Row(i int) Row {
	return r.rows[i]
}

// Cell returns the value at row i, column j.
func (r *Record) Cell(i, j int) any {
	return r.rows[i][j]
}

// ColumnIndex returns the position of the given label, or -1 if the
// schema does not contain it.
func (r *Record) ColumnIndex(label Label) int {
	for i, col := range r.columns {
		if col == label {
			return i
		}
	}
	return -1
}

// RequireColumn resolves a label to its position, returning a
// MissingColumnError naming the role when the schema lacks it.
func (r *Record) RequireColumn(role string, label Label) (int, error) {
	if i := r.ColumnIndex(label); i >= 0 {
		return i, nil
	}
	return -1, errors.NewMissingColumnError(role, label.String())
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{
		Source:  r.Source,
		columns: append([]Label(nil), r.columns...),
		rows:    make([]Row, len(r.rows)),
	}
	for i, row := range r.rows {
		out.rows[i] = append(Row(nil), row...)
	}
	return out
}

// AddColumn returns a copy of the record with one extra leaf column
// appended to the schema, every existing row padded with fill.
func (r *Record) AddColumn(label Label, fill any) (*Record, error) {
	if r.ColumnIndex(label) >= 0 {
		return nil, errors.NewValidationError("column", label.String(), "column already exists")
	}
	out := r.Clone()
	out.columns = append(out.columns, label)
	for i := range out.rows {
		out.rows[i] = append(out.rows[i], fill)
	}
	return out, nil
}

// SetCell writes a single cell value. It exists for the one mutation the
// pipeline performs after consolidation, filling the appended narrative
// column, and must not be used to revise ingested data.
func (r *Record) SetCell(i, j int, v any) {
	r.rows[i][j] = v
}

// Select returns a new record containing the given rows (by index) in
// the given order, sharing this record's schema.
func (r *Record) Select(source string, rows []int) *Record {
	out := &Record{
		Source:  source,
		columns: r.columns,
		rows:    make([]Row, 0, len(rows)),
	}
	for _, i := range rows {
		out.rows = append(out.rows, r.rows[i])
	}
	return out
}

// Concat joins the rows of all records, in order, into one consolidated
// record. The records must have passed schema validation; Concat trusts
// the first record's schema.
func Concat(records []*Record) (*Record, error) {
	if len(records) == 0 {
		return nil, errors.NewEmptyBatchError()
	}
	out := &Record{
		Source:  "consolidated",
		columns: records[0].columns,
	}
	for _, rec := range records {
		out.rows = append(out.rows, rec.rows...)
	}
	return out, nil
}
