// Package render computes the visual grouping instructions for writing
// a row of cells to a spreadsheet: maximal runs of adjacent identical
// string values become merge spans, and every run, single-cell runs
// included, receives the same header styling. Non-string and null
// values never start or extend a run and are left unstyled.
package render

import "github.com/tabforge/collate/pkg/table"

// Span is a maximal contiguous run of columns sharing one string value
// within a row. Start and End are 0-based column indices, inclusive.
// Spans never overlap.
type Span struct {
	Start int
	End   int
	Value string
}

// Merge reports whether the span needs an actual cell merge. Single
// column runs are styled but not merged.
func (s Span) Merge() bool {
	return s.End > s.Start
}

// Width returns the number of columns the span covers.
func (s Span) Width() int {
	return s.End - s.Start + 1
}

// Scan computes the spans of one row. The scan is a single left-to-
// right pass followed by an explicit flush of the trailing open run;
// there is no sentinel position past the end of the row. A run opens on
// a string cell when none is open, continues while cells repeat the
// run's value, and closes on any differing string, any non-string, or
// any null. A differing string immediately opens the next run.
func Scan(cells []any) []Span {
	var spans []Span
	start := -1
	value := ""

	for i, cell := range cells {
		s, isString := cell.(string)
		switch {
		case start < 0:
			if isString {
				start, value = i, s
			}
		case !isString:
			spans = append(spans, Span{Start: start, End: i - 1, Value: value})
			start = -1
		case s != value:
			spans = append(spans, Span{Start: start, End: i - 1, Value: value})
			start, value = i, s
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(cells) - 1, Value: value})
	}
	return spans
}

// Replay fills a blank row of width n from the spans, writing each
// span's value into every column it covers. For a row containing only
// string cells, Replay(Scan(row), len(row)) reproduces the row.
func Replay(spans []Span, n int) []any {
	row := make([]any, n)
	for _, span := range spans {
		for col := span.Start; col <= span.End && col < n; col++ {
			row[col] = span.Value
		}
	}
	return row
}

// Finding is a validation result produced by an external rule
// component. The renderer's only interaction with findings is
// positional: mapping each one to the cell it concerns.
type Finding struct {
	Row    int
	Column table.Label
	Role   string
	Note   string
}

// Highlight is an instruction to visually flag one data cell.
type Highlight struct {
	Row  int
	Col  int
	Note string
}

// MapFindings resolves findings to cell highlight instructions against
// a record. Findings referencing rows or columns the record does not
// have are skipped; rendering never fails on caller-supplied findings.
func MapFindings(rec *table.Record, findings []Finding) []Highlight {
	var out []Highlight
	for _, f := range findings {
		if f.Row < 0 || f.Row >= rec.Len() {
			continue
		}
		col := rec.ColumnIndex(f.Column)
		if col < 0 {
			continue
		}
		out = append(out, Highlight{Row: f.Row, Col: col, Note: f.Note})
	}
	return out
}
