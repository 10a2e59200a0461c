// Package xlsx is the spreadsheet collaborator of the consolidation
// core: it resolves .xlsx files to table records on the way in and
// serializes classified records, with merged and styled header spans,
// on the way out. The core never imports this package.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/tabforge/collate/pkg/errors"
	"github.com/tabforge/collate/pkg/table"
)

// headerRows is the number of header rows carrying the three label
// levels.
const headerRows = 3

// ReadFile loads the first sheet of an .xlsx submission into a record.
// The first three rows form the column labels; merged header cells read
// back empty past their anchor and are filled from the merge range, so
// every column under a span gets its full label while a genuinely blank
// header level stays blank. Data cells are kept as the strings the
// sheet formats them to; a blank cell is null. Columns that are empty
// at every header level and in every data row are stripped before the
// record is handed to the core.
func ReadFile(path string) (*table.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("submission %s: %w", path, errors.ErrNotFound)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("xlsx", path, "workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	if len(rows) < headerRows {
		return nil, errors.NewParseError("xlsx", path, "missing three-level header rows", nil)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, errors.NewParseError("xlsx", path, "sheet is empty", nil)
	}

	fills, err := mergedHeaderFills(f, sheets[0])
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}

	labels := readLabels(rows, fills, width)
	keep := keptColumns(rows, width)
	if len(keep) == 0 {
		return nil, errors.NewParseError("xlsx", path, "no non-empty columns", nil)
	}

	columns := make([]table.Label, len(keep))
	for i, col := range keep {
		columns[i] = labels[col]
	}
	rec, err := table.New(filepath.Base(path), columns)
	if err != nil {
		return nil, err
	}
	for _, raw := range rows[headerRows:] {
		row := make(table.Row, len(keep))
		for i, col := range keep {
			row[i] = cellValue(raw, col)
		}
		if err := rec.Append(row); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// mergedHeaderFills maps each continuation cell of a merged header
// range to the range's value, keyed by header level then column. Only
// merges touching the three header rows matter; the fill never extends
// past a merge's own boundary, so a column outside every span keeps its
// blank levels.
func mergedHeaderFills(f *excelize.File, sheet string) (map[int]map[int]string, error) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}

	fills := make(map[int]map[int]string)
	for _, m := range merges {
		c1, r1, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			return nil, err
		}
		c2, r2, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			return nil, err
		}
		if r1 > headerRows {
			continue
		}
		if r2 > headerRows {
			r2 = headerRows
		}
		value := m.GetCellValue()
		for r := r1; r <= r2; r++ {
			level := r - 1
			if fills[level] == nil {
				fills[level] = make(map[int]string)
			}
			for c := c1; c <= c2; c++ {
				fills[level][c-1] = value
			}
		}
	}
	return fills, nil
}

// readLabels builds one label per column from the three header rows.
// A cell with its own text wins; an empty cell inside a merged range
// takes the range's value; an empty cell outside every range stays
// empty, so leaf-only columns survive a round-trip intact.
func readLabels(rows [][]string, fills map[int]map[int]string, width int) []table.Label {
	labels := make([]table.Label, width)
	for col := 0; col < width; col++ {
		labels[col] = table.Label{
			Section:  headerValue(rows, fills, 0, col),
			Category: headerValue(rows, fills, 1, col),
			Name:     headerValue(rows, fills, 2, col),
		}
	}
	return labels
}

func headerValue(rows [][]string, fills map[int]map[int]string, level, col int) string {
	if v := headerCell(rows[level], col); v != "" {
		return v
	}
	return fills[level][col]
}

// keptColumns returns the indices of columns worth keeping: those with
// any header text of their own or at least one data value. The check
// uses the raw header cells, so a fully empty column under a wide
// merged section still gets stripped.
func keptColumns(rows [][]string, width int) []int {
	var keep []int
	for col := 0; col < width; col++ {
		empty := true
		for _, row := range rows {
			if headerCell(row, col) != "" {
				empty = false
				break
			}
		}
		if !empty {
			keep = append(keep, col)
		}
	}
	return keep
}

func headerCell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

func cellValue(row []string, col int) any {
	s := headerCell(row, col)
	if s == "" {
		return nil
	}
	return s
}
