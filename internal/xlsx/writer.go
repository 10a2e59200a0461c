package xlsx

import (
	"github.com/xuri/excelize/v2"

	"github.com/tabforge/collate/pkg/consolidate"
	"github.com/tabforge/collate/pkg/errors"
	"github.com/tabforge/collate/pkg/render"
	"github.com/tabforge/collate/pkg/table"
)

// Sheet pairs a record with the name of the worksheet it serializes to
// and any cell highlights to apply to its data region.
type Sheet struct {
	Name       string
	Record     *table.Record
	Highlights []render.Highlight
}

// Sheet names for the three classified tables.
const (
	SheetUnique      = "Unique"
	SheetSameAuthor  = "Same Author"
	SheetCrossAuthor = "Cross Author"
)

const (
	minColWidth = 10
	maxColWidth = 48
)

// WriteResult serializes a consolidation result to one workbook with a
// sheet per classification. Findings are mapped positionally onto the
// cross-author sheet.
func WriteResult(path string, result *consolidate.Result, findings []render.Finding) error {
	return WriteWorkbook(path, []Sheet{
		{Name: SheetUnique, Record: result.Unique},
		{Name: SheetSameAuthor, Record: result.SameAuthor},
		{Name: SheetCrossAuthor, Record: result.CrossAuthor,
			Highlights: render.MapFindings(result.CrossAuthor, findings)},
	})
}

// WriteWorkbook writes the given sheets to one .xlsx file. Each sheet
// gets the record's three header rows with adjacent identical labels
// merged into styled spans, followed by the data rows. Three-level
// labels survive a round-trip through ReadFile positionally.
func WriteWorkbook(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(headerStyleSpec())
	if err != nil {
		return errors.WrapIO("write", path, err)
	}
	highlightStyle, err := f.NewStyle(highlightStyleSpec())
	if err != nil {
		return errors.WrapIO("write", path, err)
	}

	for i, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			return errors.WrapIO("write", path, err)
		}
		if err := writeSheet(f, sheet, headerStyle, highlightStyle); err != nil {
			return errors.WrapIO("write", path, err)
		}
		if i == 0 {
			idx, err := f.GetSheetIndex(sheet.Name)
			if err == nil {
				f.SetActiveSheet(idx)
			}
		}
	}
	if len(sheets) > 0 {
		_ = f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle, highlightStyle int) error {
	rec := sheet.Record
	columns := rec.Columns()

	// Header rows: one per label level, adjacent identical labels
	// rendered as merged styled spans. Empty levels are passed as nil
	// so they never open a run.
	for level := 0; level < headerRows; level++ {
		cells := make([]any, len(columns))
		for col, label := range columns {
			if v := label.Level(level); v != "" {
				cells[col] = v
			}
		}
		if err := writeSpans(f, sheet.Name, level+1, render.Scan(cells), headerStyle); err != nil {
			return err
		}
	}

	for i := 0; i < rec.Len(); i++ {
		row := rec.Row(i)
		for col, v := range row {
			if table.IsNull(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, headerRows+i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return err
			}
		}
	}

	for _, h := range sheet.Highlights {
		cell, err := excelize.CoordinatesToCellName(h.Col+1, headerRows+h.Row+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, cell, cell, highlightStyle); err != nil {
			return err
		}
	}

	return setColumnWidths(f, sheet.Name, rec)
}

// writeSpans applies one header row's spans: the anchor cell gets the
// value, multi-column spans get an actual merge, and every cell of
// every span, single-column spans included, gets the header style.
func writeSpans(f *excelize.File, sheet string, row int, spans []render.Span, style int) error {
	for _, span := range spans {
		anchor, err := excelize.CoordinatesToCellName(span.Start+1, row)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(span.End+1, row)
		if err != nil {
			return err
		}
		if span.Merge() {
			if err := f.MergeCell(sheet, anchor, end); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(sheet, anchor, span.Value); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, anchor, end, style); err != nil {
			return err
		}
	}
	return nil
}

func setColumnWidths(f *excelize.File, sheet string, rec *table.Record) error {
	for col, label := range rec.Columns() {
		width := len(label.Leaf())
		for i := 0; i < rec.Len(); i++ {
			if n := len(table.FormatValue(rec.Cell(i, col))); n > width {
				width = n
			}
		}
		width += 2
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

func headerStyleSpec() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorder(),
	}
}

func highlightStyleSpec() *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"FFEB9C"},
		},
		Border: thinBorder(),
	}
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Style: 1, Color: "000000"})
	}
	return borders
}
