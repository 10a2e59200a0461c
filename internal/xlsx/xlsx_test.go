package xlsx_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tabforge/collate/internal/xlsx"
	"github.com/tabforge/collate/pkg/consolidate"
	"github.com/tabforge/collate/pkg/errors"
	"github.com/tabforge/collate/pkg/grouping"
	"github.com/tabforge/collate/pkg/render"
	"github.com/tabforge/collate/pkg/table"
)

var testColumns = []table.Label{
	{Section: "Nominee", Category: "Details", Name: "PS ID"},
	{Section: "Nominee", Category: "Details", Name: "Dept"},
	{Section: "Nominee", Category: "Details", Name: "Name"},
	{Section: "Submission", Category: "Audit", Name: "Submitted By"},
	{Section: "Submission", Category: "Audit", Name: "Submitted Time"},
}

func newRecord(t *testing.T, source string, rows ...table.Row) *table.Record {
	t.Helper()
	rec, err := table.New(source, testColumns)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, rec.Append(row))
	}
	return rec
}

func TestWriteReadRoundTrip(t *testing.T) {
	// A trailing leaf-only column, like the appended narrative column,
	// must come back without inheriting the previous section span.
	columns := append(append([]table.Label(nil), testColumns...), table.Leaf("Conflict Details"))
	rec, err := table.New("east.xlsx", columns)
	require.NoError(t, err)
	require.NoError(t, rec.Append(table.Row{"1001", "Finance", "Jane", "alice", "t1", "Conflicting submissions:\ndetail"}))
	require.NoError(t, rec.Append(table.Row{"1002", "Ops", "Omar", "bob", "t2", "none"}))
	path := filepath.Join(t.TempDir(), "out.xlsx")

	err = xlsx.WriteWorkbook(path, []xlsx.Sheet{{Name: "Data", Record: rec}})
	require.NoError(t, err)

	got, err := xlsx.ReadFile(path)
	require.NoError(t, err)

	// Three-level labels survive positionally, merged header spans
	// included.
	assert.Equal(t, columns, got.Columns())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, table.Row{"1001", "Finance", "Jane", "alice", "t1", "Conflicting submissions:\ndetail"}, got.Row(0))
	assert.Equal(t, table.Row{"1002", "Ops", "Omar", "bob", "t2", "none"}, got.Row(1))
}

func TestWriteMergesHeaderSpans(t *testing.T) {
	rec := newRecord(t, "east.xlsx",
		table.Row{"1001", "Finance", "Jane", "alice", "t1"},
	)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, xlsx.WriteWorkbook(path, []xlsx.Sheet{{Name: "Data", Record: rec}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	merged, err := f.GetMergeCells("Data")
	require.NoError(t, err)

	var ranges []string
	for _, m := range merged {
		ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	// Section row: Nominee spans A1:C1, Submission spans D1:E1.
	// Category row: Details spans A2:C2, Audit spans D2:E2.
	assert.Contains(t, ranges, "A1:C1")
	assert.Contains(t, ranges, "D1:E1")
	assert.Contains(t, ranges, "A2:C2")
	assert.Contains(t, ranges, "D2:E2")
}

func TestReadFillsMergedHeaders(t *testing.T) {
	// Build a sheet by hand with merged header cells left blank past
	// their anchor, the way spreadsheet tools serialize them. Column D
	// sits outside every merge and must stay leaf-only.
	path := filepath.Join(t.TempDir(), "in.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for cell, v := range map[string]string{
		"A1": "Nominee", "C1": "Submission",
		"A2": "Details", "C2": "Audit",
		"A3": "PS ID", "B3": "Dept", "C3": "Submitted By", "D3": "Conflict Details",
		"A4": "1001", "B4": "Finance", "C4": "alice", "D4": "none",
	} {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	require.NoError(t, f.MergeCell(sheet, "A1", "B1"))
	require.NoError(t, f.MergeCell(sheet, "A2", "B2"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rec, err := xlsx.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []table.Label{
		{Section: "Nominee", Category: "Details", Name: "PS ID"},
		{Section: "Nominee", Category: "Details", Name: "Dept"},
		{Section: "Submission", Category: "Audit", Name: "Submitted By"},
		table.Leaf("Conflict Details"),
	}, rec.Columns())
}

func TestReadStripsEmptyColumnsAndBlankCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	// Column B is entirely empty; row 4 has a blank Dept cell.
	for cell, v := range map[string]string{
		"A3": "PS ID", "C3": "Dept",
		"A4": "1001",
		"A5": "1002", "C5": "Ops",
	} {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rec, err := xlsx.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, []table.Label{table.Leaf("PS ID"), table.Leaf("Dept")}, rec.Columns())
	require.Equal(t, 2, rec.Len())
	assert.Equal(t, table.Row{"1001", nil}, rec.Row(0))
	assert.Equal(t, table.Row{"1002", "Ops"}, rec.Row(1))
}

func TestReadMissingFile(t *testing.T) {
	_, err := xlsx.ReadFile(filepath.Join(t.TempDir(), "absent.xlsx"))

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestReadRejectsMissingHeaderRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue(f.GetSheetList()[0], "A1", "only one row"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := xlsx.ReadFile(path)

	require.Error(t, err)
}

func TestWriteResultProducesClassifiedSheets(t *testing.T) {
	east := newRecord(t, "east.xlsx",
		table.Row{"1001", "Finance", "Jane", "alice", "t1"},
		table.Row{"1002", "Ops", "Omar", "alice", "t1"},
	)
	west := newRecord(t, "west.xlsx",
		table.Row{"1001", "Finance", "John", "bob", "t2"},
	)

	c, err := consolidate.New(consolidate.Options{
		Key:      grouping.Key{testColumns[0], testColumns[1]},
		Identity: []table.Label{testColumns[2]},
		Author:   testColumns[3],
		Time:     testColumns[4],
	})
	require.NoError(t, err)
	result, err := c.Consolidate(context.Background(), []*table.Record{east, west})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	findings := []render.Finding{{Row: 0, Column: testColumns[2], Note: "check name"}}
	require.NoError(t, xlsx.WriteResult(path, result, findings))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{xlsx.SheetUnique, xlsx.SheetSameAuthor, xlsx.SheetCrossAuthor},
		f.GetSheetList())

	// Cross-author sheet has the narrative column header and text.
	rows, err := f.GetRows(xlsx.SheetCrossAuthor)
	require.NoError(t, err)
	require.True(t, len(rows) >= 5)
	header := rows[2]
	assert.Equal(t, "Conflict Details", header[len(header)-1])
	narrative := rows[3][len(header)-1]
	assert.Contains(t, narrative, "MATCHING CONFLICT")
}

func TestClassifiedWorkbookReadsBackOwnSchema(t *testing.T) {
	east := newRecord(t, "east.xlsx",
		table.Row{"1001", "Finance", "Jane", "alice", "t1"},
	)
	west := newRecord(t, "west.xlsx",
		table.Row{"1001", "Finance", "John", "bob", "t2"},
	)

	c, err := consolidate.New(consolidate.Options{
		Key:      grouping.Key{testColumns[0], testColumns[1]},
		Identity: []table.Label{testColumns[2]},
		Author:   testColumns[3],
		Time:     testColumns[4],
	})
	require.NoError(t, err)
	result, err := c.Consolidate(context.Background(), []*table.Record{east, west})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, xlsx.WriteResult(path, result, nil))

	got, err := xlsx.ReadFile(path)
	require.NoError(t, err)

	// The narrative column is leaf-only; it must not inherit the
	// Submission section merged over the columns before it.
	columns := got.Columns()
	require.NotEmpty(t, columns)
	assert.Equal(t, table.Leaf("Conflict Details"), columns[len(columns)-1])
	assert.Equal(t, append(append([]table.Label(nil), testColumns...), table.Leaf("Conflict Details")), columns)
}
