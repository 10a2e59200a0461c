package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge/collate/pkg/render"
	"github.com/tabforge/collate/pkg/table"
)

func TestScanMergesAdjacentRuns(t *testing.T) {
	// Two multi-column runs followed by a number that stays unstyled.
	row := []any{"X", "X", "Y", "Y", "Y", 5}

	spans := render.Scan(row)

	require.Len(t, spans, 2)
	assert.Equal(t, render.Span{Start: 0, End: 1, Value: "X"}, spans[0])
	assert.Equal(t, render.Span{Start: 2, End: 4, Value: "Y"}, spans[1])
	assert.True(t, spans[0].Merge())
	assert.True(t, spans[1].Merge())
}

func TestScanSingleColumnRunIsStyledNotMerged(t *testing.T) {
	row := []any{"A", "B", "B"}

	spans := render.Scan(row)

	require.Len(t, spans, 2)
	assert.Equal(t, render.Span{Start: 0, End: 0, Value: "A"}, spans[0])
	assert.False(t, spans[0].Merge(), "single-column run needs no merge")
	assert.Equal(t, render.Span{Start: 1, End: 2, Value: "B"}, spans[1])
	assert.True(t, spans[1].Merge())
}

func TestScanTrailingRunIsFlushed(t *testing.T) {
	spans := render.Scan([]any{nil, 3, "Z", "Z"})

	require.Len(t, spans, 1)
	assert.Equal(t, render.Span{Start: 2, End: 3, Value: "Z"}, spans[0])
}

func TestScanNonStringsNeverStartRuns(t *testing.T) {
	tests := []struct {
		name string
		row  []any
		want int
	}{
		{"all nil", []any{nil, nil, nil}, 0},
		{"all numbers", []any{1, 2.5, 3}, 0},
		{"empty row", []any{}, 0},
		{"number splits run", []any{"A", 1, "A"}, 2},
		{"nil splits run", []any{"A", nil, "A"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, render.Scan(tt.row), tt.want)
		})
	}
}

func TestScanAdjacentDifferentStringsOpenImmediately(t *testing.T) {
	spans := render.Scan([]any{"A", "B", "C"})

	require.Len(t, spans, 3)
	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, render.Span{Start: i, End: i, Value: want}, spans[i])
	}
}

func TestScanWholeRowSingleRun(t *testing.T) {
	spans := render.Scan([]any{"H", "H", "H", "H"})

	require.Len(t, spans, 1)
	assert.Equal(t, render.Span{Start: 0, End: 3, Value: "H"}, spans[0])
	assert.Equal(t, 4, spans[0].Width())
}

func TestScanIsIdempotent(t *testing.T) {
	row := []any{"X", "X", nil, "Y", 7, "Y", "Y"}

	first := render.Scan(row)
	second := render.Scan(row)

	assert.Equal(t, first, second)
}

func TestReplayReconstructsStringCells(t *testing.T) {
	row := []any{"X", "X", "Y", "Y", "Y", 5, nil, "Z"}

	replayed := render.Replay(render.Scan(row), len(row))

	for i, v := range row {
		if s, ok := v.(string); ok {
			assert.Equal(t, s, replayed[i], "column %d", i)
		} else {
			assert.Nil(t, replayed[i], "column %d", i)
		}
	}
}

func TestMapFindings(t *testing.T) {
	rec, err := table.New("test.xlsx", []table.Label{
		table.Leaf("PS ID"),
		table.Leaf("Dept"),
	})
	require.NoError(t, err)
	require.NoError(t, rec.Append(table.Row{"1001", "Finance"}))
	require.NoError(t, rec.Append(table.Row{"1002", "Ops"}))

	findings := []render.Finding{
		{Row: 1, Column: table.Leaf("Dept"), Note: "unknown department"},
		{Row: 5, Column: table.Leaf("Dept"), Note: "out of range row"},
		{Row: 0, Column: table.Leaf("Grade"), Note: "unknown column"},
	}

	highlights := render.MapFindings(rec, findings)

	require.Len(t, highlights, 1)
	assert.Equal(t, render.Highlight{Row: 1, Col: 1, Note: "unknown department"}, highlights[0])
}
