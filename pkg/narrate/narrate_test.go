package narrate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabforge/collate/pkg/errors"
	"github.com/tabforge/collate/pkg/grouping"
	"github.com/tabforge/collate/pkg/narrate"
	"github.com/tabforge/collate/pkg/table"
)

var (
	colID    = table.Leaf("PS ID")
	colDept  = table.Leaf("Dept")
	colName  = table.Leaf("Name")
	colGrade = table.Leaf("Grade")
	colBy    = table.Leaf("Submitted By")
	colAt    = table.Leaf("Submitted Time")

	key = grouping.Key{colID, colDept}
)

func newNarrator() *narrate.Narrator {
	return narrate.New(key, []table.Label{colName}, colBy, colAt)
}

// rows are (name, grade, author, time); key values are constant since a
// narrated group shares its key tuple by construction.
func groupOf(t *testing.T, rows ...[4]any) (*table.Record, *grouping.Group) {
	t.Helper()
	rec, err := table.New("test.xlsx", []table.Label{colID, colDept, colName, colGrade, colBy, colAt})
	require.NoError(t, err)
	g := &grouping.Group{Values: []any{"1001", "Finance"}}
	for i, row := range rows {
		require.NoError(t, rec.Append(table.Row{"1001", "Finance", row[0], row[1], row[2], row[3]}))
		g.Rows = append(g.Rows, i)
	}
	return rec, g
}

func TestNarrateIdentityConflictLeadsWithMinorityValue(t *testing.T) {
	rec, g := groupOf(t,
		[4]any{"Jane", "A", "alice", "t1"},
		[4]any{"Jane", "A", "alice", "t2"},
		[4]any{"John", "A", "bob", "t3"},
	)

	text, err := newNarrator().Narrate(rec, g)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, narrate.Header, lines[0])
	assert.Equal(t, `MATCHING CONFLICT - Name: "John" submitted by bob at t3`, lines[1])
	assert.Equal(t, `MATCHING CONFLICT - Name: "Jane" submitted by alice at t1|t2`, lines[2])
}

func TestNarrateOtherColumnsOnlyWithIdentityConflict(t *testing.T) {
	rec, g := groupOf(t,
		[4]any{"Jane", "A", "alice", "t1"},
		[4]any{"John", "B", "bob", "t2"},
	)

	text, err := newNarrator().Narrate(rec, g)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, narrate.Header, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "MATCHING CONFLICT - Name:"))
	assert.True(t, strings.HasPrefix(lines[2], "MATCHING CONFLICT - Name:"))
	// Grade statements are untagged and follow the identity statements.
	assert.Equal(t, `Grade: "A" submitted by alice at t1`, lines[3])
	assert.Equal(t, `Grade: "B" submitted by bob at t2`, lines[4])
}

func TestNarrateNoIdentityConflictEmitsSummary(t *testing.T) {
	// Names agree, grades differ: a single whole-group summary replaces
	// the per-column list.
	rec, g := groupOf(t,
		[4]any{"Jane", "A", "alice", "t1"},
		[4]any{"Jane", "B", "bob", "t2"},
	)

	text, err := newNarrator().Narrate(rec, g)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, narrate.Header, lines[0])
	assert.Equal(t, "Submitted by alice|bob at t1|t2", lines[1])
	assert.NotContains(t, text, "Grade")
}

func TestNarrateSubmittersArePipeJoinedAndDeduplicated(t *testing.T) {
	rec, g := groupOf(t,
		[4]any{"Jane", "A", "alice", "t1"},
		[4]any{"Jane", "A", "alice", "t1"},
		[4]any{"Jane", "A", "bob", "t2"},
		[4]any{"John", "A", "carol", "t3"},
	)

	text, err := newNarrator().Narrate(rec, g)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `MATCHING CONFLICT - Name: "John" submitted by carol at t3`, lines[1])
	assert.Equal(t, `MATCHING CONFLICT - Name: "Jane" submitted by alice|bob at t1|t2`, lines[2])
}

func TestNarrateNullIdentityValuesDoNotConflict(t *testing.T) {
	// One real name and nulls: a single distinct value, no identity
	// conflict.
	rec, g := groupOf(t,
		[4]any{"Jane", "A", "alice", "t1"},
		[4]any{nil, "A", "bob", "t2"},
	)

	text, err := newNarrator().Narrate(rec, g)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(text, narrate.Header))
	assert.Contains(t, text, "Submitted by alice|bob")
	assert.NotContains(t, text, "MATCHING CONFLICT")
}

func TestNarrateHeaderOnlyCollapsesToEmptyString(t *testing.T) {
	// No identity conflict and nothing to summarize: the narrative is
	// the empty string, never a bare header line.
	rec, g := groupOf(t,
		[4]any{"Jane", "A", nil, nil},
		[4]any{"Jane", "A", nil, nil},
	)

	text, err := newNarrator().Narrate(rec, g)
	require.NoError(t, err)

	assert.Equal(t, "", text)
}

func TestNarrateMissingColumn(t *testing.T) {
	rec, g := groupOf(t, [4]any{"Jane", "A", "alice", "t1"})

	_, err := narrate.New(key, []table.Label{table.Leaf("Nickname")}, colBy, colAt).Narrate(rec, g)

	require.Error(t, err)
	assert.True(t, errors.IsMissingColumn(err))
}
