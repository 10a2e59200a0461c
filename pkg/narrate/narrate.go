// Package narrate produces the per-column conflict narrative attached
// to every row of a cross-author group: which fields disagree, who
// submitted each value, and when.
package narrate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tabforge/collate/pkg/grouping"
	"github.com/tabforge/collate/pkg/table"
)

// Header is the literal first line of every non-empty narrative.
const Header = "Conflicting submissions:"

// matchingConflictTag marks statements about identity columns, the
// columns semantically meant to match within a group.
const matchingConflictTag = "MATCHING CONFLICT"

// Narrator synthesizes conflict narratives for cross-author groups.
type Narrator struct {
	key      grouping.Key
	identity []table.Label
	author   table.Label
	time     table.Label
}

// New creates a Narrator. Identity columns are the tracked columns
// whose disagreement denotes a matching conflict; key columns are
// excluded from narration since they agree within a group by
// construction.
func New(key grouping.Key, identity []table.Label, author, timeCol table.Label) *Narrator {
	return &Narrator{
		key:      append(grouping.Key(nil), key...),
		identity: append([]table.Label(nil), identity...),
		author:   author,
		time:     timeCol,
	}
}

// Narrate builds the narrative text for one group. Identity-column
// statements come first, tagged; statements for the remaining tracked
// columns are emitted only when at least one identity column disagrees.
// With no identity disagreement a single whole-group summary statement
// replaces the per-column list. A narrative that would consist of the
// header line alone is returned as the empty string, never as a
// header-only string.
func (n *Narrator) Narrate(rec *table.Record, g *grouping.Group) (string, error) {
	authorIdx, err := rec.RequireColumn("author", n.author)
	if err != nil {
		return "", err
	}
	timeIdx, err := rec.RequireColumn("time", n.time)
	if err != nil {
		return "", err
	}

	identityIdx := make(map[int]struct{}, len(n.identity))
	var statements []string
	for _, label := range n.identity {
		idx, err := rec.RequireColumn("identity", label)
		if err != nil {
			return "", err
		}
		identityIdx[idx] = struct{}{}
		statements = append(statements, n.columnStatements(rec, g, idx, authorIdx, timeIdx, true)...)
	}
	hasIdentityConflict := len(statements) > 0

	if hasIdentityConflict {
		skip := make(map[int]struct{}, len(identityIdx)+len(n.key)+2)
		for idx := range identityIdx {
			skip[idx] = struct{}{}
		}
		skip[authorIdx] = struct{}{}
		skip[timeIdx] = struct{}{}
		for _, label := range n.key {
			if idx := rec.ColumnIndex(label); idx >= 0 {
				skip[idx] = struct{}{}
			}
		}
		for idx := range rec.Columns() {
			if _, skipped := skip[idx]; skipped {
				continue
			}
			statements = append(statements, n.columnStatements(rec, g, idx, authorIdx, timeIdx, false)...)
		}
	} else if stmt := summaryStatement(rec, g, authorIdx, timeIdx); stmt != "" {
		statements = append(statements, stmt)
	}

	if len(statements) == 0 {
		return "", nil
	}
	return Header + "\n" + strings.Join(statements, "\n"), nil
}

// columnStatements emits one statement per distinct non-null value of a
// column that holds two or more distinct values within the group.
// Minority values come first (ascending multiplicity, ties broken by
// first appearance), so the statement a reviewer sees first is the one
// naming the outlier submission.
func (n *Narrator) columnStatements(rec *table.Record, g *grouping.Group, col, authorIdx, timeIdx int, tagged bool) []string {
	type bucket struct {
		value string
		rows  []int
		first int
	}
	index := make(map[string]*bucket)
	var buckets []*bucket
	for _, row := range g.Rows {
		v := rec.Cell(row, col)
		if table.IsNull(v) {
			continue
		}
		s := table.FormatValue(v)
		b, ok := index[s]
		if !ok {
			b = &bucket{value: s, first: len(buckets)}
			index[s] = b
			buckets = append(buckets, b)
		}
		b.rows = append(b.rows, row)
	}
	if len(buckets) < 2 {
		return nil
	}

	ordered := append([]*bucket(nil), buckets...)
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i].rows) != len(ordered[j].rows) {
			return len(ordered[i].rows) < len(ordered[j].rows)
		}
		return ordered[i].first < ordered[j].first
	})

	label := rec.Columns()[col].String()
	out := make([]string, 0, len(ordered))
	for _, b := range ordered {
		authors := joinDistinct(rec, b.rows, authorIdx)
		times := joinDistinct(rec, b.rows, timeIdx)
		if tagged {
			out = append(out, fmt.Sprintf("%s - %s: %q submitted by %s at %s",
				matchingConflictTag, label, b.value, authors, times))
		} else {
			out = append(out, fmt.Sprintf("%s: %q submitted by %s at %s",
				label, b.value, authors, times))
		}
	}
	return out
}

// summaryStatement covers the whole group when the identity columns all
// agree. An all-null author and time column yields no statement at all,
// which is what lets the header-only case collapse to an empty
// narrative.
func summaryStatement(rec *table.Record, g *grouping.Group, authorIdx, timeIdx int) string {
	authors := joinDistinct(rec, g.Rows, authorIdx)
	times := joinDistinct(rec, g.Rows, timeIdx)
	if authors == "" && times == "" {
		return ""
	}
	return fmt.Sprintf("Submitted by %s at %s", authors, times)
}

// joinDistinct pipe-joins the deduplicated, stringified, non-null
// values of one column over the given rows, in first-appearance order.
func joinDistinct(rec *table.Record, rows []int, col int) string {
	seen := make(map[string]struct{})
	var parts []string
	for _, row := range rows {
		v := rec.Cell(row, col)
		if table.IsNull(v) {
			continue
		}
		s := table.FormatValue(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}
	return strings.Join(parts, "|")
}
