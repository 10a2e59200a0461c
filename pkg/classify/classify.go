// Package classify decides the conflict outcome of a row group: a lone
// submission, duplicates from a single submitter, or a conflict across
// multiple submitters that needs human resolution.
package classify

import (
	"github.com/tabforge/collate/pkg/grouping"
	"github.com/tabforge/collate/pkg/table"
)

// Outcome is the conflict classification of one group.
type Outcome string

const (
	// Unique means the group holds exactly one row.
	Unique Outcome = "unique"

	// SameAuthor means multiple rows, all attributable to at most one
	// distinct submitter. Benign duplication.
	SameAuthor Outcome = "same_author"

	// CrossAuthor means multiple rows attributable to two or more
	// distinct submitters. Requires human resolution.
	CrossAuthor Outcome = "cross_author"
)

// String returns the string representation of an outcome.
func (o Outcome) String() string {
	return string(o)
}

// Classifier classifies groups using a designated "submitted by" column.
type Classifier struct {
	authorCol table.Label
}

// New creates a Classifier reading submitter identity from authorCol.
func New(authorCol table.Label) *Classifier {
	return &Classifier{authorCol: authorCol}
}

// Classify returns the outcome for one group. A group whose author
// column is entirely null degenerates to SameAuthor: the rows share a
// single implicit unknown submitter, and treating them as conflicting
// would flag every missing-author batch for human review.
func (c *Classifier) Classify(rec *table.Record, g *grouping.Group) (Outcome, error) {
	if g.Size() == 1 {
		return Unique, nil
	}
	idx, err := rec.RequireColumn("author", c.authorCol)
	if err != nil {
		return "", err
	}
	if len(Authors(rec, g, idx)) >= 2 {
		return CrossAuthor, nil
	}
	return SameAuthor, nil
}

// Authors returns the distinct non-null author values of a group, in
// first-appearance order, formatted for display.
func Authors(rec *table.Record, g *grouping.Group, authorIdx int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range g.Rows {
		v := rec.Cell(row, authorIdx)
		if table.IsNull(v) {
			continue
		}
		s := table.FormatValue(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
