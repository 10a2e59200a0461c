// Package consolidate wires the pipeline together: schema validation,
// concatenation, business-key grouping, conflict classification, and
// narrative synthesis, producing the three classified output tables.
package consolidate

import (
	"context"

	"github.com/tabforge/collate/pkg/classify"
	"github.com/tabforge/collate/pkg/errors"
	"github.com/tabforge/collate/pkg/grouping"
	"github.com/tabforge/collate/pkg/logging"
	"github.com/tabforge/collate/pkg/narrate"
	"github.com/tabforge/collate/pkg/table"
)

// NarrativeColumn is the leaf-only column appended to every output
// table. Cross-author rows carry their group's narrative; all other
// rows carry the empty string.
var NarrativeColumn = table.Label{Name: "Conflict Details"}

// Options configures a consolidation run.
type Options struct {
	// Key columns define group membership.
	Key grouping.Key

	// Identity columns are the tracked columns whose disagreement
	// within a group denotes a matching conflict.
	Identity []table.Label

	// Author is the "submitted by" column.
	Author table.Label

	// Time is the "submitted time" column.
	Time table.Label
}

// GroupOutcome records the classification of one group, for summary
// reporting.
type GroupOutcome struct {
	Values  []any
	Size    int
	Outcome classify.Outcome
}

// Summary holds batch-level counts.
type Summary struct {
	Files       int `json:"files"`
	Rows        int `json:"rows"`
	Groups      int `json:"groups"`
	Unique      int `json:"unique"`
	SameAuthor  int `json:"same_author"`
	CrossAuthor int `json:"cross_author"`
}

// Result holds the three classified tables, each with the narrative
// column appended, plus per-group outcomes and batch counts.
type Result struct {
	Unique      *table.Record
	SameAuthor  *table.Record
	CrossAuthor *table.Record

	Groups  []GroupOutcome
	Summary Summary
}

// Consolidator runs the pipeline for one configuration.
type Consolidator struct {
	opts       Options
	grouper    *grouping.Grouper
	classifier *classify.Classifier
	narrator   *narrate.Narrator
}

// New creates a Consolidator. The author and time columns are
// mandatory; whether they exist in the schema is checked per batch.
func New(opts Options) (*Consolidator, error) {
	if opts.Author == (table.Label{}) {
		return nil, errors.NewConfigError("consolidate", "author column not configured", nil)
	}
	if opts.Time == (table.Label{}) {
		return nil, errors.NewConfigError("consolidate", "time column not configured", nil)
	}
	return &Consolidator{
		opts:       opts,
		grouper:    grouping.New(opts.Key),
		classifier: classify.New(opts.Author),
		narrator:   narrate.New(opts.Key, opts.Identity, opts.Author, opts.Time),
	}, nil
}

// Consolidate validates, concatenates, groups, classifies, and
// narrates a batch of submissions. Batch-fatal errors (empty batch,
// schema mismatch, missing configured columns) abort before any output
// table is constructed; every other condition degenerates to defined
// behavior.
func (c *Consolidator) Consolidate(ctx context.Context, records []*table.Record) (*Result, error) {
	log := logging.FromContext(ctx)

	if len(records) == 0 {
		return nil, errors.NewEmptyBatchError()
	}
	if err := table.ValidateSchemas(records); err != nil {
		return nil, err
	}

	consolidated, err := table.Concat(records)
	if err != nil {
		return nil, err
	}
	if err := c.checkColumns(consolidated); err != nil {
		return nil, err
	}

	partition, err := c.grouper.Partition(consolidated)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("files", len(records)).
		Int("rows", consolidated.Len()).
		Int("groups", partition.Len()).
		Msg("partitioned batch")

	output, err := consolidated.AddColumn(NarrativeColumn, "")
	if err != nil {
		return nil, err
	}
	narrativeCol := output.ColumnIndex(NarrativeColumn)

	result := &Result{
		Summary: Summary{
			Files:  len(records),
			Rows:   consolidated.Len(),
			Groups: partition.Len(),
		},
	}
	var uniqueRows, sameRows, crossRows []int
	for _, group := range partition.Groups() {
		outcome, err := c.classifier.Classify(consolidated, group)
		if err != nil {
			return nil, err
		}
		result.Groups = append(result.Groups, GroupOutcome{
			Values:  group.Values,
			Size:    group.Size(),
			Outcome: outcome,
		})
		switch outcome {
		case classify.Unique:
			result.Summary.Unique++
			uniqueRows = append(uniqueRows, group.Rows...)
		case classify.SameAuthor:
			result.Summary.SameAuthor++
			sameRows = append(sameRows, group.Rows...)
		case classify.CrossAuthor:
			result.Summary.CrossAuthor++
			narrative, err := c.narrator.Narrate(consolidated, group)
			if err != nil {
				return nil, err
			}
			for _, row := range group.Rows {
				output.SetCell(row, narrativeCol, narrative)
			}
			crossRows = append(crossRows, group.Rows...)
		}
	}

	result.Unique = output.Select("unique", uniqueRows)
	result.SameAuthor = output.Select("same_author", sameRows)
	result.CrossAuthor = output.Select("cross_author", crossRows)

	log.Info().
		Int("unique", result.Summary.Unique).
		Int("same_author", result.Summary.SameAuthor).
		Int("cross_author", result.Summary.CrossAuthor).
		Msg("classified groups")
	return result, nil
}

// checkColumns surfaces missing configured columns before any grouping
// is attempted.
func (c *Consolidator) checkColumns(rec *table.Record) error {
	for _, label := range c.opts.Key {
		if _, err := rec.RequireColumn("key", label); err != nil {
			return err
		}
	}
	for _, label := range c.opts.Identity {
		if _, err := rec.RequireColumn("identity", label); err != nil {
			return err
		}
	}
	if _, err := rec.RequireColumn("author", c.opts.Author); err != nil {
		return err
	}
	if _, err := rec.RequireColumn("time", c.opts.Time); err != nil {
		return err
	}
	return nil
}
