// Package grouping partitions a consolidated record's rows into groups
// that share identical values across a caller-supplied business key.
package grouping

import (
	"fmt"
	"strings"

	"github.com/tabforge/collate/pkg/table"
)

// Key is the ordered set of column labels whose values define group
// membership. It must be a subset of the record's schema.
type Key []table.Label

// Group holds the rows sharing one key-value tuple. Rows are indices
// into the consolidated record, in original order.
type Group struct {
	// Values is the key-value tuple identifying the group, aligned with
	// the grouper's key columns. Components may be nil.
	Values []any

	// Rows are the member row indices, in first-appearance order.
	Rows []int
}

// Size returns the number of rows in the group.
func (g *Group) Size() int {
	return len(g.Rows)
}

// Partition is the result of grouping: each distinct key-value tuple
// maps to its group, and the enumeration order preserves first
// appearance of the tuples so downstream processing is reproducible.
type Partition struct {
	Key    Key
	groups map[string]*Group
	order  []string
}

// Len returns the number of distinct groups.
func (p *Partition) Len() int {
	return len(p.order)
}

// Groups returns all groups in first-appearance order.
func (p *Partition) Groups() []*Group {
	out := make([]*Group, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, p.groups[k])
	}
	return out
}

// Grouper partitions rows by a business key.
type Grouper struct {
	key Key
}

// New creates a Grouper for the given key columns.
func New(key Key) *Grouper {
	return &Grouper{key: append(Key(nil), key...)}
}

// Partition groups the record's rows by the key columns. Null key
// components match each other: two rows that are both null in a key
// column agree on that component, and a tuple of all nulls is a valid
// group identity. Plain map-key equality would treat typed values and
// nils inconsistently, so key tuples are canonicalized to an encoded
// string first.
func (g *Grouper) Partition(rec *table.Record) (*Partition, error) {
	indices := make([]int, len(g.key))
	for i, label := range g.key {
		idx, err := rec.RequireColumn("key", label)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	p := &Partition{
		Key:    g.key,
		groups: make(map[string]*Group),
	}
	for row := 0; row < rec.Len(); row++ {
		values := make([]any, len(indices))
		for i, col := range indices {
			values[i] = rec.Cell(row, col)
		}
		enc := encodeKey(values)
		group, ok := p.groups[enc]
		if !ok {
			group = &Group{Values: values}
			p.groups[enc] = group
			p.order = append(p.order, enc)
		}
		group.Rows = append(group.Rows, row)
	}
	return p, nil
}

// encodeKey canonicalizes a key tuple. Nulls encode to a marker that no
// value can produce, values carry a type tag so "1" and 1.0 stay
// distinct, and components are length-prefixed so adjacent values
// cannot collide across component boundaries.
func encodeKey(values []any) string {
	var b strings.Builder
	for _, v := range values {
		if table.IsNull(v) {
			b.WriteString("\x00;")
			continue
		}
		tag := fmt.Sprintf("%T", v)
		s := table.FormatValue(v)
		fmt.Fprintf(&b, "\x01%d:%s|%d:%s", len(tag), tag, len(s), s)
	}
	return b.String()
}
