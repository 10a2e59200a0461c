// Package table provides the in-memory representation of an ingested
// tabular submission: three-level column labels, positionally aligned
// rows, schema validation, and concatenation of multiple submissions
// into a single consolidated record.
package table

import "strings"

// Label identifies one column by its three header levels. The leading
// levels may be empty for leaf-only columns, such as metadata columns
// appended during ingestion. Labels compare structurally, so a Label is
// usable directly as a map key and in equality checks.
type Label struct {
	Section  string
	Category string
	Name     string
}

// Leaf returns a label with only the bottom level set.
func Leaf(name string) Label {
	return Label{Name: name}
}

// String renders the non-empty levels joined by " / ".
func (l Label) String() string {
	parts := make([]string, 0, 3)
	for _, level := range []string{l.Section, l.Category, l.Name} {
		if level != "" {
			parts = append(parts, level)
		}
	}
	if len(parts) == 0 {
		return "(unnamed)"
	}
	return strings.Join(parts, " / ")
}

// Leaf returns the bottom header level.
func (l Label) Leaf() string {
	return l.Name
}

// Level returns the header text at the given level (0..2).
func (l Label) Level(i int) string {
	switch i {
	case 0:
		return l.Section
	case 1:
		return l.Category
	default:
		return l.Name
	}
}

// ParseLabel parses a "Section / Category / Name" string into a Label.
// Fewer segments fill from the right, so "PS ID" is a leaf-only label
// and "Details / PS ID" sets category and name. Segments are trimmed.
func ParseLabel(s string) Label {
	segments := strings.Split(s, "/")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}
	var l Label
	switch len(segments) {
	case 1:
		l.Name = segments[0]
	case 2:
		l.Category, l.Name = segments[0], segments[1]
	default:
		l.Section = strings.Join(segments[:len(segments)-2], " / ")
		l.Category = segments[len(segments)-2]
		l.Name = segments[len(segments)-1]
	}
	return l
}

// ParseLabels parses a list of label strings.
func ParseLabels(specs []string) []Label {
	out := make([]Label, len(specs))
	for i, s := range specs {
		out[i] = ParseLabel(s)
	}
	return out
}
