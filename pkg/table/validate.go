package table

import "github.com/tabforge/collate/pkg/errors"

// ValidateSchemas checks that every record carries exactly the same
// column labels, in the same order, as the first record. The comparison
// is a full-sequence structural equality check; there is no per-column
// fuzzy matching. On failure the returned error names the offending
// record and the first divergent column index.
func ValidateSchemas(records []*Record) error {
	if len(records) == 0 {
		return errors.NewEmptyBatchError()
	}
	want := records[0].columns
	for _, rec := range records[1:] {
		got := rec.columns
		n := len(want)
		if len(got) < n {
			n = len(got)
		}
		for i := 0; i < n; i++ {
			if got[i] != want[i] {
				return errors.NewSchemaMismatchError(rec.Source, i, want[i].String(), got[i].String())
			}
		}
		if len(got) != len(want) {
			// Shorter schema diverges at its first missing column.
			missing := ""
			if n < len(want) {
				missing = want[n].String()
			}
			extra := ""
			if n < len(got) {
				extra = got[n].String()
			}
			return errors.NewSchemaMismatchError(rec.Source, n, missing, extra)
		}
	}
	return nil
}
