package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tabforge/collate/pkg/errors"
)

func TestSchemaMismatchError(t *testing.T) {
	err := errors.NewSchemaMismatchError("west.xlsx", 3, "Nominee / Details / Dept", "Nominee / Details / Name")

	assert.True(t, stderrors.Is(err, errors.ErrSchemaMismatch))
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Contains(t, err.Error(), "west.xlsx")
	assert.Contains(t, err.Error(), "column 3")
	assert.Contains(t, err.Error(), "Nominee / Details / Dept")
}

func TestSchemaMismatchErrorShortSchema(t *testing.T) {
	err := errors.NewSchemaMismatchError("west.xlsx", 5, "Submitted By", "")
	assert.Contains(t, err.Error(), "schema ends early")

	err = errors.NewSchemaMismatchError("west.xlsx", 5, "", "Extra")
	assert.Contains(t, err.Error(), "extra column")
}

func TestMissingColumnError(t *testing.T) {
	err := errors.NewMissingColumnError("key", "PS ID")

	assert.True(t, errors.IsMissingColumn(err))
	assert.Equal(t, `key column "PS ID" not present in schema`, err.Error())
}

func TestEmptyBatchError(t *testing.T) {
	err := errors.NewEmptyBatchError()

	assert.True(t, errors.IsEmptyBatch(err))
	assert.Equal(t, "no input files in batch", err.Error())
}

func TestValidationError(t *testing.T) {
	err := errors.NewValidationError("row", 2, "row has 2 cells, schema has 5 columns")

	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "row")
}

func TestIsNotFound(t *testing.T) {
	err := fmt.Errorf("submission %s: %w", "absent.xlsx", errors.ErrNotFound)

	assert.True(t, errors.IsNotFound(err))
	assert.False(t, errors.IsNotFound(errors.New("something else")))
}

func TestWrapHelpersPassNil(t *testing.T) {
	assert.NoError(t, errors.WrapIO("read", "a.xlsx", nil))
	assert.NoError(t, errors.WrapParse("xlsx", "a.xlsx", nil))
}

func TestWrapIOUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := errors.WrapIO("write", "out.xlsx", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "out.xlsx")
}
