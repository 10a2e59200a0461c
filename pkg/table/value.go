package table

import (
	"fmt"
	"strconv"
	"time"
)

// IsNull reports whether a cell value is absent. An empty string is a
// present value; only nil is null.
func IsNull(v any) bool {
	return v == nil
}

// FormatValue renders a cell value for narrative text and display.
// Floats drop trailing zeros so values round-tripped through a
// spreadsheet read back the way a human wrote them.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", t)
	}
}
