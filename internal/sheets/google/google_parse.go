package google

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cellAt returns the value at an A1 coordinate of a values matrix as returned
// by the Sheets API. Trailing empty rows and cells are omitted by the API, so
// out-of-range coordinates are empty cells.
func cellAt(values [][]interface{}, coord string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(coord)
	if err != nil {
		return "", fmt.Errorf("invalid cell %q: %w", coord, err)
	}
	if row > len(values) {
		return "", nil
	}
	return safeGet(values[row-1], col-1), nil
}

func safeGet(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return toString(row[idx])
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// quoteSheet wraps a sheet title for use as an A1 range.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
