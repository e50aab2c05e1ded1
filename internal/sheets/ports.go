package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Ports for workbook adapters.
type (
	// WorkbookReader reads input sheets. Cell returns "" for empty cells.
	WorkbookReader interface {
		SheetNames(ctx context.Context) ([]string, error)
		Cell(ctx context.Context, sheet, coord string) (string, error)
	}

	// WorkbookWriter builds an output workbook.
	WorkbookWriter interface {
		Sheets() []string
		NewSheet(name string) error
		RemoveSheet(name string) error
		SetCell(sheet, coord string, value any) error
		SetBold(sheet, coord string) error
		SetColWidth(sheet, col string, width float64) error
		SaveAs(path string) error
	}
)

// CellName returns the A1-style name of column col (1-based) and row.
func CellName(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

// ColumnName returns the letters of column col (1-based).
func ColumnName(col int) (string, error) {
	return excelize.ColumnNumberToName(col)
}

// IsEmpty reports whether a cell value counts as empty.
func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

var defaultSheet = regexp.MustCompile(`^Sheet\d*$`)

// IsDefaultSheet reports whether name is a placeholder sheet created with a new workbook.
func IsDefaultSheet(name string) bool {
	return defaultSheet.MatchString(name)
}

const maxSheetName = 31

var invalidSheetChars = strings.NewReplacer(
	":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")",
)

// SafeSheetName makes name acceptable as a worksheet title.
func SafeSheetName(name string) string {
	name = strings.Trim(invalidSheetChars.Replace(name), "'")
	if name == "" {
		name = "Unnamed"
	}
	if utf8.RuneCountInString(name) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}

// NumberedSheetName returns SafeSheetName(name) with a " (n)" suffix, shortening
// the name so the result still fits in a worksheet title.
func NumberedSheetName(name string, n int) string {
	suffix := fmt.Sprintf(" (%d)", n)
	base := []rune(SafeSheetName(name))
	if keep := maxSheetName - len(suffix); len(base) > keep {
		base = base[:keep]
	}
	return string(base) + suffix
}
