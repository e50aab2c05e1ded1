// Package xlsx adapts local .xlsx workbook files to the sheets ports.
package xlsx

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	ports "reimburse/internal/sheets"
)

type Reader struct {
	f *excelize.File
}

var _ ports.WorkbookReader = (*Reader)(nil)

// Open opens an existing workbook for reading.
func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Reader{f: f}, nil
}

func (r *Reader) SheetNames(_ context.Context) ([]string, error) {
	return r.f.GetSheetList(), nil
}

// Cell returns the raw (unformatted) value so numeric cells parse regardless of number format.
func (r *Reader) Cell(_ context.Context, sheet, coord string) (string, error) {
	v, err := r.f.GetCellValue(sheet, coord, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", fmt.Errorf("read %s!%s: %w", sheet, coord, err)
	}
	return v, nil
}

func (r *Reader) Close() error {
	return r.f.Close()
}

type Writer struct {
	f         *excelize.File
	boldStyle int
}

var _ ports.WorkbookWriter = (*Writer)(nil)

// NewWriter creates a fresh workbook. Like any new file it starts with a placeholder sheet.
func NewWriter() (*Writer, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	return &Writer{f: f, boldStyle: style}, nil
}

func (w *Writer) Sheets() []string {
	return w.f.GetSheetList()
}

func (w *Writer) NewSheet(name string) error {
	if idx, _ := w.f.GetSheetIndex(name); idx != -1 {
		return fmt.Errorf("sheet %q already exists", name)
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %q: %w", name, err)
	}
	return nil
}

// RemoveSheet deletes a sheet, activating the first remaining one so the file stays valid.
func (w *Writer) RemoveSheet(name string) error {
	if len(w.f.GetSheetList()) == 1 {
		return errors.New("cannot remove the only sheet")
	}
	if err := w.f.DeleteSheet(name); err != nil {
		return fmt.Errorf("delete sheet %q: %w", name, err)
	}
	w.f.SetActiveSheet(0)
	return nil
}

func (w *Writer) SetCell(sheet, coord string, value any) error {
	return w.f.SetCellValue(sheet, coord, value)
}

func (w *Writer) SetBold(sheet, coord string) error {
	return w.f.SetCellStyle(sheet, coord, coord, w.boldStyle)
}

func (w *Writer) SetColWidth(sheet, col string, width float64) error {
	return w.f.SetColWidth(sheet, col, col, width)
}

func (w *Writer) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.f.Close()
}
