package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	ports "reimburse/internal/sheets"
)

// Workbook is an in-memory workbook usable as both input and output.
type Workbook struct {
	mu     sync.Mutex
	order  []string
	cells  map[string]map[string]string
	bold   map[string]map[string]bool
	widths map[string]map[string]float64
	saved  []string
}

var (
	_ ports.WorkbookReader = (*Workbook)(nil)
	_ ports.WorkbookWriter = (*Workbook)(nil)
)

// New returns an empty workbook holding the given sheets, in order.
func New(sheetNames ...string) *Workbook {
	w := &Workbook{
		cells:  map[string]map[string]string{},
		bold:   map[string]map[string]bool{},
		widths: map[string]map[string]float64{},
	}
	for _, name := range sheetNames {
		_ = w.NewSheet(name)
	}
	return w
}

// NewDefault mimics a freshly created workbook file with its placeholder sheet.
func NewDefault() *Workbook {
	return New("Sheet1")
}

// Put sets a raw string value, creating the sheet on demand. Intended for seeding input.
func (w *Workbook) Put(sheet, coord, value string) *Workbook {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensure(sheet)
	w.cells[sheet][coord] = value
	return w
}

func (w *Workbook) SheetNames(_ context.Context) ([]string, error) {
	return w.Sheets(), nil
}

func (w *Workbook) Cell(_ context.Context, sheet, coord string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cells, ok := w.cells[sheet]
	if !ok {
		return "", fmt.Errorf("sheet %q does not exist", sheet)
	}
	return cells[coord], nil
}

// Sheets returns the sheet names in creation order.
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...)
}

func (w *Workbook) NewSheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.cells[name]; ok {
		return fmt.Errorf("sheet %q already exists", name)
	}
	w.ensure(name)
	return nil
}

func (w *Workbook) RemoveSheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := slices.Index(w.order, name)
	if i < 0 {
		return fmt.Errorf("sheet %q does not exist", name)
	}
	w.order = slices.Delete(w.order, i, i+1)
	delete(w.cells, name)
	delete(w.bold, name)
	delete(w.widths, name)
	return nil
}

func (w *Workbook) SetCell(sheet, coord string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.cells[sheet]; !ok {
		return fmt.Errorf("sheet %q does not exist", sheet)
	}
	w.cells[sheet][coord] = fmt.Sprint(value)
	return nil
}

func (w *Workbook) SetBold(sheet, coord string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.bold[sheet]; !ok {
		return fmt.Errorf("sheet %q does not exist", sheet)
	}
	w.bold[sheet][coord] = true
	return nil
}

func (w *Workbook) SetColWidth(sheet, col string, width float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.widths[sheet]; !ok {
		return fmt.Errorf("sheet %q does not exist", sheet)
	}
	w.widths[sheet][col] = width
	return nil
}

// SaveAs records the path; nothing is written to disk.
func (w *Workbook) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saved = append(w.saved, path)
	return nil
}

// Value returns the stored value of a cell, "" when unset.
func (w *Workbook) Value(sheet, coord string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cells[sheet][coord]
}

// Bold reports whether a cell was styled bold.
func (w *Workbook) Bold(sheet, coord string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bold[sheet][coord]
}

// Width returns the width set for a column, 0 when unset.
func (w *Workbook) Width(sheet, col string) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.widths[sheet][col]
}

// Saved returns the paths passed to SaveAs.
func (w *Workbook) Saved() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.saved...)
}

func (w *Workbook) ensure(sheet string) {
	if _, ok := w.cells[sheet]; ok {
		return
	}
	w.order = append(w.order, sheet)
	w.cells[sheet] = map[string]string{}
	w.bold[sheet] = map[string]bool{}
	w.widths[sheet] = map[string]float64{}
}
