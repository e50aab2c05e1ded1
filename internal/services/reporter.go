package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"reimburse/internal/config"
	"reimburse/internal/core"
	"reimburse/internal/locale"
	applog "reimburse/internal/log"
	"reimburse/internal/sheets"
)

const (
	totalsSheet = "Totals"

	// Each block takes a label and an amount column, then one blank column.
	blockWidth = 3

	minColWidth = 8
	maxColWidth = 60
)

// WriterFactory creates the fresh output workbook for one report.
type WriterFactory func() (sheets.WorkbookWriter, error)

// Reporter renders a summary into an output workbook.
type Reporter struct {
	newWriter WriterFactory
	format    locale.CurrencyFormatter
	layout    string
	logger    *slog.Logger
}

func NewReporter(newWriter WriterFactory, format locale.CurrencyFormatter, layout string, logger *slog.Logger) *Reporter {
	if format == nil {
		format = locale.Plain
	}
	if layout == "" {
		layout = config.LayoutParty
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		newWriter: newWriter,
		format:    format,
		layout:    layout,
		logger:    logger,
	}
}

// Render writes summary to path, replacing whatever was there before.
func (r *Reporter) Render(ctx context.Context, summary core.Summary, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove previous report: %w", err)
	}

	w, err := r.newWriter()
	if err != nil {
		return fmt.Errorf("create report workbook: %w", err)
	}
	if c, ok := w.(io.Closer); ok {
		defer c.Close()
	}
	names := newSheetNames(w.Sheets())

	var written []*sheetLayout
	switch r.layout {
	case config.LayoutParty:
		written, err = r.partySheets(w, names, summary)
	case config.LayoutTotals:
		written, err = r.totalsSheet(w, names, summary)
	default:
		err = fmt.Errorf("unknown report layout %q", r.layout)
	}
	if err != nil {
		return err
	}

	for _, s := range written {
		if err := s.autosize(); err != nil {
			return err
		}
	}

	if len(written) > 0 {
		for _, name := range names.unclaimed() {
			if err := w.RemoveSheet(name); err != nil {
				return fmt.Errorf("remove placeholder sheet %q: %w", name, err)
			}
		}
	}

	if err := w.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	r.logger.InfoContext(ctx, "Report written",
		applog.FieldOperation, applog.OpRender,
		applog.FieldPath, path,
		applog.FieldLayout, r.layout,
		"sheets", len(written))
	return nil
}

// partySheets renders one sheet per party: a column block per account and a
// final block with the party's grand total.
func (r *Reporter) partySheets(w sheets.WorkbookWriter, names *sheetNames, summary core.Summary) ([]*sheetLayout, error) {
	var out []*sheetLayout
	for _, ps := range summary.Parties {
		s, err := newSheetLayout(w, names, ps.Party.Name)
		if err != nil {
			return nil, err
		}
		col := 1
		for _, ab := range ps.ByAccount {
			if _, err := r.writeBlock(s, col, 1, ab.Block); err != nil {
				return nil, err
			}
			col += blockWidth
		}
		if _, err := r.writeBlock(s, col, 1, ps.GrandTotal); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// totalsSheet renders a single sheet with one column block per account and a
// final grand total block. Inside each block rows are grouped by party.
func (r *Reporter) totalsSheet(w sheets.WorkbookWriter, names *sheetNames, summary core.Summary) ([]*sheetLayout, error) {
	s, err := newSheetLayout(w, names, totalsSheet)
	if err != nil {
		return nil, err
	}

	col := 1
	for i, acc := range summary.Accounts {
		parts := make([]core.Block, 0, len(summary.Parties))
		for _, ps := range summary.Parties {
			b := ps.ByAccount[i].Block
			b.Label = ps.Party.Name
			parts = append(parts, b)
		}
		if err := r.writeGroup(s, col, acc.Name, parts); err != nil {
			return nil, err
		}
		col += blockWidth
	}

	grand := make([]core.Block, 0, len(summary.Parties))
	for _, ps := range summary.Parties {
		b := ps.GrandTotal
		b.Label = ps.Party.Name
		grand = append(grand, b)
	}
	if err := r.writeGroup(s, col, "Total", grand); err != nil {
		return nil, err
	}
	return []*sheetLayout{s}, nil
}

// writeGroup writes a bold title row with the sum of parts, then each part as
// a block, separated by a blank row.
func (r *Reporter) writeGroup(s *sheetLayout, col int, title string, parts []core.Block) error {
	total := decimal.Zero
	for _, b := range parts {
		total = total.Add(b.Total)
	}
	if err := s.pair(col, 1, title, r.format(total), true); err != nil {
		return err
	}
	row := 3
	for _, b := range parts {
		next, err := r.writeBlock(s, col, row, b)
		if err != nil {
			return err
		}
		row = next + 1
	}
	return nil
}

// writeBlock writes a header, one row per category and a trailing total row
// starting at row. It returns the first row after the block.
func (r *Reporter) writeBlock(s *sheetLayout, col, row int, b core.Block) (int, error) {
	if err := s.pair(col, row, b.Label, r.format(b.Total), true); err != nil {
		return 0, err
	}
	row++
	for _, c := range b.ByCategory {
		if err := s.pair(col, row, c.Label, r.format(c.Amount), false); err != nil {
			return 0, err
		}
		row++
	}
	if err := s.pair(col, row, "Total", r.format(b.Total), true); err != nil {
		return 0, err
	}
	return row + 1, nil
}

// sheetNames hands out unique worksheet titles, compared without case as
// spreadsheet applications do. A title matching a placeholder sheet of the
// fresh workbook takes that sheet over instead of creating a second one.
type sheetNames struct {
	used         map[string]bool
	placeholders []string
	adopted      map[string]bool
}

func newSheetNames(existing []string) *sheetNames {
	n := &sheetNames{used: map[string]bool{}, adopted: map[string]bool{}}
	for _, name := range existing {
		if sheets.IsDefaultSheet(name) {
			n.placeholders = append(n.placeholders, name)
			continue
		}
		n.used[strings.ToLower(name)] = true
	}
	return n
}

// claim returns the title to use for label and whether it names an existing
// placeholder sheet.
func (n *sheetNames) claim(label string) (string, bool) {
	name := sheets.SafeSheetName(label)
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		name = sheets.NumberedSheetName(label, i)
	}
	n.used[strings.ToLower(name)] = true

	for _, p := range n.placeholders {
		if !n.adopted[p] && strings.EqualFold(p, name) {
			n.adopted[p] = true
			return p, true
		}
	}
	return name, false
}

// unclaimed lists the placeholder sheets that were not taken over.
func (n *sheetNames) unclaimed() []string {
	var out []string
	for _, p := range n.placeholders {
		if !n.adopted[p] {
			out = append(out, p)
		}
	}
	return out
}

// sheetLayout writes cells to one sheet and tracks column widths for autosizing.
type sheetLayout struct {
	w      sheets.WorkbookWriter
	sheet  string
	widths map[int]int
}

func newSheetLayout(w sheets.WorkbookWriter, names *sheetNames, label string) (*sheetLayout, error) {
	name, adopted := names.claim(label)
	if !adopted {
		if err := w.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
	}
	return &sheetLayout{w: w, sheet: name, widths: map[int]int{}}, nil
}

func (s *sheetLayout) pair(col, row int, label, amount string, bold bool) error {
	if err := s.set(col, row, label, bold); err != nil {
		return err
	}
	return s.set(col+1, row, amount, bold)
}

func (s *sheetLayout) set(col, row int, value string, bold bool) error {
	coord, err := sheets.CellName(col, row)
	if err != nil {
		return err
	}
	if err := s.w.SetCell(s.sheet, coord, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", s.sheet, coord, err)
	}
	if bold {
		if err := s.w.SetBold(s.sheet, coord); err != nil {
			return fmt.Errorf("style %s!%s: %w", s.sheet, coord, err)
		}
	}
	if n := utf8.RuneCountInString(value); n > s.widths[col] {
		s.widths[col] = n
	}
	return nil
}

func (s *sheetLayout) autosize() error {
	for col, n := range s.widths {
		name, err := sheets.ColumnName(col)
		if err != nil {
			return err
		}
		width := float64(min(max(n+2, minColWidth), maxColWidth))
		if err := s.w.SetColWidth(s.sheet, name, width); err != nil {
			return fmt.Errorf("size column %s!%s: %w", s.sheet, name, err)
		}
	}
	return nil
}
