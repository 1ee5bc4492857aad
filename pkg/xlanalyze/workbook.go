package xlanalyze

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/parser"
)

// Workbook is an open workbook handle for incremental, per-sheet access.
// Unlike Analyze it fails directly on structural problems instead of
// wrapping them, since the caller holds the handle and decides what to do.
type Workbook struct {
	path string
	c    *container.Container
	f    *excelize.File
}

// Open opens a workbook for incremental access. The caller must Close it.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	c, err := container.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidFormat, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		c.Close()
		return nil, errors.Join(ErrInvalidFormat, err)
	}
	return &Workbook{path: path, c: c, f: f}, nil
}

// SheetNames returns the sheet names in declaration order. This reads only
// the workbook part.
func (w *Workbook) SheetNames() ([]string, error) {
	decls, err := parser.SheetDecls(w.c)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names, nil
}

// ExtractSheet runs a one-sheet analysis: the sheet summary plus the cell
// and feature records scoped to that sheet. Workbook-level output (named
// ranges, connections, macros) is not included; use Analyze for those.
func (w *Workbook) ExtractSheet(ctx context.Context, name string) (*models.WorkbookAnalysis, error) {
	decls, err := parser.SheetDecls(w.c)
	if err != nil {
		return nil, err
	}
	var skip []string
	found := false
	for _, d := range decls {
		if d.Name == name {
			found = true
			continue
		}
		skip = append(skip, d.Name)
	}
	if !found {
		return nil, fmt.Errorf("sheet %q not found", name)
	}

	out := &models.WorkbookAnalysis{FilePath: w.path}
	var diags []models.Diagnostic

	sheets, d, err := parser.ExtractSheets(ctx, w.c)
	if err != nil {
		return nil, err
	}
	diags = append(diags, d...)
	for _, s := range sheets {
		if s.Name == name {
			out.Sheets = []models.SheetInfo{s}
			break
		}
	}

	formulas, d, err := parser.ExtractFormulas(ctx, w.c, parser.FormulaOptions{SkipSheets: skip})
	if err != nil {
		return nil, err
	}
	out.Formulas = formulas
	diags = append(diags, d...)

	errorCells, d, err := parser.ExtractErrorCells(ctx, w.c)
	if err != nil {
		return nil, err
	}
	for _, cell := range errorCells {
		if cell.Location.Sheet == name {
			out.ErrorCells = append(out.ErrorCells, cell)
		}
	}
	diags = append(diags, d...)

	condfmt, d, err := parser.ExtractConditionalFormats(ctx, w.c)
	if err != nil {
		return nil, err
	}
	for _, cf := range condfmt {
		if cf.Sheet == name {
			out.ConditionalFormats = append(out.ConditionalFormats, cf)
		}
	}
	diags = append(diags, d...)

	charts, d, err := parser.ExtractCharts(ctx, w.c)
	if err != nil {
		return nil, err
	}
	for _, ch := range charts {
		if ch.Sheet == name {
			out.Charts = append(out.Charts, ch)
		}
	}
	diags = append(diags, d...)

	tables, d, err := parser.ExtractTables(ctx, w.c)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.Sheet == name {
			out.Tables = append(out.Tables, t)
		}
	}
	diags = append(diags, d...)

	out.Diagnostics = diags
	return out, nil
}

// Close releases both underlying readers.
func (w *Workbook) Close() error {
	ferr := w.f.Close()
	cerr := w.c.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
