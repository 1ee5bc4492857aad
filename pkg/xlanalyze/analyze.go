package xlanalyze

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/parser"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/vba"
)

const vbaProjectPart = "xl/vbaProject.bin"

// Analyze runs a full analysis of the workbook at path.
func Analyze(path string, opts AnalysisOptions) (*models.WorkbookAnalysis, error) {
	return AnalyzeContext(context.Background(), path, opts)
}

// AnalyzeContext analyzes the workbook at path, honoring ctx cancellation
// between sheets and parts. Feature extractors run concurrently; each owns
// a disjoint set of result fields, so the result needs no locking. On
// structural failure or cancellation the returned *AnalyzeError carries the
// partial result extracted so far.
func AnalyzeContext(ctx context.Context, path string, opts AnalysisOptions) (*models.WorkbookAnalysis, error) {
	log := opts.logger()

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &AnalyzeError{Path: path, Err: ErrFileNotFound}
		}
		return nil, &AnalyzeError{Path: path, Err: err}
	}

	c, err := container.Open(path)
	if err != nil {
		return nil, &AnalyzeError{Path: path, Err: errors.Join(ErrInvalidFormat, err)}
	}
	defer c.Close()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &AnalyzeError{Path: path, Err: errors.Join(ErrInvalidFormat, err)}
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	analysis := &models.WorkbookAnalysis{
		FilePath:       path,
		FileName:       filepath.Base(path),
		FileSize:       stat.Size(),
		IsMacroEnabled: ext == ".xlsm" || ext == ".xltm",
	}
	log.Debug("analyzing workbook", "path", path, "size", stat.Size())

	// Diagnostics are collected per goroutine and merged afterwards so the
	// final order does not depend on scheduling.
	var structuralDiags, formulaDiags, featureDiags, excelizeDiags, macroDiags []models.Diagnostic

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		analysis.Sheets, structuralDiags, err = parser.ExtractSheets(gctx, c)
		if err != nil {
			return err
		}
		if opts.ShouldIncludeNamedRanges() {
			names, diags, err := parser.ExtractNamedRanges(c)
			if err != nil {
				return err
			}
			analysis.NamedRanges = names
			structuralDiags = append(structuralDiags, diags...)
		}
		if opts.ShouldIncludeProtection() {
			prot, diags := parser.ExtractWorkbookProtection(c)
			analysis.WorkbookProtection = prot
			structuralDiags = append(structuralDiags, diags...)

			sheetProt, diags2, err := parser.ExtractSheetProtections(gctx, c)
			if err != nil {
				return err
			}
			analysis.SheetProtections = sheetProt
			structuralDiags = append(structuralDiags, diags2...)
		}
		if opts.ShouldIncludePrintSettings() {
			print, diags, err := parser.ExtractPrintSettings(gctx, c)
			if err != nil {
				return err
			}
			analysis.PrintSettings = print
			structuralDiags = append(structuralDiags, diags...)
		}
		return nil
	})

	g.Go(func() error {
		if opts.ShouldIncludeFormulas() {
			formulas, diags, err := parser.ExtractFormulas(gctx, c, parser.FormulaOptions{
				IncludeValues: opts.IncludeFormulaValues,
				MaxFormulas:   opts.MaxFormulas,
				SkipSheets:    opts.SkipSheets,
			})
			if err != nil {
				return err
			}
			analysis.Formulas = formulas
			formulaDiags = append(formulaDiags, diags...)
		}
		if opts.ShouldIncludeErrorCells() {
			cells, diags, err := parser.ExtractErrorCells(gctx, c)
			if err != nil {
				return err
			}
			analysis.ErrorCells = cells
			formulaDiags = append(formulaDiags, diags...)
		}
		if opts.ShouldIncludeExternalRefs() {
			refs, diags, err := parser.ExtractExternalRefs(gctx, c)
			if err != nil {
				return err
			}
			analysis.ExternalRefs = refs
			formulaDiags = append(formulaDiags, diags...)
		}
		return nil
	})

	g.Go(func() error {
		run := func(on bool, fn func() ([]models.Diagnostic, error)) error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !on {
				return nil
			}
			diags, err := fn()
			featureDiags = append(featureDiags, diags...)
			return err
		}
		if err := run(opts.ShouldIncludeConditionalFormats(), func() ([]models.Diagnostic, error) {
			var diags []models.Diagnostic
			var err error
			analysis.ConditionalFormats, diags, err = parser.ExtractConditionalFormats(gctx, c)
			return diags, err
		}); err != nil {
			return err
		}
		if err := run(opts.ShouldIncludeCharts(), func() ([]models.Diagnostic, error) {
			var diags []models.Diagnostic
			var err error
			analysis.Charts, diags, err = parser.ExtractCharts(gctx, c)
			return diags, err
		}); err != nil {
			return err
		}
		if err := run(opts.ShouldIncludeTables(), func() ([]models.Diagnostic, error) {
			var diags []models.Diagnostic
			var err error
			analysis.Tables, diags, err = parser.ExtractTables(gctx, c)
			return diags, err
		}); err != nil {
			return err
		}
		if err := run(opts.ShouldIncludeAutoFilters(), func() ([]models.Diagnostic, error) {
			var diags []models.Diagnostic
			var err error
			analysis.AutoFilters, diags, err = parser.ExtractAutoFilters(gctx, c)
			return diags, err
		}); err != nil {
			return err
		}
		if err := run(opts.ShouldIncludeControls(), func() ([]models.Diagnostic, error) {
			var diags []models.Diagnostic
			var err error
			analysis.Controls, diags, err = parser.ExtractControls(gctx, c)
			return diags, err
		}); err != nil {
			return err
		}
		if err := run(opts.ShouldIncludeConnections(), func() ([]models.Diagnostic, error) {
			var diags []models.Diagnostic
			var err error
			analysis.Connections, diags, err = parser.ExtractConnections(c)
			analysis.HasDataModel = parser.HasDataModel(c)
			if analysis.HasDataModel {
				analysis.DataModelNote = "workbook embeds a tabular data model (xl/model); model content is not extracted"
			}
			return diags, err
		}); err != nil {
			return err
		}
		return run(opts.ShouldIncludePowerQuery(), func() ([]models.Diagnostic, error) {
			var diags []models.Diagnostic
			var err error
			analysis.PowerQueries, diags, err = parser.ExtractPowerQueries(gctx, c)
			return diags, err
		})
	})

	// excelize read paths share decoder state inside *excelize.File, so
	// everything touching f runs on one goroutine.
	g.Go(func() error {
		if opts.ShouldIncludeDataValidations() {
			dv, diags, err := parser.ExtractDataValidations(gctx, f)
			if err != nil {
				return err
			}
			analysis.DataValidations = dv
			excelizeDiags = append(excelizeDiags, diags...)
		}
		if opts.ShouldIncludePivotTables() {
			pivots, diags, err := parser.ExtractPivotTables(gctx, f, c)
			if err != nil {
				return err
			}
			analysis.PivotTables = pivots
			excelizeDiags = append(excelizeDiags, diags...)
		}
		if opts.ShouldIncludeComments() {
			comments, diags, err := parser.ExtractComments(gctx, f, c)
			if err != nil {
				return err
			}
			analysis.Comments = comments
			excelizeDiags = append(excelizeDiags, diags...)
		}
		if opts.ShouldIncludeHyperlinks() {
			links, diags, err := parser.ExtractHyperlinks(gctx, f, c)
			if err != nil {
				return err
			}
			analysis.Hyperlinks = links
			excelizeDiags = append(excelizeDiags, diags...)
		}
		return nil
	})

	g.Go(func() error {
		if !opts.ShouldIncludeVBA() || !c.HasPart(vbaProjectPart) {
			return nil
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		data, err := c.ReadPart(vbaProjectPart)
		if err != nil {
			macroDiags = append(macroDiags, models.Diagnostic{
				Severity: models.SeverityError, Feature: "vba",
				Message: "macro project unreadable", Detail: err.Error(),
			})
			return nil
		}
		project, err := vba.ExtractProject(bytes.NewReader(data))
		if err != nil {
			macroDiags = append(macroDiags, models.Diagnostic{
				Severity: models.SeverityError, Feature: "vba",
				Message: "macro project could not be parsed", Detail: err.Error(),
			})
			return nil
		}
		analysis.VBAProjectName = project.Name
		analysis.VBAModules = project.Modules
		for _, name := range project.Failures {
			macroDiags = append(macroDiags, models.Diagnostic{
				Severity: models.SeverityError, Feature: "vba",
				Message: "module " + name + " could not be decompressed",
			})
		}
		return nil
	})

	waitErr := g.Wait()
	analysis.Diagnostics = mergeDiagnostics(structuralDiags, formulaDiags, featureDiags, excelizeDiags, macroDiags)
	if waitErr != nil {
		return nil, &AnalyzeError{Path: path, Err: waitErr, Partial: analysis}
	}

	aggregate(analysis)
	log.Debug("analysis complete",
		"sheets", len(analysis.Sheets),
		"formulas", len(analysis.Formulas),
		"diagnostics", len(analysis.Diagnostics))
	return analysis, nil
}

func mergeDiagnostics(groups ...[]models.Diagnostic) []models.Diagnostic {
	var out []models.Diagnostic
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
