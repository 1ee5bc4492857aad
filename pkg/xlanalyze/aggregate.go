package xlanalyze

import (
	"fmt"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// aggregate runs the cross-extractor validation pass: records referencing
// unknown sheets are dropped with a diagnostic, and uniqueness invariants
// on defined names and module names are enforced the same way.
func aggregate(a *models.WorkbookAnalysis) {
	known := make(map[string]bool, len(a.Sheets))
	for _, s := range a.Sheets {
		known[s.Name] = true
	}

	drop := func(kind, sheet, what string) {
		a.Diagnostics = append(a.Diagnostics, models.Diagnostic{
			Severity: models.SeverityWarning,
			Feature:  "aggregate",
			Message:  fmt.Sprintf("dropped %s %s: unknown sheet %q", kind, what, sheet),
		})
	}

	a.Formulas = filterInPlace(a.Formulas, func(r models.FormulaInfo) (string, string) {
		return r.Location.Sheet, r.Location.Address()
	}, known, drop, "formula")
	a.ConditionalFormats = filterInPlace(a.ConditionalFormats, func(r models.ConditionalFormatInfo) (string, string) {
		return r.Sheet, r.Range
	}, known, drop, "conditional format")
	a.DataValidations = filterInPlace(a.DataValidations, func(r models.DataValidationInfo) (string, string) {
		return r.Sheet, r.Range
	}, known, drop, "data validation")
	a.PivotTables = filterInPlace(a.PivotTables, func(r models.PivotTableInfo) (string, string) {
		return r.Sheet, r.Name
	}, known, drop, "pivot table")
	a.Charts = filterInPlace(a.Charts, func(r models.ChartInfo) (string, string) {
		return r.Sheet, r.Name
	}, known, drop, "chart")
	a.Tables = filterInPlace(a.Tables, func(r models.TableInfo) (string, string) {
		return r.Sheet, r.Name
	}, known, drop, "table")
	a.AutoFilters = filterInPlace(a.AutoFilters, func(r models.AutoFilterInfo) (string, string) {
		return r.Sheet, r.Range
	}, known, drop, "autofilter")
	a.Controls = filterInPlace(a.Controls, func(r models.ControlInfo) (string, string) {
		return r.Sheet, r.Name
	}, known, drop, "control")
	a.Comments = filterInPlace(a.Comments, func(r models.CommentInfo) (string, string) {
		return r.Location.Sheet, r.Location.Address()
	}, known, drop, "comment")
	a.Hyperlinks = filterInPlace(a.Hyperlinks, func(r models.HyperlinkInfo) (string, string) {
		return r.Location.Sheet, r.Location.Address()
	}, known, drop, "hyperlink")
	a.ErrorCells = filterInPlace(a.ErrorCells, func(r models.ErrorCellInfo) (string, string) {
		return r.Location.Sheet, r.Location.Address()
	}, known, drop, "error cell")
	a.SheetProtections = filterInPlace(a.SheetProtections, func(r models.SheetProtectionInfo) (string, string) {
		return r.Sheet, r.Sheet
	}, known, drop, "sheet protection")
	a.PrintSettings = filterInPlace(a.PrintSettings, func(r models.PrintSettingsInfo) (string, string) {
		return r.Sheet, r.Sheet
	}, known, drop, "print settings")

	// defined names must be unique per scope, modules unique per project
	nameSeen := make(map[string]bool, len(a.NamedRanges))
	names := a.NamedRanges[:0]
	for _, n := range a.NamedRanges {
		if n.Scope != "" && !known[n.Scope] {
			drop("defined name", n.Scope, n.Name)
			continue
		}
		key := n.Scope + "\x00" + n.Name
		if nameSeen[key] {
			a.Diagnostics = append(a.Diagnostics, models.Diagnostic{
				Severity: models.SeverityWarning,
				Feature:  "aggregate",
				Message:  fmt.Sprintf("dropped duplicate defined name %q in scope %q", n.Name, n.Scope),
			})
			continue
		}
		nameSeen[key] = true
		names = append(names, n)
	}
	a.NamedRanges = names

	moduleSeen := make(map[string]bool, len(a.VBAModules))
	modules := a.VBAModules[:0]
	for _, m := range a.VBAModules {
		if moduleSeen[m.Name] {
			a.Diagnostics = append(a.Diagnostics, models.Diagnostic{
				Severity: models.SeverityWarning,
				Feature:  "aggregate",
				Message:  fmt.Sprintf("dropped duplicate macro module %q", m.Name),
			})
			continue
		}
		moduleSeen[m.Name] = true
		modules = append(modules, m)
	}
	a.VBAModules = modules
}

// filterInPlace keeps records whose sheet is known, reporting each drop.
// Records without a sheet (workbook-level) pass through.
func filterInPlace[T any](records []T, key func(T) (sheet, what string), known map[string]bool, drop func(kind, sheet, what string), kind string) []T {
	out := records[:0]
	for _, r := range records {
		sheet, what := key(r)
		if sheet != "" && !known[sheet] {
			drop(kind, sheet, what)
			continue
		}
		out = append(out, r)
	}
	return out
}
