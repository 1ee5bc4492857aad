package parser

import (
	"context"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// FormulaOptions configures the formula scan.
type FormulaOptions struct {
	// IncludeValues copies each formula's cached result into the record.
	IncludeValues bool
	// MaxFormulas bounds the number of extracted formulas; 0 is unlimited.
	// Truncation is reported as a warning diagnostic.
	MaxFormulas int
	// SkipSheets lists sheet names to exclude from the scan.
	SkipSheets []string
}

// ExtractFormulas scans every formula-bearing cell, normalizes the formula
// text and classifies it. Shared formulas are resolved to their master
// expression. A malformed sheet part degrades to a diagnostic; the scan
// continues with the remaining sheets. Cancellation is checked between
// sheet parts.
func ExtractFormulas(ctx context.Context, c *container.Container, opts FormulaOptions) ([]models.FormulaInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}
	targets := ExternalTargets(c)

	skip := make(map[string]struct{}, len(opts.SkipSheets))
	for _, name := range opts.SkipSheets {
		skip[name] = struct{}{}
	}

	var out []models.FormulaInfo
	var diags []models.Diagnostic
	truncated := false

	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		if _, skipped := skip[decl.Name]; skipped || decl.Part == "" {
			continue
		}
		data, err := c.ReadPart(decl.Part)
		if err != nil {
			diags = append(diags, errDiag("formulas", "sheet "+decl.Name+" unreadable", err))
			continue
		}

		shared := make(map[string]string)
		walkErr := walkSheetCells(data, func(cell cellXML) bool {
			if cell.F == nil {
				return true
			}
			text := strings.TrimSpace(cell.F.Text)
			if cell.F.T == "shared" {
				if text != "" {
					shared[cell.F.Si] = text
				} else {
					text = shared[cell.F.Si]
				}
			}
			if text == "" {
				return true
			}

			raw := "=" + text
			clean := CleanFormula(raw)
			ext := externalWorkbooks(text, targets)
			// CSE array formulas are stored without braces; reinstate them
			// so the classifier sees the form Excel displays.
			classifiable := clean
			if cell.F.T == "array" {
				classifiable = "{" + clean + "}"
			}
			info := models.FormulaInfo{
				Location:           cellRef(decl.Name, cell.R),
				Formula:            raw,
				FormulaClean:       clean,
				Category:           Classify(classifiable),
				IsArrayFormula:     cell.F.T == "array",
				ReferencesExternal: len(ext) > 0,
				ExternalRefs:       ext,
			}
			if info.IsArrayFormula {
				info.SpillRange = cell.F.Ref
			}
			if opts.IncludeValues {
				info.ResultValue = cell.V
			}
			out = append(out, info)

			if opts.MaxFormulas > 0 && len(out) >= opts.MaxFormulas {
				truncated = true
				return false
			}
			return true
		})
		if walkErr != nil {
			diags = append(diags, errDiag("formulas", "sheet "+decl.Name+" is malformed", walkErr))
		}
		if truncated {
			diags = append(diags, warnDiag("formulas", "limited to %d formulas", opts.MaxFormulas))
			break
		}
	}
	return out, diags, nil
}
