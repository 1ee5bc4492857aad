package parser

import (
	"context"
	"strconv"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

var errorLiterals = map[string]models.ErrorType{
	"#REF!":   models.ErrorRef,
	"#NAME?":  models.ErrorName,
	"#VALUE!": models.ErrorValue,
	"#DIV/0!": models.ErrorDiv,
	"#NULL!":  models.ErrorNull,
	"#NUM!":   models.ErrorNum,
	"#N/A":    models.ErrorNA,
	"#CALC!":  models.ErrorCalc,
	"#SPILL!": models.ErrorSpill,
}

// ExtractErrorCells finds cells whose value is an error. Cells typed as
// errors (t="e") are always reported; string cells are reported when the
// text is exactly one of the known error literals, which catches errors
// pasted as values.
func ExtractErrorCells(ctx context.Context, c *container.Container) ([]models.ErrorCellInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.ErrorCellInfo
	var diags []models.Diagnostic
	sst, err := sharedStrings(c)
	if err != nil {
		diags = append(diags, errDiag("error_cells", "shared strings unreadable", err))
	}
	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		if decl.Part == "" {
			continue
		}
		data, err := c.ReadPart(decl.Part)
		if err != nil {
			diags = append(diags, errDiag("error_cells", "sheet "+decl.Name+" unreadable", err))
			continue
		}
		walkErr := walkSheetCells(data, func(cell cellXML) bool {
			value := cell.V
			switch cell.T {
			case "e", "str":
			case "inlineStr":
				if cell.IS != nil {
					value = cell.IS.T
				}
			case "s":
				idx, convErr := strconv.Atoi(cell.V)
				if convErr != nil || idx < 0 || idx >= len(sst) {
					return true
				}
				value = sst[idx]
			default:
				return true
			}
			kind, known := errorLiterals[value]
			if !known {
				return true
			}
			info := models.ErrorCellInfo{
				Location:  cellRef(decl.Name, cell.R),
				ErrorType: kind,
			}
			if cell.F != nil && cell.F.Text != "" {
				info.Formula = "=" + cell.F.Text
			}
			out = append(out, info)
			return true
		})
		if walkErr != nil {
			diags = append(diags, errDiag("error_cells", "sheet "+decl.Name+" is malformed", walkErr))
		}
	}
	return out, diags, nil
}
