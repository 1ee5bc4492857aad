package parser

import (
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// ExtractDataValidations collects every data validation rule per sheet.
// A sheet that fails to decode is skipped with a diagnostic.
func ExtractDataValidations(ctx context.Context, f *excelize.File) ([]models.DataValidationInfo, []models.Diagnostic, error) {
	var out []models.DataValidationInfo
	var diags []models.Diagnostic
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		rules, err := f.GetDataValidations(sheet)
		if err != nil {
			diags = append(diags, errDiag("data_validations", "sheet "+sheet+" validations unreadable", err))
			continue
		}
		for _, dv := range rules {
			vType := dv.Type
			if vType == "" {
				vType = "none"
			}
			info := models.DataValidationInfo{
				Sheet:      sheet,
				Range:      dv.Sqref,
				Type:       vType,
				Operator:   dv.Operator,
				Formula1:   stripFormulaTag(dv.Formula1, "formula1"),
				Formula2:   stripFormulaTag(dv.Formula2, "formula2"),
				AllowBlank: dv.AllowBlank,
				// the wire attribute is inverted: showDropDown=1 hides the dropdown
				ShowDropdown:     !dv.ShowDropDown,
				ShowInputMessage: dv.ShowInputMessage,
				ShowErrorMessage: dv.ShowErrorMessage,
			}
			if dv.PromptTitle != nil {
				info.InputTitle = *dv.PromptTitle
			}
			if dv.Prompt != nil {
				info.InputMessage = *dv.Prompt
			}
			if dv.ErrorTitle != nil {
				info.ErrorTitle = *dv.ErrorTitle
			}
			if dv.Error != nil {
				info.ErrorMessage = *dv.Error
			}
			if dv.ErrorStyle != nil {
				info.ErrorStyle = *dv.ErrorStyle
			}
			out = append(out, info)
		}
	}
	return out, diags, nil
}

// stripFormulaTag removes the wire-level element wrapper some writers leave
// around validation formulas.
func stripFormulaTag(formula, tag string) string {
	formula = strings.TrimPrefix(formula, "<"+tag+">")
	return strings.TrimSuffix(formula, "</"+tag+">")
}
