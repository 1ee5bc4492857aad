package parser

import (
	"context"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// paperSizeNames covers the sizes that occur in practice; unknown codes are
// reported verbatim.
var paperSizeNames = map[string]string{
	"1":  "Letter",
	"3":  "Tabloid",
	"5":  "Legal",
	"8":  "A3",
	"9":  "A4",
	"11": "A5",
	"13": "B5",
}

type pageSetupXML struct {
	Orientation string `xml:"orientation,attr"`
	PaperSize   string `xml:"paperSize,attr"`
	FitToWidth  *int   `xml:"fitToWidth,attr"`
	FitToHeight *int   `xml:"fitToHeight,attr"`
}

type pageBreaksXML struct {
	Breaks []struct {
		ID int `xml:"id,attr"`
	} `xml:"brk"`
}

// ExtractPrintSettings reports print configuration for sheets that have any.
// Print areas and title rows come from the reserved _xlnm builtin names
// scoped to each sheet; the rest comes from the sheet part.
func ExtractPrintSettings(ctx context.Context, c *container.Container) ([]models.PrintSettingsInfo, []models.Diagnostic, error) {
	wb, err := parseWorkbook(c)
	if err != nil {
		return nil, nil, err
	}
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	areas := make(map[int]string)
	titles := make(map[int]string)
	for _, dn := range wb.DefinedNames {
		if dn.LocalSheetID == nil {
			continue
		}
		switch dn.Name {
		case "_xlnm.Print_Area":
			areas[*dn.LocalSheetID] = strings.TrimSpace(dn.Value)
		case "_xlnm.Print_Titles":
			titles[*dn.LocalSheetID] = strings.TrimSpace(dn.Value)
		}
	}

	var out []models.PrintSettingsInfo
	var diags []models.Diagnostic
	for i, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		info := models.PrintSettingsInfo{Sheet: decl.Name}
		info.PrintArea = areas[i]
		info.PrintTitleRows, info.PrintTitleCols = splitPrintTitles(titles[i])

		if decl.Part != "" {
			data, err := c.ReadPart(decl.Part)
			if err != nil {
				diags = append(diags, errDiag("print_settings", "sheet "+decl.Name+" unreadable", err))
			} else {
				fillPageSetup(&info, data)
			}
		}

		if hasPrintSettings(info) {
			out = append(out, info)
		}
	}
	return out, diags, nil
}

func hasPrintSettings(info models.PrintSettingsInfo) bool {
	return info.PrintArea != "" || info.PrintTitleRows != "" || info.PrintTitleCols != "" ||
		len(info.RowBreaks) > 0 || len(info.ColBreaks) > 0 ||
		info.Orientation != "" || info.PaperSize != "" || info.FitToPage
}

func fillPageSetup(info *models.PrintSettingsInfo, data []byte) {
	var setup pageSetupXML
	if found, err := decodeFirstElement(data, "pageSetup", &setup); err == nil && found {
		info.Orientation = setup.Orientation
		if name, ok := paperSizeNames[setup.PaperSize]; ok {
			info.PaperSize = name
		} else {
			info.PaperSize = setup.PaperSize
		}
		if setup.FitToWidth != nil {
			info.FitToWidth = *setup.FitToWidth
		}
		if setup.FitToHeight != nil {
			info.FitToHeight = *setup.FitToHeight
		}
	}

	var fitSetup struct {
		FitToPage bool `xml:"fitToPage,attr"`
	}
	if found, err := decodeFirstElement(data, "pageSetUpPr", &fitSetup); err == nil && found {
		info.FitToPage = fitSetup.FitToPage
	}

	var rowBreaks pageBreaksXML
	if found, err := decodeFirstElement(data, "rowBreaks", &rowBreaks); err == nil && found {
		for _, brk := range rowBreaks.Breaks {
			info.RowBreaks = append(info.RowBreaks, brk.ID)
		}
	}
	var colBreaks pageBreaksXML
	if found, err := decodeFirstElement(data, "colBreaks", &colBreaks); err == nil && found {
		for _, brk := range colBreaks.Breaks {
			info.ColBreaks = append(info.ColBreaks, brk.ID)
		}
	}
}

// splitPrintTitles separates a Print_Titles value into its row span and
// column span parts. The value is a comma-separated list of sheet-qualified
// spans like 'Sheet1'!$1:$2 or 'Sheet1'!$A:$B.
func splitPrintTitles(value string) (rows, cols string) {
	for _, part := range strings.Split(value, ",") {
		span := part
		if i := strings.LastIndex(span, "!"); i >= 0 {
			span = span[i+1:]
		}
		if span == "" {
			continue
		}
		trimmed := strings.ReplaceAll(span, "$", "")
		if trimmed != "" && trimmed[0] >= '0' && trimmed[0] <= '9' {
			rows = span
		} else {
			cols = span
		}
	}
	return rows, cols
}
