package parser

import (
	"context"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// sheetProtectionXML mirrors the sheetProtection element. The wire encodes
// restrictions, not permissions: most attributes default to 1 (restricted)
// while the two select attributes default to 0 (allowed).
type sheetProtectionXML struct {
	Sheet               bool  `xml:"sheet,attr"`
	SelectLockedCells   bool  `xml:"selectLockedCells,attr"`
	SelectUnlockedCells bool  `xml:"selectUnlockedCells,attr"`
	FormatCells         *bool `xml:"formatCells,attr"`
	FormatColumns       *bool `xml:"formatColumns,attr"`
	FormatRows          *bool `xml:"formatRows,attr"`
	InsertColumns       *bool `xml:"insertColumns,attr"`
	InsertRows          *bool `xml:"insertRows,attr"`
	InsertHyperlinks    *bool `xml:"insertHyperlinks,attr"`
	DeleteColumns       *bool `xml:"deleteColumns,attr"`
	DeleteRows          *bool `xml:"deleteRows,attr"`
	Sort                *bool `xml:"sort,attr"`
	AutoFilter          *bool `xml:"autoFilter,attr"`
	PivotTables         *bool `xml:"pivotTables,attr"`
}

// ExtractSheetProtections returns a protection record for each protected
// sheet. Unprotected sheets are omitted.
func ExtractSheetProtections(ctx context.Context, c *container.Container) ([]models.SheetProtectionInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.SheetProtectionInfo
	var diags []models.Diagnostic
	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		if decl.Part == "" {
			continue
		}
		data, err := c.ReadPart(decl.Part)
		if err != nil {
			diags = append(diags, errDiag("protection", "sheet "+decl.Name+" unreadable", err))
			continue
		}
		var prot sheetProtectionXML
		found, parseErr := decodeFirstElement(data, "sheetProtection", &prot)
		if parseErr != nil {
			diags = append(diags, errDiag("protection", "sheet "+decl.Name+" is malformed", parseErr))
			continue
		}
		if !found || !prot.Sheet {
			continue
		}
		out = append(out, models.SheetProtectionInfo{
			Sheet:                 decl.Name,
			IsProtected:           true,
			AllowSelectLocked:     !prot.SelectLockedCells,
			AllowSelectUnlocked:   !prot.SelectUnlockedCells,
			AllowFormatCells:      allowed(prot.FormatCells),
			AllowFormatColumns:    allowed(prot.FormatColumns),
			AllowFormatRows:       allowed(prot.FormatRows),
			AllowInsertColumns:    allowed(prot.InsertColumns),
			AllowInsertRows:       allowed(prot.InsertRows),
			AllowInsertHyperlinks: allowed(prot.InsertHyperlinks),
			AllowDeleteColumns:    allowed(prot.DeleteColumns),
			AllowDeleteRows:       allowed(prot.DeleteRows),
			AllowSort:             allowed(prot.Sort),
			AllowFilter:           allowed(prot.AutoFilter),
			AllowPivotTables:      allowed(prot.PivotTables),
		})
	}
	return out, diags, nil
}

// allowed interprets a restriction attribute: absent means restricted, an
// explicit 0 means allowed.
func allowed(restricted *bool) bool {
	return restricted != nil && !*restricted
}
