package parser

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// SheetDecl is one sheet declaration from the workbook part, in document
// order. Part is the resolved worksheet part name; it may be empty when the
// relationship target is missing.
type SheetDecl struct {
	Name    string
	SheetID int
	State   string
	RelID   string
	Part    string
}

// workbookXML mirrors the subset of xl/workbook.xml the extractors need.
type workbookXML struct {
	XMLName    xml.Name `xml:"workbook"`
	Protection *struct {
		LockStructure bool `xml:"lockStructure,attr"`
		LockWindows   bool `xml:"lockWindows,attr"`
	} `xml:"workbookProtection"`
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		State   string `xml:"state,attr"`
		RelID   string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
	ExternalReferences []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"externalReferences>externalReference"`
	DefinedNames []struct {
		Name         string `xml:"name,attr"`
		LocalSheetID *int   `xml:"localSheetId,attr"`
		Hidden       bool   `xml:"hidden,attr"`
		Comment      string `xml:"comment,attr"`
		Value        string `xml:",chardata"`
	} `xml:"definedNames>definedName"`
}

func parseWorkbook(c *container.Container) (*workbookXML, error) {
	data, err := c.ReadPart(container.WorkbookPart)
	if err != nil {
		return nil, err
	}
	var wb workbookXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&wb); err != nil {
		return nil, &container.StructuralError{Path: c.Path(), Part: container.WorkbookPart, Err: err}
	}
	return &wb, nil
}

// SheetDecls returns the workbook's sheet declarations in document order with
// their worksheet part names resolved through the workbook relationships.
// It fails only when the mandatory workbook part itself is unreadable.
func SheetDecls(c *container.Container) ([]SheetDecl, error) {
	wb, err := parseWorkbook(c)
	if err != nil {
		return nil, err
	}
	rels, err := c.Relationships(container.WorkbookPart)
	if err != nil {
		return nil, err
	}
	decls := make([]SheetDecl, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		decl := SheetDecl{Name: s.Name, SheetID: s.SheetID, State: s.State, RelID: s.RelID}
		if rel, ok := rels[s.RelID]; ok {
			decl.Part = container.ResolveTarget(container.WorkbookPart, rel.Target)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// visibility maps a sheet state attribute to the closed visibility set.
// The attribute is absent for visible sheets.
func visibility(state string) models.Visibility {
	switch state {
	case "hidden":
		return models.VisibilityHidden
	case "veryHidden":
		return models.VisibilityVeryHidden
	default:
		return models.VisibilityVisible
	}
}

// ExtractNamedRanges extracts defined names with their scope resolved against
// the sheet declaration order. Reserved builtin names (_xlnm.*) carry print
// and filter settings and are reported by their own extractors, not here.
// LAMBDA-valued definitions are flagged using the same token-presence rule
// the formula classifier applies.
func ExtractNamedRanges(c *container.Container) ([]models.NamedRangeInfo, []models.Diagnostic, error) {
	wb, err := parseWorkbook(c)
	if err != nil {
		return nil, nil, err
	}
	var diags []models.Diagnostic
	var out []models.NamedRangeInfo
	for _, dn := range wb.DefinedNames {
		if strings.HasPrefix(dn.Name, "_xlnm.") {
			continue
		}
		info := models.NamedRangeInfo{
			Name:     dn.Name,
			Value:    CleanFormula(strings.TrimSpace(dn.Value)),
			IsLambda: isLambda(dn.Value),
			Comment:  dn.Comment,
			Hidden:   dn.Hidden,
		}
		if dn.LocalSheetID != nil {
			idx := *dn.LocalSheetID
			if idx < 0 || idx >= len(wb.Sheets) {
				diags = append(diags, errDiag("named_ranges",
					"defined name "+dn.Name+" references an unknown sheet scope", nil))
				continue
			}
			info.Scope = wb.Sheets[idx].Name
		}
		out = append(out, info)
	}
	return out, diags, nil
}

// lambdaRe matches a LAMBDA definition or invocation, in raw or
// internal-prefixed form. The word boundary keeps user-defined names
// like MyLambda(...) from matching.
var lambdaRe = regexp.MustCompile(`(?i)\bLAMBDA\(`)

// isLambda reports whether an expression defines or invokes a LAMBDA.
func isLambda(expr string) bool {
	return lambdaRe.MatchString(expr)
}

// ExtractWorkbookProtection returns the workbook-level protection record, or
// nil when the workbook is unprotected.
func ExtractWorkbookProtection(c *container.Container) (*models.WorkbookProtectionInfo, []models.Diagnostic) {
	wb, err := parseWorkbook(c)
	if err != nil {
		return nil, []models.Diagnostic{errDiag("protection", "workbook part unreadable", err)}
	}
	if wb.Protection == nil {
		return nil, nil
	}
	return &models.WorkbookProtectionInfo{
		IsProtected:      true,
		ProtectStructure: wb.Protection.LockStructure,
		ProtectWindows:   wb.Protection.LockWindows,
	}, nil
}
