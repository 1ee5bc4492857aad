package parser

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// ExternalTargets maps 1-based external link indices, as they appear in
// stored formulas ([1]Sheet1!A1), to the referenced workbook file name.
// The index order is the declaration order of the workbook's external
// references. Unresolvable entries are simply absent from the map.
func ExternalTargets(c *container.Container) map[int]string {
	out := make(map[int]string)
	wb, err := parseWorkbook(c)
	if err != nil {
		return out
	}
	rels, err := c.Relationships(container.WorkbookPart)
	if err != nil {
		return out
	}
	for i, ref := range wb.ExternalReferences {
		rel, ok := rels[ref.RelID]
		if !ok {
			continue
		}
		linkPart := container.ResolveTarget(container.WorkbookPart, rel.Target)
		if name := externalLinkTarget(c, linkPart); name != "" {
			out[i+1] = name
		}
	}
	return out
}

// externalLinkTarget resolves the actual file an externalLink part points
// at, via the part's own relationships.
func externalLinkTarget(c *container.Container, linkPart string) string {
	rels, err := c.Relationships(linkPart)
	if err != nil {
		return ""
	}
	for _, rel := range rels {
		if strings.Contains(rel.Type, "externalLinkPath") {
			return path.Base(strings.TrimPrefix(rel.Target, "file:///"))
		}
	}
	return ""
}

// externalRefRe captures the sheet and range that follow an external
// workbook marker in a formula, e.g. [1]'Jan Data'!A1:B2.
var externalRefRe = regexp.MustCompile(`\[(\d+|[^\]\[]+\.[A-Za-z]{3,4})\]('?([^'!\[\]]+)'?)?(!(\$?[A-Z]+\$?\d+(:\$?[A-Z]+\$?\d+)?))?`)

// ExtractExternalRefs collects cross-workbook references: one record per
// (workbook, sheet) pair found in cell formulas, plus one workbook-level
// record per external link part whose target never appears in a formula.
func ExtractExternalRefs(ctx context.Context, c *container.Container) ([]models.ExternalRefInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}
	targets := ExternalTargets(c)

	var out []models.ExternalRefInfo
	var diags []models.Diagnostic
	seen := make(map[string]struct{})

	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		if decl.Part == "" {
			continue
		}
		data, err := c.ReadPart(decl.Part)
		if err != nil {
			diags = append(diags, errDiag("external_refs", "sheet "+decl.Name+" unreadable", err))
			continue
		}
		sheetName := decl.Name
		walkErr := walkSheetCells(data, func(cell cellXML) bool {
			if cell.F == nil || cell.F.Text == "" {
				return true
			}
			for _, m := range externalRefRe.FindAllStringSubmatch(cell.F.Text, -1) {
				book := m[1]
				if idx, err := parseLinkIndex(book); err == nil {
					resolved, ok := targets[idx]
					if !ok {
						continue
					}
					book = resolved
				}
				key := book + "\x00" + m[3]
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, models.ExternalRefInfo{
					SourceCell:     cellRef(sheetName, cell.R),
					TargetWorkbook: book,
					TargetSheet:    m[3],
					TargetRange:    m[5],
				})
			}
			return true
		})
		if walkErr != nil {
			diags = append(diags, errDiag("external_refs", "sheet "+decl.Name+" is malformed", walkErr))
		}
	}

	// Workbook-level links that no scanned formula referenced.
	for _, name := range targets {
		if _, dup := seen[name+"\x00"]; dup {
			continue
		}
		found := false
		for key := range seen {
			if strings.HasPrefix(key, name+"\x00") {
				found = true
				break
			}
		}
		if !found {
			out = append(out, models.ExternalRefInfo{TargetWorkbook: name})
		}
	}
	return out, diags, nil
}
