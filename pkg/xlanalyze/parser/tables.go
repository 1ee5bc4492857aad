package parser

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

type tableXML struct {
	Name           string `xml:"name,attr"`
	DisplayName    string `xml:"displayName,attr"`
	Ref            string `xml:"ref,attr"`
	HeaderRowCount *int   `xml:"headerRowCount,attr"`
	TotalsRowCount int    `xml:"totalsRowCount,attr"`
	Columns        []struct {
		Name string `xml:"name,attr"`
	} `xml:"tableColumns>tableColumn"`
	StyleInfo *struct {
		Name string `xml:"name,attr"`
	} `xml:"tableStyleInfo"`
}

// ExtractTables collects structured tables by following each sheet's table
// part relationships.
func ExtractTables(ctx context.Context, c *container.Container) ([]models.TableInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.TableInfo
	var diags []models.Diagnostic
	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		if decl.Part == "" {
			continue
		}
		rels, err := c.Relationships(decl.Part)
		if err != nil {
			continue
		}
		for _, rel := range rels {
			if !strings.HasSuffix(rel.Type, "/table") {
				continue
			}
			part := container.ResolveTarget(decl.Part, rel.Target)
			data, err := c.ReadPart(part)
			if err != nil {
				diags = append(diags, errDiag("tables", "table part "+part+" unreadable", err))
				continue
			}
			var t tableXML
			if err := xml.Unmarshal(data, &t); err != nil {
				diags = append(diags, errDiag("tables", "table part "+part+" is malformed", err))
				continue
			}
			info := models.TableInfo{
				Name:        t.Name,
				Sheet:       decl.Name,
				Range:       t.Ref,
				DisplayName: t.DisplayName,
				HasTotals:   t.TotalsRowCount > 0,
				// headerRowCount defaults to 1 when absent
				HasHeader: t.HeaderRowCount == nil || *t.HeaderRowCount > 0,
			}
			for _, col := range t.Columns {
				info.Columns = append(info.Columns, col.Name)
			}
			if t.StyleInfo != nil {
				info.StyleName = t.StyleInfo.Name
			}
			out = append(out, info)
		}
	}
	return out, diags, nil
}
