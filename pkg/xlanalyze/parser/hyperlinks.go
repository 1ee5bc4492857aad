package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

type hyperlinkXML struct {
	Ref      string `xml:"ref,attr"`
	RelID    string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Location string `xml:"location,attr"`
	Display  string `xml:"display,attr"`
	Tooltip  string `xml:"tooltip,attr"`
}

// ExtractHyperlinks collects hyperlinks per sheet. External targets come
// from the sheet relationships; links without a relationship are
// in-workbook references using the location attribute.
func ExtractHyperlinks(ctx context.Context, f *excelize.File, c *container.Container) ([]models.HyperlinkInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.HyperlinkInfo
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
			diags = append(diags, errDiag("hyperlinks", "sheet "+decl.Name+" unreadable", err))
			continue
		}
		links, parseErr := parseSheetHyperlinks(data)
		if parseErr != nil {
			diags = append(diags, errDiag("hyperlinks", "sheet "+decl.Name+" is malformed", parseErr))
			continue
		}
		if len(links) == 0 {
			continue
		}
		rels, _ := c.Relationships(decl.Part)

		for _, link := range links {
			info := models.HyperlinkInfo{
				Location: cellRef(decl.Name, link.Ref),
				Tooltip:  link.Tooltip,
			}
			if rel, ok := rels[link.RelID]; ok && link.RelID != "" {
				info.Target = rel.Target
				info.IsExternal = true
			} else {
				info.Target = link.Location
			}
			info.DisplayText = link.Display
			if info.DisplayText == "" {
				if text, err := f.GetCellValue(decl.Name, link.Ref); err == nil {
					info.DisplayText = text
				}
			}
			out = append(out, info)
		}
	}
	return out, diags, nil
}

func parseSheetHyperlinks(data []byte) ([]hyperlinkXML, error) {
	var out []hyperlinkXML
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "hyperlink" {
			continue
		}
		var link hyperlinkXML
		if err := dec.DecodeElement(&link, &se); err != nil {
			return out, err
		}
		// cell ranges anchor at their first cell
		if i := strings.IndexByte(link.Ref, ':'); i >= 0 {
			link.Ref = link.Ref[:i]
		}
		out = append(out, link)
	}
}
