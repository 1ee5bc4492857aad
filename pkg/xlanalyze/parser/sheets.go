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

// sheetScan is the lightweight single-pass summary of one worksheet part.
type sheetScan struct {
	dimension   string
	tabColor    string
	hasFormulas bool
	hasLinks    bool
	hasCF       bool
	hasDV       bool
	merged      []string
	tableParts  int
}

// ExtractSheets builds SheetInfo records in declaration order, assigning
// index = declaration position. A malformed individual sheet part is
// recorded as a diagnostic and yields a bare record; only an unreadable
// workbook part fails the extraction.
func ExtractSheets(ctx context.Context, c *container.Container) ([]models.SheetInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.SheetInfo
	var diags []models.Diagnostic
	for i, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		info := models.SheetInfo{
			Name:       decl.Name,
			Index:      i,
			Visibility: visibility(decl.State),
		}
		if decl.Part == "" {
			diags = append(diags, errDiag("sheets", "sheet "+decl.Name+" has no worksheet part", nil))
			out = append(out, info)
			continue
		}
		data, err := c.ReadPart(decl.Part)
		if err != nil {
			diags = append(diags, errDiag("sheets", "sheet "+decl.Name+" unreadable", err))
			out = append(out, info)
			continue
		}
		scan, err := scanSheetPart(data)
		if err != nil {
			diags = append(diags, errDiag("sheets", "sheet "+decl.Name+" is malformed", err))
		}

		if scan.dimension != "" && scan.dimension != "A1" && scan.dimension != "A1:A1" {
			info.UsedRange = scan.dimension
			info.RowCount, info.ColCount = rangeExtents(scan.dimension)
			info.HasData = info.RowCount > 0 && info.ColCount > 0
		}
		info.TabColor = scan.tabColor
		info.HasFormulas = scan.hasFormulas
		info.HasHyperlinks = scan.hasLinks
		info.HasConditionalFormatting = scan.hasCF
		info.HasDataValidation = scan.hasDV
		info.HasMergedCells = len(scan.merged) > 0
		info.MergedCellRanges = scan.merged
		info.HasTables = scan.tableParts > 0

		rels, relErr := c.Relationships(decl.Part)
		if relErr == nil {
			info.HasCharts = sheetHasCharts(c, decl.Part, rels)
			info.HasPivots = relTypePresent(rels, "pivotTable")
			info.HasComments = relTypePresent(rels, "comments") || relTypePresent(rels, "threadedComment")
		}

		out = append(out, info)
	}
	return out, diags, nil
}

// scanSheetPart token-walks a worksheet part once, collecting the summary
// fields without decoding cell values.
func scanSheetPart(data []byte) (sheetScan, error) {
	var scan sheetScan
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return scan, nil
			}
			return scan, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "dimension":
			scan.dimension = attr(se, "ref")
		case "tabColor":
			if rgb := attr(se, "rgb"); len(rgb) == 8 {
				scan.tabColor = "#" + rgb[2:]
			}
		case "f":
			scan.hasFormulas = true
		case "hyperlink":
			scan.hasLinks = true
		case "conditionalFormatting":
			scan.hasCF = true
		case "dataValidation":
			scan.hasDV = true
		case "mergeCell":
			if ref := attr(se, "ref"); ref != "" {
				scan.merged = append(scan.merged, ref)
			}
		case "tablePart":
			scan.tableParts++
		}
	}
}

// sheetHasCharts reports whether the sheet's drawing part references a chart.
func sheetHasCharts(c *container.Container, sheetPart string, rels map[string]container.Relationship) bool {
	for _, rel := range rels {
		if !strings.Contains(rel.Type, "/drawing") {
			continue
		}
		drawingPart := container.ResolveTarget(sheetPart, rel.Target)
		drawingRels, err := c.Relationships(drawingPart)
		if err != nil {
			continue
		}
		if relTypePresent(drawingRels, "chart") {
			return true
		}
	}
	return false
}

func relTypePresent(rels map[string]container.Relationship, kind string) bool {
	for _, rel := range rels {
		if strings.Contains(rel.Type, kind) {
			return true
		}
	}
	return false
}

// rangeExtents returns the row and column counts spanned by an A1:B2 range.
func rangeExtents(ref string) (rows, cols int) {
	parts := strings.SplitN(ref, ":", 2)
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return 0, 0
	}
	if len(parts) == 1 {
		return r1, c1
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return 0, 0
	}
	return r2 - r1 + 1, c2 - c1 + 1
}

// attr returns the value of the named attribute, ignoring namespaces.
func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
