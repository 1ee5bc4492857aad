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

// chartTypeNames maps OOXML chart element tags to reported chart type names.
var chartTypeNames = map[string]string{
	"lineChart":      "Line",
	"line3DChart":    "3DLine",
	"barChart":       "Bar",
	"bar3DChart":     "3DBar",
	"areaChart":      "Area",
	"area3DChart":    "3DArea",
	"pieChart":       "Pie",
	"pie3DChart":     "3DPie",
	"doughnutChart":  "Doughnut",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

// drawingAnchor is one chart frame found in a drawing part.
type drawingAnchor struct {
	name   string
	relID  string
	anchor string
}

// ExtractCharts walks each sheet's drawing part and parses the chart parts
// it references. Sheets without drawings contribute nothing; a malformed
// drawing or chart part degrades to a diagnostic.
func ExtractCharts(ctx context.Context, c *container.Container) ([]models.ChartInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.ChartInfo
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
			if !strings.Contains(rel.Type, "/drawing") {
				continue
			}
			drawingPart := container.ResolveTarget(decl.Part, rel.Target)
			charts, chartDiags := sheetCharts(c, decl.Name, drawingPart)
			out = append(out, charts...)
			diags = append(diags, chartDiags...)
		}
	}
	return out, diags, nil
}

func sheetCharts(c *container.Container, sheet, drawingPart string) ([]models.ChartInfo, []models.Diagnostic) {
	data, err := c.ReadPart(drawingPart)
	if err != nil {
		return nil, []models.Diagnostic{errDiag("charts", "drawing for sheet "+sheet+" unreadable", err)}
	}
	anchors, err := parseDrawingAnchors(data)
	if err != nil {
		return nil, []models.Diagnostic{errDiag("charts", "drawing for sheet "+sheet+" is malformed", err)}
	}
	if len(anchors) == 0 {
		return nil, nil
	}

	drawingRels, err := c.Relationships(drawingPart)
	if err != nil {
		return nil, []models.Diagnostic{errDiag("charts", "drawing rels for sheet "+sheet+" unreadable", err)}
	}

	var out []models.ChartInfo
	var diags []models.Diagnostic
	for _, a := range anchors {
		rel, ok := drawingRels[a.relID]
		if !ok || !strings.Contains(rel.Type, "chart") {
			continue
		}
		chartPart := container.ResolveTarget(drawingPart, rel.Target)
		chartData, err := c.ReadPart(chartPart)
		if err != nil {
			diags = append(diags, errDiag("charts", "chart part "+chartPart+" unreadable", err))
			continue
		}
		info := parseChartPart(chartData)
		info.Name = a.name
		info.Sheet = sheet
		info.Position = a.anchor
		out = append(out, info)
	}
	return out, diags
}

// parseDrawingAnchors finds graphic frames holding charts, with the frame
// name and the anchor cell of the frame's top-left corner.
func parseDrawingAnchors(data []byte) ([]drawingAnchor, error) {
	var out []drawingAnchor
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
		if !ok {
			continue
		}
		if se.Name.Local != "twoCellAnchor" && se.Name.Local != "oneCellAnchor" && se.Name.Local != "absoluteAnchor" {
			continue
		}
		var anchor struct {
			From *struct {
				Col int `xml:"col"`
				Row int `xml:"row"`
			} `xml:"from"`
			GraphicFrame *struct {
				NvPr struct {
					CNvPr struct {
						Name string `xml:"name,attr"`
					} `xml:"cNvPr"`
				} `xml:"nvGraphicFramePr"`
				Graphic struct {
					GraphicData struct {
						Chart *struct {
							ID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
						} `xml:"chart"`
					} `xml:"graphicData"`
				} `xml:"graphic"`
			} `xml:"graphicFrame"`
		}
		if err := dec.DecodeElement(&anchor, &se); err != nil {
			return out, err
		}
		if anchor.GraphicFrame == nil || anchor.GraphicFrame.Graphic.GraphicData.Chart == nil {
			continue
		}
		a := drawingAnchor{
			name:  anchor.GraphicFrame.NvPr.CNvPr.Name,
			relID: anchor.GraphicFrame.Graphic.GraphicData.Chart.ID,
		}
		if anchor.From != nil {
			if cell, err := excelize.CoordinatesToCellName(anchor.From.Col+1, anchor.From.Row+1); err == nil {
				a.anchor = cell
			}
		}
		out = append(out, a)
	}
}

// parseChartPart reads the chart type, title and first series range out of
// a chart part. The chart-level title precedes plotArea; titles seen after
// plotArea belong to axes and are ignored.
func parseChartPart(data []byte) models.ChartInfo {
	var info models.ChartInfo
	dec := xml.NewDecoder(bytes.NewReader(data))
	seenPlot := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case se.Name.Local == "title" && !seenPlot && info.Title == "":
			info.Title = collectElementText(dec)
		case se.Name.Local == "plotArea":
			seenPlot = true
		case se.Name.Local == "ser":
			if info.DataRange == "" {
				info.DataRange = seriesValueRange(dec)
			}
		default:
			if name, ok := chartTypeNames[se.Name.Local]; ok && info.ChartType == "" {
				info.ChartType = name
			}
		}
	}
	if info.ChartType == "" {
		info.ChartType = "unknown"
	}
	return info
}

// collectElementText concatenates the character data below the current
// element until its end tag.
func collectElementText(dec *xml.Decoder) string {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return strings.TrimSpace(b.String())
}

// seriesValueRange returns the f reference of the series val element.
func seriesValueRange(dec *xml.Decoder) string {
	depth := 1
	inVal := false
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "val":
				inVal = true
			case "f":
				if inVal {
					return collectElementText(dec)
				}
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "val" {
				inVal = false
			}
		}
	}
	return ""
}
