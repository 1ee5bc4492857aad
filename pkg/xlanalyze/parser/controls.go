package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// vmlObjectTypes maps VML ClientData ObjectType values to control type names.
var vmlObjectTypes = map[string]string{
	"Button":   "Button",
	"Checkbox": "CheckBox",
	"CheckBox": "CheckBox",
	"Drop":     "ComboBox",
	"Edit":     "EditBox",
	"GBox":     "GroupBox",
	"Label":    "Label",
	"List":     "ListBox",
	"Radio":    "OptionButton",
	"Scroll":   "ScrollBar",
	"Spin":     "SpinButton",
}

// ExtractControls collects shapes and pictures from drawing parts and form
// controls from VML parts. Control properties parts fill in linked cells
// and macros the VML data did not carry.
func ExtractControls(ctx context.Context, c *container.Container) ([]models.ControlInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.ControlInfo
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
			switch {
			case strings.Contains(rel.Type, "/drawing"):
				part := container.ResolveTarget(decl.Part, rel.Target)
				shapes, err := drawingShapes(c, decl.Name, part)
				if err != nil {
					diags = append(diags, errDiag("controls", "drawing for sheet "+decl.Name+" unreadable", err))
					continue
				}
				out = append(out, shapes...)
			case strings.Contains(rel.Type, "vmlDrawing"):
				part := container.ResolveTarget(decl.Part, rel.Target)
				controls, err := vmlControls(c, decl.Name, part)
				if err != nil {
					diags = append(diags, errDiag("controls", "vml drawing for sheet "+decl.Name+" unreadable", err))
					continue
				}
				out = append(out, controls...)
			}
		}
	}

	mergeCtrlProps(c, out)
	return out, diags, nil
}

// drawingShapes returns shape and picture records from one drawing part.
// Chart frames are reported by the chart extractor, not here.
func drawingShapes(c *container.Container, sheet, part string) ([]models.ControlInfo, error) {
	data, err := c.ReadPart(part)
	if err != nil {
		return nil, err
	}

	var out []models.ControlInfo
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
		if se.Name.Local != "twoCellAnchor" && se.Name.Local != "oneCellAnchor" {
			continue
		}
		var anchor struct {
			From *struct {
				Col int `xml:"col"`
				Row int `xml:"row"`
			} `xml:"from"`
			Sp *struct {
				CNvPr struct {
					Name string `xml:"name,attr"`
				} `xml:"nvSpPr>cNvPr"`
				Texts []string `xml:"txBody>p>r>t"`
			} `xml:"sp"`
			Pic *struct {
				CNvPr struct {
					Name string `xml:"name,attr"`
				} `xml:"nvPicPr>cNvPr"`
			} `xml:"pic"`
		}
		if err := dec.DecodeElement(&anchor, &se); err != nil {
			return out, err
		}

		var info models.ControlInfo
		switch {
		case anchor.Sp != nil:
			info = models.ControlInfo{
				Name:        orDefault(anchor.Sp.CNvPr.Name, "Shape"),
				ControlType: "Shape",
				Text:        strings.TrimSpace(strings.Join(anchor.Sp.Texts, " ")),
			}
		case anchor.Pic != nil:
			info = models.ControlInfo{
				Name:        orDefault(anchor.Pic.CNvPr.Name, "Picture"),
				ControlType: "Picture",
			}
		default:
			continue
		}
		info.Sheet = sheet
		if anchor.From != nil {
			if cell, err := excelize.CoordinatesToCellName(anchor.From.Col+1, anchor.From.Row+1); err == nil {
				info.Position = cell
			}
		}
		out = append(out, info)
	}
}

type vmlClientData struct {
	ObjectType string `xml:"ObjectType,attr"`
	FmlaMacro  string `xml:"FmlaMacro"`
	FmlaLink   string `xml:"FmlaLink"`
	Anchor     string `xml:"Anchor"`
	TextVAlign string `xml:"TextVAlign"`
}

// vmlControls parses a legacy VML part for form controls. Comment anchors
// (ObjectType "Note") are skipped; the comment extractor owns those.
func vmlControls(c *container.Container, sheet, part string) ([]models.ControlInfo, error) {
	data, err := c.ReadPart(part)
	if err != nil {
		return nil, err
	}

	var out []models.ControlInfo
	counts := make(map[string]int)
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "shape" {
			continue
		}
		var shape struct {
			ClientData *vmlClientData `xml:"ClientData"`
			Texts      []string       `xml:"textbox>div"`
		}
		if err := dec.DecodeElement(&shape, &se); err != nil {
			return out, err
		}
		if shape.ClientData == nil || shape.ClientData.ObjectType == "Note" {
			continue
		}
		kind, known := vmlObjectTypes[shape.ClientData.ObjectType]
		if !known {
			kind = shape.ClientData.ObjectType
		}
		counts[kind]++
		info := models.ControlInfo{
			Name:        fmt.Sprintf("%s %d", kind, counts[kind]),
			Sheet:       sheet,
			ControlType: kind,
			Macro:       strings.TrimSpace(shape.ClientData.FmlaMacro),
			LinkedCell:  strings.TrimSpace(shape.ClientData.FmlaLink),
			Text:        strings.TrimSpace(strings.Join(shape.Texts, " ")),
			Position:    vmlAnchorCell(shape.ClientData.Anchor),
		}
		out = append(out, info)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// vmlAnchorCell converts a VML Anchor list ("col, dx, row, dy, ...") to the
// top-left anchor cell.
func vmlAnchorCell(anchor string) string {
	fields := strings.Split(anchor, ",")
	if len(fields) < 3 {
		return ""
	}
	col, err1 := strconv.Atoi(strings.TrimSpace(fields[0]))
	row, err2 := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err1 != nil || err2 != nil {
		return ""
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	return cell
}

// mergeCtrlProps fills linked cells and macros from xl/ctrlProps parts into
// controls that still lack them, in part order.
func mergeCtrlProps(c *container.Container, controls []models.ControlInfo) {
	for _, part := range c.ListParts() {
		if !strings.HasPrefix(part, "xl/ctrlProps/") {
			continue
		}
		data, err := c.ReadPart(part)
		if err != nil {
			continue
		}
		link := attrInRoot(data, "formControlPr", "fmlaLink")
		macro := attrInRoot(data, "formControlPr", "fmlaMacro")
		if link == "" && macro == "" {
			continue
		}
		for i := range controls {
			ctrl := &controls[i]
			if ctrl.ControlType == "Shape" || ctrl.ControlType == "Picture" {
				continue
			}
			if link != "" && ctrl.LinkedCell == "" {
				ctrl.LinkedCell = link
				link = ""
			}
			if macro != "" && ctrl.Macro == "" {
				ctrl.Macro = macro
				macro = ""
			}
			if link == "" && macro == "" {
				break
			}
		}
	}
}
