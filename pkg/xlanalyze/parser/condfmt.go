package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// cfRuleTypes maps the wire rule type attribute to the reported rule kind.
// Text match variants all collapse to text_contains.
var cfRuleTypes = map[string]models.CFRuleType{
	"colorScale":        models.CFColorScale,
	"dataBar":           models.CFDataBar,
	"iconSet":           models.CFIconSet,
	"cellIs":            models.CFCellIs,
	"expression":        models.CFFormula,
	"top10":             models.CFTopBottom,
	"aboveAverage":      models.CFAboveAverage,
	"duplicateValues":   models.CFDuplicate,
	"uniqueValues":      models.CFUnique,
	"containsText":      models.CFTextContains,
	"notContainsText":   models.CFTextContains,
	"beginsWith":        models.CFTextContains,
	"endsWith":          models.CFTextContains,
	"timePeriod":        models.CFDateOccurring,
	"containsBlanks":    models.CFBlank,
	"notContainsBlanks": models.CFNotBlank,
	"containsErrors":    models.CFError,
	"notContainsErrors": models.CFNotError,
}

type cfRuleXML struct {
	Type       string   `xml:"type,attr"`
	Priority   int      `xml:"priority,attr"`
	Operator   string   `xml:"operator,attr"`
	StopIfTrue bool     `xml:"stopIfTrue,attr"`
	Text       string   `xml:"text,attr"`
	TimePeriod string   `xml:"timePeriod,attr"`
	Rank       string   `xml:"rank,attr"`
	Percent    bool     `xml:"percent,attr"`
	Bottom     bool     `xml:"bottom,attr"`
	Formulas   []string `xml:"formula"`
	ColorScale *cfvoSet `xml:"colorScale"`
	DataBar    *cfvoSet `xml:"dataBar"`
	IconSet    *struct {
		Set string `xml:"iconSet,attr"`
		cfvoSet
	} `xml:"iconSet"`
}

type cfvoSet struct {
	CFVOs []struct {
		Type string `xml:"type,attr"`
		Val  string `xml:"val,attr"`
	} `xml:"cfvo"`
}

// ExtractConditionalFormats collects every conditional formatting rule,
// one record per (range, rule) pair, in sheet then priority-source order.
func ExtractConditionalFormats(ctx context.Context, c *container.Container) ([]models.ConditionalFormatInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.ConditionalFormatInfo
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
			diags = append(diags, errDiag("conditional_formats", "sheet "+decl.Name+" unreadable", err))
			continue
		}
		rules, parseErr := parseSheetCondFmt(decl.Name, data)
		out = append(out, rules...)
		if parseErr != nil {
			diags = append(diags, errDiag("conditional_formats", "sheet "+decl.Name+" is malformed", parseErr))
		}
	}
	return out, diags, nil
}

func parseSheetCondFmt(sheet string, data []byte) ([]models.ConditionalFormatInfo, error) {
	var out []models.ConditionalFormatInfo
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
		if !ok || se.Name.Local != "conditionalFormatting" {
			continue
		}
		var block struct {
			Sqref string      `xml:"sqref,attr"`
			Rules []cfRuleXML `xml:"cfRule"`
		}
		if err := dec.DecodeElement(&block, &se); err != nil {
			return out, err
		}
		for _, rule := range block.Rules {
			kind, known := cfRuleTypes[rule.Type]
			if !known {
				kind = models.CFRuleType(rule.Type)
			}
			info := models.ConditionalFormatInfo{
				Sheet:      sheet,
				Range:      block.Sqref,
				RuleType:   kind,
				Priority:   rule.Priority,
				Operator:   rule.Operator,
				StopIfTrue: rule.StopIfTrue,
			}
			if len(rule.Formulas) > 0 {
				info.Formula = rule.Formulas[0]
			}
			info.Values = cfRuleValues(rule)
			info.Description = cfRuleDescription(rule, info)
			out = append(out, info)
		}
	}
}

func cfRuleValues(rule cfRuleXML) []string {
	var set *cfvoSet
	switch {
	case rule.ColorScale != nil:
		set = rule.ColorScale
	case rule.DataBar != nil:
		set = rule.DataBar
	case rule.IconSet != nil:
		set = &rule.IconSet.cfvoSet
	default:
		if len(rule.Formulas) < 2 {
			return nil
		}
		return rule.Formulas
	}
	var vals []string
	for _, v := range set.CFVOs {
		if v.Val != "" {
			vals = append(vals, v.Type+":"+v.Val)
			continue
		}
		vals = append(vals, v.Type)
	}
	return vals
}

// cfRuleDescription renders a short human-readable summary of the rule.
func cfRuleDescription(rule cfRuleXML, info models.ConditionalFormatInfo) string {
	switch info.RuleType {
	case models.CFCellIs:
		if len(rule.Formulas) >= 2 {
			return fmt.Sprintf("cell %s %s and %s", rule.Operator, rule.Formulas[0], rule.Formulas[1])
		}
		if len(rule.Formulas) == 1 {
			return fmt.Sprintf("cell %s %s", rule.Operator, rule.Formulas[0])
		}
		return "cell " + rule.Operator
	case models.CFFormula:
		return "formula rule: " + info.Formula
	case models.CFColorScale:
		if rule.ColorScale == nil {
			return "color scale"
		}
		return fmt.Sprintf("%d-color scale", len(rule.ColorScale.CFVOs))
	case models.CFDataBar:
		return "data bar"
	case models.CFIconSet:
		if rule.IconSet != nil && rule.IconSet.Set != "" {
			return "icon set " + rule.IconSet.Set
		}
		return "icon set"
	case models.CFTopBottom:
		direction := "top"
		if rule.Bottom {
			direction = "bottom"
		}
		unit := ""
		if rule.Percent {
			unit = "%"
		}
		return fmt.Sprintf("%s %s%s", direction, rule.Rank, unit)
	case models.CFTextContains:
		if rule.Text != "" {
			return fmt.Sprintf("%s %q", rule.Type, rule.Text)
		}
		return "text match"
	case models.CFDateOccurring:
		return "date occurring " + rule.TimePeriod
	default:
		return string(info.RuleType)
	}
}
