package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

type autoFilterXML struct {
	Ref     string `xml:"ref,attr"`
	Columns []struct {
		ColID   int `xml:"colId,attr"`
		Filters *struct {
			Values []struct {
				Val string `xml:"val,attr"`
			} `xml:"filter"`
		} `xml:"filters"`
		CustomFilters *struct {
			Values []struct {
				Operator string `xml:"operator,attr"`
				Val      string `xml:"val,attr"`
			} `xml:"customFilter"`
		} `xml:"customFilters"`
	} `xml:"filterColumn"`
}

// ExtractAutoFilters collects sheet-level autofilter ranges and the active
// criteria per filter column. Table-level autofilters are not repeated here;
// they surface through the table records.
func ExtractAutoFilters(ctx context.Context, c *container.Container) ([]models.AutoFilterInfo, []models.Diagnostic, error) {
	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}

	var out []models.AutoFilterInfo
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
			diags = append(diags, errDiag("autofilters", "sheet "+decl.Name+" unreadable", err))
			continue
		}
		filter, parseErr := sheetAutoFilter(data)
		if parseErr != nil {
			diags = append(diags, errDiag("autofilters", "sheet "+decl.Name+" is malformed", parseErr))
			continue
		}
		if filter == nil {
			continue
		}
		info := models.AutoFilterInfo{Sheet: decl.Name, Range: filter.Ref}
		for _, col := range filter.Columns {
			var criteria []string
			if col.Filters != nil {
				for _, v := range col.Filters.Values {
					criteria = append(criteria, v.Val)
				}
			}
			if col.CustomFilters != nil {
				for _, v := range col.CustomFilters.Values {
					op := v.Operator
					if op == "" {
						op = "equal"
					}
					criteria = append(criteria, op+" "+v.Val)
				}
			}
			if len(criteria) > 0 {
				if info.ColumnFilters == nil {
					info.ColumnFilters = make(map[int][]string)
				}
				info.ColumnFilters[col.ColID] = criteria
			}
		}
		out = append(out, info)
	}
	return out, diags, nil
}

// sheetAutoFilter finds the sheet-level autoFilter element, skipping the
// ones nested inside table parts (worksheet parts hold at most one).
func sheetAutoFilter(data []byte) (*autoFilterXML, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "autoFilter" {
			continue
		}
		var filter autoFilterXML
		if err := dec.DecodeElement(&filter, &se); err != nil {
			return nil, err
		}
		return &filter, nil
	}
}
