// Package parser implements the structural, formula and feature extractors
// over the parts of a workbook package. Extractors are independent of each
// other: each reads only the parts it needs and returns its own records plus
// non-fatal diagnostics. A malformed feature part degrades to partial output,
// never to an aborted extraction.
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// cellRef builds a CellReference from a sheet name and an A1 address.
func cellRef(sheet, cell string) models.CellReference {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return models.CellReference{Sheet: sheet, Cell: cell}
	}
	return models.CellReference{Sheet: sheet, Cell: cell, Row: row, Col: col}
}

// errDiag records a recoverable per-feature extraction failure.
func errDiag(feature, msg string, err error) models.Diagnostic {
	d := models.Diagnostic{Severity: models.SeverityError, Feature: feature, Message: msg}
	if err != nil {
		d.Detail = err.Error()
	}
	return d
}

// attrInRoot returns the named attribute of the first occurrence of the
// named element in an XML part, or "" when absent.
func attrInRoot(data []byte, element, name string) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != element {
			continue
		}
		return attr(se, name)
	}
}

// decodeFirstElement decodes the first occurrence of the named element in
// an XML part into v. It reports whether the element was found.
func decodeFirstElement(data []byte, element string, v any) (bool, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != element {
			continue
		}
		if err := dec.DecodeElement(v, &se); err != nil {
			return false, err
		}
		return true, nil
	}
}

// warnDiag records partial or truncated output.
func warnDiag(feature, format string, args ...any) models.Diagnostic {
	return models.Diagnostic{
		Severity: models.SeverityWarning,
		Feature:  feature,
		Message:  fmt.Sprintf(format, args...),
	}
}
