package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

// cellXML mirrors one <c> element of a worksheet part.
type cellXML struct {
	R string `xml:"r,attr"`
	T string `xml:"t,attr"`
	F *struct {
		T    string `xml:"t,attr"`
		Ref  string `xml:"ref,attr"`
		Si   string `xml:"si,attr"`
		Text string `xml:",chardata"`
	} `xml:"f"`
	V  string `xml:"v"`
	IS *struct {
		T string `xml:"t"`
	} `xml:"is"`
}

// walkSheetCells streams the cells of a worksheet part in document order.
// The visitor returns false to stop the walk early.
func walkSheetCells(data []byte, visit func(cellXML) bool) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "c" {
			continue
		}
		var cell cellXML
		if err := dec.DecodeElement(&cell, &se); err != nil {
			return err
		}
		if !visit(cell) {
			return nil
		}
	}
}
