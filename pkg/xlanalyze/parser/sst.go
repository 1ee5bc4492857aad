package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
)

const sharedStringsPart = "xl/sharedStrings.xml"

// sharedStrings loads the shared string table as a flat slice indexed by
// string id. Rich-text runs are concatenated. A missing part yields an
// empty table, not an error.
func sharedStrings(c *container.Container) ([]string, error) {
	if !c.HasPart(sharedStringsPart) {
		return nil, nil
	}
	data, err := c.ReadPart(sharedStringsPart)
	if err != nil {
		return nil, err
	}

	var table []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return table, nil
			}
			return table, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "si" {
			continue
		}
		var item struct {
			T    string `xml:"t"`
			Runs []struct {
				T string `xml:"t"`
			} `xml:"r"`
		}
		if err := dec.DecodeElement(&item, &se); err != nil {
			return table, err
		}
		if len(item.Runs) > 0 {
			var b strings.Builder
			for _, run := range item.Runs {
				b.WriteString(run.T)
			}
			table = append(table, b.String())
			continue
		}
		table = append(table, item.T)
	}
}
