package container

import (
	"bytes"
	"encoding/xml"
	"path"
	"strings"
)

// Relationship is one entry of a part's relationship file.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []Relationship `xml:"Relationship"`
}

// Relationships parses the relationship file of the named part and returns
// its entries keyed by relationship ID. A part without a relationship file
// yields an empty map.
func (c *Container) Relationships(partName string) (map[string]Relationship, error) {
	relsPath := relsPartName(partName)
	out := make(map[string]Relationship)
	if !c.HasPart(relsPath) {
		return out, nil
	}
	data, err := c.ReadPart(relsPath)
	if err != nil {
		return nil, err
	}
	var rels relationships
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&rels); err != nil {
		return nil, err
	}
	for _, r := range rels.Rels {
		out[r.ID] = r
	}
	return out, nil
}

// relsPartName maps "xl/worksheets/sheet1.xml" to
// "xl/worksheets/_rels/sheet1.xml.rels".
func relsPartName(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// ResolveTarget resolves a relationship target relative to the directory of
// the source part. Absolute targets ("/xl/...") are package-rooted.
func ResolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir, _ := path.Split(sourcePart)
	return path.Clean(dir + target)
}
