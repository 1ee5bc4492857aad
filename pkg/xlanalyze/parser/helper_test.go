package parser

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
)

const mainNS = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"

// testContainer zips the given parts into a temp package and opens it.
func testContainer(t *testing.T, parts map[string]string) *container.Container {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating package: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("adding part %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing part %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing file: %v", err)
	}

	c, err := container.Open(path)
	if err != nil {
		t.Fatalf("opening container: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// singleSheetParts builds the minimal package around one worksheet part.
func singleSheetParts(sheetXML string) map[string]string {
	return map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns="` + mainNS + `" xmlns:r="` + relNS + `">
  <sheets>
    <sheet name="Data" sheetId="1" r:id="rId1"/>
  </sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`,
		"xl/worksheets/sheet1.xml": sheetXML,
	}
}
