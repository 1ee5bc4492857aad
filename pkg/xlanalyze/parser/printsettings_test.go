package parser

import (
	"context"
	"testing"
)

func TestExtractPrintSettings(t *testing.T) {
	c := testContainer(t, map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns="` + mainNS + `" xmlns:r="` + relNS + `">
  <sheets><sheet name="Report" sheetId="1" r:id="rId1"/></sheets>
  <definedNames>
    <definedName name="_xlnm.Print_Area" localSheetId="0">Report!$A$1:$F$40</definedName>
    <definedName name="_xlnm.Print_Titles" localSheetId="0">Report!$A:$B,Report!$1:$2</definedName>
  </definedNames>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet xmlns="` + mainNS + `">
  <sheetPr><pageSetUpPr fitToPage="1"/></sheetPr>
  <sheetData/>
  <rowBreaks count="1"><brk id="20" max="16383" man="1"/></rowBreaks>
  <pageSetup orientation="landscape" paperSize="9" fitToWidth="1" fitToHeight="0"/>
</worksheet>`,
	})

	settings, diags, err := ExtractPrintSettings(context.Background(), c)
	if err != nil {
		t.Fatalf("ExtractPrintSettings failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
	if len(settings) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(settings))
	}

	s := settings[0]
	if s.Sheet != "Report" || s.PrintArea != "Report!$A$1:$F$40" {
		t.Errorf("Unexpected record: %+v", s)
	}
	if s.PrintTitleRows != "$1:$2" || s.PrintTitleCols != "$A:$B" {
		t.Errorf("Titles = (%q, %q)", s.PrintTitleRows, s.PrintTitleCols)
	}
	if s.Orientation != "landscape" || s.PaperSize != "A4" {
		t.Errorf("Page setup = (%q, %q)", s.Orientation, s.PaperSize)
	}
	if !s.FitToPage || s.FitToWidth != 1 || s.FitToHeight != 0 {
		t.Errorf("Fit = (%v, %d, %d)", s.FitToPage, s.FitToWidth, s.FitToHeight)
	}
	if len(s.RowBreaks) != 1 || s.RowBreaks[0] != 20 {
		t.Errorf("RowBreaks = %v", s.RowBreaks)
	}
}

func TestExtractPrintSettingsNone(t *testing.T) {
	c := testContainer(t, singleSheetParts(`<worksheet xmlns="`+mainNS+`"><sheetData/></worksheet>`))

	settings, _, err := ExtractPrintSettings(context.Background(), c)
	if err != nil {
		t.Fatalf("ExtractPrintSettings failed: %v", err)
	}
	if len(settings) != 0 {
		t.Errorf("Expected no records, got %+v", settings)
	}
}

func TestSplitPrintTitles(t *testing.T) {
	tests := []struct {
		value string
		rows  string
		cols  string
	}{
		{"Sheet1!$1:$2", "$1:$2", ""},
		{"Sheet1!$A:$B", "", "$A:$B"},
		{"Sheet1!$A:$B,Sheet1!$1:$1", "$1:$1", "$A:$B"},
		{"'My Sheet'!$3:$3", "$3:$3", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		rows, cols := splitPrintTitles(tt.value)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("splitPrintTitles(%q) = (%q, %q), expected (%q, %q)",
				tt.value, rows, cols, tt.rows, tt.cols)
		}
	}
}
