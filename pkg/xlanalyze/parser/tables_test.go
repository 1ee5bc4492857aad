package parser

import (
	"context"
	"testing"
)

func TestExtractTables(t *testing.T) {
	parts := singleSheetParts(`<?xml version="1.0"?>
<worksheet xmlns="` + mainNS + `"><sheetData/><tableParts count="1"><tablePart r:id="rId1"/></tableParts></worksheet>`)
	parts["xl/worksheets/_rels/sheet1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/table" Target="../tables/table1.xml"/>
</Relationships>`
	parts["xl/tables/table1.xml"] = `<?xml version="1.0"?>
<table xmlns="` + mainNS + `" name="Sales" displayName="Sales" ref="A1:C10" totalsRowCount="1">
  <tableColumns count="3">
    <tableColumn id="1" name="Region"/>
    <tableColumn id="2" name="Month"/>
    <tableColumn id="3" name="Amount"/>
  </tableColumns>
  <tableStyleInfo name="TableStyleMedium2"/>
</table>`
	c := testContainer(t, parts)

	tables, diags, err := ExtractTables(context.Background(), c)
	if err != nil {
		t.Fatalf("ExtractTables failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}

	table := tables[0]
	if table.Name != "Sales" || table.Sheet != "Data" || table.Range != "A1:C10" {
		t.Errorf("Unexpected table: %+v", table)
	}
	if !table.HasHeader {
		t.Error("headerRowCount absent should default to a header row")
	}
	if !table.HasTotals {
		t.Error("Expected totals row")
	}
	if len(table.Columns) != 3 || table.Columns[2] != "Amount" {
		t.Errorf("Columns = %v", table.Columns)
	}
	if table.StyleName != "TableStyleMedium2" {
		t.Errorf("StyleName = %q", table.StyleName)
	}
}

func TestExtractTablesHeaderless(t *testing.T) {
	parts := singleSheetParts(`<?xml version="1.0"?>
<worksheet xmlns="` + mainNS + `"><sheetData/></worksheet>`)
	parts["xl/worksheets/_rels/sheet1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/table" Target="../tables/table1.xml"/>
</Relationships>`
	parts["xl/tables/table1.xml"] = `<?xml version="1.0"?>
<table xmlns="` + mainNS + `" name="Raw" displayName="Raw" ref="A1:B5" headerRowCount="0"/>`
	c := testContainer(t, parts)

	tables, _, err := ExtractTables(context.Background(), c)
	if err != nil {
		t.Fatalf("ExtractTables failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	if tables[0].HasHeader {
		t.Error("headerRowCount=0 should mean no header row")
	}
}
