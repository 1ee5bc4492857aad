package parser

import (
	"context"
	"testing"
)

func externalRefParts() map[string]string {
	return map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns="` + mainNS + `" xmlns:r="` + relNS + `">
  <sheets><sheet name="Data" sheetId="1" r:id="rId1"/></sheets>
  <externalReferences><externalReference r:id="rId2"/></externalReferences>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/externalLink" Target="externalLinks/externalLink1.xml"/>
</Relationships>`,
		"xl/externalLinks/externalLink1.xml": `<?xml version="1.0"?>
<externalLink xmlns="` + mainNS + `"><externalBook/></externalLink>`,
		"xl/externalLinks/_rels/externalLink1.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/externalLinkPath" Target="file:///C:/Reports/Costs.xlsx" TargetMode="External"/>
</Relationships>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet xmlns="` + mainNS + `">
  <sheetData>
    <row r="1"><c r="A1"><f>[1]Summary!B2*2</f><v>10</v></c></row>
  </sheetData>
</worksheet>`,
	}
}

func TestExternalTargets(t *testing.T) {
	c := testContainer(t, externalRefParts())

	targets := ExternalTargets(c)
	if targets[1] != "Costs.xlsx" {
		t.Errorf("targets[1] = %q, expected Costs.xlsx", targets[1])
	}
}

func TestExtractExternalRefs(t *testing.T) {
	c := testContainer(t, externalRefParts())

	refs, diags, err := ExtractExternalRefs(context.Background(), c)
	if err != nil {
		t.Fatalf("ExtractExternalRefs failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
	if len(refs) != 1 {
		t.Fatalf("Expected 1 external ref, got %d: %+v", len(refs), refs)
	}

	ref := refs[0]
	if ref.TargetWorkbook != "Costs.xlsx" || ref.TargetSheet != "Summary" {
		t.Errorf("Unexpected target: %+v", ref)
	}
	if ref.SourceCell.Cell != "A1" || ref.SourceCell.Sheet != "Data" {
		t.Errorf("Unexpected source: %+v", ref.SourceCell)
	}
	if ref.TargetRange != "B2" {
		t.Errorf("TargetRange = %q, expected B2", ref.TargetRange)
	}
}

func TestExtractFormulasResolvesExternalNames(t *testing.T) {
	c := testContainer(t, externalRefParts())

	formulas, _, err := ExtractFormulas(context.Background(), c, FormulaOptions{})
	if err != nil {
		t.Fatalf("ExtractFormulas failed: %v", err)
	}
	if len(formulas) != 1 {
		t.Fatalf("Expected 1 formula, got %d", len(formulas))
	}
	f := formulas[0]
	if !f.ReferencesExternal {
		t.Error("Expected external flag")
	}
	if len(f.ExternalRefs) != 1 || f.ExternalRefs[0] != "Costs.xlsx" {
		t.Errorf("ExternalRefs = %v, expected [Costs.xlsx]", f.ExternalRefs)
	}
}
