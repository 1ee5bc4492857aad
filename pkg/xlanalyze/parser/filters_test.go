package parser

import (
	"context"
	"testing"
)

func TestExtractAutoFilters(t *testing.T) {
	c := testContainer(t, singleSheetParts(`<?xml version="1.0"?>
<worksheet xmlns="`+mainNS+`">
  <sheetData/>
  <autoFilter ref="A1:C100">
    <filterColumn colId="0">
      <filters><filter val="East"/><filter val="West"/></filters>
    </filterColumn>
    <filterColumn colId="2">
      <customFilters><customFilter operator="greaterThan" val="500"/><customFilter val="1000"/></customFilters>
    </filterColumn>
    <filterColumn colId="1"/>
  </autoFilter>
</worksheet>`))

	filters, diags, err := ExtractAutoFilters(context.Background(), c)
	if err != nil {
		t.Fatalf("ExtractAutoFilters failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
	if len(filters) != 1 {
		t.Fatalf("Expected 1 autofilter, got %d", len(filters))
	}

	f := filters[0]
	if f.Sheet != "Data" || f.Range != "A1:C100" {
		t.Errorf("Unexpected autofilter: %+v", f)
	}
	if len(f.ColumnFilters) != 2 {
		t.Fatalf("ColumnFilters = %v", f.ColumnFilters)
	}

	col0 := f.ColumnFilters[0]
	if len(col0) != 2 || col0[0] != "East" || col0[1] != "West" {
		t.Errorf("Column 0 criteria = %v", col0)
	}
	col2 := f.ColumnFilters[2]
	if len(col2) != 2 || col2[0] != "greaterThan 500" || col2[1] != "equal 1000" {
		t.Errorf("Column 2 criteria = %v", col2)
	}
	// A filterColumn with no criteria stays out of the map.
	if _, ok := f.ColumnFilters[1]; ok {
		t.Error("Empty filter column should not appear")
	}
}

func TestExtractAutoFiltersNone(t *testing.T) {
	c := testContainer(t, singleSheetParts(`<worksheet xmlns="`+mainNS+`"><sheetData/></worksheet>`))

	filters, diags, err := ExtractAutoFilters(context.Background(), c)
	if err != nil {
		t.Fatalf("ExtractAutoFilters failed: %v", err)
	}
	if len(filters) != 0 || len(diags) != 0 {
		t.Errorf("Expected nothing, got %v / %v", filters, diags)
	}
}
