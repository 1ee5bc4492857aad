package parser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
)

func TestExtractPivotTables(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Region", "Month", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sheet1", cell, h)
	}
	rows := [][]any{
		{"East", "Jan", 100},
		{"West", "Jan", 200},
		{"East", "Feb", 150},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue("Sheet1", cell, v)
		}
	}

	err := f.AddPivotTable(&excelize.PivotTableOptions{
		DataRange:       "Sheet1!A1:C4",
		PivotTableRange: "Sheet1!E1:H10",
		Name:            "SalesPivot",
		Rows:            []excelize.PivotTableField{{Data: "Region"}},
		Columns:         []excelize.PivotTableField{{Data: "Month"}},
		Data:            []excelize.PivotTableField{{Data: "Amount", Subtotal: "Sum"}},
	})
	if err != nil {
		t.Fatalf("AddPivotTable failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "pivot.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	c, err := container.Open(path)
	if err != nil {
		t.Fatalf("opening container: %v", err)
	}
	defer c.Close()
	f2, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening file: %v", err)
	}
	defer f2.Close()

	pivots, diags, err := ExtractPivotTables(context.Background(), f2, c)
	if err != nil {
		t.Fatalf("ExtractPivotTables failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
	if len(pivots) != 1 {
		t.Fatalf("Expected 1 pivot table, got %d", len(pivots))
	}

	pt := pivots[0]
	if pt.Name != "SalesPivot" || pt.Sheet != "Sheet1" {
		t.Errorf("Unexpected pivot: %+v", pt)
	}
	if pt.SourceRange != "Sheet1!A1:C4" {
		t.Errorf("SourceRange = %q", pt.SourceRange)
	}
	if pt.SourceConnection != "" {
		t.Errorf("Range-backed pivot reported a connection: %q", pt.SourceConnection)
	}
	if len(pt.RowFields) != 1 || pt.RowFields[0] != "Region" {
		t.Errorf("RowFields = %v", pt.RowFields)
	}
	if len(pt.DataFields) != 1 || pt.DataFields[0] != "Amount" {
		t.Errorf("DataFields = %v", pt.DataFields)
	}
}

func TestStripSheetPrefix(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"Sheet1!E1:H10", "E1:H10"},
		{"'My Sheet'!A1", "A1"},
		{"A1:B2", "A1:B2"},
	}

	for _, tt := range tests {
		if got := stripSheetPrefix(tt.ref); got != tt.expected {
			t.Errorf("stripSheetPrefix(%q) = %q, expected %q", tt.ref, got, tt.expected)
		}
	}
}
