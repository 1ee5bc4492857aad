package parser

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractDataValidations(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	list := excelize.NewDataValidation(true)
	list.Sqref = "A1:A10"
	if err := list.SetDropList([]string{"Red", "Green", "Blue"}); err != nil {
		t.Fatalf("SetDropList failed: %v", err)
	}
	list.SetInput("Pick", "Choose a color")
	if err := f.AddDataValidation("Sheet1", list); err != nil {
		t.Fatalf("AddDataValidation failed: %v", err)
	}

	rng := excelize.NewDataValidation(true)
	rng.Sqref = "B1:B10"
	if err := rng.SetRange(1, 100, excelize.DataValidationTypeWhole, excelize.DataValidationOperatorBetween); err != nil {
		t.Fatalf("SetRange failed: %v", err)
	}
	rng.SetError(excelize.DataValidationErrorStyleStop, "Out of range", "Enter 1-100")
	if err := f.AddDataValidation("Sheet1", rng); err != nil {
		t.Fatalf("AddDataValidation failed: %v", err)
	}

	rules, diags, err := ExtractDataValidations(context.Background(), f)
	if err != nil {
		t.Fatalf("ExtractDataValidations failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags)
	}
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(rules))
	}

	dropList := rules[0]
	if dropList.Sheet != "Sheet1" || dropList.Range != "A1:A10" || dropList.Type != "list" {
		t.Errorf("Unexpected list rule: %+v", dropList)
	}
	if dropList.Formula1 != `"Red,Green,Blue"` {
		t.Errorf("Formula1 = %q", dropList.Formula1)
	}
	if !dropList.ShowDropdown {
		t.Error("List validation should show its dropdown")
	}
	if dropList.InputTitle != "Pick" || dropList.InputMessage != "Choose a color" {
		t.Errorf("Input prompt = (%q, %q)", dropList.InputTitle, dropList.InputMessage)
	}

	whole := rules[1]
	if whole.Type != "whole" || whole.Operator != "between" {
		t.Errorf("Unexpected range rule: %+v", whole)
	}
	if whole.Formula1 != "1" || whole.Formula2 != "100" {
		t.Errorf("Formulas = (%q, %q)", whole.Formula1, whole.Formula2)
	}
	if whole.ErrorTitle != "Out of range" || whole.ErrorMessage != "Enter 1-100" {
		t.Errorf("Error prompt = (%q, %q)", whole.ErrorTitle, whole.ErrorMessage)
	}
}

func TestStripFormulaTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<formula1>\"a,b\"</formula1>", "\"a,b\""},
		{"$C$1:$C$5", "$C$1:$C$5"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := stripFormulaTag(tt.input, "formula1"); got != tt.expected {
			t.Errorf("stripFormulaTag(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
