package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

func TestToJSON(t *testing.T) {
	a := &models.WorkbookAnalysis{
		FileName: "book.xlsx",
		Sheets:   []models.SheetInfo{{Name: "Data", Visibility: models.VisibilityVisible}},
	}

	compact, err := ToJSON(a, false)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Error("compact output contains newlines")
	}

	var round models.WorkbookAnalysis
	if err := json.Unmarshal(compact, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if round.FileName != "book.xlsx" || len(round.Sheets) != 1 {
		t.Errorf("round trip mismatch: %+v", round)
	}

	pretty, err := ToJSON(a, true)
	if err != nil {
		t.Fatalf("ToJSON pretty: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  ") {
		t.Error("pretty output is not indented")
	}
}

func TestSheetToJSON(t *testing.T) {
	s := &models.SheetInfo{Name: "Calc", Index: 1, Visibility: models.VisibilityHidden}
	b, err := SheetToJSON(s, false)
	if err != nil {
		t.Fatalf("SheetToJSON: %v", err)
	}
	if !strings.Contains(string(b), `"name":"Calc"`) {
		t.Errorf("unexpected output: %s", b)
	}
	if !strings.Contains(string(b), `"visibility":"hidden"`) {
		t.Errorf("unexpected output: %s", b)
	}
}
