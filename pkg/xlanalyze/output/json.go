// Package output serializes analysis results.
package output

import (
	"encoding/json"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// ToJSON serializes a workbook analysis to JSON.
func ToJSON(a *models.WorkbookAnalysis, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(a, "", "  ")
	}
	return json.Marshal(a)
}

// SheetToJSON serializes a single sheet summary to JSON.
func SheetToJSON(s *models.SheetInfo, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(s, "", "  ")
	}
	return json.Marshal(s)
}
