// Package models defines the result records produced by workbook analysis.
package models

import "fmt"

// CellReference identifies a single cell location in the workbook.
type CellReference struct {
	// Sheet is the name of the worksheet containing the cell.
	Sheet string `json:"sheet"`
	// Cell is the address in A1 notation (e.g. "B5").
	Cell string `json:"cell"`
	// Row is the 1-based row number.
	Row int `json:"row"`
	// Col is the 1-based column number.
	Col int `json:"col"`
}

// Address returns the full address including the sheet name, e.g. 'Sheet1'!B5.
func (r CellReference) Address() string {
	return fmt.Sprintf("'%s'!%s", r.Sheet, r.Cell)
}
