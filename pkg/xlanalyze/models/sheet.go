package models

// Visibility is the visibility state of a worksheet.
type Visibility string

const (
	// VisibilityVisible means the sheet is shown in the tab bar.
	VisibilityVisible Visibility = "visible"
	// VisibilityHidden means the sheet is hidden but can be unhidden from the UI.
	VisibilityHidden Visibility = "hidden"
	// VisibilityVeryHidden means the sheet can only be unhidden programmatically.
	VisibilityVeryHidden Visibility = "very_hidden"
)

// SheetInfo describes one worksheet.
type SheetInfo struct {
	// Name is the sheet name as shown on the tab, unique within the workbook.
	Name string `json:"name"`
	// Index is the 0-based position in declaration order.
	Index int `json:"index"`
	// Visibility is the sheet visibility state.
	Visibility Visibility `json:"visibility"`
	// UsedRange is the declared used range (e.g. "A1:F40"), empty if unknown.
	UsedRange string `json:"used_range,omitempty"`
	// RowCount is the number of rows in the used range.
	RowCount int `json:"row_count"`
	// ColCount is the number of columns in the used range.
	ColCount int `json:"col_count"`

	HasData                  bool `json:"has_data"`
	HasFormulas              bool `json:"has_formulas"`
	HasCharts                bool `json:"has_charts"`
	HasPivots                bool `json:"has_pivots"`
	HasTables                bool `json:"has_tables"`
	HasComments              bool `json:"has_comments"`
	HasConditionalFormatting bool `json:"has_conditional_formatting"`
	HasDataValidation        bool `json:"has_data_validation"`
	HasHyperlinks            bool `json:"has_hyperlinks"`
	HasMergedCells           bool `json:"has_merged_cells"`

	// MergedCellRanges lists merged ranges on the sheet.
	MergedCellRanges []string `json:"merged_cell_ranges,omitempty"`
	// TabColor is the tab color as "#RRGGBB" when set.
	TabColor string `json:"tab_color,omitempty"`
}
