package models

// WorkbookProtectionInfo describes workbook-level protection.
type WorkbookProtectionInfo struct {
	IsProtected      bool `json:"is_protected"`
	ProtectStructure bool `json:"protect_structure"`
	ProtectWindows   bool `json:"protect_windows"`
}

// SheetProtectionInfo describes sheet-level protection and its
// allowed-operation matrix.
type SheetProtectionInfo struct {
	Sheet                 string `json:"sheet"`
	IsProtected           bool   `json:"is_protected"`
	AllowSelectLocked     bool   `json:"allow_select_locked"`
	AllowSelectUnlocked   bool   `json:"allow_select_unlocked"`
	AllowFormatCells      bool   `json:"allow_format_cells"`
	AllowFormatColumns    bool   `json:"allow_format_columns"`
	AllowFormatRows       bool   `json:"allow_format_rows"`
	AllowInsertColumns    bool   `json:"allow_insert_columns"`
	AllowInsertRows       bool   `json:"allow_insert_rows"`
	AllowInsertHyperlinks bool   `json:"allow_insert_hyperlinks"`
	AllowDeleteColumns    bool   `json:"allow_delete_columns"`
	AllowDeleteRows       bool   `json:"allow_delete_rows"`
	AllowSort             bool   `json:"allow_sort"`
	AllowFilter           bool   `json:"allow_filter"`
	AllowPivotTables      bool   `json:"allow_pivot_tables"`
}

// PrintSettingsInfo describes print configuration for one sheet.
type PrintSettingsInfo struct {
	Sheet          string `json:"sheet"`
	PrintArea      string `json:"print_area,omitempty"`
	PrintTitleRows string `json:"print_titles_rows,omitempty"`
	PrintTitleCols string `json:"print_titles_cols,omitempty"`
	RowBreaks      []int  `json:"page_breaks_row,omitempty"`
	ColBreaks      []int  `json:"page_breaks_col,omitempty"`
	Orientation    string `json:"orientation,omitempty"`
	PaperSize      string `json:"paper_size,omitempty"`
	FitToPage      bool   `json:"fit_to_page"`
	FitToWidth     int    `json:"fit_to_width,omitempty"`
	FitToHeight    int    `json:"fit_to_height,omitempty"`
}
