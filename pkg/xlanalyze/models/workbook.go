package models

// WorkbookAnalysis is the complete analysis result for one workbook.
// It is constructed once per analysis call and never mutated afterwards.
type WorkbookAnalysis struct {
	// FilePath is the path of the analyzed file.
	FilePath string `json:"file_path"`
	// FileName is the base name of the file.
	FileName string `json:"file_name"`
	// FileSize is the file size in bytes.
	FileSize int64 `json:"file_size"`
	// IsMacroEnabled reports a macro-capable file extension (.xlsm, .xltm).
	IsMacroEnabled bool `json:"is_macro_enabled"`

	Sheets      []SheetInfo      `json:"sheets"`
	Formulas    []FormulaInfo    `json:"formulas"`
	NamedRanges []NamedRangeInfo `json:"named_ranges"`

	ConditionalFormats []ConditionalFormatInfo `json:"conditional_formats"`
	DataValidations    []DataValidationInfo    `json:"data_validations"`
	PivotTables        []PivotTableInfo        `json:"pivot_tables"`
	Charts             []ChartInfo             `json:"charts"`
	Tables             []TableInfo             `json:"tables"`
	AutoFilters        []AutoFilterInfo        `json:"auto_filters"`
	Controls           []ControlInfo           `json:"controls"`
	Connections        []DataConnectionInfo    `json:"connections"`
	Comments           []CommentInfo           `json:"comments"`
	Hyperlinks         []HyperlinkInfo         `json:"hyperlinks"`

	WorkbookProtection *WorkbookProtectionInfo `json:"workbook_protection,omitempty"`
	SheetProtections   []SheetProtectionInfo   `json:"sheet_protections"`
	PrintSettings      []PrintSettingsInfo     `json:"print_settings"`

	VBAModules     []VBAModuleInfo  `json:"vba_modules"`
	VBAProjectName string           `json:"vba_project_name,omitempty"`
	PowerQueries   []PowerQueryInfo `json:"power_queries"`

	ErrorCells   []ErrorCellInfo   `json:"error_cells"`
	ExternalRefs []ExternalRefInfo `json:"external_refs"`

	// HasDataModel reports presence of a tabular data model (DAX).
	// Presence-only: the model content is proprietary and not extracted.
	HasDataModel bool `json:"has_data_model"`
	// DataModelNote summarizes what triggered the data-model detection.
	DataModelNote string `json:"data_model_note,omitempty"`

	// Diagnostics lists non-fatal problems encountered during extraction.
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// HasVBA reports whether any VBA modules were extracted.
func (a *WorkbookAnalysis) HasVBA() bool { return len(a.VBAModules) > 0 }

// HasPowerQuery reports whether any Power Query definitions were extracted.
func (a *WorkbookAnalysis) HasPowerQuery() bool { return len(a.PowerQueries) > 0 }

// HasExternalRefs reports whether the workbook references other workbooks.
func (a *WorkbookAnalysis) HasExternalRefs() bool { return len(a.ExternalRefs) > 0 }

// VisibleSheets returns the visible sheets only.
func (a *WorkbookAnalysis) VisibleSheets() []SheetInfo {
	var out []SheetInfo
	for _, s := range a.Sheets {
		if s.Visibility == VisibilityVisible {
			out = append(out, s)
		}
	}
	return out
}

// HiddenSheets returns hidden and very hidden sheets.
func (a *WorkbookAnalysis) HiddenSheets() []SheetInfo {
	var out []SheetInfo
	for _, s := range a.Sheets {
		if s.Visibility != VisibilityVisible {
			out = append(out, s)
		}
	}
	return out
}
