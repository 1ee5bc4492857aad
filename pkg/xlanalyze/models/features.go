package models

// CFRuleType is the closed set of conditional formatting rule types.
type CFRuleType string

const (
	CFColorScale    CFRuleType = "color_scale"
	CFDataBar       CFRuleType = "data_bar"
	CFIconSet       CFRuleType = "icon_set"
	CFCellIs        CFRuleType = "cell_is"
	CFFormula       CFRuleType = "formula"
	CFTopBottom     CFRuleType = "top_bottom"
	CFAboveAverage  CFRuleType = "above_average"
	CFDuplicate     CFRuleType = "duplicate"
	CFUnique        CFRuleType = "unique"
	CFTextContains  CFRuleType = "text_contains"
	CFDateOccurring CFRuleType = "date_occurring"
	CFBlank         CFRuleType = "blank"
	CFNotBlank      CFRuleType = "not_blank"
	CFError         CFRuleType = "error"
	CFNotError      CFRuleType = "not_error"
)

// ConditionalFormatInfo describes one conditional formatting rule.
type ConditionalFormatInfo struct {
	// Sheet is the sheet the rule belongs to.
	Sheet string `json:"sheet"`
	// Range is the cell range the rule applies to.
	Range string `json:"range"`
	// RuleType is the rule kind.
	RuleType CFRuleType `json:"rule_type"`
	// Priority orders rules, lower is evaluated first.
	Priority int `json:"priority"`
	// Formula holds the rule expression for formula and cell-is rules.
	Formula string `json:"formula,omitempty"`
	// Operator is the comparison operator for cell-is rules.
	Operator string `json:"operator,omitempty"`
	// Values holds thresholds for scales, bars and icon sets.
	Values []string `json:"values,omitempty"`
	// StopIfTrue stops evaluation of later rules when this one matches.
	StopIfTrue bool `json:"stop_if_true"`
	// Description is a human-readable summary of the rule.
	Description string `json:"description,omitempty"`
}

// DataValidationInfo describes one data validation rule.
type DataValidationInfo struct {
	Sheet            string `json:"sheet"`
	Range            string `json:"range"`
	Type             string `json:"type"`
	Operator         string `json:"operator,omitempty"`
	Formula1         string `json:"formula1,omitempty"`
	Formula2         string `json:"formula2,omitempty"`
	AllowBlank       bool   `json:"allow_blank"`
	ShowDropdown     bool   `json:"show_dropdown"`
	ShowInputMessage bool   `json:"show_input_message"`
	InputTitle       string `json:"input_title,omitempty"`
	InputMessage     string `json:"input_message,omitempty"`
	ShowErrorMessage bool   `json:"show_error_message"`
	ErrorTitle       string `json:"error_title,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
	ErrorStyle       string `json:"error_style,omitempty"`
}

// PivotTableInfo describes one pivot table definition.
type PivotTableInfo struct {
	Name string `json:"name"`
	// Sheet is the sheet holding the pivot table output.
	Sheet string `json:"sheet"`
	// Location is the output range of the pivot table.
	Location string `json:"location"`
	// SourceRange is the source data range for range-based pivots.
	SourceRange string `json:"source_range,omitempty"`
	// SourceConnection is the connection name for connection-backed pivots.
	SourceConnection string   `json:"source_connection,omitempty"`
	RowFields        []string `json:"row_fields,omitempty"`
	ColumnFields     []string `json:"column_fields,omitempty"`
	DataFields       []string `json:"data_fields,omitempty"`
	FilterFields     []string `json:"filter_fields,omitempty"`
}

// ChartInfo describes one embedded chart.
type ChartInfo struct {
	Name  string `json:"name"`
	Sheet string `json:"sheet"`
	// ChartType is the plotted chart kind, e.g. "Bar" or "Line".
	ChartType string `json:"chart_type"`
	Title     string `json:"title,omitempty"`
	// DataRange is the source range of the first series.
	DataRange string `json:"data_range,omitempty"`
	// Position describes the anchor cell of the chart frame.
	Position string `json:"position,omitempty"`
}

// TableInfo describes one structured table (ListObject).
type TableInfo struct {
	Name        string   `json:"name"`
	Sheet       string   `json:"sheet"`
	Range       string   `json:"range"`
	DisplayName string   `json:"display_name"`
	Columns     []string `json:"columns,omitempty"`
	HasTotals   bool     `json:"has_totals_row"`
	HasHeader   bool     `json:"has_header_row"`
	StyleName   string   `json:"style_name,omitempty"`
}

// AutoFilterInfo describes an AutoFilter range and its active column criteria.
type AutoFilterInfo struct {
	Sheet string `json:"sheet"`
	Range string `json:"range"`
	// ColumnFilters maps 0-based filter column index to its criteria values.
	ColumnFilters map[int][]string `json:"column_filters,omitempty"`
}

// CommentInfo describes a classic or threaded cell comment.
type CommentInfo struct {
	Location CellReference `json:"location"`
	Author   string        `json:"author,omitempty"`
	Text     string        `json:"text"`
	// IsThreaded marks modern threaded comments.
	IsThreaded bool `json:"is_threaded"`
	// Replies holds the reply thread for threaded comments.
	Replies []CommentInfo `json:"replies,omitempty"`
}

// HyperlinkInfo describes one hyperlink.
type HyperlinkInfo struct {
	Location CellReference `json:"location"`
	// Target is the URL or in-workbook reference the link points to.
	Target      string `json:"target"`
	DisplayText string `json:"display_text,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	// IsExternal reports whether the target points outside the workbook.
	IsExternal bool `json:"is_external"`
}

// ControlInfo describes a form control, shape or picture on a sheet.
type ControlInfo struct {
	Name        string `json:"name"`
	Sheet       string `json:"sheet"`
	ControlType string `json:"control_type"`
	Position    string `json:"position,omitempty"`
	// LinkedCell is the cell bound to the control value.
	LinkedCell string `json:"linked_cell,omitempty"`
	// Macro is the macro assigned to the control.
	Macro string `json:"macro,omitempty"`
	// Text is the caption or text body of the control.
	Text string `json:"text,omitempty"`
}

// ErrorType is the closed set of recognized cell error literals.
type ErrorType string

const (
	ErrorRef   ErrorType = "#REF!"
	ErrorName  ErrorType = "#NAME?"
	ErrorValue ErrorType = "#VALUE!"
	ErrorDiv   ErrorType = "#DIV/0!"
	ErrorNull  ErrorType = "#NULL!"
	ErrorNum   ErrorType = "#NUM!"
	ErrorNA    ErrorType = "#N/A"
	ErrorCalc  ErrorType = "#CALC!"
	ErrorSpill ErrorType = "#SPILL!"
)

// ErrorCellInfo describes a cell whose value is an error literal.
type ErrorCellInfo struct {
	Location  CellReference `json:"location"`
	ErrorType ErrorType     `json:"error_type"`
	// Formula is the formula that produced the error, if any.
	Formula string `json:"formula,omitempty"`
}

// ExternalRefInfo describes a reference to another workbook.
type ExternalRefInfo struct {
	// SourceCell is the referencing cell; zero-valued for workbook-level links.
	SourceCell CellReference `json:"source_cell"`
	// TargetWorkbook is the referenced workbook name or path.
	TargetWorkbook string `json:"target_workbook"`
	TargetSheet    string `json:"target_sheet,omitempty"`
	TargetRange    string `json:"target_range,omitempty"`
	// IsBroken reports a link whose target could not be resolved.
	IsBroken bool `json:"is_broken"`
}

// DataConnectionInfo describes one data connection.
type DataConnectionInfo struct {
	Name             string `json:"name"`
	ConnectionType   string `json:"connection_type"`
	ConnectionString string `json:"connection_string,omitempty"`
	CommandText      string `json:"command_text,omitempty"`
	CommandType      string `json:"command_type,omitempty"`
	Description      string `json:"description,omitempty"`
	// IsDAX reports that the command text looks like a DAX query.
	IsDAX bool `json:"is_dax"`
	// DAXQuery carries the command text when IsDAX is set.
	DAXQuery     string `json:"dax_query,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
	// UsedByPivotCaches lists pivot caches backed by this connection.
	UsedByPivotCaches []string `json:"used_by_pivot_caches,omitempty"`
}
