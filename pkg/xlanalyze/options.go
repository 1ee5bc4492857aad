// Package xlanalyze extracts the analyzable structure of Excel workbooks:
// sheets, formulas with classification, defined names, feature records,
// VBA macros and Power Query definitions. Extraction degrades gracefully;
// a damaged feature becomes a diagnostic, not a failed analysis.
package xlanalyze

import "log/slog"

// AnalysisOptions configures which features an analysis extracts. The zero
// value enables everything; each toggle is a tri-state pointer so callers
// can switch individual features off without restating the rest.
type AnalysisOptions struct {
	IncludeFormulas           *bool
	IncludeNamedRanges        *bool
	IncludeConditionalFormats *bool
	IncludeDataValidations    *bool
	IncludePivotTables        *bool
	IncludeCharts             *bool
	IncludeTables             *bool
	IncludeAutoFilters        *bool
	IncludeComments           *bool
	IncludeHyperlinks         *bool
	IncludeControls           *bool
	IncludeConnections        *bool
	IncludeProtection         *bool
	IncludePrintSettings      *bool
	IncludeVBA                *bool
	IncludePowerQuery         *bool
	IncludeErrorCells         *bool
	IncludeExternalRefs       *bool

	// IncludeFormulaValues attaches cached result values to formulas.
	IncludeFormulaValues bool
	// MaxFormulas truncates formula extraction, 0 means unlimited. A
	// truncated run carries a warning diagnostic.
	MaxFormulas int
	// SkipSheets lists sheet names to exclude from cell-level extraction.
	SkipSheets []string

	// Logger receives debug-level progress. Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns options with every feature enabled.
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{}
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

func (o AnalysisOptions) ShouldIncludeFormulas() bool    { return enabled(o.IncludeFormulas) }
func (o AnalysisOptions) ShouldIncludeNamedRanges() bool { return enabled(o.IncludeNamedRanges) }
func (o AnalysisOptions) ShouldIncludeConditionalFormats() bool {
	return enabled(o.IncludeConditionalFormats)
}
func (o AnalysisOptions) ShouldIncludeDataValidations() bool {
	return enabled(o.IncludeDataValidations)
}
func (o AnalysisOptions) ShouldIncludePivotTables() bool   { return enabled(o.IncludePivotTables) }
func (o AnalysisOptions) ShouldIncludeCharts() bool        { return enabled(o.IncludeCharts) }
func (o AnalysisOptions) ShouldIncludeTables() bool        { return enabled(o.IncludeTables) }
func (o AnalysisOptions) ShouldIncludeAutoFilters() bool   { return enabled(o.IncludeAutoFilters) }
func (o AnalysisOptions) ShouldIncludeComments() bool      { return enabled(o.IncludeComments) }
func (o AnalysisOptions) ShouldIncludeHyperlinks() bool    { return enabled(o.IncludeHyperlinks) }
func (o AnalysisOptions) ShouldIncludeControls() bool      { return enabled(o.IncludeControls) }
func (o AnalysisOptions) ShouldIncludeConnections() bool   { return enabled(o.IncludeConnections) }
func (o AnalysisOptions) ShouldIncludeProtection() bool    { return enabled(o.IncludeProtection) }
func (o AnalysisOptions) ShouldIncludePrintSettings() bool { return enabled(o.IncludePrintSettings) }
func (o AnalysisOptions) ShouldIncludeVBA() bool           { return enabled(o.IncludeVBA) }
func (o AnalysisOptions) ShouldIncludePowerQuery() bool    { return enabled(o.IncludePowerQuery) }
func (o AnalysisOptions) ShouldIncludeErrorCells() bool    { return enabled(o.IncludeErrorCells) }
func (o AnalysisOptions) ShouldIncludeExternalRefs() bool  { return enabled(o.IncludeExternalRefs) }

// logger returns the configured logger or a disabled one.
func (o AnalysisOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Off is a convenience for building disabled feature toggles.
func Off() *bool {
	off := false
	return &off
}

// On is a convenience for building enabled feature toggles.
func On() *bool {
	on := true
	return &on
}
