package xlanalyze

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptionsEnableEverything(t *testing.T) {
	opts := DefaultOptions()

	assert.True(t, opts.ShouldIncludeFormulas())
	assert.True(t, opts.ShouldIncludeNamedRanges())
	assert.True(t, opts.ShouldIncludeConditionalFormats())
	assert.True(t, opts.ShouldIncludeDataValidations())
	assert.True(t, opts.ShouldIncludePivotTables())
	assert.True(t, opts.ShouldIncludeCharts())
	assert.True(t, opts.ShouldIncludeTables())
	assert.True(t, opts.ShouldIncludeAutoFilters())
	assert.True(t, opts.ShouldIncludeComments())
	assert.True(t, opts.ShouldIncludeHyperlinks())
	assert.True(t, opts.ShouldIncludeControls())
	assert.True(t, opts.ShouldIncludeConnections())
	assert.True(t, opts.ShouldIncludeProtection())
	assert.True(t, opts.ShouldIncludePrintSettings())
	assert.True(t, opts.ShouldIncludeVBA())
	assert.True(t, opts.ShouldIncludePowerQuery())
	assert.True(t, opts.ShouldIncludeErrorCells())
	assert.True(t, opts.ShouldIncludeExternalRefs())
}

func TestOptionToggles(t *testing.T) {
	opts := AnalysisOptions{
		IncludeFormulas: Off(),
		IncludeVBA:      On(),
	}
	assert.False(t, opts.ShouldIncludeFormulas())
	assert.True(t, opts.ShouldIncludeVBA())
	// untouched toggles stay enabled
	assert.True(t, opts.ShouldIncludeCharts())
}

func TestOnOff(t *testing.T) {
	assert.True(t, *On())
	assert.False(t, *Off())
	// each call returns a fresh pointer so callers can flip one copy
	a, b := Off(), Off()
	*a = true
	assert.False(t, *b)
}

func TestOptionsLogger(t *testing.T) {
	var opts AnalysisOptions
	assert.NotNil(t, opts.logger())

	own := slog.New(slog.DiscardHandler)
	opts.Logger = own
	assert.Same(t, own, opts.logger())
}
