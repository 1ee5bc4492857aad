package xlanalyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

func TestAggregateDropsUnknownSheetRecords(t *testing.T) {
	a := &models.WorkbookAnalysis{
		Sheets: []models.SheetInfo{{Name: "Data"}},
		Formulas: []models.FormulaInfo{
			{Location: models.CellReference{Sheet: "Data", Cell: "A1"}},
			{Location: models.CellReference{Sheet: "Ghost", Cell: "B2"}},
		},
		Charts: []models.ChartInfo{
			{Sheet: "Data", Name: "Chart 1"},
			{Sheet: "Ghost", Name: "Chart 2"},
		},
		ErrorCells: []models.ErrorCellInfo{
			{Location: models.CellReference{Sheet: "Ghost", Cell: "C3"}},
		},
	}

	aggregate(a)

	require.Len(t, a.Formulas, 1)
	assert.Equal(t, "Data", a.Formulas[0].Location.Sheet)
	require.Len(t, a.Charts, 1)
	assert.Equal(t, "Chart 1", a.Charts[0].Name)
	assert.Empty(t, a.ErrorCells)

	require.Len(t, a.Diagnostics, 3)
	for _, d := range a.Diagnostics {
		assert.Equal(t, models.SeverityWarning, d.Severity)
		assert.Equal(t, "aggregate", d.Feature)
		assert.Contains(t, d.Message, `unknown sheet "Ghost"`)
	}
}

func TestAggregateKeepsWorkbookLevelRecords(t *testing.T) {
	a := &models.WorkbookAnalysis{
		Sheets: []models.SheetInfo{{Name: "Data"}},
		NamedRanges: []models.NamedRangeInfo{
			{Name: "Global", Value: "Data!$A$1"},
		},
	}

	aggregate(a)

	require.Len(t, a.NamedRanges, 1)
	assert.Empty(t, a.Diagnostics)
}

func TestAggregateDefinedNameUniqueness(t *testing.T) {
	a := &models.WorkbookAnalysis{
		Sheets: []models.SheetInfo{{Name: "Data"}, {Name: "Calc"}},
		NamedRanges: []models.NamedRangeInfo{
			{Name: "Rate", Scope: ""},
			{Name: "Rate", Scope: "Data"},
			{Name: "Rate", Scope: "Data"},
			{Name: "Rate", Scope: "Calc"},
			{Name: "Orphan", Scope: "Ghost"},
		},
	}

	aggregate(a)

	// same name in distinct scopes survives, an exact duplicate does not
	require.Len(t, a.NamedRanges, 3)
	assert.Equal(t, "", a.NamedRanges[0].Scope)
	assert.Equal(t, "Data", a.NamedRanges[1].Scope)
	assert.Equal(t, "Calc", a.NamedRanges[2].Scope)

	require.Len(t, a.Diagnostics, 2)
	assert.Contains(t, a.Diagnostics[0].Message, "duplicate defined name")
	assert.Contains(t, a.Diagnostics[1].Message, `unknown sheet "Ghost"`)
}

func TestAggregateModuleUniqueness(t *testing.T) {
	a := &models.WorkbookAnalysis{
		VBAModules: []models.VBAModuleInfo{
			{Name: "Module1", Kind: models.ModuleStandard},
			{Name: "Module1", Kind: models.ModuleStandard},
			{Name: "ThisWorkbook", Kind: models.ModuleDocument},
		},
	}

	aggregate(a)

	require.Len(t, a.VBAModules, 2)
	assert.Equal(t, "Module1", a.VBAModules[0].Name)
	assert.Equal(t, "ThisWorkbook", a.VBAModules[1].Name)

	require.Len(t, a.Diagnostics, 1)
	assert.Contains(t, a.Diagnostics[0].Message, `duplicate macro module "Module1"`)
}
