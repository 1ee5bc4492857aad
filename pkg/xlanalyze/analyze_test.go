package xlanalyze

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// saveFixture writes f under a temp dir and returns the path.
func saveFixture(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestAnalyzeSimpleWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Region"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 42))
	path := saveFixture(t, f, "simple.xlsx")

	a, err := Analyze(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "simple.xlsx", a.FileName)
	assert.False(t, a.IsMacroEnabled)
	assert.Positive(t, a.FileSize)

	require.Len(t, a.Sheets, 1)
	assert.Equal(t, "Sheet1", a.Sheets[0].Name)
	assert.Equal(t, 0, a.Sheets[0].Index)
	assert.Equal(t, models.VisibilityVisible, a.Sheets[0].Visibility)

	assert.Empty(t, a.Formulas)
	assert.Empty(t, a.VBAModules)
	assert.Empty(t, a.PowerQueries)
	assert.False(t, a.HasVBA())
	assert.False(t, a.HasDataModel)
}

func TestAnalyzeFormulasAndNames(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", 1))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 2))
	require.NoError(t, f.SetCellFormula("Sheet1", "B1", "SUM(A1:A2)"))
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
		Name:     "MyLambda",
		RefersTo: "_xlfn.LAMBDA(_xlpm.x,_xlpm.x*2)",
	}))
	path := saveFixture(t, f, "formulas.xlsx")

	a, err := Analyze(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, a.Formulas, 1)
	got := a.Formulas[0]
	assert.Equal(t, "Sheet1", got.Location.Sheet)
	assert.Equal(t, "B1", got.Location.Cell)
	assert.Equal(t, "=SUM(A1:A2)", got.Formula)
	assert.Equal(t, models.CategoryAggregate, got.Category)

	require.Len(t, a.NamedRanges, 1)
	name := a.NamedRanges[0]
	assert.Equal(t, "MyLambda", name.Name)
	assert.Equal(t, "LAMBDA(x,x*2)", name.Value)
	assert.True(t, name.IsLambda)
	assert.Empty(t, name.Scope)
}

func TestAnalyzeLiteralErrorValue(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "C3", "#REF!"))
	require.NoError(t, f.SetCellValue("Sheet1", "C4", "not an error"))
	path := saveFixture(t, f, "errors.xlsx")

	a, err := Analyze(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, a.ErrorCells, 1)
	assert.Equal(t, "C3", a.ErrorCells[0].Location.Cell)
	assert.Equal(t, models.ErrorRef, a.ErrorCells[0].ErrorType)
	assert.Empty(t, a.ErrorCells[0].Formula)
}

func TestAnalyzeMacroEnabledWithVBADisabled(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "x"))
	path := saveFixture(t, f, "book.xlsm")

	a, err := Analyze(path, AnalysisOptions{IncludeVBA: Off()})
	require.NoError(t, err)

	assert.True(t, a.IsMacroEnabled)
	assert.Empty(t, a.VBAModules)
	assert.Empty(t, a.VBAProjectName)
	for _, d := range a.Diagnostics {
		assert.NotEqual(t, "vba", d.Feature)
	}
}

func TestAnalyzeDisabledFeatureStaysEmpty(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellFormula("Sheet1", "A1", "NOW()"))
	path := saveFixture(t, f, "toggles.xlsx")

	a, err := Analyze(path, AnalysisOptions{
		IncludeFormulas:   Off(),
		IncludeErrorCells: Off(),
	})
	require.NoError(t, err)

	assert.Empty(t, a.Formulas)
	assert.Empty(t, a.ErrorCells)
	for _, d := range a.Diagnostics {
		assert.NotEqual(t, "formulas", d.Feature)
		assert.NotEqual(t, "error_cells", d.Feature)
	}

	// The same file yields the formula when the toggle is back on.
	a, err = Analyze(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, a.Formulas, 1)
	assert.Equal(t, models.CategoryVolatile, a.Formulas[0].Category)
}

func TestAnalyzeFileNotFound(t *testing.T) {
	_, err := Analyze(filepath.Join(t.TempDir(), "absent.xlsx"), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)

	var ae *AnalyzeError
	require.ErrorAs(t, err, &ae)
	assert.Nil(t, ae.Partial)
}

func TestAnalyzeNotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0o644))

	_, err := Analyze(path, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	var ae *AnalyzeError
	require.ErrorAs(t, err, &ae)
	assert.Nil(t, ae.Partial)
}

func TestAnalyzeMissingWorkbookPart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hollow.xlsx")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	_, err = Analyze(path, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	var se *container.StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, container.WorkbookPart, se.Part)
}

func TestAnalyzeContextCancelled(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "x"))
	path := saveFixture(t, f, "cancel.xlsx")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AnalyzeContext(ctx, path, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var ae *AnalyzeError
	require.ErrorAs(t, err, &ae)
	assert.NotNil(t, ae.Partial)
}

func TestAnalyzeHiddenSheetAccessors(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Staging")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetVisible("Staging", false))
	path := saveFixture(t, f, "hidden.xlsx")

	a, err := Analyze(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, a.Sheets, 2)
	visible := a.VisibleSheets()
	require.Len(t, visible, 1)
	assert.Equal(t, "Sheet1", visible[0].Name)

	hidden := a.HiddenSheets()
	require.Len(t, hidden, 1)
	assert.Equal(t, "Staging", hidden[0].Name)
	assert.Equal(t, models.VisibilityHidden, hidden[0].Visibility)
}
