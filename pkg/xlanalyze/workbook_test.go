package xlanalyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func twoSheetFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	_, err := f.NewSheet("Calc")
	require.NoError(t, err)
	require.NoError(t, f.SetCellFormula("Sheet1", "A1", "TODAY()"))
	require.NoError(t, f.SetCellFormula("Calc", "B2", "SUM(A1:A9)"))
	return saveFixture(t, f, "pair.xlsx")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))
	_, err := Open(path)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSheetNames(t *testing.T) {
	wb, err := Open(twoSheetFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	names, err := wb.SheetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Calc"}, names)
}

func TestExtractSheet(t *testing.T) {
	wb, err := Open(twoSheetFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	out, err := wb.ExtractSheet(context.Background(), "Calc")
	require.NoError(t, err)

	require.Len(t, out.Sheets, 1)
	assert.Equal(t, "Calc", out.Sheets[0].Name)

	require.Len(t, out.Formulas, 1)
	assert.Equal(t, "Calc", out.Formulas[0].Location.Sheet)
	assert.Equal(t, "=SUM(A1:A9)", out.Formulas[0].Formula)

	// workbook-level output is out of scope for a one-sheet pass
	assert.Empty(t, out.NamedRanges)
	assert.Empty(t, out.VBAModules)
}

func TestExtractSheetUnknownName(t *testing.T) {
	wb, err := Open(twoSheetFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.ExtractSheet(context.Background(), "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Nope"`)
}

func TestWorkbookClose(t *testing.T) {
	wb, err := Open(twoSheetFixture(t))
	require.NoError(t, err)
	require.NoError(t, wb.Close())
}
