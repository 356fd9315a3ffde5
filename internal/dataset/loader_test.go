package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crashes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeTempCSV(t, "Year,Operator,Fatalities\n1990,PanAm,10\n2005,KLM,\n")

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, []string{"Year", "Operator", "Fatalities"}, ds.ColumnNames())

	_, ok := ds.StringAt(1, "Fatalities")
	assert.False(t, ok, "trailing empty field loads as null")
}

func TestLoad_CSVWithBOM(t *testing.T) {
	path := writeTempCSV(t, "\xEF\xBB\xBFYear,Operator\n1990,PanAm\n")

	ds, err := Load(path)
	require.NoError(t, err)
	assert.True(t, ds.HasColumn("Year"), "BOM must not corrupt the first header")
}

func TestLoad_Idempotent(t *testing.T) {
	path := writeTempCSV(t, "Year,Operator\n1990,PanAm\n2005,KLM\n")

	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.csv") },
		},
		{
			name: "inconsistent column counts",
			path: func(t *testing.T) string {
				return writeTempCSV(t, "Year,Operator\n1990,PanAm\n2005\n")
			},
		},
		{
			name: "empty file",
			path: func(t *testing.T) string { return writeTempCSV(t, "") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(tt.path(t))
			assert.Nil(t, ds, "no partial dataset on failure")
			var loadErr *LoadError
			require.Error(t, err)
			assert.True(t, errors.As(err, &loadErr))
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Year", "Operator", "Fatalities"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1990, "PanAm", 10}))
	// Trailing empty cells are trimmed by the sheet reader; the loader
	// must pad the short row back to header width.
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{2005, "KLM"}))

	path := filepath.Join(t.TempDir(), "crashes.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())

	year, ok := ds.IntAt(0, "Year")
	assert.True(t, ok)
	assert.Equal(t, 1990, year)

	_, ok = ds.StringAt(1, "Fatalities")
	assert.False(t, ok, "padded cell is null")
}

func TestLoad_XLSXMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"))
	var loadErr *LoadError
	require.Error(t, err)
	assert.True(t, errors.As(err, &loadErr))
}
