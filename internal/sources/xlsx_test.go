package sources

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "carsales/internal/errors"
)

func writeTempXLSX(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func salesHeaderRow() []interface{} {
	return []interface{}{
		"Car_id", "Date", "Customer Name", "Gender", "Annual Income",
		"Dealer_Name", "Company", "Model", "Engine", "Transmission",
		"Color", "Price ($)", "Dealer_No ", "Body Style", "Phone", "Dealer_Region",
	}
}

func TestReadXLSX(t *testing.T) {
	path := writeTempXLSX(t, "Exported Data", [][]interface{}{
		salesHeaderRow(),
		{"C1", "1/2/2022", "Geraldine", "Male", "13500", "Buddy", "Ford",
			"Expedition", "DOHC", "Auto", "Black", "26000", "06457-3834",
			"SUV", "8264678", "Middletown"},
	})

	records, err := ReadXLSX(path, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "C1", records[0].ID)
	assert.Equal(t, "Middletown", records[0].DealerRegion)
	assert.Equal(t, 2, records[0].Line)
}

func TestReadXLSXSkipsEmptyRows(t *testing.T) {
	path := writeTempXLSX(t, "Data", [][]interface{}{
		salesHeaderRow(),
		{"C1", "1/2/2022", "", "", "", "", "", "", "", "", "", "100", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", "", "", "", "", "", "", ""},
	})

	records, err := ReadXLSX(path, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReadXLSXNoSalesSheetIsExtractFailure(t *testing.T) {
	path := writeTempXLSX(t, "Notes", [][]interface{}{{"just", "some", "notes"}})

	_, err := ReadXLSX(path, nil)
	require.Error(t, err)
	stage, ok := apperrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageExtract, stage)
}

func TestReadXLSXMissingFileIsExtractFailure(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "absent.xlsx"), nil)
	require.Error(t, err)
	_, ok := apperrors.StageOf(err)
	assert.True(t, ok)
}
