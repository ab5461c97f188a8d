package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			assert.NoError(t, err)
			assert.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseInventorySheet(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"제품코드", "품명", "카테고리", "수량", "최소재고", "단위", "위치", "박스당수량", "비고"},
		{"SCR-100", "Screw M4", "Fasteners", 50, 10, "EA", "A-01-1층", 100, "첫 입고"},
		{"PLT-200", "Plate", "", 5, "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", ""}, // blank padding row
	})

	rows, err := ParseInventorySheet(buf)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, "SCR-100", rows[0].Code)
	assert.Equal(t, "Screw M4", rows[0].Name)
	assert.Equal(t, 50, rows[0].Quantity)
	assert.Equal(t, 10, rows[0].MinStock)
	assert.Equal(t, "A-01-1층", rows[0].Location)
	assert.NotNil(t, rows[0].BoxSize)
	assert.Equal(t, 100, *rows[0].BoxSize)
	assert.Equal(t, "첫 입고", rows[0].Memo)

	assert.Equal(t, "PLT-200", rows[1].Code)
	assert.Equal(t, 5, rows[1].Quantity)
	assert.Nil(t, rows[1].BoxSize)
}

func TestParseInventorySheetColumnOrderIndependent(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"위치", "현재고", "제품코드"},
		{"B-02-1층", 7, "SCR-100"},
	})

	rows, err := ParseInventorySheet(buf)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "SCR-100", rows[0].Code)
	assert.Equal(t, 7, rows[0].Quantity)
	assert.Equal(t, "B-02-1층", rows[0].Location)
}

func TestParseInventorySheetRejectsBadInput(t *testing.T) {
	t.Run("Missing code column", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"품명", "수량"},
			{"Screw M4", 50},
		})

		_, err := ParseInventorySheet(buf)
		var validation *custom_error.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("Non-numeric quantity", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"제품코드", "수량"},
			{"SCR-100", "오십"},
		})

		_, err := ParseInventorySheet(buf)
		var validation *custom_error.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("Not a workbook", func(t *testing.T) {
		_, err := ParseInventorySheet(bytes.NewBufferString("plain text"))
		var validation *custom_error.ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}

func TestExportInventoryRoundTrip(t *testing.T) {
	boxSize := 100
	f, err := ExportInventory([]models.InventoryItem{
		{
			Code: "SCR-100", Name: "Screw M4", Category: "Fasteners",
			Stock: 50, MinStock: 10, Unit: "EA",
			Location: models.LocationPtr("A-01-1층"), BoxSize: &boxSize,
		},
	})
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))

	// The export uses the same headers the import understands.
	rows, err := ParseInventorySheet(&buf)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "SCR-100", rows[0].Code)
	assert.Equal(t, 50, rows[0].Quantity)
	assert.Equal(t, "A-01-1층", rows[0].Location)
}
