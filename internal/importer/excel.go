package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// Column headers shared with the spreadsheet templates the warehouse staff
// already use.
const (
	headerCode         = "제품코드"
	headerName         = "품명"
	headerCategory     = "카테고리"
	headerManufacturer = "제조사"
	headerStock        = "현재고"
	headerQuantity     = "수량"
	headerMinStock     = "최소재고"
	headerUnit         = "단위"
	headerLocation     = "위치"
	headerBoxSize      = "박스당수량"
	headerMemo         = "비고"
)

// ParseInventorySheet flattens the first sheet of an .xlsx workbook into
// normalized rows. The first row must be a header row; columns may appear
// in any order, unknown columns are ignored.
func ParseInventorySheet(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, custom_error.NewValidationError("cannot open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, custom_error.NewValidationError("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(cells) < 2 {
		return nil, custom_error.NewValidationError("sheet %q has no data rows", sheets[0])
	}

	columns := map[string]int{}
	for idx, header := range cells[0] {
		columns[strings.TrimSpace(header)] = idx
	}
	if _, ok := columns[headerCode]; !ok {
		return nil, custom_error.NewValidationError("sheet %q is missing the %s column", sheets[0], headerCode)
	}

	pick := func(record []string, header string) string {
		idx, ok := columns[header]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]Row, 0, len(cells)-1)
	for lineNo, record := range cells[1:] {
		code := pick(record, headerCode)
		if code == "" {
			continue // blank padding rows are common in hand-edited sheets
		}

		row := Row{
			Code:         code,
			Name:         pick(record, headerName),
			Category:     pick(record, headerCategory),
			Manufacturer: pick(record, headerManufacturer),
			Unit:         pick(record, headerUnit),
			Location:     pick(record, headerLocation),
			Memo:         pick(record, headerMemo),
		}

		quantity := pick(record, headerQuantity)
		if quantity == "" {
			quantity = pick(record, headerStock)
		}
		if quantity != "" {
			row.Quantity, err = strconv.Atoi(quantity)
			if err != nil {
				return nil, custom_error.NewValidationError("row %d: quantity %q is not a number", lineNo+2, quantity)
			}
		}
		if minStock := pick(record, headerMinStock); minStock != "" {
			row.MinStock, err = strconv.Atoi(minStock)
			if err != nil {
				return nil, custom_error.NewValidationError("row %d: minimum stock %q is not a number", lineNo+2, minStock)
			}
		}
		if boxSize := pick(record, headerBoxSize); boxSize != "" {
			parsed, err := strconv.Atoi(boxSize)
			if err != nil {
				return nil, custom_error.NewValidationError("row %d: box size %q is not a number", lineNo+2, boxSize)
			}
			row.BoxSize = &parsed
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// ExportInventory renders the registry into the staff spreadsheet layout.
func ExportInventory(items []models.InventoryItem) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		headerCode, headerName, headerCategory, headerManufacturer,
		headerStock, headerMinStock, headerUnit, headerLocation, headerBoxSize,
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, item := range items {
		boxSize := 1
		if item.BoxSize != nil {
			boxSize = *item.BoxSize
		}
		values := []interface{}{
			item.Code, item.Name, item.Category, item.Manufacturer,
			item.Stock, item.MinStock, item.Unit, item.LocationKey(), boxSize,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// ExportTransactions renders ledger entries for offline analysis.
func ExportTransactions(entries []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	typeLabels := map[string]string{
		models.TransactionInbound:    "입고",
		models.TransactionOutbound:   "출고",
		models.TransactionMove:       "이동",
		models.TransactionAdjustment: "조정",
	}

	headers := []string{"일시", "유형", headerCode, headerName, headerQuantity, "출발지", "목적지", "사유", "메모"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, entry := range entries {
		values := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			typeLabels[entry.Type],
			entry.ItemCode,
			entry.ItemName,
			entry.Quantity,
			models.LocationValue(entry.FromLocation),
			models.LocationValue(entry.ToLocation),
			entry.Reason,
			entry.Memo,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
