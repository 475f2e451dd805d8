package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Fantastik19951/financebot/models"
	"github.com/Fantastik19951/financebot/utils"
)

// PeriodExcel — выгрузка периода в xlsx: сводка по дням плюс листы расходов и
// накладных как есть.
func PeriodExcel(days []DayStat, expenseRows, supplierRows [][]string, start, end time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Сводка"
	f.SetSheetName("Sheet1", summary)

	header := []string{"Дата", "Продавец", "Наличные", "Терминал", "Выручка", "Расходы", "Поставщики", "Чистыми"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summary, cell, h)
	}
	for r, d := range days {
		values := []interface{}{
			utils.FormatDate(d.Date), d.Seller, d.Cash, d.Terminal,
			d.Total, d.Expenses, d.Suppliers, d.Total - d.Expenses - d.Suppliers,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(summary, cell, v)
		}
	}

	inPeriod := func(s string) bool {
		t, err := utils.ParseDate(s)
		if err != nil {
			return false
		}
		return !t.Before(start) && !t.After(end)
	}

	writeSheet := func(name string, headerRow []string, rows [][]string) error {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		for i, h := range headerRow {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(name, cell, h)
		}
		out := 2
		for i := 1; i < len(rows); i++ {
			if len(rows[i]) == 0 || !inPeriod(rows[i][0]) {
				continue
			}
			for c, v := range rows[i] {
				cell, _ := excelize.CoordinatesToCellName(c+1, out)
				f.SetCellValue(name, cell, v)
			}
			out++
		}
		return nil
	}

	if err := writeSheet("Расходы", models.Headers[models.SheetExpenses], expenseRows); err != nil {
		return nil, fmt.Errorf("лист расходов: %w", err)
	}
	if err := writeSheet("Накладные", models.Headers[models.SheetSuppliers], supplierRows); err != nil {
		return nil, fmt.Errorf("лист накладных: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("сборка xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
