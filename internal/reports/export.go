package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet export for handing reports to people who live in Excel.
// Each report becomes a single sheet: header row, then one row per line.

func ExportSalesXLSX(path string, rows []SalesRow) error {
	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []interface{}{r.ProductName, r.TotalQuantity, r.TotalRevenue, r.UnitPrice})
	}
	return writeSheet(path, []string{"Product", "Quantity", "Revenue", "Unit price"}, cells)
}

func ExportProductionXLSX(path string, rows []ProductionRow) error {
	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []interface{}{r.ProductName, r.TotalQuantity, r.Date})
	}
	return writeSheet(path, []string{"Product", "Quantity", "Date"}, cells)
}

func ExportStockXLSX(path string, report *StockReport) error {
	cells := make([][]interface{}, 0, len(report.Products)+len(report.Materials))
	for _, p := range report.Products {
		cells = append(cells, []interface{}{"product", p.Name, p.Stock})
	}
	for _, m := range report.Materials {
		cells = append(cells, []interface{}{"material", m.Name, m.Quantity})
	}
	return writeSheet(path, []string{"Kind", "Name", "Quantity"}, cells)
}

func writeSheet(path string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return nil
}
