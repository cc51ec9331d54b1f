// Package reports builds the aggregate views shown in the reporting screens.
// A Generator holds a Store handle and no other state; every call re-reads
// the database.
package reports

import (
	"fmt"

	"meathouse/internal/models"
	"meathouse/internal/store"
)

type Generator struct {
	store *store.Store
}

func NewGenerator(s *store.Store) *Generator { return &Generator{store: s} }

// SalesRow aggregates all sales of one product inside the requested period.
// Revenue is computed against the product's current price, not the price at
// the time of sale: sales carry no price of their own.
type SalesRow struct {
	ProductName   string
	TotalQuantity int
	TotalRevenue  float64
	UnitPrice     float64
}

// SalesReport groups sales dated within [start, end] inclusive by product name.
func (g *Generator) SalesReport(start, end string) ([]SalesRow, error) {
	var rows []SalesRow
	err := g.store.DB().Table("sales").
		Select("products.name AS product_name, SUM(sales.quantity) AS total_quantity, SUM(sales.quantity * products.price) AS total_revenue, products.price AS unit_price").
		Joins("JOIN products ON sales.product_id = products.id").
		Where("sales.sale_date BETWEEN ? AND ?", start, end).
		Group("products.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	return rows, nil
}

// ProductionRow aggregates production runs of one product on one date.
// Runs on the same day collapse into a single row with summed quantity.
type ProductionRow struct {
	ProductName   string
	TotalQuantity int
	Date          string
}

// ProductionReport groups production dated within [start, end] inclusive by
// product name and production date.
func (g *Generator) ProductionReport(start, end string) ([]ProductionRow, error) {
	var rows []ProductionRow
	err := g.store.DB().Table("production").
		Select("products.name AS product_name, SUM(production.quantity) AS total_quantity, production.production_date AS date").
		Joins("JOIN products ON production.product_id = products.id").
		Where("production.production_date BETWEEN ? AND ?", start, end).
		Group("products.name, production.production_date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("production report: %w", err)
	}
	return rows, nil
}

// ProductStock is one product line of the stock snapshot.
type ProductStock struct {
	Name  string
	Stock int
}

// MaterialStock is one raw-material line of the stock snapshot.
type MaterialStock struct {
	Name     string
	Quantity int
}

// StockReport holds the two independent snapshots shown together on the
// stock screen.
type StockReport struct {
	Products  []ProductStock
	Materials []MaterialStock
}

// StockReport returns the current on-hand quantities of products and raw
// materials.
func (g *Generator) StockReport() (*StockReport, error) {
	var report StockReport
	err := g.store.DB().Model(&models.Product{}).
		Select("name", "stock").
		Scan(&report.Products).Error
	if err != nil {
		return nil, fmt.Errorf("stock report products: %w", err)
	}
	err = g.store.DB().Model(&models.RawMaterial{}).
		Select("name", "quantity").
		Scan(&report.Materials).Error
	if err != nil {
		return nil, fmt.Errorf("stock report materials: %w", err)
	}
	return &report, nil
}
