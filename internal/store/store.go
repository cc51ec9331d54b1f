package store

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"meathouse/internal/models"
)

// Store owns the embedded database file. All persisted state lives behind it;
// callers never share a second handle to the same file.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database file at path and ensures the schema
// exists. Safe to call against an already-initialized file: AutoMigrate only
// adds what is missing and never touches existing rows.
func Open(path string) (*Store, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	tables := []interface{}{
		&models.Product{}, &models.RawMaterial{}, &models.Sale{}, &models.ProductionRecord{},
	}
	for _, m := range tables {
		if err := db.AutoMigrate(m); err != nil {
			return nil, fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"products", "raw_materials", "sales", "production"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	zap.S().Infow("database ready", "path", path)
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the gorm handle for read-only report queries.
func (s *Store) DB() *gorm.DB { return s.db }

// AddProduct inserts a new product and returns its id. Name and price are
// taken as given; input validation belongs to the caller.
func (s *Store) AddProduct(name string, price float64, stock int) (uint, error) {
	p := models.Product{Name: name, Price: price, Stock: stock}
	if err := s.db.Create(&p).Error; err != nil {
		return 0, fmt.Errorf("add product: %w", err)
	}
	return p.ID, nil
}

// GetProducts returns all products in database order.
func (s *Store) GetProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpdateProduct overwrites name, price and stock of the given product.
// A missing id matches zero rows and is not an error.
func (s *Store) UpdateProduct(id uint, name string, price float64, stock int) error {
	err := s.db.Model(&models.Product{}).
		Where("id = ?", id).
		Select("name", "price", "stock").
		Updates(models.Product{Name: name, Price: price, Stock: stock}).Error
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	return nil
}

// DeleteProduct removes the product row. Sales and production history
// referencing it are left in place; a missing id is not an error.
func (s *Store) DeleteProduct(id uint) error {
	if err := s.db.Delete(&models.Product{}, id).Error; err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// AddRawMaterial inserts a raw material row and returns its id.
func (s *Store) AddRawMaterial(name string, quantity int) (uint, error) {
	m := models.RawMaterial{Name: name, Quantity: quantity}
	if err := s.db.Create(&m).Error; err != nil {
		return 0, fmt.Errorf("add raw material: %w", err)
	}
	return m.ID, nil
}

// GetRawMaterials returns all raw materials in database order.
func (s *Store) GetRawMaterials() ([]models.RawMaterial, error) {
	var materials []models.RawMaterial
	if err := s.db.Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	return materials, nil
}

// AddProduction records a production run and increments the product's stock
// in the same transaction. A production run for an unknown product id is
// still recorded; the stock update then matches zero rows.
func (s *Store) AddProduction(productID uint, quantity int, date string) (uint, error) {
	rec := models.ProductionRecord{ProductID: productID, Quantity: quantity, ProductionDate: date}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("insert production record: %w", err)
		}
		err := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
		if err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// ProductionEntry is one production history row joined with the product name.
type ProductionEntry struct {
	ID          uint
	ProductName string
	Quantity    int
	Date        string
}

// GetProduction returns the full production history.
func (s *Store) GetProduction() ([]ProductionEntry, error) {
	var entries []ProductionEntry
	err := s.db.Table("production").
		Select("production.id, products.name AS product_name, production.quantity, production.production_date AS date").
		Joins("JOIN products ON production.product_id = products.id").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list production: %w", err)
	}
	return entries, nil
}

// GetProductionByPeriod returns production dated within [start, end]
// inclusive, oldest first.
func (s *Store) GetProductionByPeriod(start, end string) ([]ProductionEntry, error) {
	var entries []ProductionEntry
	err := s.db.Table("production").
		Select("production.id, products.name AS product_name, production.quantity, production.production_date AS date").
		Joins("JOIN products ON production.product_id = products.id").
		Where("production.production_date BETWEEN ? AND ?", start, end).
		Order("production.production_date").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list production by period: %w", err)
	}
	return entries, nil
}

// AddSale records a sale and decrements the product's stock in the same
// transaction. Returns ErrProductNotFound if the product does not exist and
// ErrInsufficientStock if stock < quantity; neither case writes anything.
func (s *Store) AddSale(productID uint, quantity int, date string) (uint, error) {
	sale := models.Sale{ProductID: productID, Quantity: quantity, SaleDate: date}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.Select("id", "stock").Take(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
			}
			return fmt.Errorf("load product %d: %w", productID, err)
		}
		if p.Stock < quantity {
			return fmt.Errorf("product %d has %d in stock, want %d: %w",
				productID, p.Stock, quantity, ErrInsufficientStock)
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		err := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("stock", gorm.Expr("stock - ?", quantity)).Error
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sale.ID, nil
}

// SaleEntry is one sales history row joined with the product's name and
// current price.
type SaleEntry struct {
	ID          uint
	ProductName string
	Quantity    int
	Price       float64
	Date        string
}

// GetSales returns the full sales history.
func (s *Store) GetSales() ([]SaleEntry, error) {
	var entries []SaleEntry
	err := s.db.Table("sales").
		Select("sales.id, products.name AS product_name, sales.quantity, products.price, sales.sale_date AS date").
		Joins("JOIN products ON sales.product_id = products.id").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return entries, nil
}

// GetSalesByPeriod returns sales dated within [start, end] inclusive,
// oldest first.
func (s *Store) GetSalesByPeriod(start, end string) ([]SaleEntry, error) {
	var entries []SaleEntry
	err := s.db.Table("sales").
		Select("sales.id, products.name AS product_name, sales.quantity, products.price, sales.sale_date AS date").
		Joins("JOIN products ON sales.product_id = products.id").
		Where("sales.sale_date BETWEEN ? AND ?", start, end).
		Order("sales.sale_date").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list sales by period: %w", err)
	}
	return entries, nil
}

// StockItem is one line of the current stock snapshot.
type StockItem struct {
	ID    uint
	Name  string
	Stock int
	Price float64
}

// GetStockReport returns the current stock snapshot of all products.
func (s *Store) GetStockReport() ([]StockItem, error) {
	var items []StockItem
	err := s.db.Model(&models.Product{}).
		Select("id", "name", "stock", "price").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("stock report: %w", err)
	}
	return items, nil
}
