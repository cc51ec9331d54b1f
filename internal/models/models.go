package models

// Product is a finished good kept in stock. Stock is a running counter
// maintained by production and sale transactions, never recomputed.
type Product struct {
	ID    uint    `gorm:"primaryKey"`
	Name  string  `gorm:"not null"`
	Price float64 `gorm:"not null"`
	Stock int     `gorm:"default:0"`
}

// RawMaterial is an input good. Nothing in the core consumes materials yet;
// rows exist so the stock report can show them.
type RawMaterial struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Quantity int    `gorm:"default:0"`
}

// Sale is a historical fact: created once, never mutated or deleted.
type Sale struct {
	ID        uint    `gorm:"primaryKey"`
	ProductID uint    `gorm:"not null;index"`
	Product   Product `gorm:"foreignKey:ProductID"`
	Quantity  int     `gorm:"not null"`
	SaleDate  string  `gorm:"type:date;not null;index"` // YYYY-MM-DD
}

// ProductionRecord is a historical fact: created once, never mutated or deleted.
type ProductionRecord struct {
	ID             uint    `gorm:"primaryKey"`
	ProductID      uint    `gorm:"not null;index"`
	Product        Product `gorm:"foreignKey:ProductID"`
	Quantity       int     `gorm:"not null"`
	ProductionDate string  `gorm:"type:date;not null;index"` // YYYY-MM-DD
}

// TableName keeps the table name used by existing database files.
func (ProductionRecord) TableName() string { return "production" }
