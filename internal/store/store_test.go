package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore opens a unique in-memory database per test to avoid cross-test
// collisions.
func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	s, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddAndListProducts(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 12.5, 3)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = s.AddProduct("ham", 20, 0)
	require.NoError(t, err)

	products, err := s.GetProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "sausage", products[0].Name)
	assert.Equal(t, 12.5, products[0].Price)
	assert.Equal(t, 3, products[0].Stock)
	assert.Equal(t, "ham", products[1].Name)
}

func TestUpdateProductOverwritesAllFields(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 12.5, 3)
	require.NoError(t, err)

	// Zero values must be written too, this is a full overwrite.
	require.NoError(t, s.UpdateProduct(id, "smoked sausage", 15, 0))

	products, err := s.GetProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "smoked sausage", products[0].Name)
	assert.Equal(t, 15.0, products[0].Price)
	assert.Equal(t, 0, products[0].Stock)
}

func TestUpdateProductMissingIDIsSilent(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.UpdateProduct(42, "ghost", 1, 1))
}

func TestDeleteProductMissingIDIsSilent(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.DeleteProduct(42))
}

func TestRawMaterials(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddRawMaterial("pork", 100)
	require.NoError(t, err)
	assert.NotZero(t, id)

	materials, err := s.GetRawMaterials()
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "pork", materials[0].Name)
	assert.Equal(t, 100, materials[0].Quantity)
}

func TestStockConservation(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 10, 10)
	require.NoError(t, err)

	_, err = s.AddProduction(id, 5, "2024-03-01")
	require.NoError(t, err)
	_, err = s.AddProduction(id, 7, "2024-03-02")
	require.NoError(t, err)
	_, err = s.AddSale(id, 3, "2024-03-03")
	require.NoError(t, err)
	_, err = s.AddSale(id, 4, "2024-03-04")
	require.NoError(t, err)

	products, err := s.GetProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	// 10 + 5 + 7 - 3 - 4
	assert.Equal(t, 15, products[0].Stock)
}

func TestOversellRejected(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 10, 2)
	require.NoError(t, err)

	_, err = s.AddSale(id, 3, "2024-03-01")
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing may have been written.
	products, err := s.GetProducts()
	require.NoError(t, err)
	assert.Equal(t, 2, products[0].Stock)

	var count int64
	require.NoError(t, s.DB().Table("sales").Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaleExactStockAllowed(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 10, 3)
	require.NoError(t, err)

	_, err = s.AddSale(id, 3, "2024-03-01")
	require.NoError(t, err)

	products, err := s.GetProducts()
	require.NoError(t, err)
	assert.Equal(t, 0, products[0].Stock)
}

func TestSaleOnMissingProductIsNotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.AddSale(42, 1, "2024-03-01")
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.NotErrorIs(t, err, ErrInsufficientStock)

	var count int64
	require.NoError(t, s.DB().Table("sales").Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductionOnMissingProductStillRecorded(t *testing.T) {
	s := setupStore(t)

	// Lenient by design: the record is kept, the stock update matches nothing.
	id, err := s.AddProduction(42, 5, "2024-03-01")
	require.NoError(t, err)
	assert.NotZero(t, id)

	var count int64
	require.NoError(t, s.DB().Table("production").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSalesHistoryJoinsNameAndCurrentPrice(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 10, 10)
	require.NoError(t, err)
	_, err = s.AddSale(id, 2, "2024-03-01")
	require.NoError(t, err)

	// The history row reflects the price as it is now, not at sale time.
	require.NoError(t, s.UpdateProduct(id, "sausage", 14, 8))

	entries, err := s.GetSales()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sausage", entries[0].ProductName)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, 14.0, entries[0].Price)
	assert.Equal(t, "2024-03-01", entries[0].Date)
}

func TestSalesPeriodBoundsInclusive(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 10, 100)
	require.NoError(t, err)
	for _, date := range []string{"2024-02-29", "2024-03-01", "2024-03-15", "2024-03-31", "2024-04-01"} {
		_, err = s.AddSale(id, 1, date)
		require.NoError(t, err)
	}

	entries, err := s.GetSalesByPeriod("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-03-01", entries[0].Date)
	assert.Equal(t, "2024-03-15", entries[1].Date)
	assert.Equal(t, "2024-03-31", entries[2].Date)
}

func TestProductionPeriodBoundsInclusive(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 10, 0)
	require.NoError(t, err)
	for _, date := range []string{"2024-02-29", "2024-03-01", "2024-03-31", "2024-04-01"} {
		_, err = s.AddProduction(id, 1, date)
		require.NoError(t, err)
	}

	entries, err := s.GetProductionByPeriod("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-03-01", entries[0].Date)
	assert.Equal(t, "2024-03-31", entries[1].Date)
}

func TestDeleteProductKeepsHistory(t *testing.T) {
	s := setupStore(t)

	id, err := s.AddProduct("sausage", 10, 10)
	require.NoError(t, err)
	_, err = s.AddProduction(id, 5, "2024-03-01")
	require.NoError(t, err)
	_, err = s.AddSale(id, 2, "2024-03-02")
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(id))

	var sales, production int64
	require.NoError(t, s.DB().Table("sales").Count(&sales).Error)
	require.NoError(t, s.DB().Table("production").Count(&production).Error)
	assert.EqualValues(t, 1, sales)
	assert.EqualValues(t, 1, production)
}

func TestStockReportSnapshot(t *testing.T) {
	s := setupStore(t)

	_, err := s.AddProduct("sausage", 12.5, 3)
	require.NoError(t, err)
	_, err = s.AddProduct("ham", 20, 0)
	require.NoError(t, err)

	items, err := s.GetStockReport()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "sausage", items[0].Name)
	assert.Equal(t, 3, items[0].Stock)
	assert.Equal(t, 12.5, items[0].Price)
}

func TestSchemaInitIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meat_house.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.AddProduct("sausage", 10, 5)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening the same file must neither error nor touch existing rows.
	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	products, err := s.GetProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
	assert.Equal(t, 5, products[0].Stock)
}
