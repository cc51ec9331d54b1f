package store

import "errors"

var (
	// ErrInsufficientStock is returned by AddSale when the requested quantity
	// exceeds the product's current stock. Nothing is written in that case.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrProductNotFound is returned when an operation needs to read a product
	// that does not exist.
	ErrProductNotFound = errors.New("product not found")
)
