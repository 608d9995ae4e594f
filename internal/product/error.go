package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrImageNotFound   = errors.New("product image not found")
	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrNoFieldsToSet   = errors.New("no fields to update")
	ErrDuplicateSKU    = errors.New("sku already in use")

	// PgUniqueViolation is the postgres error code surfaced on duplicate
	// slugs and SKUs.
	PgUniqueViolation = "23505"
)
