package repository

import (
	"context"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// InventoryRepository spreadsheet-backed inventory rows
type InventoryRepository interface {
	// ReadAll all non-blank rows; may be served from a short-lived snapshot
	ReadAll(ctx context.Context) ([]entity.InventoryRow, error)

	// ReadFresh all non-blank rows, bypassing any snapshot
	ReadFresh(ctx context.Context) ([]entity.InventoryRow, error)

	// Append add rows at the end of the sheet
	Append(ctx context.Context, rows []entity.InventoryRow) error

	// UpdateSale write sale date, price, method and status of a row
	UpdateSale(ctx context.Context, row int, saleDate, salePrice, method string, status entity.Status) error

	// MarkReturned stamp the return date, zero the sale price and set status devuelto
	MarkReturned(ctx context.Context, row int, returnDate string) error

	// UpdateReview write the review cell of a row
	UpdateReview(ctx context.Context, row int, review string) error

	// Clear blank the whole row range
	Clear(ctx context.Context, row int) error
}
