package repository

import (
	"context"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// WorkbookCodec converts inventory data to and from .xlsx files
type WorkbookCodec interface {
	// ExportInventory build a workbook with the rows and their summary
	ExportInventory(ctx context.Context, rows []entity.InventoryRow, summary entity.InventorySummary) ([]byte, error)

	// ParsePurchases read purchase drafts from an uploaded workbook
	ParsePurchases(ctx context.Context, data []byte, filename string) ([]entity.PurchaseDraft, error)
}
