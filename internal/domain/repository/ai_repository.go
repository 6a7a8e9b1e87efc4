package repository

import (
	"context"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// AIRepository image/text generation API
type AIRepository interface {
	// ExtractPurchases read purchase data from an order screenshot
	ExtractPurchases(ctx context.Context, image []byte, mimeType string) ([]entity.PurchaseDraft, error)

	// GenerateReview draft a product review for a purchased row
	GenerateReview(ctx context.Context, row entity.InventoryRow, notes string) (string, error)
}
