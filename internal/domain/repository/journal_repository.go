package repository

import (
	"context"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// JournalRepository audit trail of inventory mutations
type JournalRepository interface {
	// Record store one entry
	Record(ctx context.Context, entry entity.JournalEntry) error

	// Recent newest entries first
	Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error)
}
