package usecase

import (
	"context"
	"fmt"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
	"github.com/yourusername/resale-inventory-bot/internal/domain/repository"
)

// ReportUseCase workbook export/import and the action journal
type ReportUseCase interface {
	// Export the inventory as an .xlsx workbook; returns the bytes and a file name
	Export(ctx context.Context) ([]byte, string, error)

	// Import purchases from an uploaded workbook
	Import(ctx context.Context, userID int64, data []byte, filename string) ([]entity.InventoryRow, []entity.PurchaseFailure, error)

	// Journal newest journal entries
	Journal(ctx context.Context, limit int) ([]entity.JournalEntry, error)
}

type reportUseCase struct {
	inventory InventoryUseCase
	codec     repository.WorkbookCodec
	journal   repository.JournalRepository
}

// NewReportUseCase creates the report use case
func NewReportUseCase(inventory InventoryUseCase, codec repository.WorkbookCodec, journal repository.JournalRepository) ReportUseCase {
	return &reportUseCase{
		inventory: inventory,
		codec:     codec,
		journal:   journal,
	}
}

func (u *reportUseCase) Export(ctx context.Context) ([]byte, string, error) {
	rows, err := u.inventory.All(ctx)
	if err != nil {
		return nil, "", err
	}
	summary, err := u.inventory.Summary(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := u.codec.ExportInventory(ctx, rows, summary)
	if err != nil {
		return nil, "", fmt.Errorf("failed to export inventory: %w", err)
	}
	filename := fmt.Sprintf("inventario_%s.xlsx", u.inventory.Now().Format("20060102"))
	return data, filename, nil
}

func (u *reportUseCase) Import(ctx context.Context, userID int64, data []byte, filename string) ([]entity.InventoryRow, []entity.PurchaseFailure, error) {
	drafts, err := u.codec.ParsePurchases(ctx, data, filename)
	if err != nil {
		return nil, nil, err
	}
	if len(drafts) == 0 {
		return nil, nil, entity.ErrNoProducts
	}
	return u.inventory.RegisterPurchases(ctx, userID, drafts, entity.ActionImport)
}

func (u *reportUseCase) Journal(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	if u.journal == nil {
		return nil, nil
	}
	return u.journal.Recent(ctx, limit)
}
