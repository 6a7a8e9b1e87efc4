package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
	"github.com/yourusername/resale-inventory-bot/internal/domain/repository"
)

// AssistantUseCase operations backed by the image/text generation API
type AssistantUseCase interface {
	// IngestScreenshot extract purchases from a screenshot and store them
	IngestScreenshot(ctx context.Context, userID int64, image []byte, mimeType string) ([]entity.InventoryRow, []entity.PurchaseFailure, error)

	// DraftReview generate a review for the row of id without storing it
	DraftReview(ctx context.Context, id, notes string) (entity.InventoryRow, string, error)

	// SaveReview store an accepted review
	SaveReview(ctx context.Context, userID int64, id, review string) error
}

type assistantUseCase struct {
	ai        repository.AIRepository
	inventory InventoryUseCase
	logger    *slog.Logger
}

// NewAssistantUseCase creates the assistant use case
func NewAssistantUseCase(ai repository.AIRepository, inventory InventoryUseCase, logger *slog.Logger) AssistantUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &assistantUseCase{
		ai:        ai,
		inventory: inventory,
		logger:    logger.With(slog.String("component", "assistant")),
	}
}

func (u *assistantUseCase) IngestScreenshot(ctx context.Context, userID int64, image []byte, mimeType string) ([]entity.InventoryRow, []entity.PurchaseFailure, error) {
	drafts, err := u.ai.ExtractPurchases(ctx, image, mimeType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	u.logger.Debug("screenshot extracted", slog.Int("products", len(drafts)))
	return u.inventory.RegisterPurchases(ctx, userID, drafts, entity.ActionPurchase)
}

func (u *assistantUseCase) DraftReview(ctx context.Context, id, notes string) (entity.InventoryRow, string, error) {
	row, err := u.inventory.Get(ctx, id)
	if err != nil {
		return row, "", err
	}
	review, err := u.ai.GenerateReview(ctx, row, notes)
	if err != nil {
		return row, "", fmt.Errorf("failed to draft review: %w", err)
	}
	return row, review, nil
}

func (u *assistantUseCase) SaveReview(ctx context.Context, userID int64, id, review string) error {
	return u.inventory.SaveReview(ctx, userID, id, review)
}
