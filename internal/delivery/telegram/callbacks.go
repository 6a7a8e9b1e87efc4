package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// handleCallback inline button presses
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if !h.authorized(cq.From) || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	data := cq.Data

	if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		h.logger.Warn("failed to answer callback", slog.Any("error", err))
	}

	switch {
	case data == cbPurchase:
		h.startPurchase(chatID, userID)

	case data == cbSale:
		h.startSale(chatID, userID)

	case strings.HasPrefix(data, cbMethodPrefix):
		s, ok := h.getSale(userID)
		if !ok || s.Stage != saleStageNeedMethod {
			h.sendMessage(chatID, "⚠️ No hay ninguna venta en curso. Usa /ven")
			return
		}
		s.Method, s.HasMethod = entity.PaymentMethodFromKey(strings.TrimPrefix(data, cbMethodPrefix)), true
		h.editMessage(chatID, messageID, fmt.Sprintf("✅ Precio: %s\n💳 %s", money(s.Price), s.Method.Label))
		h.finishSale(ctx, chatID, userID, s)

	case strings.HasPrefix(data, cbSelectPrefix):
		s, ok := h.getSale(userID)
		if !ok {
			s = saleSession{}
		}
		s.ID = strings.TrimPrefix(data, cbSelectPrefix)
		h.editMessage(chatID, messageID, "✅ Pedido: "+s.ID)
		h.proceedSale(ctx, chatID, userID, s)

	case strings.HasPrefix(data, cbDeletePrefix):
		id := strings.TrimPrefix(data, cbDeletePrefix)
		row, err := h.inventory.Delete(ctx, userID, id)
		if err != nil {
			h.logger.Error("failed to delete order", slog.String("order_id", id), slog.Any("error", err))
			h.editMessage(chatID, messageID, userError(err))
			return
		}
		h.editMessage(chatID, messageID, fmt.Sprintf("🗑️ BORRADO\n\nID: %s\n📦 %s", row.ID, truncate(row.Product, 60)))

	case data == cbDeleteNo:
		h.editMessage(chatID, messageID, "👍 No se borró nada.")

	case data == cbReviewSave:
		d, ok := h.popReviewDraft(userID)
		if !ok {
			h.sendMessage(chatID, "⚠️ No hay ninguna reseña pendiente.")
			return
		}
		if err := h.assistant.SaveReview(ctx, userID, d.ID, d.Text); err != nil {
			h.logger.Error("failed to save review", slog.String("order_id", d.ID), slog.Any("error", err))
			h.saveReviewDraft(userID, d)
			h.sendMessage(chatID, userError(err))
			return
		}
		h.editMessage(chatID, messageID, fmt.Sprintf("✅ Reseña guardada\n\nID: %s\n\n%s", d.ID, d.Text))

	case data == cbReviewRetry:
		d, ok := h.getReviewDraft(userID)
		if !ok {
			h.sendMessage(chatID, "⚠️ No hay ninguna reseña pendiente.")
			return
		}
		h.draftReview(ctx, chatID, userID, d.ID, d.Notes)

	case data == cbReviewDrop:
		h.popReviewDraft(userID)
		h.editMessage(chatID, messageID, "🗑️ Reseña descartada.")

	default:
		h.logger.Debug("unknown callback", slog.String("data", data))
	}
}
