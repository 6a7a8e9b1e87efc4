package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
	"github.com/yourusername/resale-inventory-bot/internal/intent"
)

// handleQuickReply acts on the order quoted in the replied-to bot message.
// Returns false when the reply carries no order id or no known action.
func (h *BotHandler) handleQuickReply(ctx context.Context, message *tgbotapi.Message, in intent.Intent) bool {
	quoted := message.ReplyToMessage.Text
	if quoted == "" {
		quoted = message.ReplyToMessage.Caption
	}
	id, ok := intent.ExtractOrderID(quoted)
	if !ok {
		return false
	}
	// the quoted order always wins; a bare number in a sale reply is its price
	if ref := in.OrderRef; ref != "" && in.Action == intent.ActionSale && !in.HasPrice &&
		!strings.HasSuffix(strings.ToLower(id), strings.ToLower(ref)) {
		if price, err := entity.ParseUserPrice(ref); err == nil {
			in.Price, in.HasPrice = price, true
		}
	}
	in.OrderRef = id

	chatID := message.Chat.ID
	userID := message.From.ID
	h.logger.Debug("quick reply", slog.String("action", in.Action.String()), slog.String("order_id", in.OrderRef))

	switch in.Action {
	case intent.ActionSale:
		h.saleFromIntent(ctx, chatID, userID, in)
	case intent.ActionReturn:
		h.returnByRef(ctx, chatID, userID, in.OrderRef)
	case intent.ActionDelete:
		h.askDelete(ctx, chatID, in.OrderRef)
	case intent.ActionReview:
		h.reviewByRef(ctx, chatID, userID, in.OrderRef, intent.ReviewNotes(message.Text))
	case intent.ActionQuery:
		if in.Query != intent.QueryLookup {
			return false
		}
		h.answerQuery(ctx, chatID, in)
	default:
		return false
	}
	return true
}

// resolveTarget one order for ref, or a chat reply explaining why not
func (h *BotHandler) resolveTarget(ctx context.Context, chatID int64, ref string) (entity.InventoryRow, bool) {
	rows, err := h.inventory.Lookup(ctx, ref)
	if err != nil {
		h.sendNotFound(chatID, ref, err)
		return entity.InventoryRow{}, false
	}
	if len(rows) > 1 && !strings.EqualFold(rows[0].ID, ref) {
		var b strings.Builder
		fmt.Fprintf(&b, "Encontré %d pedidos que terminan en %s. Escribe el ID completo:\n\n", len(rows), ref)
		for _, r := range rows {
			fmt.Fprintf(&b, "ID: %s\n📦 %s\n\n", r.ID, truncate(r.Product, 60))
		}
		h.sendMessage(chatID, strings.TrimRight(b.String(), "\n"))
		return entity.InventoryRow{}, false
	}
	return rows[0], true
}

func (h *BotHandler) returnByRef(ctx context.Context, chatID, userID int64, ref string) {
	target, ok := h.resolveTarget(ctx, chatID, ref)
	if !ok {
		return
	}
	row, err := h.inventory.MarkReturned(ctx, userID, target.ID)
	if err != nil {
		h.logger.Error("failed to mark returned", slog.String("order_id", target.ID), slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	h.sendWithMarkup(chatID, fmt.Sprintf("✅ DEVUELTO\n\nID: %s\n📦 %s\nGuardado correctamente.", row.ID, truncate(row.Product, 60)), actionButtons())
}

func (h *BotHandler) askDelete(ctx context.Context, chatID int64, ref string) {
	row, ok := h.resolveTarget(ctx, chatID, ref)
	if !ok {
		return
	}
	text := fmt.Sprintf("🗑️ ¿Borrar este pedido?\n\n%s", formatRowDetails(row, h.inventory.Now()))
	h.sendWithMarkup(chatID, text, deleteButtons(row.ID))
}

func (h *BotHandler) reviewByRef(ctx context.Context, chatID, userID int64, ref, notes string) {
	row, ok := h.resolveTarget(ctx, chatID, ref)
	if !ok {
		return
	}
	h.draftReview(ctx, chatID, userID, row.ID, notes)
}

func (h *BotHandler) draftReview(ctx context.Context, chatID, userID int64, id, notes string) {
	h.typing(chatID)
	row, text, err := h.assistant.DraftReview(ctx, id, notes)
	if err != nil {
		h.logger.Error("failed to draft review", slog.String("order_id", id), slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	h.saveReviewDraft(userID, reviewDraft{ID: row.ID, Product: row.Product, Notes: notes, Text: text})
	h.sendWithMarkup(chatID, fmt.Sprintf("📝 RESEÑA\n\nID: %s\n📦 %s\n\n%s", row.ID, truncate(row.Product, 60), text), reviewButtons())
}
