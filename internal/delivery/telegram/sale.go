package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
	"github.com/yourusername/resale-inventory-bot/internal/intent"
)

const salePrompt = "💰 REGISTRAR VENTA\n\nIndica el ID del pedido o sus últimos 4-5 dígitos:\n\nEjemplo: 114-3982452-1531462 o 3162"

func (h *BotHandler) startSale(chatID, userID int64) {
	h.resetUser(userID)
	h.setSale(userID, saleSession{Stage: saleStageNeedID})
	h.sendMessage(chatID, salePrompt)
}

// handleSaleInput text sent while a sale form is open
func (h *BotHandler) handleSaleInput(ctx context.Context, chatID, userID int64, s saleSession, text string) {
	text = strings.TrimSpace(text)

	switch s.Stage {
	case saleStageNeedID:
		ref := intent.Resolve(text).OrderRef
		if ref == "" {
			ref = text
		}
		h.lookupForSale(ctx, chatID, userID, s, ref)

	case saleStageNeedConfirm:
		yes, ok := intent.Confirm(text)
		switch {
		case !ok:
			h.sendMessage(chatID, "Responde solo s (sí) o n (no).")
		case yes:
			h.proceedSale(ctx, chatID, userID, s)
		default:
			s.Stage, s.ID = saleStageNeedID, ""
			h.setSale(userID, s)
			h.sendMessage(chatID, "Entendido. Escribe el ID completo o intenta otro sufijo.")
		}

	case saleStageNeedPrice:
		price, err := entity.ParseUserPrice(text)
		if err != nil {
			h.sendMessage(chatID, "❌ Solo números. Ejemplo: 75.50")
			return
		}
		s.Price, s.HasPrice = price, true
		h.continueSale(ctx, chatID, userID, s)

	case saleStageNeedMethod:
		m, ok := entity.DetectPaymentMethod(text)
		if !ok {
			m = entity.PaymentMethod{Key: "otro", Label: text}
		}
		s.Method, s.HasMethod = m, true
		h.continueSale(ctx, chatID, userID, s)
	}
}

// saleFromIntent "vendí 3162 en 80 por zelle" and shorter variants
func (h *BotHandler) saleFromIntent(ctx context.Context, chatID, userID int64, in intent.Intent) {
	h.resetUser(userID)
	s := saleSession{
		Stage:     saleStageNeedID,
		Price:     in.Price,
		HasPrice:  in.HasPrice,
		Method:    in.Method,
		HasMethod: in.HasMethod,
	}
	if in.OrderRef == "" {
		h.setSale(userID, s)
		h.sendMessage(chatID, salePrompt)
		return
	}
	h.lookupForSale(ctx, chatID, userID, s, in.OrderRef)
}

// lookupForSale resolves ref: an exact id proceeds, one suffix hit asks s/n,
// several hits offer a button each.
func (h *BotHandler) lookupForSale(ctx context.Context, chatID, userID int64, s saleSession, ref string) {
	rows, err := h.inventory.Lookup(ctx, ref)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			h.logger.Error("sale lookup failed", slog.String("ref", ref), slog.Any("error", err))
		}
		s.Stage = saleStageNeedID
		h.setSale(userID, s)
		h.sendNotFound(chatID, ref, err)
		return
	}

	if strings.EqualFold(rows[0].ID, ref) {
		s.ID = rows[0].ID
		h.proceedSale(ctx, chatID, userID, s)
		return
	}

	if len(rows) == 1 {
		s.Stage, s.ID = saleStageNeedConfirm, rows[0].ID
		h.setSale(userID, s)
		h.sendMessage(chatID, formatCandidate(rows[0], h.inventory.Now()))
		return
	}

	s.Stage = saleStageNeedID
	h.setSale(userID, s)
	h.sendWithMarkup(chatID, fmt.Sprintf("Encontré %d pedidos que terminan en %s. Elige uno:", len(rows), ref), candidateButtons(rows))
}

// proceedSale loads the chosen row and moves to the next missing field
func (h *BotHandler) proceedSale(ctx context.Context, chatID, userID int64, s saleSession) {
	row, err := h.inventory.Get(ctx, s.ID)
	if err != nil {
		h.clearSale(userID)
		h.sendMessage(chatID, userError(err))
		return
	}
	if row.Status.Closed() {
		h.clearSale(userID)
		h.sendMessage(chatID, userError(&entity.ClosedError{ID: row.ID, Status: row.Status}))
		return
	}

	s.ID, s.Product, s.Cost = row.ID, row.Product, row.Cost()
	if !s.HasPrice {
		s.Stage = saleStageNeedPrice
		h.setSale(userID, s)
		h.sendMessage(chatID, fmt.Sprintf("✅ Producto: %s\n💰 Precio compra: %s\n\n¿A qué precio vendiste?",
			row.Product, money(s.Cost)))
		return
	}
	h.continueSale(ctx, chatID, userID, s)
}

func (h *BotHandler) continueSale(ctx context.Context, chatID, userID int64, s saleSession) {
	if !s.HasMethod {
		s.Stage = saleStageNeedMethod
		h.setSale(userID, s)
		h.sendWithMarkup(chatID, fmt.Sprintf("✅ Precio: %s\n\n¿Por dónde te pagaron?", money(s.Price)), paymentButtons())
		return
	}
	h.finishSale(ctx, chatID, userID, s)
}

func (h *BotHandler) finishSale(ctx context.Context, chatID, userID int64, s saleSession) {
	h.clearSale(userID)
	receipt, err := h.inventory.RegisterSale(ctx, userID, s.ID, s.Price, s.Method)
	if err != nil {
		h.logger.Error("failed to register sale", slog.String("order_id", s.ID), slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	h.sendMessage(chatID, formatReceipt(receipt))
	h.sendWithMarkup(chatID, "¿Siguiente acción?", actionButtons())
}

func (h *BotHandler) sendNotFound(chatID int64, ref string, err error) {
	if errors.Is(err, entity.ErrNotFound) {
		h.sendMessage(chatID, fmt.Sprintf("❌ No encontré: %s\n\nUsa 📋 LISTAR para ver tus compras", ref))
		return
	}
	h.sendMessage(chatID, userError(err))
}
