package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// Main keyboard buttons
const (
	btnPurchase = "📸 COMPRA"
	btnSale     = "💰 VENTA"
	btnList     = "📋 LISTAR"
	btnHelp     = "❓ AYUDA"
)

// Callback data
const (
	cbPurchase     = "btn_compra"
	cbSale         = "btn_venta"
	cbMethodPrefix = "metodo_"
	cbSelectPrefix = "sel:"
	cbDeletePrefix = "del_yes:"
	cbDeleteNo     = "del_no"
	cbReviewSave   = "rev_save"
	cbReviewRetry  = "rev_retry"
	cbReviewDrop   = "rev_drop"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPurchase),
			tgbotapi.NewKeyboardButton(btnSale),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnList),
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func actionButtons() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📸 Nueva Compra", cbPurchase),
			tgbotapi.NewInlineKeyboardButtonData("💰 Nueva Venta", cbSale),
		),
	)
}

// paymentButtons three methods per row
func paymentButtons() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range entity.PaymentMethods {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(m.Label, cbMethodPrefix+m.Key))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// candidateButtons one button per matching order
func candidateButtons(rows []entity.InventoryRow) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, r := range rows {
		label := fmt.Sprintf("%s · %s", r.ID, truncate(r.Product, 24))
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbSelectPrefix+r.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

func deleteButtons(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Sí, borrar", cbDeletePrefix+id),
			tgbotapi.NewInlineKeyboardButtonData("↩️ No", cbDeleteNo),
		),
	)
}

func reviewButtons() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Guardar", cbReviewSave),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Otra", cbReviewRetry),
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Descartar", cbReviewDrop),
		),
	)
}
