package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/resale-inventory-bot/internal/intent"
)

const journalLimit = 15

const helpText = `📖 GUÍA RÁPIDA

COMPRA 📸
Envía la captura del pedido de Amazon. Registro el ID, producto, precio y fecha límite de devolución.
También acepto un .xlsx con varias compras.

VENTA 💰
/ven y luego el ID o sus últimos 4-5 dígitos, el precio y el método de pago.
O escribe: vendí 3162 en 80 por zelle

RESPUESTAS RÁPIDAS ⚡
Responde "vendido", "devuelto", "borra" o "reseña" a cualquier mensaje mío que tenga un ID.

CONSULTAS 🔎
/lis pendientes · /vencer por vencer · /resumen ganancias
/resena ID notas · /borrar ID · /exportar · /historial

ALERTAS 🔔
Cada día te aviso de lo que está por vencer.

/cancelar para salir de cualquier paso.`

var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Iniciar"},
	{Command: "com", Description: "Registrar compra"},
	{Command: "ven", Description: "Registrar venta"},
	{Command: "lis", Description: "Ver pendientes"},
	{Command: "vencer", Description: "Por vencer"},
	{Command: "resumen", Description: "Resumen y ganancias"},
	{Command: "resena", Description: "Generar reseña"},
	{Command: "borrar", Description: "Borrar pedido"},
	{Command: "exportar", Description: "Exportar a Excel"},
	{Command: "historial", Description: "Últimos movimientos"},
	{Command: "ayu", Description: "Ayuda"},
	{Command: "cancelar", Description: "Cancelar"},
}

func (h *BotHandler) registerCommands() {
	if _, err := h.bot.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		h.logger.Warn("failed to register commands", slog.Any("error", err))
	}
}

func welcomeText(name string) string {
	return fmt.Sprintf(`🤖 ¡Hola %s!

Soy tu Asistente de Compras y Ventas

💡 Responde "vendido" o "devuelto" a cualquier mensaje mío.

/com - Compra | /ven - Venta | /lis - Listar | /ayu - Ayuda`, nonEmpty(name, "👋"))
}

// handleCommand slash commands
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		h.resetUser(userID)
		h.sendWithMarkup(chatID, welcomeText(message.From.FirstName), mainKeyboard())
	case "com", "compra":
		h.startPurchase(chatID, userID)
	case "ven", "venta":
		h.startSale(chatID, userID)
		if args != "" {
			s, _ := h.getSale(userID)
			h.handleSaleInput(ctx, chatID, userID, s, args)
		}
	case "lis", "listar":
		h.sendPendingList(ctx, chatID)
	case "ayu", "ayuda", "help":
		h.sendMessage(chatID, helpText)
	case "cancelar", "can":
		h.cancel(chatID, userID)
	case "vencer":
		h.sendExpiring(ctx, chatID)
	case "resumen":
		h.sendSummary(ctx, chatID)
	case "resena":
		ref, notes := splitRef(args)
		if ref == "" {
			h.sendMessage(chatID, "Indica el pedido. Ejemplo: /resena 3162 llegó rápido, funciona bien")
			return
		}
		h.reviewByRef(ctx, chatID, userID, ref, notes)
	case "borrar":
		ref, _ := splitRef(args)
		if ref == "" {
			h.sendMessage(chatID, "Indica el pedido. Ejemplo: /borrar 3162")
			return
		}
		h.askDelete(ctx, chatID, ref)
	case "exportar":
		h.sendExport(ctx, chatID)
	case "historial":
		h.sendJournal(ctx, chatID)
	default:
		h.sendMessage(chatID, "Comando no reconocido. Usa /ayu")
	}
}

// splitRef first word of args as an order reference, the rest as notes
func splitRef(args string) (string, string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", ""
	}
	ref := strings.Trim(fields[0], "#.,:")
	if strings.HasPrefix(strings.ToUpper(ref), "SIN-") {
		ref = "SIN-" + strings.ToLower(ref[4:])
	}
	return ref, strings.TrimSpace(strings.TrimPrefix(args, fields[0]))
}

func (h *BotHandler) sendPendingList(ctx context.Context, chatID int64) {
	h.typing(chatID)
	rows, err := h.inventory.Pending(ctx)
	if err != nil {
		h.logger.Error("failed to list pending", slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	h.sendWithMarkup(chatID, formatPendingList(rows, h.inventory.Now()), actionButtons())
}

func (h *BotHandler) sendExpiring(ctx context.Context, chatID int64) {
	rows, err := h.inventory.Expiring(ctx, h.alertDays)
	if err != nil {
		h.logger.Error("failed to list expiring", slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	if len(rows) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("✅ Nada vence en los próximos %d días.", h.alertDays))
		return
	}
	header := fmt.Sprintf("⏰ POR VENCER (%d días o menos):", h.alertDays)
	h.sendMessage(chatID, formatExpiring(rows, h.inventory.Now(), header))
}

func (h *BotHandler) sendSummary(ctx context.Context, chatID int64) {
	s, err := h.inventory.Summary(ctx)
	if err != nil {
		h.logger.Error("failed to build summary", slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	h.sendMessage(chatID, formatSummary(s))
}

func (h *BotHandler) sendExport(ctx context.Context, chatID int64) {
	h.typing(chatID)
	data, filename, err := h.reports.Export(ctx)
	if err != nil {
		h.logger.Error("failed to export inventory", slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = "📊 Inventario exportado"
	if _, err := h.bot.Send(doc); err != nil {
		h.logger.Error("failed to send export", slog.Any("error", err))
		h.sendMessage(chatID, "❌ No pude enviar el archivo.")
	}
}

func (h *BotHandler) sendJournal(ctx context.Context, chatID int64) {
	entries, err := h.reports.Journal(ctx, journalLimit)
	if err != nil {
		h.logger.Error("failed to read journal", slog.Any("error", err))
		h.sendMessage(chatID, userError(err))
		return
	}
	h.sendMessage(chatID, formatJournal(entries, h.inventory.Now().Location()))
}

// handleIntent free text outside any form
func (h *BotHandler) handleIntent(ctx context.Context, chatID, userID int64, text string, in intent.Intent) {
	h.logger.Debug("intent resolved", slog.String("action", in.Action.String()), slog.String("ref", in.OrderRef))

	switch in.Action {
	case intent.ActionDelete:
		if in.OrderRef == "" {
			h.sendMessage(chatID, "Indica el pedido a borrar. Ejemplo: borra 3162")
			return
		}
		h.askDelete(ctx, chatID, in.OrderRef)
	case intent.ActionReturn:
		if in.OrderRef == "" {
			h.sendMessage(chatID, "Indica el pedido devuelto. Ejemplo: devuelto 3162")
			return
		}
		h.returnByRef(ctx, chatID, userID, in.OrderRef)
	case intent.ActionSale:
		h.saleFromIntent(ctx, chatID, userID, in)
	case intent.ActionReview:
		if in.OrderRef == "" {
			h.sendMessage(chatID, "Indica el pedido. Ejemplo: reseña 3162 llegó rápido")
			return
		}
		h.reviewByRef(ctx, chatID, userID, in.OrderRef, intent.ReviewNotes(text))
	case intent.ActionQuery:
		h.answerQuery(ctx, chatID, in)
	case intent.ActionPurchase:
		h.startPurchase(chatID, userID)
	case intent.ActionHelp:
		h.sendMessage(chatID, helpText)
	default:
		h.sendMessage(chatID, "No entendí. Usa los botones o comandos.\n\nTambién puedes responder 'vendido' o 'devuelto' a mis mensajes.")
	}
}

func (h *BotHandler) answerQuery(ctx context.Context, chatID int64, in intent.Intent) {
	switch in.Query {
	case intent.QueryExpiring:
		h.sendExpiring(ctx, chatID)
	case intent.QuerySummary:
		h.sendSummary(ctx, chatID)
	case intent.QueryLookup:
		rows, err := h.inventory.Lookup(ctx, in.OrderRef)
		if err != nil {
			h.sendNotFound(chatID, in.OrderRef, err)
			return
		}
		now := h.inventory.Now()
		parts := make([]string, 0, len(rows))
		for _, r := range rows {
			parts = append(parts, formatRowDetails(r, now))
		}
		h.sendMessage(chatID, strings.Join(parts, "\n\n"))
	default:
		h.sendPendingList(ctx, chatID)
	}
}
