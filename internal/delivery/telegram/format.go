package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const (
	listLimit     = 10
	urgentDays    = 3
	errorTextSize = 150
)

const updateTip = "💡 Responde 'vendido' o 'devuelto' a cualquier mensaje para actualizar"

func money(v decimal.Decimal) string {
	return "$" + entity.FormatMoney(v)
}

// visualState short deadline marker shown next to a row
func visualState(row entity.InventoryRow, now time.Time) string {
	days, ok := row.DaysLeft(now)
	switch {
	case !ok:
		return "⚠️"
	case days < 0:
		return "🔴 VENCIDO"
	case days <= urgentDays:
		return fmt.Sprintf("⚠️ %dd URGENTE", days)
	default:
		return fmt.Sprintf("✅ %dd", days)
	}
}

func alertState(row entity.InventoryRow, now time.Time) string {
	days, _ := row.DaysLeft(now)
	switch {
	case days < 0:
		return "🔴 YA VENCIDO"
	case days == 0:
		return "🔴 VENCE HOY"
	case days == 1:
		return "⏰ 1 día"
	default:
		return fmt.Sprintf("⏰ %d días", days)
	}
}

func writeRow(b *strings.Builder, row entity.InventoryRow, state string) {
	fmt.Fprintf(b, "ID: %s\n📦 %s\n💰 %s | %s\n\n", row.ID, truncate(row.Product, 60), money(row.Cost()), state)
}

func formatPendingList(rows []entity.InventoryRow, now time.Time) string {
	if len(rows) == 0 {
		return "📭 No hay compras pendientes 🎉"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 PENDIENTES (%d)\n\n", len(rows))
	for i, r := range rows {
		if i == listLimit {
			fmt.Fprintf(&b, "...y %d más\n\n", len(rows)-listLimit)
			break
		}
		writeRow(&b, r, visualState(r, now))
	}
	b.WriteString(updateTip)
	return b.String()
}

func formatExpiring(rows []entity.InventoryRow, now time.Time, header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, r := range rows {
		if i == listLimit {
			fmt.Fprintf(&b, "...y %d más\n\n", len(rows)-listLimit)
			break
		}
		writeRow(&b, r, alertState(r, now))
	}
	b.WriteString("💡 Responde 'vendido' o 'devuelto' a este mensaje para actualizar")
	return b.String()
}

func formatPurchaseResult(saved []entity.InventoryRow, failures []entity.PurchaseFailure, now time.Time) string {
	if len(saved) == 0 {
		var b strings.Builder
		b.WriteString("⚠️ No se pudo registrar ninguna compra.")
		for _, f := range failures {
			fmt.Fprintf(&b, "\n• %s: %s", nonEmpty(f.Product, "sin nombre"), truncate(f.Err.Error(), 80))
		}
		return b.String()
	}

	var b strings.Builder
	if len(saved) == 1 {
		b.WriteString("✅ 1 COMPRA REGISTRADA\n\n")
	} else {
		fmt.Fprintf(&b, "✅ %d COMPRAS REGISTRADAS\n\n", len(saved))
	}
	for _, r := range saved {
		total := "❓"
		if r.HasCost() {
			total = money(r.Cost())
		}
		fmt.Fprintf(&b, "ID: %s\n📦 %s\n💰 Total: %s\n⚠️ Devolución: %s (%s)\n",
			r.ID, truncate(r.Product, 60), total, r.ReturnBy, visualState(r, now))
		if !r.HasCost() {
			b.WriteString("✏️ Precio no detectado: corrígelo en la hoja\n")
		}
		if r.PurchaseDate == "" {
			b.WriteString("✏️ Fecha de compra no detectada: plazo contado desde hoy\n")
		}
		b.WriteString("\n")
	}
	if len(failures) > 0 {
		fmt.Fprintf(&b, "⚠️ Errores: %d\n", len(failures))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatReceipt(r entity.SaleReceipt) string {
	profit := r.Profit()
	icon := "➖"
	switch {
	case profit.IsPositive():
		icon = "🎉"
	case profit.IsNegative():
		icon = "⚠️"
	}
	return fmt.Sprintf("✅ VENTA REGISTRADA\n\nID: %s\n📦 %s\n💵 Venta: %s\n💰 Compra: %s\n%s\n%s Ganancia: %s\n\n¡Buena venta! 🚀",
		r.ID, truncate(r.Product, 60), money(r.SalePrice), money(r.PurchasePrice), r.Method.Label, icon, money(profit))
}

func formatRowDetails(r entity.InventoryRow, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n📦 %s\n🗓️ Compra: %s\n💰 Precio: %s\n", r.ID, r.Product, nonEmpty(r.PurchaseDate, "-"), money(r.Cost()))
	switch r.Status {
	case entity.StatusSold:
		fmt.Fprintf(&b, "✅ Vendido el %s por %s (%s)\n📈 Ganancia: %s",
			r.SaleDate, money(r.Revenue()), nonEmpty(r.PaymentMethod, "-"), money(r.Revenue().Sub(r.Cost())))
	case entity.StatusReturned:
		fmt.Fprintf(&b, "↩️ Devuelto el %s", r.SaleDate)
	default:
		fmt.Fprintf(&b, "⚠️ Devolución: %s (%s)", r.ReturnBy, visualState(r, now))
	}
	if r.Review != "" {
		fmt.Fprintf(&b, "\n📝 Reseña: %s", truncate(r.Review, 200))
	}
	return b.String()
}

func formatCandidate(r entity.InventoryRow, now time.Time) string {
	return fmt.Sprintf("¿Es este el pedido?\n\nID: %s\n📦 %s\n💰 %s | %s\n\nResponde s para sí o n para no.",
		r.ID, truncate(r.Product, 60), money(r.Cost()), visualState(r, now))
}

func formatSummary(s entity.InventorySummary) string {
	return fmt.Sprintf("📊 RESUMEN\n\n📦 Total: %d\n⏳ Pendientes: %d (🔴 %d vencidos)\n✅ Vendidos: %d\n↩️ Devueltos: %d\n\n💰 Invertido: %s\n💵 Ventas: %s\n📈 Ganancia: %s",
		s.Total(), s.Pending, s.Overdue, s.Sold, s.Returned, money(s.Invested), money(s.Revenue), money(s.Profit))
}

var journalLabels = map[entity.JournalAction]string{
	entity.ActionPurchase: "📸 compra",
	entity.ActionImport:   "📥 importación",
	entity.ActionSale:     "💰 venta",
	entity.ActionReturn:   "↩️ devolución",
	entity.ActionDelete:   "🗑️ borrado",
	entity.ActionReview:   "📝 reseña",
}

func formatJournal(entries []entity.JournalEntry, loc *time.Location) string {
	if len(entries) == 0 {
		return "📭 Sin movimientos todavía."
	}
	var b strings.Builder
	b.WriteString("🗂️ HISTORIAL\n\n")
	for _, e := range entries {
		label, ok := journalLabels[e.Action]
		if !ok {
			label = string(e.Action)
		}
		fmt.Fprintf(&b, "%s · %s · %s\n", e.Timestamp.In(loc).Format("02/01 15:04"), label, e.OrderID)
		if e.Details != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(e.Details, 80))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// userError maps use case errors to chat text
func userError(err error) string {
	var closed *entity.ClosedError
	switch {
	case errors.As(err, &closed) && closed.Status == entity.StatusSold:
		return "⚠️ Este pedido ya está marcado como vendido"
	case errors.As(err, &closed):
		return "⚠️ Este pedido ya está marcado como devuelto"
	case errors.Is(err, entity.ErrNotFound):
		return "❌ Pedido no encontrado"
	case errors.Is(err, entity.ErrInvalidPrice):
		return "❌ Solo números. Ejemplo: 75.50"
	case errors.Is(err, entity.ErrNoProducts):
		return "⚠️ No encontré productos."
	default:
		return "❌ Error: " + truncate(err.Error(), errorTextSize)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func nonEmpty(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
