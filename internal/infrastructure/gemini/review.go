package gemini

import (
	"fmt"
	"strings"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const reviewSystemInstruction = `Eres un comprador real que escribe reseñas de productos de Amazon en español.
Escribes con naturalidad, sin exagerar y sin mencionar que eres una IA.`

func buildReviewPrompt(row entity.InventoryRow, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Escribe una reseña para este producto comprado en Amazon: %s.\n", row.Product)
	if row.PurchaseDate != "" {
		fmt.Fprintf(&b, "Fecha de compra: %s.\n", row.PurchaseDate)
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		fmt.Fprintf(&b, "Ten en cuenta estas notas del comprador: %s\n", notes)
	}
	b.WriteString(`Formato exacto:
Título: <título breve>
Calificación: <de 1 a 5 estrellas con ★>

<cuerpo de 60 a 120 palabras>

Responde solo con la reseña, sin comentarios adicionales.`)
	return b.String()
}

// cleanReview drops code fences and surrounding quotes
func cleanReview(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(t, "```")
	t = strings.TrimSpace(t)
	t = strings.Trim(t, `"“”`)
	return strings.TrimSpace(t)
}
