package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const notFound = "NO_ENCONTRADO"

const extractionPrompt = `Analiza esta captura de pantalla de compra online.
Extrae en JSON PURO (solo JSON, sin texto fuera del objeto):
{
    "numero_productos": 1,
    "productos": [{
        "id_pedido": "número de orden",
        "fecha_compra": "DD/MM/YYYY",
        "producto": "nombre corto (máx 8 palabras)",
        "precio_compra": "TOTAL con impuestos",
        "fecha_devolucion": "DD/MM/YYYY o calcula +30 días"
    }]
}
Reglas:
- Precio = TOTAL FINAL, no unitario.
- Si varios productos, lista todos con mismo id_pedido.
- Si un dato no aparece, usa "NO_ENCONTRADO".
- Responde SOLO con JSON válido.`

// looseString accepts JSON strings, numbers and null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

type extractedProduct struct {
	OrderID      looseString `json:"id_pedido"`
	PurchaseDate looseString `json:"fecha_compra"`
	Product      looseString `json:"producto"`
	Price        looseString `json:"precio_compra"`
	ReturnBy     looseString `json:"fecha_devolucion"`
}

type extractionEnvelope struct {
	Products []extractedProduct `json:"productos"`
}

// parseExtraction accepts {"productos": [...]}, a bare array or a single
// product object, optionally wrapped in a markdown code fence.
func parseExtraction(text string) ([]entity.PurchaseDraft, error) {
	cleaned := stripFence(text)
	if cleaned == "" {
		return nil, entity.ErrNoProducts
	}

	var products []extractedProduct
	switch cleaned[0] {
	case '[':
		if err := json.Unmarshal([]byte(cleaned), &products); err != nil {
			return nil, fmt.Errorf("invalid Gemini JSON: %w", err)
		}
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
			return nil, fmt.Errorf("invalid Gemini JSON: %w", err)
		}
		if _, ok := probe["productos"]; ok {
			var env extractionEnvelope
			if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
				return nil, fmt.Errorf("invalid Gemini JSON: %w", err)
			}
			products = env.Products
		} else {
			var single extractedProduct
			if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
				return nil, fmt.Errorf("invalid Gemini JSON: %w", err)
			}
			products = []extractedProduct{single}
		}
	default:
		return nil, fmt.Errorf("invalid Gemini JSON: unexpected %s", strconv.QuoteRune(rune(cleaned[0])))
	}

	drafts := make([]entity.PurchaseDraft, 0, len(products))
	for _, p := range products {
		d := entity.PurchaseDraft{
			OrderID:      normalize(p.OrderID),
			PurchaseDate: normalize(p.PurchaseDate),
			Product:      normalize(p.Product),
			Price:        normalize(p.Price),
			ReturnBy:     normalize(p.ReturnBy),
		}
		if d == (entity.PurchaseDraft{}) {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func stripFence(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		if end := strings.Index(t, "```"); end >= 0 {
			t = t[:end]
		}
		t = strings.TrimSpace(t)
	}
	if strings.HasPrefix(strings.ToLower(t), "json") {
		t = strings.TrimSpace(t[4:])
	}
	return t
}

func normalize(s looseString) string {
	v := strings.TrimSpace(string(s))
	if strings.EqualFold(v, notFound) {
		return ""
	}
	return v
}
