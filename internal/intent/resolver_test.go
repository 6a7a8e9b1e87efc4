package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Routes(t *testing.T) {
	tests := []struct {
		text   string
		action Action
		query  QueryKind
		ref    string
	}{
		{"Vendí el 4567 por 80 en Zelle", ActionSale, QueryNone, "4567"},
		{"devolví 113-1234567-1234567", ActionReturn, QueryNone, "113-1234567-1234567"},
		{"borra el SIN-1A2B3C4D", ActionDelete, QueryNone, "SIN-1a2b3c4d"},
		{"¿Qué tengo pendiente?", ActionQuery, QueryPending, ""},
		{"inventario", ActionQuery, QueryPending, ""},
		{"cuánto gané este mes", ActionQuery, QuerySummary, ""},
		{"qué se vence pronto", ActionQuery, QueryExpiring, ""},
		{"busca 1234567", ActionQuery, QueryLookup, "1234567"},
		{"113-1234567-1234567", ActionQuery, QueryLookup, "113-1234567-1234567"},
		{"escribe una reseña del 4567", ActionReview, QueryNone, "4567"},
		{"compré un monitor", ActionPurchase, QueryNone, ""},
		{"ayuda", ActionHelp, QueryNone, ""},
		{"Cancelar", ActionCancel, QueryNone, ""},
		{"hola", ActionNone, QueryNone, ""},
		{"", ActionNone, QueryNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Resolve(tt.text)
			assert.Equal(t, tt.action, got.Action, "action")
			assert.Equal(t, tt.query, got.Query, "query")
			assert.Equal(t, tt.ref, got.OrderRef, "ref")
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	// delete wins over sale, return wins over sale
	assert.Equal(t, ActionDelete, Resolve("borra el vendido 4567").Action)
	assert.Equal(t, ActionReturn, Resolve("no se vendió, lo devolví 4567").Action)
	assert.Equal(t, ActionCancel, Resolve("cancela la venta").Action)
}

func TestResolve_SalePriceAndMethod(t *testing.T) {
	in := Resolve("Vendí el 4567 por 80 en Zelle")
	require.True(t, in.HasPrice)
	assert.Equal(t, "80", in.Price.String())
	require.True(t, in.HasMethod)
	assert.Equal(t, "zelle", in.Method.Key)

	in = Resolve("vendí 4567 en 75,50")
	require.True(t, in.HasPrice)
	assert.Equal(t, "75.5", in.Price.String())
	assert.Equal(t, "4567", in.OrderRef)
	assert.False(t, in.HasMethod)

	in = Resolve("lo vendí a $45.99 por paypal")
	require.True(t, in.HasPrice)
	assert.Equal(t, "45.99", in.Price.String())
	assert.Equal(t, "paypal", in.Method.Key)
	assert.Empty(t, in.OrderRef)

	in = Resolve("vendí 113-1234567-1234567")
	assert.False(t, in.HasPrice)
	assert.Equal(t, "113-1234567-1234567", in.OrderRef)
}

func TestResolve_PriceIgnoredOutsideSales(t *testing.T) {
	in := Resolve("devolví el 4567 por 80")
	assert.Equal(t, ActionReturn, in.Action)
	assert.Equal(t, "4567", in.OrderRef)
	assert.False(t, in.HasPrice)
}

func TestReviewNotes(t *testing.T) {
	tests := []struct{ text, want string }{
		{"escribe una reseña del 4567", ""},
		{"reseña 3162 llegó rápido, funciona bien", "llegó rápido, funciona bien"},
		{"Reseña: muy buen sonido", "muy buen sonido"},
		{"la reseña del 3162 la batería dura poco", "la batería dura poco"},
		{"review SIN-1a2b3c4d regalo para mi hermana", "regalo para mi hermana"},
		{"reseña del pedido 113-1234567-1234567 - caja rota", "caja rota"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReviewNotes(tt.text), tt.text)
	}
}

func TestExtractOrderID(t *testing.T) {
	id, ok := ExtractOrderID("✅ Guardado\nID: 113-1234567-1234567\n📦 Monitor")
	require.True(t, ok)
	assert.Equal(t, "113-1234567-1234567", id)

	id, ok = ExtractOrderID("ID: SIN-ABCDEF12")
	require.True(t, ok)
	assert.Equal(t, "SIN-abcdef12", id)

	_, ok = ExtractOrderID("sin identificador")
	assert.False(t, ok)
}

func TestConfirm(t *testing.T) {
	yes, ok := Confirm("Sí")
	assert.True(t, ok)
	assert.True(t, yes)

	yes, ok = Confirm("n")
	assert.True(t, ok)
	assert.False(t, yes)

	_, ok = Confirm("quizás")
	assert.False(t, ok)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "vendi", Fold(" Vendí "))
	assert.Equal(t, "resena", Fold("Reseña"))
	assert.True(t, IsFullOrderID("113-1234567-1234567"))
	assert.False(t, IsFullOrderID("1234567"))
}
