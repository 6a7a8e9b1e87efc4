package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

func TestRowToEntity(t *testing.T) {
	_, ok := rowToEntity(0, []interface{}{"ID", "Fecha", "Producto"})
	assert.False(t, ok, "header")

	_, ok = rowToEntity(3, []interface{}{"", " ", ""})
	assert.False(t, ok, "blank row")

	row, ok := rowToEntity(2, []interface{}{"113-1234567-1234567", "01/03/2025", "Monitor LG", "US$120.00", "31/03/2025"})
	require.True(t, ok)
	assert.Equal(t, 3, row.Row)
	assert.Equal(t, "Monitor LG", row.Product)
	assert.Equal(t, entity.StatusPending, row.Status)
	assert.Empty(t, row.Review)

	row, ok = rowToEntity(5, []interface{}{"SIN-1a2b3c4d", "01/03/2025", "Cable", "9.99", "31/03/2025", "05/03/2025", "15", "💳 PayPal", "vendido", nil})
	require.True(t, ok)
	assert.Equal(t, 6, row.Row)
	assert.Equal(t, entity.StatusSold, row.Status)
	assert.Equal(t, "💳 PayPal", row.PaymentMethod)
}

func TestEntityToValues(t *testing.T) {
	values := entityToValues(entity.InventoryRow{ID: "SIN-1a2b3c4d", Product: "Cable"})
	require.Len(t, values, columnCount)
	assert.Equal(t, "SIN-1a2b3c4d", values[colID])
	assert.Equal(t, "pendiente", values[colStatus])
}

func TestA1(t *testing.T) {
	assert.Equal(t, "A:J", a1("", fullRange))
	assert.Equal(t, "'Compras 2025'!F4:I4", a1("Compras 2025", "F4:I4"))
	assert.Equal(t, "'Tom''s'!J2", a1("Tom's", "J2"))
}
