package parser

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParsePurchases_MapsHeaderByKeyword(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Número de pedido", "Fecha", "Artículo", "Total", "Devolución", "Notas"},
		{"113-1234567-1234567", "01/03/2025", "Monitor LG", "189.99", "31/03/2025", "caja dañada"},
		{},
		{"", "02/03/2025", "", "10", "", "sin producto"},
		{"", "03/03/2025", "Cable HDMI", "12.50", "", ""},
	})

	codec := NewWorkbookCodec(nil)
	drafts, err := codec.ParsePurchases(context.Background(), data, "compras.xlsx")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, entity.PurchaseDraft{
		OrderID:      "113-1234567-1234567",
		PurchaseDate: "01/03/2025",
		Product:      "Monitor LG",
		Price:        "189.99",
		ReturnBy:     "31/03/2025",
	}, drafts[0])
	assert.Equal(t, "Cable HDMI", drafts[1].Product)
	assert.Empty(t, drafts[1].OrderID)
}

func TestParsePurchases_NoProductColumn(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Pedido", "Total"},
		{"113-1234567-1234567", "10"},
	})

	_, err := NewWorkbookCodec(nil).ParsePurchases(context.Background(), data, "x.xlsx")
	assert.True(t, errors.Is(err, entity.ErrNoProducts))

	_, err = NewWorkbookCodec(nil).ParsePurchases(context.Background(), []byte("not a zip"), "x.xlsx")
	assert.Error(t, err)
}

func TestExportInventory(t *testing.T) {
	rows := []entity.InventoryRow{
		{Row: 2, ID: "113-1234567-1234567", PurchaseDate: "01/03/2025", Product: "Monitor LG", PurchasePrice: "US$189.99", ReturnBy: "31/03/2025", Status: entity.StatusPending},
		{Row: 3, ID: "SIN-1a2b3c4d", PurchaseDate: "02/03/2025", Product: "Teclado", PurchasePrice: "45.50", ReturnBy: "01/04/2025",
			SaleDate: "05/03/2025", SalePrice: "60", PaymentMethod: "💰 Zelle", Status: entity.StatusSold},
	}
	summary := entity.InventorySummary{
		Pending:  1,
		Sold:     1,
		Invested: decimal.RequireFromString("189.99"),
		Revenue:  decimal.RequireFromString("60"),
		Profit:   decimal.RequireFromString("14.5"),
	}

	codec := NewWorkbookCodec(nil)
	data, err := codec.ExportInventory(context.Background(), rows, summary)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventario", "Resumen"}, f.GetSheetList())

	product, err := f.GetCellValue("Inventario", "C3")
	require.NoError(t, err)
	assert.Equal(t, "Teclado", product)

	price, err := f.GetCellValue("Inventario", "D2")
	require.NoError(t, err)
	assert.Equal(t, "189.99", price)

	status, err := f.GetCellValue("Inventario", "I3")
	require.NoError(t, err)
	assert.Equal(t, "vendido", status)

	profit, err := f.GetCellValue("Resumen", "B8")
	require.NoError(t, err)
	assert.Equal(t, "14.5", profit)

	// the exported sheet can be imported back as purchases
	drafts, err := codec.ParsePurchases(context.Background(), data, "export.xlsx")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "SIN-1a2b3c4d", drafts[1].OrderID)
	assert.Equal(t, "01/04/2025", drafts[1].ReturnBy)
	assert.Equal(t, "45.5", drafts[1].Price)
}
