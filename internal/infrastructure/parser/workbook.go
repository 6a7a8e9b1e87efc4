// Package parser reads and writes inventory workbooks (.xlsx).
package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const (
	inventorySheet = "Inventario"
	summarySheet   = "Resumen"
)

var inventoryHeader = []interface{}{
	"ID", "Fecha compra", "Producto", "Precio compra", "Fecha devolución",
	"Fecha venta", "Precio venta", "Método de pago", "Estado", "Reseña",
}

// WorkbookCodec implements repository.WorkbookCodec with excelize
type WorkbookCodec struct {
	logger *slog.Logger
}

// NewWorkbookCodec creates the codec
func NewWorkbookCodec(logger *slog.Logger) *WorkbookCodec {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookCodec{logger: logger.With(slog.String("component", "workbook"))}
}

// ExportInventory writes an "Inventario" sheet with every row and a
// "Resumen" sheet with the totals.
func (w *WorkbookCodec) ExportInventory(ctx context.Context, rows []entity.InventoryRow, summary entity.InventorySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), inventorySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	header := inventoryHeader
	if err := f.SetSheetRow(inventorySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(inventorySheet, "A1", "J1", bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		values := []interface{}{
			r.ID,
			r.PurchaseDate,
			r.Product,
			moneyCell(r.PurchasePrice),
			r.ReturnBy,
			r.SaleDate,
			moneyCell(r.SalePrice),
			r.PaymentMethod,
			string(r.Status),
			r.Review,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(inventorySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(inventorySheet, "A", "A", 22)
	_ = f.SetColWidth(inventorySheet, "C", "C", 40)
	_ = f.SetColWidth(inventorySheet, "H", "H", 16)
	_ = f.SetColWidth(inventorySheet, "J", "J", 60)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Concepto", "Valor"},
		{"Pendientes", summary.Pending},
		{"Vendidos", summary.Sold},
		{"Devueltos", summary.Returned},
		{"Vencidos", summary.Overdue},
		{"Invertido", summary.Invested.InexactFloat64()},
		{"Ingresos", summary.Revenue.InexactFloat64()},
		{"Ganancia", summary.Profit.InexactFloat64()},
	}
	for i, values := range summaryRows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &values); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}
	_ = f.SetCellStyle(summarySheet, "A1", "B1", bold)
	_ = f.SetColWidth(summarySheet, "A", "A", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	w.logger.Debug("workbook exported", slog.Int("rows", len(rows)))
	return buf.Bytes(), nil
}

// moneyCell numeric when the price parses, raw text otherwise
func moneyCell(raw string) interface{} {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	v, err := entity.ParseMoney(raw)
	if err != nil {
		return raw
	}
	return v.InexactFloat64()
}

// ParsePurchases reads the first sheet, mapping the header by keyword.
// Rows without a product are skipped.
func (w *WorkbookCodec) ParsePurchases(ctx context.Context, data []byte, filename string) ([]entity.PurchaseDraft, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, entity.ErrNoProducts
	}

	columns := mapColumns(rows[0])
	productCol, ok := columns[fieldProduct]
	if !ok {
		return nil, fmt.Errorf("%w: no product column in %s", entity.ErrNoProducts, filename)
	}
	w.logger.Debug("workbook columns mapped", slog.String("file", filename), slog.Any("columns", columns))

	var drafts []entity.PurchaseDraft
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		product := cellAt(row, productCol)
		if product == "" {
			continue
		}
		drafts = append(drafts, entity.PurchaseDraft{
			OrderID:      cellAt(row, columnOr(columns, fieldID)),
			PurchaseDate: cellAt(row, columnOr(columns, fieldDate)),
			Product:      product,
			Price:        cellAt(row, columnOr(columns, fieldPrice)),
			ReturnBy:     cellAt(row, columnOr(columns, fieldReturn)),
		})
	}
	return drafts, nil
}

const (
	fieldID      = "id"
	fieldDate    = "date"
	fieldProduct = "product"
	fieldPrice   = "price"
	fieldReturn  = "return"
)

// mapColumns assigns each field to the first header cell naming it. Columns
// about the sale side are ignored.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	set := func(field string, i int) {
		if _, ok := columnMap[field]; !ok {
			columnMap[field] = i
		}
	}

	for i, col := range header {
		colName := strings.ToLower(strings.TrimSpace(col))
		switch {
		case colName == "":
		case contains(colName, "venta", "sale", "sold", "estado", "status", "método", "metodo", "rese", "review"):
		case contains(colName, "devolu", "return", "vence"):
			set(fieldReturn, i)
		case contains(colName, "fecha", "date"):
			set(fieldDate, i)
		case contains(colName, "producto", "product", "artículo", "articulo", "nombre", "item", "descrip"):
			set(fieldProduct, i)
		case contains(colName, "precio", "total", "price", "costo", "cost", "importe", "$"):
			set(fieldPrice, i)
		case colName == "id" || contains(colName, "pedido", "order", "orden"):
			set(fieldID, i)
		}
	}
	return columnMap
}

func columnOr(columns map[string]int, field string) int {
	if idx, ok := columns[field]; ok {
		return idx
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
