package sheets

import (
	"fmt"
	"strings"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const (
	columnCount = 10
	fullRange   = "A:J"
)

// Column letters of the inventory sheet.
const (
	colID           = 0 // A
	colPurchaseDate = 1 // B
	colProduct      = 2 // C
	colPrice        = 3 // D
	colReturnBy     = 4 // E
	colSaleDate     = 5 // F
	colSalePrice    = 6 // G
	colMethod       = 7 // H
	colStatus       = 8 // I
	colReview       = 9 // J
)

// rowToEntity maps the values at position index of an A:J read. Position 0
// is the header; blank rows are skipped.
func rowToEntity(index int, values []interface{}) (entity.InventoryRow, bool) {
	if index == 0 {
		return entity.InventoryRow{}, false
	}
	cells := make([]string, columnCount)
	blank := true
	for i := 0; i < columnCount && i < len(values); i++ {
		if values[i] == nil {
			continue
		}
		cells[i] = strings.TrimSpace(fmt.Sprint(values[i]))
		if cells[i] != "" {
			blank = false
		}
	}
	if blank || cells[colID] == "" {
		return entity.InventoryRow{}, false
	}

	return entity.InventoryRow{
		Row:           index + 1,
		ID:            cells[colID],
		PurchaseDate:  cells[colPurchaseDate],
		Product:       cells[colProduct],
		PurchasePrice: cells[colPrice],
		ReturnBy:      cells[colReturnBy],
		SaleDate:      cells[colSaleDate],
		SalePrice:     cells[colSalePrice],
		PaymentMethod: cells[colMethod],
		Status:        entity.ParseStatus(cells[colStatus]),
		Review:        cells[colReview],
	}, true
}

func entityToValues(r entity.InventoryRow) []interface{} {
	status := r.Status
	if status == "" {
		status = entity.StatusPending
	}
	return []interface{}{
		r.ID,
		r.PurchaseDate,
		r.Product,
		r.PurchasePrice,
		r.ReturnBy,
		r.SaleDate,
		r.SalePrice,
		r.PaymentMethod,
		string(status),
		r.Review,
	}
}

// a1 qualifies a range with the sheet name when one is configured.
func a1(sheetName, cells string) string {
	if sheetName == "" {
		return cells
	}
	return "'" + strings.ReplaceAll(sheetName, "'", "''") + "'!" + cells
}
