package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound no row carries the requested order id
	ErrNotFound = errors.New("order not found")
	// ErrAlreadyClosed the row is already sold or returned
	ErrAlreadyClosed = errors.New("order already closed")
	// ErrInvalidPrice the text is not a usable price
	ErrInvalidPrice = errors.New("invalid price")
	// ErrNoProducts the screenshot or workbook contained no purchases
	ErrNoProducts = errors.New("no products found")
)

// ClosedError a sale or return was attempted on a closed row
type ClosedError struct {
	ID     string
	Status Status
}

func (e *ClosedError) Error() string {
	return "order " + e.ID + " already " + string(e.Status)
}

// Is lets errors.Is match ErrAlreadyClosed
func (e *ClosedError) Is(target error) bool {
	return target == ErrAlreadyClosed
}

// Status lifecycle state of an inventory row
type Status string

const (
	StatusPending  Status = "pendiente"
	StatusSold     Status = "vendido"
	StatusReturned Status = "devuelto"
)

// ParseStatus blank or unknown cells count as pending
func ParseStatus(raw string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusSold:
		return StatusSold
	case StatusReturned:
		return StatusReturned
	default:
		return StatusPending
	}
}

// Closed sold and returned rows accept no further sale/return
func (s Status) Closed() bool {
	return s == StatusSold || s == StatusReturned
}

// InventoryRow one purchased item tracked through its resale lifecycle
type InventoryRow struct {
	Row           int // sheet row number, 1 is the header
	ID            string
	PurchaseDate  string
	Product       string
	PurchasePrice string // raw cell, may carry "US$" or thousands separators
	ReturnBy      string
	SaleDate      string
	SalePrice     string
	PaymentMethod string
	Status        Status
	Review        string
}

// Cost purchase price as money, zero when the cell is unreadable
func (r InventoryRow) Cost() decimal.Decimal {
	v, err := ParseMoney(r.PurchasePrice)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// HasCost reports whether the purchase price cell holds a readable amount
func (r InventoryRow) HasCost() bool {
	_, err := ParseMoney(r.PurchasePrice)
	return err == nil
}

// Revenue sale price as money, zero when the cell is unreadable
func (r InventoryRow) Revenue() decimal.Decimal {
	v, err := ParseMoney(r.SalePrice)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// DaysLeft calendar days until the return deadline; ok is false when the date is missing
func (r InventoryRow) DaysLeft(now time.Time) (int, bool) {
	d, err := ParseDate(r.ReturnBy, now.Location())
	if err != nil {
		return 0, false
	}
	return DaysUntil(d, now), true
}

// PurchaseDraft purchase data extracted from a screenshot or workbook row
type PurchaseDraft struct {
	OrderID      string `json:"id_pedido"`
	PurchaseDate string `json:"fecha_compra"`
	Product      string `json:"producto"`
	Price        string `json:"precio_compra"`
	ReturnBy     string `json:"fecha_devolucion"`
}

// PurchaseFailure a draft that could not be stored
type PurchaseFailure struct {
	Product string
	Err     error
}

// SaleReceipt outcome of a registered sale
type SaleReceipt struct {
	ID            string
	Product       string
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	Method        PaymentMethod
}

// Profit sale minus purchase
func (r SaleReceipt) Profit() decimal.Decimal {
	return r.SalePrice.Sub(r.PurchasePrice)
}

// InventorySummary aggregate view of the sheet
type InventorySummary struct {
	Pending  int
	Sold     int
	Returned int
	Invested decimal.Decimal // cost of pending rows
	Revenue  decimal.Decimal // sale prices of sold rows
	Profit   decimal.Decimal // revenue minus cost of sold rows
	Overdue  int             // pending rows past the return deadline
}

// Total number of rows
func (s InventorySummary) Total() int {
	return s.Pending + s.Sold + s.Returned
}
