package entity

import "time"

// JournalAction kind of inventory mutation
type JournalAction string

const (
	ActionPurchase JournalAction = "purchase"
	ActionImport   JournalAction = "import"
	ActionSale     JournalAction = "sale"
	ActionReturn   JournalAction = "return"
	ActionDelete   JournalAction = "delete"
	ActionReview   JournalAction = "review"
)

// JournalEntry audit record of one inventory mutation
type JournalEntry struct {
	ID        string
	UserID    int64
	Action    JournalAction
	OrderID   string
	Details   string
	Timestamp time.Time
}
