package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

var testNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fakeInventoryRepo keeps rows in memory with sheet-like row numbers.
type fakeInventoryRepo struct {
	mu          sync.Mutex
	rows        []entity.InventoryRow
	cachedReads int
	freshReads  int
	appendErr   error
}

func newFakeRepo(rows ...entity.InventoryRow) *fakeInventoryRepo {
	repo := &fakeInventoryRepo{}
	for i, r := range rows {
		if r.Row == 0 {
			r.Row = i + 2
		}
		if r.Status == "" {
			r.Status = entity.StatusPending
		}
		repo.rows = append(repo.rows, r)
	}
	return repo
}

func (f *fakeInventoryRepo) snapshot() []entity.InventoryRow {
	out := make([]entity.InventoryRow, len(f.rows))
	copy(out, f.rows)
	return out
}

func (f *fakeInventoryRepo) ReadAll(ctx context.Context) ([]entity.InventoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cachedReads++
	return f.snapshot(), nil
}

func (f *fakeInventoryRepo) ReadFresh(ctx context.Context) ([]entity.InventoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freshReads++
	return f.snapshot(), nil
}

func (f *fakeInventoryRepo) Append(ctx context.Context, rows []entity.InventoryRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	next := 2
	for _, r := range f.rows {
		if r.Row >= next {
			next = r.Row + 1
		}
	}
	for _, r := range rows {
		r.Row = next
		next++
		f.rows = append(f.rows, r)
	}
	return nil
}

func (f *fakeInventoryRepo) find(row int) *entity.InventoryRow {
	for i := range f.rows {
		if f.rows[i].Row == row {
			return &f.rows[i]
		}
	}
	return nil
}

func (f *fakeInventoryRepo) UpdateSale(ctx context.Context, row int, saleDate, salePrice, method string, status entity.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r := f.find(row); r != nil {
		r.SaleDate, r.SalePrice, r.PaymentMethod, r.Status = saleDate, salePrice, method, status
	}
	return nil
}

func (f *fakeInventoryRepo) MarkReturned(ctx context.Context, row int, returnDate string) error {
	return f.UpdateSale(ctx, row, returnDate, "0", "", entity.StatusReturned)
}

func (f *fakeInventoryRepo) UpdateReview(ctx context.Context, row int, review string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r := f.find(row); r != nil {
		r.Review = review
	}
	return nil
}

func (f *fakeInventoryRepo) Clear(ctx context.Context, row int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.Row != row {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []entity.JournalEntry
}

func (f *fakeJournal) Record(ctx context.Context, entry entity.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournal) Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.JournalEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeJournal) actions() []entity.JournalAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.JournalAction
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeAI struct {
	drafts     []entity.PurchaseDraft
	extractErr error
	review     string
	notes      string
}

func (f *fakeAI) ExtractPurchases(ctx context.Context, image []byte, mimeType string) ([]entity.PurchaseDraft, error) {
	return f.drafts, f.extractErr
}

func (f *fakeAI) GenerateReview(ctx context.Context, row entity.InventoryRow, notes string) (string, error) {
	f.notes = notes
	return f.review, nil
}

type fakeCodec struct {
	drafts   []entity.PurchaseDraft
	exported []entity.InventoryRow
	summary  entity.InventorySummary
}

func (f *fakeCodec) ExportInventory(ctx context.Context, rows []entity.InventoryRow, summary entity.InventorySummary) ([]byte, error) {
	f.exported, f.summary = rows, summary
	return []byte("xlsx"), nil
}

func (f *fakeCodec) ParsePurchases(ctx context.Context, data []byte, filename string) ([]entity.PurchaseDraft, error) {
	return f.drafts, nil
}

func newTestInventory(repo *fakeInventoryRepo, journal *fakeJournal) InventoryUseCase {
	return NewInventoryUseCase(repo, journal, InventoryOptions{
		ReturnWindowDays: 30,
		Location:         time.UTC,
		Clock:            fixedClock,
	}, nil)
}
