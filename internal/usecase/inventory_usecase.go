package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
	"github.com/yourusername/resale-inventory-bot/internal/domain/repository"
)

const (
	// MaxSuffixMatches candidates offered for a partial order id
	MaxSuffixMatches = 5

	placeholderPrefix = "SIN-"
)

// InventoryUseCase purchase, sale, return and delete operations on the sheet
type InventoryUseCase interface {
	// RegisterPurchases store drafts as pending rows; failures are reported per draft
	RegisterPurchases(ctx context.Context, userID int64, drafts []entity.PurchaseDraft, source entity.JournalAction) ([]entity.InventoryRow, []entity.PurchaseFailure, error)

	// Lookup rows whose id equals ref, or up to MaxSuffixMatches ids ending with it
	Lookup(ctx context.Context, ref string) ([]entity.InventoryRow, error)

	// Get the row of an exact id from a fresh read
	Get(ctx context.Context, id string) (entity.InventoryRow, error)

	// RegisterSale mark a pending row sold
	RegisterSale(ctx context.Context, userID int64, id string, price decimal.Decimal, method entity.PaymentMethod) (entity.SaleReceipt, error)

	// MarkReturned mark a pending row returned
	MarkReturned(ctx context.Context, userID int64, id string) (entity.InventoryRow, error)

	// Delete blank the row of id
	Delete(ctx context.Context, userID int64, id string) (entity.InventoryRow, error)

	// SaveReview store review text on the row of id
	SaveReview(ctx context.Context, userID int64, id, review string) error

	// All every row
	All(ctx context.Context) ([]entity.InventoryRow, error)

	// Pending rows not yet sold or returned
	Pending(ctx context.Context) ([]entity.InventoryRow, error)

	// Expiring pending rows due within days, overdue included, soonest first
	Expiring(ctx context.Context, days int) ([]entity.InventoryRow, error)

	// Summary counts and money totals
	Summary(ctx context.Context) (entity.InventorySummary, error)

	// Now current time in the inventory time zone
	Now() time.Time
}

// InventoryOptions tunables of the inventory use case
type InventoryOptions struct {
	ReturnWindowDays int
	Location         *time.Location
	Clock            func() time.Time
}

type inventoryUseCase struct {
	repo         repository.InventoryRepository
	journal      repository.JournalRepository
	returnWindow int
	loc          *time.Location
	clock        func() time.Time
	logger       *slog.Logger
}

// NewInventoryUseCase creates the inventory use case
func NewInventoryUseCase(
	repo repository.InventoryRepository,
	journal repository.JournalRepository,
	opts InventoryOptions,
	logger *slog.Logger,
) InventoryUseCase {
	if opts.ReturnWindowDays <= 0 {
		opts.ReturnWindowDays = 30
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &inventoryUseCase{
		repo:         repo,
		journal:      journal,
		returnWindow: opts.ReturnWindowDays,
		loc:          opts.Location,
		clock:        opts.Clock,
		logger:       logger.With(slog.String("component", "inventory")),
	}
}

func (u *inventoryUseCase) Now() time.Time {
	return u.clock().In(u.loc)
}

func (u *inventoryUseCase) RegisterPurchases(ctx context.Context, userID int64, drafts []entity.PurchaseDraft, source entity.JournalAction) ([]entity.InventoryRow, []entity.PurchaseFailure, error) {
	if len(drafts) == 0 {
		return nil, nil, entity.ErrNoProducts
	}
	if source == "" {
		source = entity.ActionPurchase
	}

	today := u.Now()
	var (
		rows     []entity.InventoryRow
		failures []entity.PurchaseFailure
	)
	for _, d := range drafts {
		row, err := u.draftToRow(d, today)
		if err != nil {
			failures = append(failures, entity.PurchaseFailure{Product: d.Product, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, failures, nil
	}

	if err := u.repo.Append(ctx, rows); err != nil {
		return nil, failures, fmt.Errorf("failed to save purchases: %w", err)
	}

	for _, r := range rows {
		u.record(ctx, userID, source, r.ID, fmt.Sprintf("%s | %s", r.Product, r.PurchasePrice))
	}
	u.logger.Info("purchases registered",
		slog.Int("saved", len(rows)),
		slog.Int("failed", len(failures)),
		slog.String("source", string(source)),
	)
	return rows, failures, nil
}

func (u *inventoryUseCase) draftToRow(d entity.PurchaseDraft, today time.Time) (entity.InventoryRow, error) {
	product := strings.TrimSpace(d.Product)
	if product == "" {
		return entity.InventoryRow{}, errors.New("missing product name")
	}

	id := strings.TrimSpace(d.OrderID)
	if id == "" {
		id = placeholderPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	// unreadable prices are kept as read
	priceCell := strings.TrimSpace(d.Price)
	if price, err := entity.ParseMoney(d.Price); err == nil {
		priceCell = entity.FormatMoney(price)
	} else {
		u.logger.Warn("purchase price not readable",
			slog.String("order_id", id),
			slog.String("price", d.Price),
		)
	}

	// unreadable purchase dates stay blank and the return window starts today
	dateCell := ""
	start := today
	if bought, err := entity.ParseDate(d.PurchaseDate, u.loc); err == nil {
		dateCell, start = entity.FormatDate(bought), bought
	} else {
		u.logger.Warn("purchase date not readable",
			slog.String("order_id", id),
			slog.String("date", d.PurchaseDate),
		)
	}

	returnBy, err := entity.ParseDate(d.ReturnBy, u.loc)
	if err != nil {
		returnBy = start.AddDate(0, 0, u.returnWindow)
	}

	return entity.InventoryRow{
		ID:            id,
		PurchaseDate:  dateCell,
		Product:       product,
		PurchasePrice: priceCell,
		ReturnBy:      entity.FormatDate(returnBy),
		Status:        entity.StatusPending,
	}, nil
}

func (u *inventoryUseCase) Lookup(ctx context.Context, ref string) ([]entity.InventoryRow, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, entity.ErrNotFound
	}
	rows, err := u.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var exact []entity.InventoryRow
	for _, r := range rows {
		if strings.EqualFold(r.ID, ref) {
			exact = append(exact, r)
		}
	}
	if len(exact) > 0 {
		return exact, nil
	}

	seen := make(map[string]bool)
	var matches []entity.InventoryRow
	lower := strings.ToLower(ref)
	for _, r := range rows {
		id := strings.ToLower(r.ID)
		if !strings.HasSuffix(id, lower) || seen[id] {
			continue
		}
		seen[id] = true
		matches = append(matches, r)
		if len(matches) == MaxSuffixMatches {
			break
		}
	}
	if len(matches) == 0 {
		return nil, entity.ErrNotFound
	}
	return matches, nil
}

func (u *inventoryUseCase) Get(ctx context.Context, id string) (entity.InventoryRow, error) {
	rows, err := u.repo.ReadFresh(ctx)
	if err != nil {
		return entity.InventoryRow{}, err
	}
	return findRow(rows, id)
}

// findRow picks the first open row carrying id, or the first row when all
// rows with that id are closed.
func findRow(rows []entity.InventoryRow, id string) (entity.InventoryRow, error) {
	id = strings.TrimSpace(id)
	var fallback *entity.InventoryRow
	for i := range rows {
		if !strings.EqualFold(rows[i].ID, id) {
			continue
		}
		if !rows[i].Status.Closed() {
			return rows[i], nil
		}
		if fallback == nil {
			fallback = &rows[i]
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return entity.InventoryRow{}, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
}

func (u *inventoryUseCase) openRow(ctx context.Context, id string) (entity.InventoryRow, error) {
	row, err := u.Get(ctx, id)
	if err != nil {
		return row, err
	}
	if row.Status.Closed() {
		return row, &entity.ClosedError{ID: row.ID, Status: row.Status}
	}
	return row, nil
}

func (u *inventoryUseCase) RegisterSale(ctx context.Context, userID int64, id string, price decimal.Decimal, method entity.PaymentMethod) (entity.SaleReceipt, error) {
	if price.IsNegative() {
		return entity.SaleReceipt{}, entity.ErrInvalidPrice
	}
	row, err := u.openRow(ctx, id)
	if err != nil {
		return entity.SaleReceipt{}, err
	}

	today := entity.FormatDate(u.Now())
	if err := u.repo.UpdateSale(ctx, row.Row, today, entity.FormatMoney(price), method.Label, entity.StatusSold); err != nil {
		return entity.SaleReceipt{}, fmt.Errorf("failed to register sale: %w", err)
	}

	receipt := entity.SaleReceipt{
		ID:            row.ID,
		Product:       row.Product,
		SalePrice:     price,
		PurchasePrice: row.Cost(),
		Method:        method,
	}
	u.record(ctx, userID, entity.ActionSale, row.ID,
		fmt.Sprintf("%s | %s | %s", entity.FormatMoney(price), method.Label, entity.FormatMoney(receipt.Profit())))
	return receipt, nil
}

func (u *inventoryUseCase) MarkReturned(ctx context.Context, userID int64, id string) (entity.InventoryRow, error) {
	row, err := u.openRow(ctx, id)
	if err != nil {
		return row, err
	}

	today := entity.FormatDate(u.Now())
	if err := u.repo.MarkReturned(ctx, row.Row, today); err != nil {
		return row, fmt.Errorf("failed to mark returned: %w", err)
	}

	row.SaleDate, row.SalePrice, row.PaymentMethod, row.Status = today, "0", "", entity.StatusReturned
	u.record(ctx, userID, entity.ActionReturn, row.ID, row.Product)
	return row, nil
}

func (u *inventoryUseCase) Delete(ctx context.Context, userID int64, id string) (entity.InventoryRow, error) {
	row, err := u.Get(ctx, id)
	if err != nil {
		return row, err
	}
	if err := u.repo.Clear(ctx, row.Row); err != nil {
		return row, fmt.Errorf("failed to delete row: %w", err)
	}
	u.record(ctx, userID, entity.ActionDelete, row.ID, row.Product)
	return row, nil
}

func (u *inventoryUseCase) SaveReview(ctx context.Context, userID int64, id, review string) error {
	row, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.UpdateReview(ctx, row.Row, strings.TrimSpace(review)); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	u.record(ctx, userID, entity.ActionReview, row.ID, row.Product)
	return nil
}

func (u *inventoryUseCase) All(ctx context.Context) ([]entity.InventoryRow, error) {
	return u.repo.ReadAll(ctx)
}

func (u *inventoryUseCase) Pending(ctx context.Context) ([]entity.InventoryRow, error) {
	rows, err := u.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var pending []entity.InventoryRow
	for _, r := range rows {
		if r.Status == entity.StatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (u *inventoryUseCase) Expiring(ctx context.Context, days int) ([]entity.InventoryRow, error) {
	pending, err := u.Pending(ctx)
	if err != nil {
		return nil, err
	}

	now := u.Now()
	type due struct {
		row  entity.InventoryRow
		left int
	}
	var list []due
	for _, r := range pending {
		left, ok := r.DaysLeft(now)
		if !ok || left > days {
			continue
		}
		list = append(list, due{row: r, left: left})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].left < list[j].left })

	out := make([]entity.InventoryRow, 0, len(list))
	for _, d := range list {
		out = append(out, d.row)
	}
	return out, nil
}

func (u *inventoryUseCase) Summary(ctx context.Context) (entity.InventorySummary, error) {
	rows, err := u.repo.ReadAll(ctx)
	if err != nil {
		return entity.InventorySummary{}, err
	}

	now := u.Now()
	s := entity.InventorySummary{
		Invested: decimal.Zero,
		Revenue:  decimal.Zero,
		Profit:   decimal.Zero,
	}
	for _, r := range rows {
		switch r.Status {
		case entity.StatusSold:
			s.Sold++
			s.Revenue = s.Revenue.Add(r.Revenue())
			s.Profit = s.Profit.Add(r.Revenue().Sub(r.Cost()))
		case entity.StatusReturned:
			s.Returned++
		default:
			s.Pending++
			s.Invested = s.Invested.Add(r.Cost())
			if left, ok := r.DaysLeft(now); ok && left < 0 {
				s.Overdue++
			}
		}
	}
	return s, nil
}

// record writes a journal entry; a journal failure never fails the operation
func (u *inventoryUseCase) record(ctx context.Context, userID int64, action entity.JournalAction, orderID, details string) {
	if u.journal == nil {
		return
	}
	err := u.journal.Record(ctx, entity.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		OrderID:   orderID,
		Details:   details,
		Timestamp: u.clock(),
	})
	if err != nil {
		u.logger.Warn("journal write failed", slog.String("action", string(action)), slog.Any("error", err))
	}
}
