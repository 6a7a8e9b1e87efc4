package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
	"github.com/yourusername/resale-inventory-bot/internal/infrastructure/parser"
	"github.com/yourusername/resale-inventory-bot/internal/infrastructure/storage"
	"github.com/yourusername/resale-inventory-bot/internal/usecase"
)

const testOwner int64 = 777

var testNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

// fakeBot records everything the handler sends.
type fakeBot struct {
	mu          sync.Mutex
	sent        []tgbotapi.Chattable
	requests    []tgbotapi.Chattable
	nextID      int
	fileURL     string
	updates     chan tgbotapi.Update
	stopped     bool
	panicOnSend bool
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbotapi.Update, 4)}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.panicOnSend {
		panic("send exploded")
	}
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	return b.fileURL + "/" + fileID, nil
}

func (b *fakeBot) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

// texts of sent messages and edits, in order
func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		case tgbotapi.DocumentConfig:
			out = append(out, m.Caption)
		}
	}
	return out
}

func (b *fakeBot) lastText() string {
	t := b.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (b *fakeBot) said(substr string) bool {
	for _, t := range b.texts() {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}

// lastKeyboard inline keyboard of the newest message carrying one
func (b *fakeBot) lastKeyboard() (tgbotapi.InlineKeyboardMarkup, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.sent) - 1; i >= 0; i-- {
		if m, ok := b.sent[i].(tgbotapi.MessageConfig); ok {
			if kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
				return kb, true
			}
		}
	}
	return tgbotapi.InlineKeyboardMarkup{}, false
}

func (b *fakeBot) sentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

// fakeRepo in-memory sheet; row numbers start at 2 like the real one
type fakeRepo struct {
	mu   sync.Mutex
	rows []entity.InventoryRow
}

func newFakeRepo(rows ...entity.InventoryRow) *fakeRepo {
	repo := &fakeRepo{}
	for i, r := range rows {
		r.Row = i + 2
		if r.Status == "" {
			r.Status = entity.StatusPending
		}
		repo.rows = append(repo.rows, r)
	}
	return repo
}

func (f *fakeRepo) ReadAll(ctx context.Context) ([]entity.InventoryRow, error) {
	return f.ReadFresh(ctx)
}

func (f *fakeRepo) ReadFresh(ctx context.Context) ([]entity.InventoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.InventoryRow, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRepo) Append(ctx context.Context, rows []entity.InventoryRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func (f *fakeRepo) update(row int, fn func(r *entity.InventoryRow)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].Row == row {
			fn(&f.rows[i])
		}
	}
}

func (f *fakeRepo) UpdateSale(ctx context.Context, row int, saleDate, salePrice, method string, status entity.Status) error {
	f.update(row, func(r *entity.InventoryRow) {
		r.SaleDate, r.SalePrice, r.PaymentMethod, r.Status = saleDate, salePrice, method, status
	})
	return nil
}

func (f *fakeRepo) MarkReturned(ctx context.Context, row int, returnDate string) error {
	return f.UpdateSale(ctx, row, returnDate, "0", "", entity.StatusReturned)
}

func (f *fakeRepo) UpdateReview(ctx context.Context, row int, review string) error {
	f.update(row, func(r *entity.InventoryRow) { r.Review = review })
	return nil
}

func (f *fakeRepo) Clear(ctx context.Context, row int) error {
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

func (f *fakeRepo) byID(id string) (entity.InventoryRow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, true
		}
	}
	return entity.InventoryRow{}, false
}

type fakeAI struct {
	drafts    []entity.PurchaseDraft
	review    string
	calls     int
	lastNotes string
}

func (f *fakeAI) ExtractPurchases(ctx context.Context, image []byte, mimeType string) ([]entity.PurchaseDraft, error) {
	if len(image) == 0 {
		return nil, entity.ErrNoProducts
	}
	return f.drafts, nil
}

func (f *fakeAI) GenerateReview(ctx context.Context, row entity.InventoryRow, notes string) (string, error) {
	f.calls++
	f.lastNotes = notes
	return f.review, nil
}

func fixtureRows() []entity.InventoryRow {
	return []entity.InventoryRow{
		{ID: "113-1111111-1113162", PurchaseDate: "01/03/2025", Product: "Auriculares Sony", PurchasePrice: "60.00", ReturnBy: "12/03/2025"},
		{ID: "114-2222222-2223162", PurchaseDate: "02/03/2025", Product: "Cafetera", PurchasePrice: "40.00", ReturnBy: "20/03/2025"},
		{ID: "111-3333333-3334444", PurchaseDate: "05/02/2025", Product: "Lámpara LED", PurchasePrice: "25.00", ReturnBy: "08/03/2025"},
		{ID: "112-5555555-5559999", PurchaseDate: "01/02/2025", Product: "Teclado", PurchasePrice: "30.00", ReturnBy: "03/03/2025",
			SaleDate: "04/03/2025", SalePrice: "45.00", PaymentMethod: "💳 PayPal", Status: entity.StatusSold},
	}
}

type testEnv struct {
	handler *BotHandler
	bot     *fakeBot
	repo    *fakeRepo
	ai      *fakeAI
}

func newTestEnv(rows ...entity.InventoryRow) *testEnv {
	bot := newFakeBot()
	repo := newFakeRepo(rows...)
	ai := &fakeAI{}
	journal := storage.NewMemoryJournal(100)

	inventory := usecase.NewInventoryUseCase(repo, journal, usecase.InventoryOptions{
		ReturnWindowDays: 30,
		Location:         time.UTC,
		Clock:            func() time.Time { return testNow },
	}, nil)
	assistant := usecase.NewAssistantUseCase(ai, inventory, nil)
	reports := usecase.NewReportUseCase(inventory, parser.NewWorkbookCodec(nil), journal)

	h := NewBotHandler(bot, inventory, assistant, reports, Options{
		OwnerID:   testOwner,
		AlertDays: 5,
		AlertTime: "20:00",
	})
	return &testEnv{handler: h, bot: bot, repo: repo, ai: ai}
}

func (e *testEnv) say(text string) {
	e.handler.handleMessage(context.Background(), textMessage(text))
}

func (e *testEnv) command(cmd, args string) {
	e.handler.handleMessage(context.Background(), commandMessage(cmd, args))
}

func (e *testEnv) press(data string) {
	e.handler.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: testOwner},
		Message: &tgbotapi.Message{MessageID: 99, Chat: &tgbotapi.Chat{ID: testOwner}},
		Data:    data,
	})
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testOwner, FirstName: "Ana"},
		Chat:      &tgbotapi.Chat{ID: testOwner},
		Text:      text,
	}
}

func commandMessage(cmd, args string) *tgbotapi.Message {
	text := "/" + cmd
	if args != "" {
		text += " " + args
	}
	msg := textMessage(text)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}}
	return msg
}
