package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/resale-inventory-bot/internal/intent"
	"github.com/yourusername/resale-inventory-bot/internal/usecase"
)

// Options handler settings
type Options struct {
	OwnerID    int64
	AlertDays  int
	AlertTime  string // shown in the alert header, "HH:MM"
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot        BotAPI
	ownerID    int64
	alertDays  int
	alertTime  string
	inventory  usecase.InventoryUseCase
	assistant  usecase.AssistantUseCase
	reports    usecase.ReportUseCase
	httpClient *http.Client
	logger     *slog.Logger

	saleMu        sync.RWMutex
	saleSessions  map[int64]saleSession
	photoMu       sync.RWMutex
	awaitingPhoto map[int64]bool
	reviewMu      sync.RWMutex
	reviewDrafts  map[int64]reviewDraft

	wg sync.WaitGroup
}

// NewBotHandler creates the handler; bot is usually a *tgbotapi.BotAPI
func NewBotHandler(
	bot BotAPI,
	inventory usecase.InventoryUseCase,
	assistant usecase.AssistantUseCase,
	reports usecase.ReportUseCase,
	opts Options,
) *BotHandler {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AlertDays < 0 {
		opts.AlertDays = 5
	}
	if opts.AlertTime == "" {
		opts.AlertTime = "20:00"
	}

	return &BotHandler{
		bot:           bot,
		ownerID:       opts.OwnerID,
		alertDays:     opts.AlertDays,
		alertTime:     opts.AlertTime,
		inventory:     inventory,
		assistant:     assistant,
		reports:       reports,
		httpClient:    opts.HTTPClient,
		logger:        opts.Logger.With(slog.String("component", "telegram")),
		saleSessions:  make(map[int64]saleSession),
		awaitingPhoto: make(map[int64]bool),
		reviewDrafts:  make(map[int64]reviewDraft),
	}
}

// Start long-polls updates until ctx is done; each update runs in its own goroutine
func (h *BotHandler) Start(ctx context.Context) error {
	h.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)
	h.logger.Info("bot started", slog.Int64("owner_id", h.ownerID))

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("bot stopping")
			h.bot.StopReceivingUpdates()
			h.wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.wg.Wait()
				return nil
			}
			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				h.handleUpdate(ctx, update)
			}()
		}
	}
}

func (h *BotHandler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while handling update",
				slog.Int("update_id", update.UpdateID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

func (h *BotHandler) authorized(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	if user.ID != h.ownerID {
		h.logger.Warn("update from unknown user ignored", slog.Int64("user_id", user.ID))
		return false
	}
	return true
}

// handleMessage routes a chat message
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if !h.authorized(message.From) || message.Chat == nil {
		return
	}
	userID := message.From.ID
	chatID := message.Chat.ID

	if len(message.Photo) > 0 {
		h.handlePhoto(ctx, message)
		return
	}
	if message.Document != nil {
		h.handleDocument(ctx, message)
		return
	}
	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}
	if message.Text == "" {
		return
	}

	switch message.Text {
	case btnPurchase:
		h.startPurchase(chatID, userID)
		return
	case btnSale:
		h.startSale(chatID, userID)
		return
	case btnList:
		h.sendPendingList(ctx, chatID)
		return
	case btnHelp:
		h.sendMessage(chatID, helpText)
		return
	}

	in := intent.Resolve(message.Text)
	if in.Action == intent.ActionCancel {
		h.cancel(chatID, userID)
		return
	}

	if message.ReplyToMessage != nil && h.handleQuickReply(ctx, message, in) {
		return
	}
	if h.isAwaitingPhoto(userID) {
		h.sendMessage(chatID, "❌ Envía una imagen, no texto\n\nPara cancelar: /cancelar")
		return
	}
	if s, ok := h.getSale(userID); ok {
		h.handleSaleInput(ctx, chatID, userID, s, message.Text)
		return
	}

	h.handleIntent(ctx, chatID, userID, message.Text, in)
}

func (h *BotHandler) cancel(chatID, userID int64) {
	h.resetUser(userID)
	h.sendWithMarkup(chatID, "❌ Cancelado", actionButtons())
}

// sendMessage plain text message
func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.sendWithMarkup(chatID, text, nil)
}

func (h *BotHandler) sendWithMarkup(chatID int64, text string, markup interface{}) {
	if _, err := h.send(chatID, text, markup); err != nil {
		h.logger.Error("failed to send message", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

func (h *BotHandler) send(chatID int64, text string, markup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return h.bot.Send(msg)
}

// editMessage replaces the text of a sent message, falling back to a new message
func (h *BotHandler) editMessage(chatID int64, messageID int, text string) {
	if messageID == 0 {
		h.sendMessage(chatID, text)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.bot.Send(edit); err != nil {
		h.logger.Warn("failed to edit message", slog.Int("message_id", messageID), slog.Any("error", err))
		h.sendMessage(chatID, text)
	}
}

func (h *BotHandler) typing(chatID int64) {
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.logger.Debug("chat action failed", slog.Any("error", err))
	}
}
