package telegram

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

type saleStage int

const (
	saleStageNeedID saleStage = iota
	saleStageNeedConfirm
	saleStageNeedPrice
	saleStageNeedMethod
)

// saleSession form state of one sale in progress
type saleSession struct {
	Stage     saleStage
	ID        string
	Product   string
	Cost      decimal.Decimal
	Price     decimal.Decimal
	HasPrice  bool
	Method    entity.PaymentMethod
	HasMethod bool
	StartedAt time.Time
}

// reviewDraft generated review waiting for save/retry/drop
type reviewDraft struct {
	ID      string
	Product string
	Notes   string
	Text    string
}

func (h *BotHandler) getSale(userID int64) (saleSession, bool) {
	h.saleMu.RLock()
	defer h.saleMu.RUnlock()
	s, ok := h.saleSessions[userID]
	return s, ok
}

func (h *BotHandler) setSale(userID int64, s saleSession) {
	h.saleMu.Lock()
	defer h.saleMu.Unlock()
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	h.saleSessions[userID] = s
}

func (h *BotHandler) clearSale(userID int64) {
	h.saleMu.Lock()
	defer h.saleMu.Unlock()
	delete(h.saleSessions, userID)
}

func (h *BotHandler) setAwaitingPhoto(userID int64, awaiting bool) {
	h.photoMu.Lock()
	defer h.photoMu.Unlock()
	if awaiting {
		h.awaitingPhoto[userID] = true
		return
	}
	delete(h.awaitingPhoto, userID)
}

func (h *BotHandler) isAwaitingPhoto(userID int64) bool {
	h.photoMu.RLock()
	defer h.photoMu.RUnlock()
	return h.awaitingPhoto[userID]
}

func (h *BotHandler) saveReviewDraft(userID int64, d reviewDraft) {
	h.reviewMu.Lock()
	defer h.reviewMu.Unlock()
	h.reviewDrafts[userID] = d
}

func (h *BotHandler) getReviewDraft(userID int64) (reviewDraft, bool) {
	h.reviewMu.RLock()
	defer h.reviewMu.RUnlock()
	d, ok := h.reviewDrafts[userID]
	return d, ok
}

func (h *BotHandler) popReviewDraft(userID int64) (reviewDraft, bool) {
	h.reviewMu.Lock()
	defer h.reviewMu.Unlock()
	d, ok := h.reviewDrafts[userID]
	if ok {
		delete(h.reviewDrafts, userID)
	}
	return d, ok
}

// resetUser drops every pending form of userID
func (h *BotHandler) resetUser(userID int64) {
	h.clearSale(userID)
	h.setAwaitingPhoto(userID, false)
	h.popReviewDraft(userID)
}
