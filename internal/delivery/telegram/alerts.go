package telegram

import (
	"context"
	"fmt"
	"log/slog"
)

// SendExpiringAlert messages the owner the pending orders whose return
// deadline falls within the alert window. Nothing is sent when none do.
func (h *BotHandler) SendExpiringAlert(ctx context.Context) error {
	rows, err := h.inventory.Expiring(ctx, h.alertDays)
	if err != nil {
		return fmt.Errorf("failed to list expiring orders: %w", err)
	}
	if len(rows) == 0 {
		h.logger.Debug("no expiring orders")
		return nil
	}

	header := fmt.Sprintf("🔔 ALERTA %s - Productos por vencer:", h.alertTime)
	if _, err := h.send(h.ownerID, formatExpiring(rows, h.inventory.Now(), header), nil); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	h.logger.Info("expiring alert sent", slog.Int("orders", len(rows)))
	return nil
}
