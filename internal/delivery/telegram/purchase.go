package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// maxFileSize upload limit for screenshots and workbooks
const maxFileSize = 5 * 1024 * 1024

func (h *BotHandler) startPurchase(chatID, userID int64) {
	h.resetUser(userID)
	h.setAwaitingPhoto(userID, true)
	h.sendMessage(chatID, "📸 REGISTRAR COMPRA\n\nEnvía la captura de pantalla del pedido.\n\nPara cancelar: /cancelar")
}

// handlePhoto any photo is a purchase screenshot
func (h *BotHandler) handlePhoto(ctx context.Context, message *tgbotapi.Message) {
	// Telegram sends several sizes, the last one is the largest
	photo := message.Photo[len(message.Photo)-1]
	h.ingestScreenshot(ctx, message, photo.FileID, photo.FileSize, "image/jpeg")
}

func (h *BotHandler) ingestScreenshot(ctx context.Context, message *tgbotapi.Message, fileID string, size int, mimeType string) {
	chatID := message.Chat.ID
	userID := message.From.ID
	h.resetUser(userID)

	if size > maxFileSize {
		h.sendMessage(chatID, "❌ La imagen no puede superar 5 MB")
		return
	}

	status, err := h.send(chatID, "⏳ Analizando...", nil)
	if err != nil {
		h.logger.Warn("failed to send progress message", slog.Any("error", err))
	}
	h.typing(chatID)

	data, err := h.downloadFile(ctx, fileID)
	if err != nil {
		h.logger.Error("screenshot download failed", slog.Any("error", err))
		h.editMessage(chatID, status.MessageID, "❌ No pude descargar la imagen.")
		return
	}

	saved, failures, err := h.assistant.IngestScreenshot(ctx, userID, data, mimeType)
	switch {
	case errors.Is(err, entity.ErrNoProducts):
		h.editMessage(chatID, status.MessageID, "⚠️ No encontré productos en la imagen.")
		return
	case err != nil:
		h.logger.Error("screenshot ingestion failed", slog.Any("error", err))
		h.editMessage(chatID, status.MessageID, userError(err))
		return
	}

	h.editMessage(chatID, status.MessageID, formatPurchaseResult(saved, failures, h.inventory.Now()))
	if len(saved) > 0 {
		h.sendWithMarkup(chatID, "¿Siguiente acción?", actionButtons())
	}
}

// handleDocument uncompressed images and .xlsx bulk imports
func (h *BotHandler) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	doc := message.Document
	chatID := message.Chat.ID

	if strings.HasPrefix(doc.MimeType, "image/") {
		h.ingestScreenshot(ctx, message, doc.FileID, doc.FileSize, doc.MimeType)
		return
	}

	if doc.FileSize > maxFileSize {
		h.sendMessage(chatID, "❌ El archivo no puede superar 5 MB")
		return
	}
	if !strings.EqualFold(filepath.Ext(doc.FileName), ".xlsx") {
		h.sendMessage(chatID, "❌ Solo acepto capturas de pantalla o archivos Excel (.xlsx)")
		return
	}

	h.resetUser(message.From.ID)
	status, err := h.send(chatID, "⏳ Importando "+doc.FileName+"...", nil)
	if err != nil {
		h.logger.Warn("failed to send progress message", slog.Any("error", err))
	}

	data, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		h.logger.Error("workbook download failed", slog.Any("error", err))
		h.editMessage(chatID, status.MessageID, "❌ No pude descargar el archivo.")
		return
	}

	saved, failures, err := h.reports.Import(ctx, message.From.ID, data, doc.FileName)
	if err != nil {
		h.logger.Error("workbook import failed", slog.String("file", doc.FileName), slog.Any("error", err))
		h.editMessage(chatID, status.MessageID, userError(err))
		return
	}
	h.editMessage(chatID, status.MessageID, formatPurchaseResult(saved, failures, h.inventory.Now()))
}

// downloadFile fetches a Telegram file, refusing anything over maxFileSize
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", maxFileSize)
	}
	return data, nil
}
