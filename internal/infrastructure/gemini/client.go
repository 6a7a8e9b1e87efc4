// Package gemini reads purchase screenshots and drafts product reviews with
// the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const (
	maxConcurrent   = 3
	minRequestDelay = 350 * time.Millisecond
)

// Client implements repository.AIRepository
type Client struct {
	client    *genai.Client
	extractor *genai.GenerativeModel
	writer    *genai.GenerativeModel
	sem       chan struct{}
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewClient creates the Gemini client with one model tuned for JSON extraction
// and one for free-form writing.
func NewClient(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	extractor := client.GenerativeModel(modelName)
	extractor.SetTemperature(0.1)
	extractor.SetMaxOutputTokens(2048)
	extractor.ResponseMIMEType = "application/json"

	writer := client.GenerativeModel(modelName)
	writer.SetTemperature(0.8)
	writer.SetTopK(40)
	writer.SetTopP(0.95)
	writer.SetMaxOutputTokens(1024)
	writer.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(reviewSystemInstruction)},
	}

	return &Client{
		client:    client,
		extractor: extractor,
		writer:    writer,
		sem:       make(chan struct{}, maxConcurrent),
		limiter:   rate.NewLimiter(rate.Every(minRequestDelay), 1),
		logger:    logger.With(slog.String("component", "gemini")),
	}, nil
}

// ExtractPurchases sends the screenshot with the extraction prompt and parses
// the JSON answer.
func (g *Client) ExtractPurchases(ctx context.Context, image []byte, mimeType string) ([]entity.PurchaseDraft, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	release, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	resp, err := g.extractor.GenerateContent(ctx,
		genai.Text(extractionPrompt),
		genai.Blob{MIMEType: mimeType, Data: image},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to extract purchases: %w", err)
	}

	text := extractText(resp)
	g.logger.Debug("extraction done",
		slog.Duration("took", time.Since(started)),
		slog.Int("chars", len(text)),
	)

	drafts, err := parseExtraction(text)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, entity.ErrNoProducts
	}
	return drafts, nil
}

// GenerateReview drafts a Spanish review for the product of row.
func (g *Client) GenerateReview(ctx context.Context, row entity.InventoryRow, notes string) (string, error) {
	release, err := g.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	resp, err := g.writer.GenerateContent(ctx, genai.Text(buildReviewPrompt(row, notes)))
	if err != nil {
		return "", fmt.Errorf("failed to generate review: %w", err)
	}

	review := cleanReview(extractText(resp))
	if review == "" {
		return "", fmt.Errorf("no response candidates")
	}
	return review, nil
}

// extractText joins the text parts of every candidate
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.WriteString(string(text))
			}
		}
	}
	return result.String()
}

// acquire waits for a free slot and for the pacing limiter.
func (g *Client) acquire(ctx context.Context) (func(), error) {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		<-g.sem
		return nil, err
	}

	return func() {
		<-g.sem
	}, nil
}

// Close releases the underlying client
func (g *Client) Close() error {
	return g.client.Close()
}
