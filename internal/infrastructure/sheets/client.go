// Package sheets stores inventory rows in a Google Sheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const valueInputOption = "USER_ENTERED"

// Client Google Sheets backed inventory repository
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	cache         SnapshotCache
	logger        *slog.Logger
}

// NewClient creates the Sheets service. Credentials and endpoint come from opts.
func NewClient(ctx context.Context, spreadsheetID, sheetName string, cache SnapshotCache, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	if cache == nil {
		cache = NewMemoryCache(0)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		cache:         cache,
		logger:        logger.With(slog.String("component", "sheets")),
	}, nil
}

// CredentialOptions service-account credentials limited to the spreadsheets scope
func CredentialOptions(credentialsJSON string) []option.ClientOption {
	return []option.ClientOption{
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope),
	}
}

// ReadAll serves the snapshot while it is fresh, otherwise reads the sheet.
func (c *Client) ReadAll(ctx context.Context) ([]entity.InventoryRow, error) {
	rows, ok, err := c.cache.Get(ctx)
	if err != nil {
		c.logger.Warn("snapshot read failed", slog.Any("error", err))
	}
	if ok {
		return rows, nil
	}
	return c.ReadFresh(ctx)
}

// ReadFresh always reads the sheet and refreshes the snapshot.
func (c *Client) ReadFresh(ctx context.Context) ([]entity.InventoryRow, error) {
	resp, err := c.service.Spreadsheets.Values.
		Get(c.spreadsheetID, a1(c.sheetName, fullRange)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	rows := make([]entity.InventoryRow, 0, len(resp.Values))
	for i, values := range resp.Values {
		if row, ok := rowToEntity(i, values); ok {
			rows = append(rows, row)
		}
	}

	if err := c.cache.Set(ctx, rows); err != nil {
		c.logger.Warn("snapshot write failed", slog.Any("error", err))
	}
	c.logger.Debug("sheet read", slog.Int("rows", len(rows)))
	return rows, nil
}

func (c *Client) Append(ctx context.Context, rows []entity.InventoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		values = append(values, entityToValues(r))
	}

	_, err := c.service.Spreadsheets.Values.
		Append(c.spreadsheetID, a1(c.sheetName, fullRange), &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	c.invalidate(ctx)
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	return nil
}

func (c *Client) UpdateSale(ctx context.Context, row int, saleDate, salePrice, method string, status entity.Status) error {
	cells := fmt.Sprintf("F%d:I%d", row, row)
	return c.update(ctx, cells, []interface{}{saleDate, salePrice, method, string(status)})
}

func (c *Client) MarkReturned(ctx context.Context, row int, returnDate string) error {
	return c.UpdateSale(ctx, row, returnDate, "0", "", entity.StatusReturned)
}

func (c *Client) UpdateReview(ctx context.Context, row int, review string) error {
	return c.update(ctx, fmt.Sprintf("J%d", row), []interface{}{review})
}

// Clear blanks A:J of the row; the row itself stays in place.
func (c *Client) Clear(ctx context.Context, row int) error {
	cells := fmt.Sprintf("A%d:J%d", row, row)
	_, err := c.service.Spreadsheets.Values.
		Clear(c.spreadsheetID, a1(c.sheetName, cells), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	c.invalidate(ctx)
	if err != nil {
		return fmt.Errorf("clear %s: %w", cells, err)
	}
	return nil
}

func (c *Client) update(ctx context.Context, cells string, values []interface{}) error {
	_, err := c.service.Spreadsheets.Values.
		Update(c.spreadsheetID, a1(c.sheetName, cells), &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	c.invalidate(ctx)
	if err != nil {
		return fmt.Errorf("update %s: %w", cells, err)
	}
	return nil
}

func (c *Client) invalidate(ctx context.Context) {
	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.Warn("snapshot invalidation failed", slog.Any("error", err))
	}
}
