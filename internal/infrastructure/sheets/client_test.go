package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

type recordedRequest struct {
	Method string
	Path   string
	Input  string
	Body   sheets.ValueRange
}

// fakeSheetsAPI serves the handful of values endpoints the client uses.
type fakeSheetsAPI struct {
	mu       sync.Mutex
	values   [][]interface{}
	reads    int
	requests []recordedRequest
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodGet {
		f.reads++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          "Sheet1!A1:J10",
			"majorDimension": "ROWS",
			"values":         f.values,
		})
		return
	}

	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Input:  r.URL.Query().Get("valueInputOption"),
	}
	data, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(data, &rec.Body)
	f.requests = append(f.requests, rec)
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeSheetsAPI) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakeSheetsAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, sheetName string) (*Client, *fakeSheetsAPI) {
	t.Helper()

	api := &fakeSheetsAPI{
		values: [][]interface{}{
			{"ID", "Fecha compra", "Producto", "Precio", "Devolución", "Fecha venta", "Precio venta", "Método", "Estado", "Reseña"},
			{"113-1234567-1234567", "01/03/2025", "Monitor LG", "120.00", "31/03/2025"},
			{},
			{"113-7654321-7654321", "02/03/2025", "Teclado", "45.50", "01/04/2025", "05/03/2025", "60", "💰 Zelle", "vendido"},
		},
	}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := NewClient(context.Background(), "sheet-1", sheetName, NewMemoryCache(time.Minute), logger,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client, api
}

func TestClient_ReadAllUsesSnapshot(t *testing.T) {
	client, api := newTestClient(t, "")
	ctx := context.Background()

	rows, err := client.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, 4, rows[1].Row)
	assert.Equal(t, "vendido", string(rows[1].Status))

	_, err = client.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.readCount())

	_, err = client.ReadFresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.readCount())
}

func TestClient_UpdateSaleInvalidatesSnapshot(t *testing.T) {
	client, api := newTestClient(t, "")
	ctx := context.Background()

	_, err := client.ReadAll(ctx)
	require.NoError(t, err)

	require.NoError(t, client.UpdateSale(ctx, 2, "10/03/2025", "150.00", "💳 PayPal", "vendido"))

	req := api.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/values/F2:I2"), req.Path)
	assert.Equal(t, "USER_ENTERED", req.Input)
	require.Len(t, req.Body.Values, 1)
	assert.Equal(t, []interface{}{"10/03/2025", "150.00", "💳 PayPal", "vendido"}, req.Body.Values[0])

	_, err = client.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.readCount())
}

func TestClient_MarkReturned(t *testing.T) {
	client, api := newTestClient(t, "")

	require.NoError(t, client.MarkReturned(context.Background(), 4, "11/03/2025"))

	req := api.last()
	assert.True(t, strings.HasSuffix(req.Path, "/values/F4:I4"), req.Path)
	assert.Equal(t, []interface{}{"11/03/2025", "0", "", "devuelto"}, req.Body.Values[0])
}

func TestClient_AppendAndClear(t *testing.T) {
	client, api := newTestClient(t, "")
	ctx := context.Background()

	err := client.Append(ctx, []entity.InventoryRow{{ID: "SIN-1a2b3c4d", Product: "Cable", PurchasePrice: "9.99"}})
	require.NoError(t, err)

	req := api.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/values/A:J:append"), req.Path)
	require.Len(t, req.Body.Values, 1)
	assert.Len(t, req.Body.Values[0], columnCount)
	assert.Equal(t, "pendiente", req.Body.Values[0][colStatus])

	require.NoError(t, client.Clear(ctx, 5))
	req = api.last()
	assert.True(t, strings.HasSuffix(req.Path, "/values/A5:J5:clear"), req.Path)
}

func TestClient_SheetNameQualifiesRange(t *testing.T) {
	client, api := newTestClient(t, "Compras")

	require.NoError(t, client.UpdateReview(context.Background(), 2, "Muy bueno"))

	req := api.last()
	assert.True(t, strings.HasSuffix(req.Path, "/values/'Compras'!J2"), req.Path)
	assert.Equal(t, []interface{}{"Muy bueno"}, req.Body.Values[0])
}
