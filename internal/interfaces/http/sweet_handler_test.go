package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/catalog"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	apphttp "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
)

// buildTestApp construye una aplicación Fiber con el motor y el catálogo
// sobre el almacén en memoria.
func buildTestApp() *fiber.App {
	store := memory.NewStore(time.Second)
	stockUC := inventory.NewStockUseCase(store, store.Events())
	catalogUC := catalog.NewCatalogUseCase(store.Sweets())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{StockUC: stockUC, CatalogUC: catalogUC})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func createSweet(t *testing.T, app *fiber.App) dto.MutationResponse {
	t.Helper()
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/sweets/", map[string]any{
		"name":     "Gummy Bears",
		"category": "Gummies",
		"price":    "1.99",
		"quantity": 150,
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var out dto.MutationResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCreateSweet_OK(t *testing.T) {
	app := buildTestApp()
	out := createSweet(t, app)

	assert.Equal(t, int64(150), out.Sweet.Quantity)
	assert.Equal(t, "CREATE", out.Event.Type)
	assert.Equal(t, int64(150), out.Event.Delta)
	assert.NotEmpty(t, out.Sweet.ID)
}

func TestCreateSweet_Validacion(t *testing.T) {
	app := buildTestApp()
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/sweets/", map[string]any{
		"category": "Gummies",
		"price":    "1.99",
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestPurchase_OK(t *testing.T) {
	app := buildTestApp()
	created := createSweet(t, app)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/sweets/"+created.Sweet.ID+"/purchase",
		map[string]any{"quantity": 3},
		map[string]string{apphttp.HeaderActorID: "buyer1"},
	)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var out dto.MutationResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, int64(147), out.Sweet.Quantity)
	assert.Equal(t, "PURCHASE", out.Event.Type)
	assert.Equal(t, int64(-3), out.Event.Delta)
	assert.Equal(t, "buyer1", out.Event.ActorID)
	assert.Equal(t, "5.97", out.Event.TotalValue.StringFixed(2))
}

func TestPurchase_StockInsuficiente_409(t *testing.T) {
	app := buildTestApp()
	created := createSweet(t, app)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/sweets/"+created.Sweet.ID+"/purchase",
		map[string]any{"quantity": 200}, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var out struct {
		Code      string `json:"code"`
		Available int64  `json:"available"`
		Requested int64  `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, int64(150), out.Available)
	assert.Equal(t, int64(200), out.Requested)

	// El stock no cambió
	getResp, getRaw := doJSON(t, app, fiber.MethodGet, "/api/sweets/"+created.Sweet.ID, nil, nil)
	require.Equal(t, fiber.StatusOK, getResp.StatusCode)
	var sweet dto.SweetResponse
	require.NoError(t, json.Unmarshal(getRaw, &sweet))
	assert.Equal(t, int64(150), sweet.Quantity)
}

func TestPurchase_Inexistente_404(t *testing.T) {
	app := buildTestApp()
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/sweets/nope/purchase",
		map[string]any{"quantity": 1}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRestockYAdjust(t *testing.T) {
	app := buildTestApp()
	created := createSweet(t, app)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/sweets/"+created.Sweet.ID+"/restock",
		map[string]any{"quantity": 10},
		map[string]string{apphttp.HeaderActorID: "admin1"},
	)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var out dto.MutationResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, int64(160), out.Sweet.Quantity)

	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/sweets/"+created.Sweet.ID+"/adjust",
		map[string]any{"delta": -200}, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, string(raw))
}

func TestAuditTrail_Endpoint(t *testing.T) {
	app := buildTestApp()
	created := createSweet(t, app)

	doJSON(t, app, fiber.MethodPost, "/api/sweets/"+created.Sweet.ID+"/purchase", map[string]any{"quantity": 3}, nil)
	doJSON(t, app, fiber.MethodPost, "/api/sweets/"+created.Sweet.ID+"/restock", map[string]any{"quantity": 10}, nil)

	resp, raw := doJSON(t, app, fiber.MethodGet, "/api/sweets/"+created.Sweet.ID+"/events", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var events []dto.StockEventResponse
	require.NoError(t, json.Unmarshal(raw, &events))
	require.Len(t, events, 3)
	assert.Equal(t, "CREATE", events[0].Type)
	assert.Equal(t, "PURCHASE", events[1].Type)
	assert.Equal(t, "RESTOCK", events[2].Type)
	assert.Equal(t, int64(147), events[1].ResultingQuantity)
	assert.Equal(t, int64(157), events[2].ResultingQuantity)
}

func TestUpdateYSearch(t *testing.T) {
	app := buildTestApp()
	created := createSweet(t, app)

	resp, raw := doJSON(t, app, fiber.MethodPut, "/api/sweets/"+created.Sweet.ID,
		map[string]any{"price": "2.49"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var updated dto.SweetResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "2.49", updated.Price.StringFixed(2))
	assert.Equal(t, int64(150), updated.Quantity, "el PUT no toca el stock")

	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/sweets/search?name=gummy&category=Gummies", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.SweetResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Gummy Bears", list[0].Name)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/sweets/search?min_price=abc", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteSweet(t *testing.T) {
	app := buildTestApp()
	created := createSweet(t, app)

	resp, _ := doJSON(t, app, fiber.MethodDelete, "/api/sweets/"+created.Sweet.ID, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/sweets/"+created.Sweet.ID, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
