package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/application/feed"
	"github.com/jhoicas/stock-dashboard/internal/application/inventory"
	"github.com/jhoicas/stock-dashboard/internal/application/usecase"
	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-dashboard/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-dashboard/internal/interfaces/http"
	"github.com/jhoicas/stock-dashboard/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type uploaderStub struct {
	url string
	err error
}

func (u *uploaderStub) Upload(_ context.Context, _ string, _ string, r io.Reader) (string, error) {
	_, _ = io.ReadAll(r)
	return u.url, u.err
}

type testEnv struct {
	app     *fiber.App
	store   *memory.Store
	broker  *feed.MemoryBroker
	metrics *metrics.Metrics
}

// newTestEnv arma la API completa sobre el store en memoria.
func newTestEnv(t *testing.T, mutate func(*apphttp.RouterDeps)) *testEnv {
	t.Helper()
	store := memory.New()
	broker := feed.NewMemoryBroker()
	t.Cleanup(func() { _ = broker.Close() })
	m := metrics.New("test", prometheus.NewRegistry())

	settings := usecase.DefaultCatalogSettings()
	settings.Locale = "en"
	log := logger.Nop()

	deps := apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store.Products(), store.Categories(), store, broker, settings, log),
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories(), broker, settings, log),
		HistoryUC:   usecase.NewHistoryUseCase(store.Movements(), pdf.NewMarotoHistoryReport("test")),
		AdjustStock: inventory.NewAdjustStockUseCase(store, broker, log, inventory.WithRecorder(m)),
		Reconcile:   inventory.NewReconcileUseCase(store.Products(), store.Movements(), log),
		Broker:      broker,
		Uploader:    &uploaderStub{url: "https://img.example/pen.png"},
		Metrics:     m,
		Log:         log,
		ServiceName: "stock-dashboard-test",
	}
	if mutate != nil {
		mutate(&deps)
	}
	app := fiber.New(fiber.Config{BodyLimit: 8 * 1024 * 1024})
	apphttp.Router(app, deps)
	return &testEnv{app: app, store: store, broker: broker, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, e *testEnv, name string, qty int, categoryID string) dto.ProductResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/products", fiber.Map{"name": name, "quantity": qty, "categoryId": categoryID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_EscenarioPen(t *testing.T) {
	e := newTestEnv(t, nil)

	catResp := e.do(t, http.MethodPost, "/api/categories", fiber.Map{"name": "Oficina"})
	require.Equal(t, http.StatusCreated, catResp.StatusCode)
	cat := decode[dto.CategoryResponse](t, catResp)

	pen := createProduct(t, e, "Pen", 10, cat.ID)
	assert.Equal(t, "Oficina", pen.CategoryName)

	// salida de 3 -> 7
	resp := e.do(t, http.MethodPost, "/api/products/"+pen.ID+"/decrease", fiber.Map{"amount": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adj := decode[dto.AdjustStockResponse](t, resp)
	assert.Equal(t, 7, adj.Product.Quantity)
	assert.Equal(t, "remove", adj.Movement.Action)
	assert.Equal(t, 3, adj.Movement.Amount)
	assert.Equal(t, "Pen", adj.Movement.ProductName)

	// salida mayor al stock -> 409 con el máximo disponible, sin cambios
	resp = e.do(t, http.MethodPost, "/api/products/"+pen.ID+"/decrease", fiber.Map{"amount": 8})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	insufficient := decode[dto.InsufficientStockResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", insufficient.Code)
	assert.Equal(t, 7, insufficient.Available)

	// cantidad no positiva -> 400
	resp = e.do(t, http.MethodPost, "/api/products/"+pen.ID+"/increase", fiber.Map{"amount": 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_AMOUNT", decode[dto.ErrorResponse](t, resp).Code)

	// ajuste rápido sin body -> +1
	resp = e.do(t, http.MethodPost, "/api/products/"+pen.ID+"/increase", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, decode[dto.AdjustStockResponse](t, resp).Product.Quantity)

	// historial: más reciente primero
	resp = e.do(t, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[dto.HistoryListResponse](t, resp)
	require.Len(t, history.Items, 2)
	assert.Equal(t, "add", history.Items[0].Action)
	assert.Equal(t, "remove", history.Items[1].Action)
	assert.Equal(t, 2, history.Page.Total)

	resp = e.do(t, http.MethodGet, "/api/history?action=decrease", nil)
	history = decode[dto.HistoryListResponse](t, resp)
	require.Len(t, history.Items, 1)
	assert.Equal(t, 3, history.Items[0].Amount)

	// conciliación
	resp = e.do(t, http.MethodGet, "/api/products/"+pen.ID+"/reconciliation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[dto.ReconciliationResponse](t, resp)
	assert.True(t, rec.Consistent)
	assert.Equal(t, 10, rec.Baseline)
	assert.Equal(t, 8, rec.Expected)
	assert.Equal(t, 2, rec.Movements)
}

func TestAdjust_ProductoInexistente_Retorna404(t *testing.T) {
	e := newTestEnv(t, nil)
	resp := e.do(t, http.MethodPost, "/api/products/no-existe/increase", fiber.Map{"amount": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdjust_BodyInvalido_Retorna400(t *testing.T) {
	e := newTestEnv(t, nil)
	pen := createProduct(t, e, "Pen", 1, "")
	req := httptest.NewRequest(http.MethodPost, "/api/products/"+pen.ID+"/decrease", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_ListaOrdenadaYFiltrada(t *testing.T) {
	e := newTestEnv(t, nil)
	createProduct(t, e, "banana", 3, "")
	createProduct(t, e, "Apple", 9, "")
	createProduct(t, e, "cherry", 1, "")

	resp := e.do(t, http.MethodGet, "/api/products?sort=name&order=asc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	require.Len(t, list.Items, 3)
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, []string{list.Items[0].Name, list.Items[1].Name, list.Items[2].Name})
	assert.Equal(t, "Sin categoría", list.Items[0].CategoryName)

	resp = e.do(t, http.MethodGet, "/api/products?search=AN", nil)
	list = decode[dto.ProductListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "banana", list.Items[0].Name)

	resp = e.do(t, http.MethodGet, "/api/products?sort=price", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/products/stats", nil)
	stats := decode[dto.ProductStatsResponse](t, resp)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 13, stats.TotalQuantity)
	assert.Equal(t, 2, stats.LowStock)
}

func TestProducts_EdicionDirectaNoEscribeHistorial(t *testing.T) {
	e := newTestEnv(t, nil)
	pen := createProduct(t, e, "Pen", 10, "")

	resp := e.do(t, http.MethodPut, "/api/products/"+pen.ID, fiber.Map{"quantity": 42})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 42, decode[dto.ProductResponse](t, resp).Quantity)

	resp = e.do(t, http.MethodGet, "/api/products/"+pen.ID+"/movements", nil)
	assert.Empty(t, decode[[]dto.MovementResponse](t, resp))

	resp = e.do(t, http.MethodGet, "/api/products/"+pen.ID+"/reconciliation", nil)
	rec := decode[dto.ReconciliationResponse](t, resp)
	assert.True(t, rec.Consistent)
	assert.Equal(t, 42, rec.Baseline)
}

func TestProducts_CategoriaInexistente_Retorna404(t *testing.T) {
	e := newTestEnv(t, nil)
	resp := e.do(t, http.MethodPost, "/api/products", fiber.Map{"name": "Pen", "categoryId": "no-existe"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_EliminarConservaHistorial(t *testing.T) {
	e := newTestEnv(t, nil)
	pen := createProduct(t, e, "Pen", 5, "")
	resp := e.do(t, http.MethodPost, "/api/products/"+pen.ID+"/decrease", fiber.Map{"amount": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/products/"+pen.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/products/"+pen.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/products/"+pen.ID+"/movements", nil)
	movements := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, movements, 1)
	assert.Equal(t, "Pen", movements[0].ProductName)
}

func TestCategories_CRUD(t *testing.T) {
	e := newTestEnv(t, nil)
	resp := e.do(t, http.MethodPost, "/api/categories", fiber.Map{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	cat := decode[dto.CategoryResponse](t, e.do(t, http.MethodPost, "/api/categories", fiber.Map{"name": "Zapatos"}))
	decode[dto.CategoryResponse](t, e.do(t, http.MethodPost, "/api/categories", fiber.Map{"name": "abrigos"}))
	pen := createProduct(t, e, "Bota", 1, cat.ID)

	resp = e.do(t, http.MethodPut, "/api/categories/"+cat.ID, fiber.Map{"name": "Calzado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decode[[]dto.CategoryResponse](t, e.do(t, http.MethodGet, "/api/categories", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "abrigos", list[0].Name)
	assert.Equal(t, "Calzado", list[1].Name)

	resp = e.do(t, http.MethodDelete, "/api/categories/"+cat.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// el producto queda con la referencia colgante y el texto de respaldo
	got := decode[dto.ProductResponse](t, e.do(t, http.MethodGet, "/api/products/"+pen.ID, nil))
	assert.Equal(t, cat.ID, got.CategoryID)
	assert.Equal(t, "Sin categoría", got.CategoryName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_ReportePDF(t *testing.T) {
	e := newTestEnv(t, nil)
	pen := createProduct(t, e, "Pen", 5, "")
	e.do(t, http.MethodPost, "/api/products/"+pen.ID+"/increase", fiber.Map{"amount": 2})

	resp := e.do(t, http.MethodGet, "/api/history/report.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = e.do(t, http.MethodGet, "/api/history/report.pdf?action=transfer", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Uploads
// ──────────────────────────────────────────────────────────────────────────────

func multipartRequest(t *testing.T, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="pen.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write(content)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	cases := []struct {
		name        string
		uploader    *uploaderStub
		maxBytes    int64
		contentType string
		wantStatus  int
		wantCode    string
	}{
		{name: "ok", uploader: &uploaderStub{url: "https://img.example/pen.png"}, contentType: "image/png", wantStatus: http.StatusCreated},
		{name: "demasiado grande", uploader: &uploaderStub{}, maxBytes: 4, contentType: "image/png", wantStatus: http.StatusBadRequest, wantCode: "FILE_TOO_LARGE"},
		{name: "no es imagen", uploader: &uploaderStub{}, contentType: "text/plain", wantStatus: http.StatusBadRequest, wantCode: "INVALID_FILE"},
		{name: "rechazo del servidor", uploader: &uploaderStub{err: &domain.UploadError{Status: 400, Message: "bad preset"}}, contentType: "image/png", wantStatus: http.StatusBadGateway, wantCode: "UPLOAD_FAILED"},
		{name: "fallo de red", uploader: &uploaderStub{err: errors.New("dial tcp: timeout")}, contentType: "image/png", wantStatus: http.StatusBadGateway, wantCode: "UPLOAD_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t, func(d *apphttp.RouterDeps) {
				d.Uploader = tc.uploader
				d.UploadMaxBytes = tc.maxBytes
			})
			resp, err := e.app.Test(multipartRequest(t, tc.contentType, []byte("PNGDATA")), -1)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, decode[dto.ErrorResponse](t, resp).Code)
				return
			}
			assert.Equal(t, "https://img.example/pen.png", decode[apphttp.UploadResponse](t, resp).URL)
		})
	}
}

func TestUpload_Deshabilitado_Retorna503(t *testing.T) {
	e := newTestEnv(t, func(d *apphttp.RouterDeps) { d.Uploader = nil })
	resp, err := e.app.Test(multipartRequest(t, "image/png", []byte("x")), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health, métricas y stream
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	e := newTestEnv(t, nil)
	pen := createProduct(t, e, "Pen", 1, "")
	e.do(t, http.MethodPost, "/api/products/"+pen.ID+"/decrease", fiber.Map{"amount": 5})

	resp := e.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])

	// más requests reutilizan los buffers de fasthttp; las etiquetas ya registradas no cambian
	for i := 0; i < 3; i++ {
		e.do(t, http.MethodGet, "/api/products/"+pen.ID, nil)
		e.do(t, http.MethodDelete, "/api/products/nope", nil)
	}

	resp = e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `test_stock_adjustments_total{action="remove",result="insufficient_stock"} 1`)
	assert.Contains(t, string(body), `test_http_requests_total{method="POST",route="/api/products/:id/decrease",status="409"} 1`)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",route="/api/products/:id",status="200"} 3`)
	assert.Contains(t, string(body), `test_http_requests_total{method="DELETE",route="/api/products/:id",status="404"} 3`)
}

func TestStream_FiltrosInvalidos_Retorna400SinSuscribir(t *testing.T) {
	e := newTestEnv(t, nil)
	for _, path := range []string{
		"/api/stream/products?sort=price",
		"/api/stream/products?order=sideways",
		"/api/stream/history?action=transfer",
	} {
		resp := e.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code, path)
	}
	assert.Equal(t, 0, e.broker.Subscribers(feed.TopicProducts))
	assert.Equal(t, 0, e.broker.Subscribers(feed.TopicHistory))
}

func TestStream_TopicoDesconocido_Retorna404(t *testing.T) {
	e := newTestEnv(t, nil)
	resp := e.do(t, http.MethodGet, "/api/stream/invoices", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, e.broker.Subscribers("invoices"))
}
