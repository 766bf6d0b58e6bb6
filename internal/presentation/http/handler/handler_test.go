package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
	localrepo "github.com/sangkips/tillsync/internal/infrastructure/repository"
	"github.com/sangkips/tillsync/internal/presentation/http/handler"
	"github.com/sangkips/tillsync/internal/presentation/http/middleware"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("offline")

// signedOutRemote is a remote store the till never signed in to.
type signedOutRemote struct{}

var _ repository.RemoteStore = signedOutRemote{}

func (signedOutRemote) GetSession(context.Context) *entity.Session { return nil }
func (signedOutRemote) GenerateInvoiceNumber(context.Context, uuid.UUID) (string, error) {
	return "", errOffline
}
func (signedOutRemote) InsertInvoice(context.Context, *entity.Invoice) error { return errOffline }
func (signedOutRemote) InsertLineItems(context.Context, uuid.UUID, []entity.InvoiceLineItem) error {
	return errOffline
}
func (signedOutRemote) QueryRecentInvoices(context.Context, uuid.UUID, int) ([]entity.Invoice, error) {
	return nil, errOffline
}
func (signedOutRemote) UpsertSettings(context.Context, uuid.UUID, *entity.CompanySettings) error {
	return errOffline
}
func (signedOutRemote) GetSettings(context.Context, uuid.UUID) (*entity.CompanySettings, error) {
	return nil, errOffline
}
func (signedOutRemote) FindUserByEmail(context.Context, string) (*entity.User, error) {
	return nil, errOffline
}
func (signedOutRemote) Ping(context.Context) error { return errOffline }

type apiBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Warning string          `json:"warning"`
}

func newRouter(t *testing.T) (*gin.Engine, repository.SaleHistoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := localstore.OpenInMemory(logger.NewNop())
	t.Cleanup(func() { _ = store.Close() })

	log := logger.NewNop()
	remote := signedOutRemote{}
	history := localrepo.NewSaleHistoryRepository(store)
	settingsRepo := localrepo.NewSettingsRepository(store, entity.DefaultStoreSettings())
	items := localrepo.NewItemRepository(store)
	demo := localrepo.NewDemoReceiptRepository(store)

	syncSvc := service.NewSyncService(
		history,
		localrepo.NewPendingSaleRepository(store),
		localrepo.NewDeadLetterRepository(store),
		localrepo.NewSyncStatusRepository(store),
		settingsRepo,
		items,
		remote,
		log,
		service.SyncOptions{},
	)
	receiptSvc := service.NewReceiptService(printer.NewNullPrinter(), history, demo, settingsRepo, time.UTC, log)
	catalogSvc := service.NewCatalogService(items, demo, settingsRepo, receiptSvc, log)
	settingsSvc := service.NewSettingsService(settingsRepo, remote, log)

	sales := handler.NewSaleHandler(syncSvc, catalogSvc, receiptSvc, settingsSvc, log)
	settings := handler.NewSettingsHandler(settingsSvc)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: localrepo.NewIdempotencyRepository(store),
		Log:  log,
	}))
	v1.GET("/sales", sales.List)
	v1.POST("/sales", sales.Create)
	v1.GET("/sales/:id", sales.Get)
	v1.GET("/sales/:id/receipt", sales.Receipt)
	v1.GET("/settings", settings.GetSettings)
	v1.PUT("/settings", settings.UpdateSettings)

	return router, history
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiBody {
	t.Helper()
	var body apiBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var teaCart = map[string]interface{}{
	"customer": "Ann",
	"items": []map[string]interface{}{
		{"name": "Tea", "unit_price": "25", "quantity": 2},
		{"name": "Scone", "unit_price": "3.02", "quantity": 1},
	},
}

func TestSaleHandler_CreateSignedOutStaysLocal(t *testing.T) {
	router, history := newRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/sales", teaCart, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Empty(t, body.Warning)

	var result service.SaveResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, "Ann", result.Sale.Customer)
	assert.Equal(t, enum.SyncStateLocalOnly, result.Sale.Sync.State)
	assert.Contains(t, result.Sale.ReceiptHTML, "$53.02")
	assert.Len(t, history.List(context.Background()), 1)

	receipt := do(t, router, http.MethodGet, "/api/v1/sales/"+result.Sale.ID.String()+"/receipt", nil, nil)
	require.Equal(t, http.StatusOK, receipt.Code)
	assert.Contains(t, receipt.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, receipt.Body.String(), "Scone")
}

func TestSaleHandler_CreateRejectsBadCarts(t *testing.T) {
	router, history := newRouter(t)

	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{"no items", map[string]interface{}{"items": []interface{}{}}, http.StatusBadRequest},
		{"missing name", map[string]interface{}{"items": []map[string]interface{}{{"unit_price": "1", "quantity": 1}}}, http.StatusBadRequest},
		{"negative quantity", map[string]interface{}{"items": []map[string]interface{}{{"name": "Tea", "unit_price": "1", "quantity": -1}}}, http.StatusBadRequest},
		{"negative price", map[string]interface{}{"items": []map[string]interface{}{{"name": "Tea", "unit_price": "-1", "quantity": 1}}}, http.StatusUnprocessableEntity},
		{"unknown item", map[string]interface{}{"items": []map[string]interface{}{{"item_id": uuid.NewString(), "quantity": 1}}}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/sales", tt.body, nil)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.False(t, decode(t, w).Success)
		})
	}
	assert.Empty(t, history.List(context.Background()))
}

func TestSaleHandler_ListAndGet(t *testing.T) {
	router, _ := newRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/sales", teaCart, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	list := do(t, router, http.MethodGet, "/api/v1/sales?page=1&per_page=5", nil, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var page struct {
		Items      []entity.Sale `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decode(t, list).Data, &page))
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 1, page.Pagination.Total)

	get := do(t, router, http.MethodGet, "/api/v1/sales/"+page.Items[0].ID.String(), nil, nil)
	assert.Equal(t, http.StatusOK, get.Code)

	missing := do(t, router, http.MethodGet, "/api/v1/sales/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	malformed := do(t, router, http.MethodGet, "/api/v1/sales/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestIdempotency_ReplaysCreatedSale(t *testing.T) {
	router, history := newRouter(t)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "till-1-sale-42"}

	first := do(t, router, http.MethodPost, "/api/v1/sales", teaCart, headers)
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(t, router, http.MethodPost, "/api/v1/sales", teaCart, headers)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	assert.Len(t, history.List(context.Background()), 1)
}

func TestIdempotency_FailedRequestIsNotStored(t *testing.T) {
	router, _ := newRouter(t)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "retry-me"}

	bad := do(t, router, http.MethodPost, "/api/v1/sales", map[string]interface{}{"items": []interface{}{}}, headers)
	require.Equal(t, http.StatusBadRequest, bad.Code)

	good := do(t, router, http.MethodPost, "/api/v1/sales", teaCart, headers)
	assert.Equal(t, http.StatusCreated, good.Code)
	assert.Empty(t, good.Header().Get("X-Idempotency-Replayed"))
}

func TestSettingsHandler_VersionConflict(t *testing.T) {
	router, _ := newRouter(t)

	settings := entity.DefaultStoreSettings()
	settings.StoreName = "Corner Shop"

	w := do(t, router, http.MethodPut, "/api/v1/settings", map[string]interface{}{"settings": settings}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved entity.StoreSettings
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &saved))
	assert.Equal(t, "Corner Shop", saved.StoreName)
	assert.Equal(t, 1, saved.Version)

	stale := do(t, router, http.MethodPut, "/api/v1/settings", map[string]interface{}{"settings": settings, "version": 7}, nil)
	assert.Equal(t, http.StatusConflict, stale.Code)

	current := do(t, router, http.MethodPut, "/api/v1/settings", map[string]interface{}{"settings": settings, "version": 1}, nil)
	require.Equal(t, http.StatusOK, current.Code)

	settings.DateFormat = "DD.MM.YY"
	invalid := do(t, router, http.MethodPut, "/api/v1/settings", map[string]interface{}{"settings": settings}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, invalid.Code)

	get := do(t, router, http.MethodGet, "/api/v1/settings", nil, nil)
	require.NoError(t, json.Unmarshal(decode(t, get).Data, &saved))
	assert.Equal(t, 2, saved.Version)
}

func TestSaleHandler_ResentSaleIDIsRecordedOnce(t *testing.T) {
	router, history := newRouter(t)

	id := uuid.New()
	body := map[string]interface{}{
		"id":       id.String(),
		"date":     "2024-06-03T09:15:00Z",
		"customer": "Ann",
		"items":    teaCart["items"],
	}

	first := do(t, router, http.MethodPost, "/api/v1/sales", body, nil)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := do(t, router, http.MethodPost, "/api/v1/sales", body, nil)
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

	var result service.SaveResult
	require.NoError(t, json.Unmarshal(decode(t, second).Data, &result))
	assert.Equal(t, id, result.Sale.ID)
	assert.NotEmpty(t, result.Sale.ReceiptHTML)
	assert.Len(t, result.Sales, 1)
	assert.Len(t, history.List(context.Background()), 1)
}
