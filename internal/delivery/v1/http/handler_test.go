package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/storefront/internal/cart"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/memory"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type noopCache struct{}

func (noopCache) Generation(context.Context) (int64, error) {
	return 0, nil
}

func (noopCache) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, nil
}

func (noopCache) SetProduct(context.Context, int64, *domain.Product) error {
	return nil
}

func (noopCache) GetList(context.Context, int64, domain.ProductFilter) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (noopCache) SetList(context.Context, int64, domain.ProductFilter, []domain.Product) error {
	return nil
}

func (noopCache) Invalidate(context.Context, ...string) error {
	return nil
}

type noopEvents struct{}

func (noopEvents) Publish(context.Context, ...domain.CatalogEvent) error {
	return nil
}

type checkoutMock struct {
	mock.Mock
}

func (m *checkoutMock) CreateSession(ctx context.Context, req *usecase.CheckoutReq) (*domain.PaymentSession, error) {
	args := m.Called(ctx, req)
	if s, ok := args.Get(0).(*domain.PaymentSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type imagesMock struct {
	mock.Mock
}

func (m *imagesMock) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*usecase.UploadImagesRes); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type testAPI struct {
	handler  http.Handler
	checkout *checkoutMock
	images   *imagesMock
	carts    *cart.MemoryStorage
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := logger.NewDiscardLogger()
	repo := memory.NewProductRepo()
	tx := memory.NewTxManager()

	api := &testAPI{
		checkout: new(checkoutMock),
		images:   new(imagesMock),
		carts:    cart.NewMemoryStorage(),
	}

	mux := chi.NewRouter()
	NewRouter(mux, log).Init(UseCases{
		Catalog:     usecase.NewCatalogUC(repo, tx, noopCache{}, noopEvents{}, log),
		Import:      usecase.NewImportUC(repo, tx, noopCache{}, noopEvents{}, log, 4),
		Checkout:    api.checkout,
		Images:      api.images,
		CartStorage: api.carts,
	})
	api.handler = mux

	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createProduct(t *testing.T, body string) ProductDTO {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/products", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestProducts_CreateGetList(t *testing.T) {
	api := newTestAPI(t)

	created := api.createProduct(t, `{"name":" Tote ","price":"19.90","category":"accessories","inventory":5,"sizes":["S","M"]}`)
	assert.Equal(t, "Tote", created.Name)
	assert.Equal(t, json.Number("19.90"), created.Price)
	assert.Regexp(t, `^ACC-[0-9A-Z]+-[0-9A-Z]{8}$`, created.SKU)
	assert.True(t, created.Active)
	assert.Equal(t, []string{}, created.Colors)

	rec := api.do(t, http.MethodGet, "/api/v1/products/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/products?category=accessories", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "ok", list.Status)
	require.Len(t, list.Products, 1)
	assert.Equal(t, created.ID, list.Products[0].ID)
}

func TestProducts_ListEmpty(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "empty", list.Status)
	assert.Empty(t, list.Products)
}

func TestProducts_ErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	api.createProduct(t, `{"name":"Mug","price":9.99,"category":"kitchen","inventory":"3","sku":"MUG-1"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"missing name", http.MethodPost, "/api/v1/products", `{"price":"1","category":"c","inventory":"1"}`, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/v1/products", `{"name":"x","price":"-1","category":"c","inventory":"1"}`, http.StatusBadRequest},
		{"three decimals", http.MethodPost, "/api/v1/products", `{"name":"x","price":"1.999","category":"c","inventory":"1"}`, http.StatusBadRequest},
		{"price is object", http.MethodPost, "/api/v1/products", `{"name":"x","price":{},"category":"c","inventory":"1"}`, http.StatusBadRequest},
		{"duplicate sku", http.MethodPost, "/api/v1/products", `{"name":"x","price":"1","category":"c","inventory":"1","sku":"MUG-1"}`, http.StatusConflict},
		{"unknown product", http.MethodGet, "/api/v1/products/9b2f7a8e-1c1d-4f7e-9a51-3a0d2e8c4b11", "", http.StatusNotFound},
		{"malformed id", http.MethodGet, "/api/v1/products/nope", "", http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/v1/products/9b2f7a8e-1c1d-4f7e-9a51-3a0d2e8c4b11", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body, nil)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestProducts_UpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	created := api.createProduct(t, `{"name":"Tote","price":"19.90","category":"accessories","inventory":5}`)

	rec := api.do(t, http.MethodPut, "/api/v1/products/"+created.ID, `{"price":"25","featured":true}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, json.Number("25.00"), updated.Price)
	assert.True(t, updated.Featured)
	assert.Equal(t, "Tote", updated.Name)
	assert.Equal(t, created.SKU, updated.SKU)
	assert.NotNil(t, updated.UpdatedAt)

	rec = api.do(t, http.MethodDelete, "/api/v1/products/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/products/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventory_UploadJSONUpsertsBySKU(t *testing.T) {
	api := newTestAPI(t)

	body := `{"products":[
		{"name":"Tote","price":19.9,"category":"bags","inventory":5,"sku":"TOTE-1","sizes":["S","M"]},
		{"name":"Tote v2","sku":"TOTE-1","price":"21.00","category":"bags","inventory":"7"},
		{"name":"Broken","price":"abc","category":"bags","inventory":"1","sku":"BR-1"}
	]}`
	rec := api.do(t, http.MethodPost, "/api/v1/inventory/upload", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 3, res.Failed[0].Row)
	assert.Equal(t, "BR-1", res.Failed[0].SKU)

	rec = api.do(t, http.MethodGet, "/api/v1/products", nil, nil)
	var list ListProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Tote v2", list.Products[0].Name)
	assert.Equal(t, 7, list.Products[0].Inventory)
	assert.Equal(t, []string{"S", "M"}, list.Products[0].Sizes)
}

func TestInventory_UploadCSV(t *testing.T) {
	api := newTestAPI(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Name,Price,Category,Inventory,SKU,Sizes\nTote,19.90,bags,5,TOTE-1,\"S,M\"\n\nMug,9.99,kitchen,0,MUG-1,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)
	assert.Empty(t, res.Failed)

	rec = api.do(t, http.MethodGet, "/api/v1/inventory/stats", nil, nil)
	var stats InventoryStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.OutOfStock)
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, 5, stats.TotalUnits)
}

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufeffSKU, Name\nA-1,First\n,\nB-2,Second\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0]["sku"])
	assert.Equal(t, "Second", rows[1]["name"])

	_, err = ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, e.ErrValidation)

	_, err = ParseCSV(strings.NewReader("a,b\n\"unterminated,1\n"))
	assert.ErrorIs(t, err, e.ErrValidation)
}

func TestUploadImages_RequiresMultipart(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/uploads/images", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, e.ErrExpectedMultipart.Msg, decodeError(t, rec).Message)
}

func TestUploadImages(t *testing.T) {
	api := newTestAPI(t)
	api.images.On("UploadImages", mock.Anything, mock.MatchedBy(func(req *usecase.UploadImagesReq) bool {
		return req.Prefix == "bags" && len(req.Images) == 1 && req.Images[0].MimeType == "image/png"
	})).Return(usecase.NewUploadImagesRes([]string{"bags/1.png"}, []string{"http://cdn/bags/1.png"}), nil)

	png := []byte("\x89PNG\r\n\x1a\n0000000000000000")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("images", "1.png")
	require.NoError(t, err)
	_, err = fw.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("prefix", "bags"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res UploadImagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"http://cdn/bags/1.png"}, res.URLs)
	api.images.AssertExpectations(t)
}

func TestCart_Lifecycle(t *testing.T) {
	api := newTestAPI(t)
	product := api.createProduct(t, `{"name":"Tote","price":"10.50","category":"bags","inventory":5,"sizes":["S","M"]}`)

	// Первая операция без идентификатора выдаёт новую корзину.
	rec := api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": product.ID, "quantity": 2, "size": "M"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cartID := rec.Header().Get(CartIDHeader)
	require.NotEmpty(t, cartID)
	require.NotEmpty(t, rec.Result().Cookies())

	headers := map[string]string{CartIDHeader: cartID}
	rec = api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": product.ID, "quantity": 1, "size": "M"}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	var c CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, json.Number("31.50"), c.TotalPrice)
	lineID := c.Lines[0].ID

	rec = api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": product.ID, "quantity": 1, "size": "XL"}, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPatch, "/api/v1/cart/items/"+lineID, `{"quantity":1}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, 1, c.TotalItems)

	rec = api.do(t, http.MethodPatch, "/api/v1/cart/items/missing", `{"quantity":1}`, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/cart/items/"+lineID, nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Empty(t, c.Lines)
	assert.Equal(t, json.Number("0.00"), c.TotalPrice)
}

func TestCart_AddUnknownProduct(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "9b2f7a8e-1c1d-4f7e-9a51-3a0d2e8c4b11", "quantity": 1}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "9b2f7a8e-1c1d-4f7e-9a51-3a0d2e8c4b11", "quantity": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_InactiveHiddenFromStorefront(t *testing.T) {
	api := newTestAPI(t)
	hidden := api.createProduct(t, `{"name":"Old Scarf","price":"30","category":"accessories","inventory":2,"active":false}`)

	rec := api.do(t, http.MethodGet, "/api/v1/products/"+hidden.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/products/"+hidden.ID+"?includeInactive=true", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dto ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.False(t, dto.Active)

	rec = api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": hidden.ID, "quantity": 1}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get(CartIDHeader))
}

func TestCart_CheckoutClearsOnSuccess(t *testing.T) {
	api := newTestAPI(t)
	product := api.createProduct(t, `{"name":"Tote","price":"10.50","category":"bags","inventory":5}`)

	rec := api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": product.ID, "quantity": 2}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	headers := map[string]string{CartIDHeader: rec.Header().Get(CartIDHeader)}

	api.checkout.On("CreateSession", mock.Anything, mock.MatchedBy(func(req *usecase.CheckoutReq) bool {
		return len(req.Items) == 1 && req.Items[0].ProductID == product.ID && req.Items[0].Quantity == 2 &&
			req.CustomerInfo.Email == "buyer@example.com"
	})).Return(&domain.PaymentSession{ID: "cs_1", URL: "https://pay/cs_1"}, nil).Once()

	rec = api.do(t, http.MethodPost, "/api/v1/cart/checkout", `{"customerInfo":{"email":"buyer@example.com"}}`, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session domain.PaymentSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "cs_1", session.ID)
	assert.Equal(t, "https://pay/cs_1", session.URL)

	rec = api.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	var c CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Empty(t, c.Lines)
	api.checkout.AssertExpectations(t)
}

func TestCart_CheckoutFailureKeepsCart(t *testing.T) {
	api := newTestAPI(t)
	product := api.createProduct(t, `{"name":"Tote","price":"10.50","category":"bags","inventory":5}`)

	rec := api.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": product.ID, "quantity": 1}, nil)
	headers := map[string]string{CartIDHeader: rec.Header().Get(CartIDHeader)}

	api.checkout.On("CreateSession", mock.Anything, mock.Anything).Return(nil, e.ErrCheckoutSessionFailed).Once()

	rec = api.do(t, http.MethodPost, "/api/v1/cart/checkout", `{"customerInfo":{"email":"buyer@example.com"}}`, headers)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to create checkout session", decodeError(t, rec).Message)

	rec = api.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	var c CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Len(t, c.Lines, 1)
}

func TestCheckout_Validation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"no items", `{"items":[],"customerInfo":{"email":"a@b.co"}}`},
		{"bad email", `{"items":[{"productId":"x","quantity":1}],"customerInfo":{"email":"nope"}}`},
		{"zero quantity", `{"items":[{"productId":"x","quantity":0}],"customerInfo":{"email":"a@b.co"}}`},
		{"malformed json", `{"items":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/v1/checkout", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	api.checkout.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCheckout_NotFound(t *testing.T) {
	api := newTestAPI(t)
	api.checkout.On("CreateSession", mock.Anything, mock.Anything).
		Return(nil, e.New(e.ErrNotFound, "product 42 not found")).Once()

	rec := api.do(t, http.MethodPost, "/api/v1/checkout", `{"items":[{"productId":"42","quantity":1}],"customerInfo":{"email":"a@b.co"}}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product 42 not found", decodeError(t, rec).Message)
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{e.ErrPriceMustBePositive, http.StatusBadRequest},
		{e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound},
		{e.ErrSKUConflict, http.StatusConflict},
		{e.Unavailable(context.DeadlineExceeded), http.StatusServiceUnavailable},
		{e.ErrCheckoutSessionFailed, http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, msg := ToHTTPResponse(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		assert.NotEmpty(t, msg)
	}
}
