package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ProductServiceMock struct{ mock.Mock }

func (m *ProductServiceMock) List(ctx context.Context) ([]product.ProductResp, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]product.ProductResp)
	return list, args.Error(1)
}

func (m *ProductServiceMock) Resolve(ctx context.Context, identifier string) (*product.ProductResp, error) {
	args := m.Called(ctx, identifier)
	resp, _ := args.Get(0).(*product.ProductResp)
	return resp, args.Error(1)
}

func (m *ProductServiceMock) GetInCategory(ctx context.Context, categorySlug, productSlug string) (*product.ProductResp, error) {
	args := m.Called(ctx, categorySlug, productSlug)
	resp, _ := args.Get(0).(*product.ProductResp)
	return resp, args.Error(1)
}

func (m *ProductServiceMock) Create(ctx context.Context, req *product.CreateProductReq) (*product.ProductResp, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*product.ProductResp)
	return resp, args.Error(1)
}

func (m *ProductServiceMock) Update(ctx context.Context, id string, req *product.UpdateProductReq) (*product.ProductResp, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*product.ProductResp)
	return resp, args.Error(1)
}

func (m *ProductServiceMock) Delete(ctx context.Context, id string) (*product.ProductResp, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*product.ProductResp)
	return resp, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(svc product.ProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProductHandler(svc)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	products := r.Group("/api/v1/products")
	products.GET("", h.List)
	products.GET("/:identifier", h.Resolve)
	products.GET("/:identifier/:productSlug", h.GetInCategory)
	products.POST("", h.Create)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)
	r.GET("/api/v1/categories/:identifier/:productSlug", h.GetInCategory)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

const productID = "65f1c0e8a1b2c3d4e5f60718"

func sampleResp() *product.ProductResp {
	return &product.ProductResp{
		ID:   productID,
		Name: "Basic Tee",
		Slug: "basic-tee",
		Category: &category.CategoryResp{
			ID:   "65f1c0e8a1b2c3d4e5f60700",
			Name: "Áo Thun",
			Slug: "ao-thun",
		},
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	svc := &ProductServiceMock{}
	svc.On("List", mock.Anything).Return([]product.ProductResp{}, nil)

	w, env := do(t, setupRouter(svc), http.MethodGet, "/api/v1/products", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestResolve(t *testing.T) {
	svc := &ProductServiceMock{}
	svc.On("Resolve", mock.Anything, "basic-tee").Return(sampleResp(), nil)
	svc.On("Resolve", mock.Anything, "missing").Return(nil, product.ErrProductNotFound)
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodGet, "/api/v1/products/basic-tee", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var got product.ProductResp
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, productID, got.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "ao-thun", got.Category.Slug)

	w, env = do(t, r, http.MethodGet, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Product not found", env.Error.Message)
}

func TestGetInCategory_BothRoutes(t *testing.T) {
	svc := &ProductServiceMock{}
	svc.On("GetInCategory", mock.Anything, "ao-thun", "basic-tee").Return(sampleResp(), nil)
	svc.On("GetInCategory", mock.Anything, "quan", "basic-tee").Return(nil, category.ErrCategoryNotFound)
	r := setupRouter(svc)

	for _, prefix := range []string{"/api/v1/categories", "/api/v1/products"} {
		w, env := do(t, r, http.MethodGet, prefix+"/ao-thun/basic-tee", "")
		assert.Equal(t, http.StatusOK, w.Code, prefix)
		assert.True(t, env.Success)

		w, env = do(t, r, http.MethodGet, prefix+"/quan/basic-tee", "")
		assert.Equal(t, http.StatusNotFound, w.Code, prefix)
		require.NotNil(t, env.Error)
		assert.Equal(t, "CATEGORY_NOT_FOUND", env.Error.Code)
		assert.Equal(t, "Category not found", env.Error.Message)
	}
}

func TestCreate(t *testing.T) {
	svc := &ProductServiceMock{}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *product.CreateProductReq) bool {
		return req.Name == "Basic Tee" && req.Price != nil && req.Price.IntPart() == 199000 &&
			req.Quantity != nil && *req.Quantity == 0 && req.URLImg == "https://cdn/a.png"
	})).Return(sampleResp(), nil)
	r := setupRouter(svc)

	body := `{"name":"Basic Tee","price":199000,"quantity":0,"urlImg":"https://cdn/a.png","category":"65f1c0e8a1b2c3d4e5f60700"}`
	w, env := do(t, r, http.MethodPost, "/api/v1/products", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}

func TestCreate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", shared.NewValidationError("price", "price is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate", product.ErrDuplicateProduct, http.StatusBadRequest, "PRODUCT_DUPLICATE"},
		{"category missing", category.ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ProductServiceMock{}
			svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)

			w, env := do(t, setupRouter(svc), http.MethodPost, "/api/v1/products", `{"name":"x"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	svc := &ProductServiceMock{}

	w, env := do(t, setupRouter(svc), http.MethodPost, "/api/v1/products", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := &ProductServiceMock{}
	svc.On("Update", mock.Anything, productID, mock.MatchedBy(func(req *product.UpdateProductReq) bool {
		return req.Name == nil && req.Price != nil
	})).Return(sampleResp(), nil)
	svc.On("Update", mock.Anything, productID, mock.MatchedBy(func(req *product.UpdateProductReq) bool {
		return req.IsEmpty()
	})).Return(nil, shared.ErrNothingToUpdate)
	svc.On("Delete", mock.Anything, productID).Return(sampleResp(), nil)
	svc.On("Delete", mock.Anything, "abc").Return(nil, product.ErrProductNotFound)
	r := setupRouter(svc)

	w, _ := do(t, r, http.MethodPut, "/api/v1/products/"+productID, `{"price":"250000"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPut, "/api/v1/products/"+productID, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/products/"+productID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodDelete, "/api/v1/products/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error.Code)
}
