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
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type CategoryServiceMock struct{ mock.Mock }

func (m *CategoryServiceMock) List(ctx context.Context) ([]category.CategoryResp, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]category.CategoryResp)
	return list, args.Error(1)
}

func (m *CategoryServiceMock) Resolve(ctx context.Context, identifier string) (*category.CategoryResp, error) {
	args := m.Called(ctx, identifier)
	resp, _ := args.Get(0).(*category.CategoryResp)
	return resp, args.Error(1)
}

func (m *CategoryServiceMock) GetActiveByID(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*category.Category)
	return c, args.Error(1)
}

func (m *CategoryServiceMock) GetActiveBySlug(ctx context.Context, slug string) (*category.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(*category.Category)
	return c, args.Error(1)
}

func (m *CategoryServiceMock) Create(ctx context.Context, req *category.CreateCategoryReq) (*category.CategoryResp, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*category.CategoryResp)
	return resp, args.Error(1)
}

func (m *CategoryServiceMock) Update(ctx context.Context, id string, req *category.UpdateCategoryReq) (*category.CategoryResp, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*category.CategoryResp)
	return resp, args.Error(1)
}

func (m *CategoryServiceMock) Delete(ctx context.Context, id string) (*category.CategoryResp, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*category.CategoryResp)
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

const categoryID = "65f1c0e8a1b2c3d4e5f60700"

func setupRouter(svc category.CategoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(svc)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	g := r.Group("/api/v1/categories")
	g.GET("", h.List)
	g.GET("/:identifier", h.Resolve)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
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

func TestCategoryHandler_List(t *testing.T) {
	svc := &CategoryServiceMock{}
	svc.On("List", mock.Anything).Return([]category.CategoryResp{
		{ID: categoryID, Name: "Áo Thun", Slug: "ao-thun", Status: shared.StatusActive},
	}, nil)

	w, env := do(t, setupRouter(svc), http.MethodGet, "/api/v1/categories", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	var got []category.CategoryResp
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "ao-thun", got[0].Slug)
	assert.False(t, got[0].IsDeleted)
}

func TestCategoryHandler_Resolve(t *testing.T) {
	svc := &CategoryServiceMock{}
	svc.On("Resolve", mock.Anything, categoryID).Return(&category.CategoryResp{ID: categoryID, Slug: "ao-thun"}, nil)
	svc.On("Resolve", mock.Anything, "nope").Return(nil, category.ErrCategoryNotFound)
	r := setupRouter(svc)

	w, _ := do(t, r, http.MethodGet, "/api/v1/categories/"+categoryID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodGet, "/api/v1/categories/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CATEGORY_NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Category not found", env.Error.Message)
}

func TestCategoryHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"created", `{"name":"Áo Thun"}`, nil, http.StatusCreated, ""},
		{"duplicate", `{"name":"Áo Thun"}`, category.ErrDuplicateCategory, http.StatusBadRequest, "CATEGORY_DUPLICATE"},
		{"validation", `{"name":""}`, shared.NewValidationError("name", "category name is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"storage failure", `{"name":"Áo Thun"}`, errors.New("server selection timeout"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"malformed body", `not json`, nil, http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &CategoryServiceMock{}
			if tt.svcErr != nil {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			} else {
				svc.On("Create", mock.Anything, mock.Anything).
					Return(&category.CategoryResp{ID: categoryID, Name: "Áo Thun", Slug: "ao-thun"}, nil)
			}

			w, env := do(t, setupRouter(svc), http.MethodPost, "/api/v1/categories", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode == "" {
				assert.True(t, env.Success)
				return
			}
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestCategoryHandler_UpdateAndDelete(t *testing.T) {
	svc := &CategoryServiceMock{}
	svc.On("Update", mock.Anything, categoryID, mock.MatchedBy(func(req *category.UpdateCategoryReq) bool {
		return req.Name != nil && *req.Name == "Quần" && req.Slug == nil
	})).Return(&category.CategoryResp{ID: categoryID, Name: "Quần", Slug: "quan"}, nil)
	svc.On("Delete", mock.Anything, categoryID).
		Return(&category.CategoryResp{ID: categoryID, Status: shared.StatusDeleted, IsDeleted: true}, nil)
	svc.On("Delete", mock.Anything, "ao-thun").Return(nil, category.ErrCategoryNotFound)
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodPut, "/api/v1/categories/"+categoryID, `{"name":"Quần"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	var updated category.CategoryResp
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "quan", updated.Slug)

	w, env = do(t, r, http.MethodDelete, "/api/v1/categories/"+categoryID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var deleted category.CategoryResp
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.True(t, deleted.IsDeleted)

	// delete theo slug không được hỗ trợ
	w, _ = do(t, r, http.MethodDelete, "/api/v1/categories/ao-thun", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
