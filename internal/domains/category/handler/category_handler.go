package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared/response"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(svc category.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// READ: List - GET /api/v1/categories
// ════════════════════════════════════════════════════════════════

func (h *CategoryHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// READ: Resolve - GET /api/v1/categories/:identifier (id hoặc slug)
// ════════════════════════════════════════════════════════════════

func (h *CategoryHandler) Resolve(c *gin.Context) {
	resp, err := h.service.Resolve(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/v1/categories
// ════════════════════════════════════════════════════════════════

func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /api/v1/categories/:id
// ════════════════════════════════════════════════════════════════

func (h *CategoryHandler) Update(c *gin.Context) {
	var req category.UpdateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// DELETE (soft): DELETE /api/v1/categories/:id
// ════════════════════════════════════════════════════════════════

func (h *CategoryHandler) Delete(c *gin.Context) {
	resp, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// handleError: lỗi domain trả thẳng 4xx, còn lại đẩy vào c.Errors cho
// middleware.ErrorHandler trả 500
func handleError(c *gin.Context, err error) {
	status := category.GetHTTPStatusCode(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		return
	}
	response.ErrorResponse(c, status, category.GetErrorCode(err), category.GetErrorMessage(err))
}
