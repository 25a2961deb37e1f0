package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared/response"
)

type ProductHandler struct {
	service product.ProductService
}

func NewProductHandler(svc product.ProductService) *ProductHandler {
	return &ProductHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// READ: List - GET /api/v1/products
// ════════════════════════════════════════════════════════════════

func (h *ProductHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// READ: Resolve - GET /api/v1/products/:identifier (id hoặc slug)
// ════════════════════════════════════════════════════════════════

func (h *ProductHandler) Resolve(c *gin.Context) {
	resp, err := h.service.Resolve(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// READ: GetInCategory - GET /api/v1/categories/:identifier/:productSlug
// ════════════════════════════════════════════════════════════════
// :identifier ở đây là slug của category

func (h *ProductHandler) GetInCategory(c *gin.Context) {
	resp, err := h.service.GetInCategory(c.Request.Context(), c.Param("identifier"), c.Param("productSlug"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/v1/products
// ════════════════════════════════════════════════════════════════

func (h *ProductHandler) Create(c *gin.Context) {
	var req product.CreateProductReq
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
// UPDATE: PUT /api/v1/products/:id
// ════════════════════════════════════════════════════════════════

func (h *ProductHandler) Update(c *gin.Context) {
	var req product.UpdateProductReq
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
// DELETE (soft): DELETE /api/v1/products/:id
// ════════════════════════════════════════════════════════════════

func (h *ProductHandler) Delete(c *gin.Context) {
	resp, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func handleError(c *gin.Context, err error) {
	status := product.GetHTTPStatusCode(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		return
	}
	response.ErrorResponse(c, status, product.GetErrorCode(err), product.GetErrorMessage(err))
}
