package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/middleware"
	"github.com/outdoor-rental/service-rental/internal/common/response"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
)

// ProductHandler handles catalog HTTP requests.
type ProductHandler struct {
	service *application.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *application.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers public catalog reads and admin writes.
func (h *ProductHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", authMW, adminRole, h.CreateProduct)
		products.PUT("/:id", authMW, adminRole, h.UpdateProduct)
		products.DELETE("/:id", authMW, adminRole, h.DeleteProduct)
	}
}

// ListProducts handles GET /api/products.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := productDomain.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	var err error
	if filter.MinPrice, err = parsePriceQuery(c, "min_price"); err != nil {
		response.BadRequest(c, "invalid min_price")
		return
	}
	if filter.MaxPrice, err = parsePriceQuery(c, "max_price"); err != nil {
		response.BadRequest(c, "invalid max_price")
		return
	}

	result, err := h.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetProduct handles GET /api/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	result, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateProduct handles POST /api/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req application.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateProduct handles PUT /api/products/:id.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req application.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteProduct handles DELETE /api/products/:id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "product deleted")
}

func parsePriceQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
