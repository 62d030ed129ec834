package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/middleware"
	"github.com/outdoor-rental/service-rental/internal/common/response"
)

// BlogHandler handles blog HTTP requests.
type BlogHandler struct {
	service *application.BlogService
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(service *application.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// RegisterRoutes registers blog routes.
func (h *BlogHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	blog := r.Group("/blog")
	{
		blog.GET("", h.ListPosts)
		blog.GET("/:id", h.GetPost)
		blog.POST("", authMW, middleware.RequireRole(auth.RoleAdmin), h.CreatePost)
	}
}

// ListPosts handles GET /api/blog.
func (h *BlogHandler) ListPosts(c *gin.Context) {
	result, err := h.service.ListPosts(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetPost handles GET /api/blog/:id.
func (h *BlogHandler) GetPost(c *gin.Context) {
	result, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreatePost handles POST /api/blog.
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req application.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePost(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
