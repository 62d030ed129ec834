package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/middleware"
	"github.com/outdoor-rental/service-rental/internal/common/response"
)

// AuthHandler handles account HTTP requests.
type AuthHandler struct {
	service *application.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers account routes. limiter guards register and login.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, authMW, limiter gin.HandlerFunc) {
	accounts := r.Group("/auth")
	{
		accounts.POST("/register", limiter, h.Register)
		accounts.POST("/login", limiter, h.Login)
		accounts.GET("/me", authMW, h.Me)
		accounts.PUT("/identity", authMW, h.UploadIdentity)
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UploadIdentity handles PUT /api/auth/identity.
func (h *AuthHandler) UploadIdentity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.IdentityDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UploadIdentityDocument(c.Request.Context(), userID, req.DocumentBase64); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "identity document uploaded")
}
