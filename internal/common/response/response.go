package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
)

// ErrorBody is the error payload of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// Success writes a 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a 200 with a confirmation message.
func Message(c *gin.Context, message string) {
	Success(c, gin.H{"message": message})
}

// BadRequest writes a 400 validation failure.
func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, string(domain.KindValidation), message)
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, string(domain.KindUnauthorized), message)
}

// Error maps err onto an HTTP status. Errors outside the domain taxonomy
// become a 500 with a generic message; the cause is attached to the gin
// context so the request logger records it.
func Error(c *gin.Context, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	fail(c, StatusFor(kind), string(kind), err.Error())
}

// StatusFor returns the HTTP status for a domain error kind.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}
