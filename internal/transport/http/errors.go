package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-portal-service/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges writes that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

var statusByKind = map[domain.Kind]int{
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindConflict:     http.StatusConflict,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindInternal:     http.StatusInternalServerError,
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind domain.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError serializes err. Unclassified errors are logged and hidden behind a generic message.
func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(statusFor(kind), ErrorResponse{Error: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(statusFor(kind), ErrorResponse{Error: err.Error()})
}

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}
