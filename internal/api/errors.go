package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an API error
type Error struct {
	Status  int
	Message string
}

// NewError creates a new API error
func NewError(status int, message string) *Error {
	return &Error{
		Status:  status,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// notFound terminates the request with a 404 response
func notFound(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"error": what + " not found",
	})
}

// validationFailed re-renders the form as field-level errors; nothing
// was persisted.
func validationFailed(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"errors": fields,
	})
}

// serverError terminates the request with a 500 response
func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": "internal server error",
	})
}
