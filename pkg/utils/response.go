package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MessageInvalidQuery  = "Invalid query parameters."
	MessageInternalError = "Internal server error."
)

// DataResponse wraps a payload as {"data": ...}
func DataResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// ErrorResponse sends {"message": ...}
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"message": message,
	})
}

// ValidationErrorResponse sends a 400 listing every rejected query parameter
func ValidationErrorResponse(c *gin.Context, errs []string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": MessageInvalidQuery,
		"errors":  errs,
	})
}

// InternalErrorResponse hides storage failures behind a generic 500
func InternalErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, MessageInternalError)
}

// AbortWithError sends {"message": ...} and stops the handler chain
func AbortWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"message": message,
	})
}
