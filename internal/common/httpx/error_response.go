package httpx

import (
	"net/http"

	"github.com/TanakaMizukii/photoproject/internal/common"

	"github.com/gin-gonic/gin"
)

// WriteServiceError writes a standardized JSON error response for service-layer errors.
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	if serviceErr, ok := common.AsServiceError(err); ok {
		body := gin.H{"error": serviceErr.Message}
		if len(serviceErr.Fields) > 0 {
			body["fields"] = serviceErr.Fields
		}
		c.JSON(StatusFor(serviceErr.Code), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMessage})
}

// StatusFor maps a service error code to its HTTP status.
func StatusFor(code common.ErrorCode) int {
	switch code {
	case common.ErrorCodeValidation:
		return http.StatusBadRequest
	case common.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case common.ErrorCodeForbidden:
		return http.StatusForbidden
	case common.ErrorCodeConflict:
		return http.StatusConflict
	case common.ErrorCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
