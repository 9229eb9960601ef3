package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	productdomain "github.com/openshelf/stockroom/internal/product/domain"
	"gorm.io/gorm"
)

type errorResponse struct {
	Error string `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

// ErrorHandlingMiddleware maps errors attached to the gin context onto the
// API's flat {"error": message} payload. Validation failures are 400, unknown
// ids are 404, everything else is 500.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, productdomain.ErrInvalidName):
		return http.StatusBadRequest, "name is required"
	case errors.Is(err, productdomain.ErrInvalidStock):
		return http.StatusBadRequest, "stock must be a non-negative integer"
	case errors.Is(err, productdomain.ErrInvalidID):
		return http.StatusBadRequest, "invalid product id"
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "product not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
