package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/i18n"
	"shorturl-go/response"
)

// GlobalErrorMiddleware maps AppErrors collected on the context to their HTTP
// status and the JSON envelope. Messages that look like i18n ids are
// localized through the request localizer.
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				var appErr *apperrors.AppError
				if errors.As(err.Err, &appErr) {
					c.AbortWithStatusJSON(appErr.Code, response.Error(localize(c, appErr.Message)))
					return
				}
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("System error"))
			return
		}
	}
}

func localize(c *gin.Context, message string) string {
	if !strings.HasPrefix(message, "error.") {
		return message
	}
	return i18n.Localize(c.Request.Context(), message)
}
