package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/shared/response"
)

// ErrorHandler là generic handler cho lỗi handler không tự phân loại
// (đã push vào c.Errors). Log chi tiết, trả 500 với message chung.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", c.GetString("request_id")).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("Unhandled error")
		}

		if c.Writer.Written() {
			return
		}
		response.InternalServerError(c, "Internal server error")
	}
}
