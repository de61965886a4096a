package middleware

import (
	"net/http"

	"desitasty_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes 请求体大小上限 (10KB)
// 下单请求里 items/address 都是小 JSON，超出即视为异常流量
const MaxBodyBytes = 10 << 10

// BodyLimitMiddleware 限制请求体大小
// Razorpay 回调豁免，报文大小由网关决定，截断会导致验签失败
func BodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/webhook" {
			c.Next()
			return
		}

		if c.Request.ContentLength > MaxBodyBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.ErrInvalidParam, "Request body too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
		c.Next()
	}
}
