package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceHeader 请求链路追踪ID头，前端或网关可以透传
const TraceHeader = "X-Trace-ID"

// TraceMiddleware 为每个请求生成或透传追踪ID
// LoggerMiddleware 的日志行和 response.Error 的 traceId 字段都从 context 取这里写入的值
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		// 写入 context 供下游读取，同时回写响应头便于客户端反馈问题
		c.Set("traceID", traceID)
		c.Header(TraceHeader, traceID)

		c.Next()
	}
}
