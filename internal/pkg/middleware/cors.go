package middleware

import (
	"time"

	"desitasty_backend/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware 跨域配置
// 允许的来源从配置读取，线上只放行商城前端域名
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     config.GlobalConfig.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization", TraceHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
