package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"desitasty_backend/internal/pkg/config"
	"desitasty_backend/internal/pkg/middleware"
	"desitasty_backend/internal/pkg/registry"
	"desitasty_backend/pkg/database"
	"desitasty_backend/pkg/logger"

	// 触发各模块 init() 自注册
	_ "desitasty_backend/internal/domain/address"
	_ "desitasty_backend/internal/domain/admin"
	_ "desitasty_backend/internal/domain/feedback"
	_ "desitasty_backend/internal/domain/order"
	_ "desitasty_backend/internal/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. 配置与日志
	config.LoadConfig()
	logger.Init(config.GlobalConfig.App.Env)
	defer logger.Sync()

	// 2. 基础设施：连接池在进程启动时显式构造，统一注入各模块
	db := database.InitDatabase()
	rdb := database.InitRedis()

	// 3. HTTP 引擎
	if config.GlobalConfig.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.BodyLimitMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	// 健康检查：验证数据库连通性
	r.GET("/health", func(c *gin.Context) {
		var now time.Time
		if err := db.WithContext(c.Request.Context()).Raw("SELECT NOW()").Scan(&now).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "unhealthy",
				"error":  "Database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"serverTime": now,
			"database":   "connected",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 4. 初始化业务模块
	moduleCtx := &registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Router: r,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	// 5. 启动与优雅退出
	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server started", zap.String("port", config.GlobalConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
	}

	// 收尾释放连接池
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()

	logger.Log.Info("server exited")
}
