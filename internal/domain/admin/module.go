package admin

import (
	"desitasty_backend/internal/domain/admin/handler"
	"desitasty_backend/internal/domain/admin/repository"
	"desitasty_backend/internal/domain/admin/service"
	"desitasty_backend/internal/pkg/middleware"
	"desitasty_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AdminModule 后台模块
type AdminModule struct{}

func init() {
	registry.Register(&AdminModule{})
}

func (m *AdminModule) Name() string {
	return "admin"
}

func (m *AdminModule) Priority() int {
	// 统计依赖 order/user 的表模型，最后初始化
	return 40
}

func (m *AdminModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewAdminRepository(ctx.DB)
	svc := service.NewAdminService(repo, ctx.Redis)
	h := handler.NewAdminHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AdminHandler) {
	r.POST("/admin/login", h.Login)

	auth := r.Group("/admin")
	auth.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		auth.GET("/dashboard", h.Dashboard)
	}
}
