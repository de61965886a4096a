package user

import (
	"desitasty_backend/internal/domain/user/handler"
	"desitasty_backend/internal/domain/user/repository"
	"desitasty_backend/internal/domain/user/service"
	"desitasty_backend/internal/pkg/middleware"
	"desitasty_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，其他模块可能依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService)

	setupRoutes(ctx.Router, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	// 客户端登录后同步用户
	r.POST("/api/auth", h.Auth)

	// 后台用户列表
	admin := r.Group("/api/getuser")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", h.ListUsers)
	}
}
