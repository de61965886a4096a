package feedback

import (
	"desitasty_backend/internal/domain/feedback/handler"
	"desitasty_backend/internal/domain/feedback/repository"
	"desitasty_backend/internal/pkg/middleware"
	"desitasty_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// FeedbackModule 反馈模块
type FeedbackModule struct{}

func init() {
	registry.Register(&FeedbackModule{})
}

func (m *FeedbackModule) Name() string {
	return "feedback"
}

func (m *FeedbackModule) Priority() int {
	return 30
}

func (m *FeedbackModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewFeedbackRepository(ctx.DB)
	h := handler.NewFeedbackHandler(repo)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.FeedbackHandler) {
	g := r.Group("/api/feedback")
	{
		g.POST("", h.Create)
		// 列表仅后台可见
		g.GET("", middleware.AuthMiddleware(), middleware.AdminMiddleware(), h.List)
	}
}
