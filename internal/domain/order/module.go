package order

import (
	"desitasty_backend/internal/domain/order/gateway"
	"desitasty_backend/internal/domain/order/handler"
	"desitasty_backend/internal/domain/order/repository"
	"desitasty_backend/internal/domain/order/service"
	"desitasty_backend/internal/pkg/config"
	"desitasty_backend/internal/pkg/mailer"
	"desitasty_backend/internal/pkg/middleware"
	"desitasty_backend/internal/pkg/registry"
	"desitasty_backend/internal/pkg/signature"
	"desitasty_backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单/支付对账模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 订单模块依赖用户模块，优先级较低
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	repo := repository.NewOrderRepository(ctx.DB)
	verifier := signature.NewHMACVerifier(config.GlobalConfig.Razorpay.WebhookSecret)
	deduper := service.NewRedisDeduper(ctx.Redis)

	gw, err := gateway.NewRazorpayGateway()
	if err != nil {
		return err
	}

	// 邮件通知可选，未配置 SMTP 时支付流程照常
	var mailSvc mailer.Mailer
	if smtp, err := mailer.NewSMTPMailer(); err != nil {
		logger.Log.Warn("email notifications disabled: " + err.Error())
	} else {
		mailSvc = smtp
	}

	svc := service.NewOrderService(ctx.DB, repo, gw, verifier, deduper, mailSvc)
	h := handler.NewOrderHandler(svc)

	// 2. 路由注册
	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	api := r.Group("/api")
	{
		api.POST("/orders", h.CreateOrder)
		// 回调无需鉴权，靠 HMAC 验签；限流和请求体上限都对该路径豁免
		api.POST("/webhook", h.Webhook)
	}

	r.GET("/get-orders/:uid", h.GetUserOrders)

	// 后台接口
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/orders", h.ListOrders)
	}
}
