package address

import (
	"desitasty_backend/internal/domain/address/handler"
	"desitasty_backend/internal/domain/address/repository"
	"desitasty_backend/internal/domain/address/service"
	userRepo "desitasty_backend/internal/domain/user/repository"
	"desitasty_backend/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AddressModule 地址模块
type AddressModule struct{}

func init() {
	registry.Register(&AddressModule{})
}

func (m *AddressModule) Name() string {
	return "address"
}

func (m *AddressModule) Priority() int {
	return 10
}

func (m *AddressModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewAddressRepository(ctx.DB)
	uRepo := userRepo.NewUserRepository(ctx.DB)
	svc := service.NewAddressService(repo, uRepo)
	h := handler.NewAddressHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AddressHandler) {
	r.POST("/api/address", h.Submit)
	r.GET("/get-address/:uid", h.GetByUID)
}
