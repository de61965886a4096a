package handler

import (
	"errors"
	"net/http"

	"desitasty_backend/internal/domain/admin/service"
	"desitasty_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

// LoginInput 后台登录输入
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 后台登录
// @Summary 后台登录
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body LoginInput true "Credentials"
// @Success 200 {object} response.Response
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, err := h.service.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid username or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Login failed")
		return
	}

	response.Success(c, gin.H{"token": token})
}

// Dashboard 后台首页统计
// @Summary 后台首页统计
// @Tags Admin
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to load dashboard")
		return
	}

	response.Success(c, stats)
}
