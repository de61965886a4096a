package handler

import (
	"net/http"

	"desitasty_backend/internal/domain/user/service"
	"desitasty_backend/pkg/response"
	"desitasty_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// AuthInput 登录/注册输入
type AuthInput struct {
	UID   string `json:"uid" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// Auth 按UID查找或创建用户
// @Summary 用户登录/注册
// @Tags User
// @Accept json
// @Produce json
// @Param input body AuthInput true "User Info"
// @Success 200 {object} response.Response
// @Router /api/auth [post]
func (h *UserHandler) Auth(c *gin.Context) {
	var input AuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.GetOrCreate(input.UID, input.Phone)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "User lookup or creation failed")
		return
	}

	response.Success(c, user)
}

// ListUsers 后台用户列表
// @Summary 后台用户列表
// @Tags User
// @Router /api/getuser [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	users, total, err := h.service.GetUsers(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list users")
		return
	}

	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}
