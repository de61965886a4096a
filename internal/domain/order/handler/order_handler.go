package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"desitasty_backend/internal/domain/order/model"
	"desitasty_backend/internal/domain/order/repository"
	"desitasty_backend/internal/domain/order/service"
	"desitasty_backend/pkg/response"
	"desitasty_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// webhookTimeout 回调处理的总时限
// 连接池耗尽时 database/sql 靠这个 deadline 结束排队，超时映射为 503 让网关重投
const webhookTimeout = 5 * time.Second

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	UserID   string          `json:"user_id" binding:"required"`
	Amount   int64           `json:"amount" binding:"required,gt=0"` // paise
	Currency string          `json:"currency"`
	Receipt  string          `json:"receipt" binding:"required"`
	Items    json.RawMessage `json:"items" binding:"required"`
	Address  json.RawMessage `json:"address" binding:"required"`
}

// CreateOrder 创建订单
// @Summary 创建订单（网关下单 + 本地 Pending 记录）
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CreateOrderInput true "Order Info"
// @Success 200 {object} response.Response
// @Router /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CreateOrder(service.CreateOrderInput{
		UserID:   input.UserID,
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
		Items:    input.Items,
		Address:  input.Address,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			response.Error(c, http.StatusConflict, response.ErrOrderDuplicate, "Order already exists")
			return
		}
		// 不把网关/数据库原始错误透给客户端
		response.Error(c, http.StatusInternalServerError, response.ErrGatewayFailed, "Failed to create order")
		return
	}

	response.Success(c, gin.H{
		"order_id":          order.ID,
		"razorpay_order_id": order.RazorpayOrderID,
		"amount":            order.Amount,
		"currency":          order.Currency,
		"status":            order.Status,
	})
}

// Webhook Razorpay 支付回调
// 签名基于原始字节计算，必须先 GetRawData 再解析，不能走 JSON 绑定
// @Summary Razorpay 支付回调
// @Tags Order
// @Router /api/webhook [post]
func (h *OrderHandler) Webhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Empty webhook body")
		return
	}

	event, err := model.ParseWebhookEvent(raw,
		c.GetHeader("X-Razorpay-Event-Id"),
		c.GetHeader("X-Razorpay-Signature"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Malformed webhook payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), webhookTimeout)
	defer cancel()

	if err := h.service.RecordPayment(ctx, event); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			// 终态拒绝，网关不应重投
			response.Error(c, http.StatusBadRequest, response.ErrSignatureInvalid, "Signature verification failed")
		case errors.Is(err, service.ErrMalformedEvent):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Webhook payload missing order reference")
		case errors.Is(err, repository.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Referenced order not found")
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			// 连接池耗尽等瞬时故障，返回 5xx 让网关按自身机制重投
			response.Error(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable, "Temporary failure, please retry")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal error")
		}
		return
	}

	// 首次落库与幂等空操作统一返回 200
	response.Success(c, gin.H{"status": "ok"})
}

// GetUserOrders 查询用户历史订单
// @Summary 用户订单列表
// @Tags Order
// @Router /get-orders/{uid} [get]
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	uid := c.Param("uid")
	orders, err := h.service.GetUserOrders(uid)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	response.Success(c, orders)
}

// ListOrders 后台订单列表（分页）
// @Summary 后台订单列表
// @Tags Order
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	offset, limit := p.GetPageOffset()
	orders, total, err := h.service.ListOrders(offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list orders")
		return
	}

	response.Success(c, utils.PageResult{
		List:  orders,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}
