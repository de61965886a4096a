package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"desitasty_backend/internal/domain/order/gateway"
	"desitasty_backend/internal/domain/order/model"
	"desitasty_backend/internal/domain/order/repository"
	"desitasty_backend/internal/pkg/mailer"
	"desitasty_backend/internal/pkg/signature"
	"desitasty_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// service 层哨兵错误
var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrMalformedEvent   = errors.New("webhook payload missing order reference")
)

type OrderService interface {
	// CreateOrder 先在网关创建远端订单，再落本地 Pending 记录
	CreateOrder(input CreateOrderInput) (*model.Order, error)

	// RecordPayment 回调对账状态机，订单支付状态唯一的写入口
	RecordPayment(ctx context.Context, event model.WebhookEvent) error

	GetUserOrders(userID string) ([]model.Order, error)
	ListOrders(offset, limit int) ([]model.Order, int64, error)
}

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	UserID   string
	Amount   int64 // paise
	Currency string
	Receipt  string
	Items    json.RawMessage
	Address  json.RawMessage
}

type orderService struct {
	db       *gorm.DB
	repo     repository.OrderRepository
	gateway  gateway.PaymentGateway
	verifier signature.Verifier
	deduper  EventDeduper
	mailer   mailer.Mailer // 可为 nil，未配置 SMTP 时跳过邮件
}

func NewOrderService(db *gorm.DB, repo repository.OrderRepository, gw gateway.PaymentGateway,
	verifier signature.Verifier, deduper EventDeduper, m mailer.Mailer) OrderService {
	return &orderService{
		db:       db,
		repo:     repo,
		gateway:  gw,
		verifier: verifier,
		deduper:  deduper,
		mailer:   m,
	}
}

func (s *orderService) CreateOrder(input CreateOrderInput) (*model.Order, error) {
	if input.Currency == "" {
		input.Currency = "INR"
	}

	// 1. 在网关创建支付意图，拿到外部订单号
	razorpayOrderID, err := s.gateway.CreateOrder(input.Amount, input.Currency, input.Receipt)
	if err != nil {
		return nil, err
	}

	// 2. 创建本地 Pending 订单，外部订单号只在这里写入一次
	order := &model.Order{
		RazorpayOrderID: razorpayOrderID,
		UserID:          input.UserID,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Receipt:         input.Receipt,
		Status:          model.OrderStatusPending,
		Items:           input.Items,
		Address:         input.Address,
	}
	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	return order, nil
}

// RecordPayment 状态机转移规则:
//  1. 验签失败立即拒绝，不触库
//  2. 事件ID去重命中直接确认 (网关例行重投)
//  3. 事务内按外部订单号定位订单；不存在 → 404，不会从回调凭空建单
//  4. 已 Paid → 幂等空操作；否则条件更新 Pending→Paid
//     两次并发投递谁先提交谁生效，后者观察到 0 行受影响后同样返回成功
//
// 去重标记只在事务提交之后写入：提交前进程崩溃或 panic 时 Redis 里不会
// 留下标记，网关重投能重新走到条件更新，不会丢支付
func (s *orderService) RecordPayment(ctx context.Context, event model.WebhookEvent) error {
	if !s.verifier.Verify(event.RawPayload, event.Signature) {
		webhookResultTotal.WithLabelValues("rejected").Inc()
		return ErrInvalidSignature
	}

	switch event.EventType {
	case model.EventPaymentCaptured:
		// 继续走状态机
	case model.EventPaymentFailed:
		// 上游未定义失败终态，订单保持 Pending，仅记录
		logger.Log.Warn("payment failed event received",
			zap.String("razorpay_order_id", event.RazorpayOrderID),
			zap.String("razorpay_payment_id", event.RazorpayPaymentID))
		return nil
	default:
		// 未订阅的事件类型，确认但不处理
		logger.Log.Info("ignoring webhook event", zap.String("event", event.EventType))
		return nil
	}

	if event.RazorpayOrderID == "" {
		return ErrMalformedEvent
	}

	// 事件ID去重是快路径；真正的幂等保障在下面的条件更新
	if s.deduper != nil && event.EventID != "" {
		seen, err := s.deduper.Seen(ctx, event.EventID)
		if err != nil {
			// Redis 不可用时退化为仅靠条件更新，不阻断支付
			logger.Log.Warn("webhook dedup unavailable", zap.Error(err))
		} else if seen {
			webhookResultTotal.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	applied := false
	var paidOrder *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.GetByRazorpayOrderID(event.RazorpayOrderID)
		if err != nil {
			return err
		}

		if order.Status == model.OrderStatusPaid {
			// 重投的幂等空操作，已有的支付凭据不被覆盖
			return nil
		}

		rows, err := txRepo.MarkPaid(event.RazorpayOrderID, event.RazorpayPaymentID, event.Signature, time.Now())
		if err != nil {
			return err
		}
		// rows == 0: 并发投递中另一条已提交，视作成功
		applied = rows > 0
		if applied {
			paidOrder = order
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			webhookResultTotal.WithLabelValues("not_found").Inc()
			return err
		}
		webhookResultTotal.WithLabelValues("error").Inc()
		return err
	}

	// 提交成功后才写去重标记
	if s.deduper != nil && event.EventID != "" {
		s.deduper.Mark(ctx, event.EventID)
	}

	if applied {
		webhookResultTotal.WithLabelValues("applied").Inc()
		logger.Log.Info("order marked paid",
			zap.String("razorpay_order_id", event.RazorpayOrderID),
			zap.String("razorpay_payment_id", event.RazorpayPaymentID))

		// 邮件通知在事务提交后异步发送，失败只记日志，绝不回滚支付
		s.dispatchConfirmation(paidOrder)
	} else {
		webhookResultTotal.WithLabelValues("duplicate").Inc()
	}

	return nil
}

// dispatchConfirmation 发送支付成功邮件
// order 是事务里加载的快照，邮件用到的字段不会被条件更新改写
func (s *orderService) dispatchConfirmation(order *model.Order) {
	if s.mailer == nil || order == nil {
		return
	}

	email := addressEmail(order.Address)
	if email == "" {
		return
	}

	go func() {
		if err := s.mailer.SendOrderConfirmation(email, order.RazorpayOrderID, order.Amount, order.Currency); err != nil {
			logger.Log.Error("failed to send confirmation email",
				zap.String("razorpay_order_id", order.RazorpayOrderID), zap.Error(err))
		}
	}()
}

// addressEmail 从地址快照里取收件邮箱
func addressEmail(address json.RawMessage) string {
	var snapshot struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(address, &snapshot); err != nil {
		return ""
	}
	return snapshot.Email
}

func (s *orderService) GetUserOrders(userID string) ([]model.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.repo.ListByUser(userID)
}

func (s *orderService) ListOrders(offset, limit int) ([]model.Order, int64, error) {
	return s.repo.ListAll(offset, limit)
}
