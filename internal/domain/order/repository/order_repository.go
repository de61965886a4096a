package repository

import (
	"errors"
	"time"

	"desitasty_backend/internal/domain/order/model"

	"gorm.io/gorm"
)

// 仓库层哨兵错误，service/handler 据此映射 HTTP 状态码
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("duplicate razorpay order id")
)

type OrderRepository interface {
	// WithTx 返回绑定到事务的仓库，用于和状态机组合
	WithTx(tx *gorm.DB) OrderRepository

	Create(order *model.Order) error
	GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error)

	// MarkPaid 条件更新：只有 Pending 的订单会被置为 Paid
	// 返回受影响行数，0 表示并发投递中已有一次成功落库
	MarkPaid(razorpayOrderID, paymentID, signature string, paidAt time.Time) (int64, error)

	ListByUser(userID string) ([]model.Order, error)
	ListAll(offset, limit int) ([]model.Order, int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(order *model.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		// razorpay_order_id 唯一约束冲突说明网关订单被重复落库，属调用方 bug，不静默合并
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrder
		}
		return err
	}
	return nil
}

func (r *orderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("razorpay_order_id = ?", razorpayOrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) MarkPaid(razorpayOrderID, paymentID, signature string, paidAt time.Time) (int64, error) {
	res := r.db.Model(&model.Order{}).
		Where("razorpay_order_id = ? AND status = ?", razorpayOrderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":              model.OrderStatusPaid,
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  signature,
			"paid_at":             paidAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *orderRepository) ListByUser(userID string) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListAll(offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
