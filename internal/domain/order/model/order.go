package model

import (
	"encoding/json"
	"time"

	baseModel "desitasty_backend/pkg/model"
)

// Order 订单模型
// RazorpayOrderID 在创建时写入一次，之后不再变更
// Status 只允许通过 service 层的状态机前进，禁止其他代码路径直接改写
type Order struct {
	baseModel.BaseModel
	RazorpayOrderID   string          `gorm:"uniqueIndex;not null" json:"razorpayOrderId"`
	UserID            string          `gorm:"not null;index" json:"userId"`
	Amount            int64           `gorm:"not null" json:"amount"` // 最小货币单位 (paise)，不用浮点
	Currency          string          `gorm:"not null;default:'INR'" json:"currency"`
	Receipt           string          `gorm:"not null" json:"receipt"`
	Status            string          `gorm:"not null;default:'Pending'" json:"status"` // Pending, Paid
	Items             json.RawMessage `gorm:"type:jsonb;not null" json:"items"`
	Address           json.RawMessage `gorm:"type:jsonb;not null" json:"address"` // 下单时地址快照，不引用地址表
	RazorpayPaymentID *string         `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature *string         `json:"razorpaySignature,omitempty"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

const (
	OrderStatusPending = "Pending"
	OrderStatusPaid    = "Paid"
)

// 关注的回调事件类型
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// WebhookEvent 一次入站回调通知
// 不作为实体入库，RawPayload 保留网关发来的原始字节，验签基于它计算
type WebhookEvent struct {
	EventID           string // X-Razorpay-Event-Id，可能为空
	EventType         string
	RazorpayOrderID   string
	RazorpayPaymentID string
	Signature         string // X-Razorpay-Signature
	RawPayload        []byte
}

// webhookBody Razorpay 回调报文结构（只取用到的字段）
type webhookBody struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookEvent 从原始报文解析回调事件
// 只解析、不校验签名；RawPayload 保持原样以便验签
func ParseWebhookEvent(raw []byte, eventID, sig string) (WebhookEvent, error) {
	var body webhookBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return WebhookEvent{}, err
	}

	return WebhookEvent{
		EventID:           eventID,
		EventType:         body.Event,
		RazorpayOrderID:   body.Payload.Payment.Entity.OrderID,
		RazorpayPaymentID: body.Payload.Payment.Entity.ID,
		Signature:         sig,
		RawPayload:        raw,
	}, nil
}
