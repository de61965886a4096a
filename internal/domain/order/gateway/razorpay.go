package gateway

import (
	"errors"
	"fmt"

	"desitasty_backend/internal/pkg/config"

	razorpay "github.com/razorpay/razorpay-go"
)

// PaymentGateway 支付网关客户端
// 本服务只依赖它返回一个稳定的外部订单号，后续以该号关联回调
type PaymentGateway interface {
	CreateOrder(amount int64, currency, receipt string) (string, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway 创建 Razorpay 网关客户端
func NewRazorpayGateway() (PaymentGateway, error) {
	cfg := config.GlobalConfig.Razorpay
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay config missing")
	}

	return &razorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
	}, nil
}

func (g *razorpayGateway) CreateOrder(amount int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount, // paise
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", errors.New("razorpay response missing order id")
	}
	return id, nil
}
