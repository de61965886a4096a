package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"desitasty_backend/internal/domain/order/model"
	"desitasty_backend/internal/domain/order/repository"
	"desitasty_backend/internal/domain/order/service"
	"desitasty_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

// MockOrderService is a mock of service.OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(input service.CreateOrderInput) (*model.Order, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) RecordPayment(ctx context.Context, event model.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOrderService) GetUserOrders(userID string) ([]model.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func setupWebhookRouter(svc service.OrderService) *gin.Engine {
	r := gin.New()
	h := NewOrderHandler(svc)
	r.POST("/api/webhook", h.Webhook)
	r.POST("/api/orders", h.CreateOrder)
	return r
}

func postWebhook(r *gin.Engine, body []byte, signature, eventID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	if eventID != "" {
		req.Header.Set("X-Razorpay-Event-Id", eventID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var webhookBody = []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_abc123"}}}}`)

func TestWebhook(t *testing.T) {
	t.Run("Processed event returns 200", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("RecordPayment", mock.Anything, mock.MatchedBy(func(e model.WebhookEvent) bool {
			return e.RazorpayOrderID == "order_abc123" &&
				e.RazorpayPaymentID == "pay_1" &&
				e.EventID == "evt_1" &&
				e.Signature == "sig" &&
				bytes.Equal(e.RawPayload, webhookBody)
		})).Return(nil)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "sig", "evt_1")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid signature returns 400", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(service.ErrInvalidSignature)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "bad-sig", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown order returns 404", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(repository.ErrOrderNotFound)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "sig", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing order reference returns 400", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(service.ErrMalformedEvent)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "sig", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Store timeout returns 503", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(context.DeadlineExceeded)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "sig", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Cancelled request returns 503", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(context.Canceled)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "sig", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Service context carries a deadline", func(t *testing.T) {
		svc := new(MockOrderService)
		// 连接池排队靠这个 deadline 结束，没有它 503 分支永远走不到
		svc.On("RecordPayment", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), mock.Anything).Return(nil)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "sig", "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unexpected failure returns 500", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(assert.AnError)

		w := postWebhook(setupWebhookRouter(svc), webhookBody, "sig", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Empty body returns 400 without touching the service", func(t *testing.T) {
		svc := new(MockOrderService)

		w := postWebhook(setupWebhookRouter(svc), nil, "sig", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything)
	})

	t.Run("Non-JSON body returns 400", func(t *testing.T) {
		svc := new(MockOrderService)

		w := postWebhook(setupWebhookRouter(svc), []byte("not-json"), "sig", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything)
	})
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("Valid input returns order", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("CreateOrder", mock.Anything).Return(&model.Order{
			RazorpayOrderID: "order_abc123",
			Amount:          50000,
			Currency:        "INR",
			Status:          model.OrderStatusPending,
		}, nil)

		body := []byte(`{"user_id":"uid-1","amount":50000,"receipt":"R100","items":[],"address":{}}`)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		setupWebhookRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "order_abc123")
	})

	t.Run("Zero amount rejected by binding", func(t *testing.T) {
		svc := new(MockOrderService)

		body := []byte(`{"user_id":"uid-1","amount":0,"receipt":"R100","items":[],"address":{}}`)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		setupWebhookRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateOrder", mock.Anything)
	})

	t.Run("Duplicate gateway order returns 409", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("CreateOrder", mock.Anything).Return(nil, repository.ErrDuplicateOrder)

		body := []byte(`{"user_id":"uid-1","amount":50000,"receipt":"R100","items":[],"address":{}}`)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		setupWebhookRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
