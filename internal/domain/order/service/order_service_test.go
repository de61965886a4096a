package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"desitasty_backend/internal/domain/order/model"
	"desitasty_backend/internal/domain/order/repository"
	"desitasty_backend/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	logger.Log = zap.NewNop()
}

// MockOrderRepository is a mock of repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) WithTx(tx *gorm.DB) repository.OrderRepository {
	return m
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByRazorpayOrderID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(razorpayOrderID, paymentID, signature string, paidAt time.Time) (int64, error) {
	args := m.Called(razorpayOrderID, paymentID, signature, paidAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string) ([]model.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

// MockGateway is a mock of gateway.PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(amount int64, currency, receipt string) (string, error) {
	args := m.Called(amount, currency, receipt)
	return args.String(0), args.Error(1)
}

// MockVerifier is a mock of signature.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(rawPayload []byte, providedSignature string) bool {
	args := m.Called(rawPayload, providedSignature)
	return args.Bool(0)
}

// MockDeduper is a mock of EventDeduper
type MockDeduper struct {
	mock.Mock
}

func (m *MockDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeduper) Mark(ctx context.Context, eventID string) {
	m.Called(ctx, eventID)
}

// chanMailer 把发送动作写入 channel，便于等待异步邮件
type chanMailer struct {
	sent chan string
}

func (m *chanMailer) SendOrderConfirmation(to string, orderNo string, amount int64, currency string) error {
	m.sent <- to
	return nil
}

// newTestDB 基于 sqlmock 构造 gorm.DB，只断言事务边界，语句由仓库 mock 接管
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mockDB, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)

	return db, mockDB
}

func pendingOrder(razorpayOrderID string) *model.Order {
	return &model.Order{
		RazorpayOrderID: razorpayOrderID,
		UserID:          "uid-1",
		Amount:          50000,
		Currency:        "INR",
		Receipt:         "R100",
		Status:          model.OrderStatusPending,
		Items:           json.RawMessage(`[]`),
		Address:         json.RawMessage(`{"email":"buyer@example.com"}`),
	}
}

func capturedEvent(orderID, paymentID, eventID string) model.WebhookEvent {
	return model.WebhookEvent{
		EventID:           eventID,
		EventType:         model.EventPaymentCaptured,
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		Signature:         "sig",
		RawPayload:        []byte(`{"event":"payment.captured"}`),
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("Creates pending order with gateway id", func(t *testing.T) {
		repo := new(MockOrderRepository)
		gw := new(MockGateway)
		svc := NewOrderService(nil, repo, gw, nil, nil, nil)

		gw.On("CreateOrder", int64(50000), "INR", "R100").Return("order_abc123", nil)
		repo.On("Create", mock.MatchedBy(func(o *model.Order) bool {
			return o.RazorpayOrderID == "order_abc123" &&
				o.Status == model.OrderStatusPending &&
				o.Amount == 50000
		})).Return(nil)

		order, err := svc.CreateOrder(CreateOrderInput{
			UserID:  "uid-1",
			Amount:  50000,
			Receipt: "R100",
			Items:   json.RawMessage(`[]`),
			Address: json.RawMessage(`{}`),
		})

		assert.NoError(t, err)
		assert.Equal(t, "order_abc123", order.RazorpayOrderID)
		assert.Equal(t, "INR", order.Currency) // 默认币种
		gw.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Gateway failure aborts before local insert", func(t *testing.T) {
		repo := new(MockOrderRepository)
		gw := new(MockGateway)
		svc := NewOrderService(nil, repo, gw, nil, nil, nil)

		gw.On("CreateOrder", int64(100), "INR", "R1").Return("", assert.AnError)

		_, err := svc.CreateOrder(CreateOrderInput{UserID: "u", Amount: 100, Receipt: "R1"})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Duplicate external id surfaces conflict", func(t *testing.T) {
		repo := new(MockOrderRepository)
		gw := new(MockGateway)
		svc := NewOrderService(nil, repo, gw, nil, nil, nil)

		gw.On("CreateOrder", int64(100), "INR", "R1").Return("order_dup", nil)
		repo.On("Create", mock.Anything).Return(repository.ErrDuplicateOrder)

		_, err := svc.CreateOrder(CreateOrderInput{UserID: "u", Amount: 100, Receipt: "R1"})

		assert.ErrorIs(t, err, repository.ErrDuplicateOrder)
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("First delivery marks order paid", func(t *testing.T) {
		db, mockDB := newTestDB(t)
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		deduper := new(MockDeduper)
		svc := NewOrderService(db, repo, nil, verifier, deduper, nil)

		event := capturedEvent("order_abc123", "pay_1", "evt_1")

		verifier.On("Verify", event.RawPayload, "sig").Return(true)
		deduper.On("Seen", mock.Anything, "evt_1").Return(false, nil)
		mockDB.ExpectBegin()
		repo.On("GetByRazorpayOrderID", "order_abc123").Return(pendingOrder("order_abc123"), nil)
		repo.On("MarkPaid", "order_abc123", "pay_1", "sig", mock.AnythingOfType("time.Time")).Return(int64(1), nil)
		mockDB.ExpectCommit()
		deduper.On("Mark", mock.Anything, "evt_1").Return()

		err := svc.RecordPayment(context.Background(), event)

		assert.NoError(t, err)
		assert.NoError(t, mockDB.ExpectationsWereMet())
		repo.AssertExpectations(t)
		deduper.AssertExpectations(t)
	})

	t.Run("Redelivery after paid is an idempotent no-op", func(t *testing.T) {
		db, mockDB := newTestDB(t)
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		svc := NewOrderService(db, repo, nil, verifier, nil, nil)

		event := capturedEvent("order_abc123", "pay_1", "")

		paid := pendingOrder("order_abc123")
		paid.Status = model.OrderStatusPaid

		verifier.On("Verify", event.RawPayload, "sig").Return(true)
		mockDB.ExpectBegin()
		repo.On("GetByRazorpayOrderID", "order_abc123").Return(paid, nil)
		mockDB.ExpectCommit()

		err := svc.RecordPayment(context.Background(), event)

		assert.NoError(t, err)
		// 已支付订单不再触发条件更新，支付凭据不被覆盖
		repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Signature rejection performs zero writes", func(t *testing.T) {
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		svc := NewOrderService(nil, repo, nil, verifier, nil, nil)

		event := capturedEvent("order_abc123", "pay_1", "evt_1")
		verifier.On("Verify", event.RawPayload, "sig").Return(false)

		err := svc.RecordPayment(context.Background(), event)

		assert.ErrorIs(t, err, ErrInvalidSignature)
		repo.AssertNotCalled(t, "GetByRazorpayOrderID", mock.Anything)
		repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown order fails with not found and no writes", func(t *testing.T) {
		db, mockDB := newTestDB(t)
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		deduper := new(MockDeduper)
		svc := NewOrderService(db, repo, nil, verifier, deduper, nil)

		event := capturedEvent("order_unknown", "pay_1", "evt_2")

		verifier.On("Verify", event.RawPayload, "sig").Return(true)
		deduper.On("Seen", mock.Anything, "evt_2").Return(false, nil)
		mockDB.ExpectBegin()
		repo.On("GetByRazorpayOrderID", "order_unknown").Return(nil, repository.ErrOrderNotFound)
		mockDB.ExpectRollback()

		err := svc.RecordPayment(context.Background(), event)

		assert.ErrorIs(t, err, repository.ErrOrderNotFound)
		repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		// 处理失败不写去重标记，网关重投能重新进入处理流程
		deduper.AssertNotCalled(t, "Mark", mock.Anything, mock.Anything)
	})

	t.Run("Losing the conditional update race still succeeds", func(t *testing.T) {
		db, mockDB := newTestDB(t)
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		svc := NewOrderService(db, repo, nil, verifier, nil, nil)

		event := capturedEvent("order_abc123", "pay_1", "")

		verifier.On("Verify", event.RawPayload, "sig").Return(true)
		mockDB.ExpectBegin()
		repo.On("GetByRazorpayOrderID", "order_abc123").Return(pendingOrder("order_abc123"), nil)
		// 并发投递中另一条先提交，条件更新命中 0 行
		repo.On("MarkPaid", "order_abc123", "pay_1", "sig", mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockDB.ExpectCommit()

		err := svc.RecordPayment(context.Background(), event)

		assert.NoError(t, err)
	})

	t.Run("Duplicate event id short-circuits before the store", func(t *testing.T) {
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		deduper := new(MockDeduper)
		svc := NewOrderService(nil, repo, nil, verifier, deduper, nil)

		event := capturedEvent("order_abc123", "pay_1", "evt_replay")

		verifier.On("Verify", event.RawPayload, "sig").Return(true)
		deduper.On("Seen", mock.Anything, "evt_replay").Return(true, nil)

		err := svc.RecordPayment(context.Background(), event)

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByRazorpayOrderID", mock.Anything)
	})

	t.Run("Crash before commit leaves no dedup mark", func(t *testing.T) {
		db, mockDB := newTestDB(t)
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		deduper := new(MockDeduper)
		svc := NewOrderService(db, repo, nil, verifier, deduper, nil)

		event := capturedEvent("order_abc123", "pay_1", "evt_crash")

		// 第一次投递在事务内崩溃
		verifier.On("Verify", event.RawPayload, "sig").Return(true)
		deduper.On("Seen", mock.Anything, "evt_crash").Return(false, nil)
		mockDB.ExpectBegin()
		repo.On("GetByRazorpayOrderID", "order_abc123").Return(pendingOrder("order_abc123"), nil).Once()
		repo.On("MarkPaid", "order_abc123", "pay_1", "sig", mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) { panic("connection lost") }).Return(int64(0), nil).Once()
		mockDB.ExpectRollback()

		assert.Panics(t, func() {
			_ = svc.RecordPayment(context.Background(), event)
		})
		// 崩溃后去重标记不存在，重投不会被吞掉
		deduper.AssertNotCalled(t, "Mark", mock.Anything, mock.Anything)

		// 重投必须重新走到条件更新并成功落库
		mockDB.ExpectBegin()
		repo.On("GetByRazorpayOrderID", "order_abc123").Return(pendingOrder("order_abc123"), nil).Once()
		repo.On("MarkPaid", "order_abc123", "pay_1", "sig", mock.AnythingOfType("time.Time")).Return(int64(1), nil).Once()
		mockDB.ExpectCommit()
		deduper.On("Mark", mock.Anything, "evt_crash").Return()

		err := svc.RecordPayment(context.Background(), event)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		deduper.AssertExpectations(t)
	})

	t.Run("Payment failed event leaves order pending", func(t *testing.T) {
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		svc := NewOrderService(nil, repo, nil, verifier, nil, nil)

		event := capturedEvent("order_abc123", "pay_1", "")
		event.EventType = model.EventPaymentFailed

		verifier.On("Verify", event.RawPayload, "sig").Return(true)

		err := svc.RecordPayment(context.Background(), event)

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByRazorpayOrderID", mock.Anything)
		repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Confirmation email dispatched after commit", func(t *testing.T) {
		db, mockDB := newTestDB(t)
		repo := new(MockOrderRepository)
		verifier := new(MockVerifier)
		m := &chanMailer{sent: make(chan string, 1)}
		svc := NewOrderService(db, repo, nil, verifier, nil, m)

		event := capturedEvent("order_abc123", "pay_1", "")

		verifier.On("Verify", event.RawPayload, "sig").Return(true)
		mockDB.ExpectBegin()
		repo.On("GetByRazorpayOrderID", "order_abc123").Return(pendingOrder("order_abc123"), nil)
		repo.On("MarkPaid", "order_abc123", "pay_1", "sig", mock.AnythingOfType("time.Time")).Return(int64(1), nil)
		mockDB.ExpectCommit()

		err := svc.RecordPayment(context.Background(), event)
		assert.NoError(t, err)

		select {
		case to := <-m.sent:
			assert.Equal(t, "buyer@example.com", to)
		case <-time.After(time.Second):
			t.Fatal("confirmation email was not dispatched")
		}

		// 邮件复用事务里加载的订单快照，不在响应路径上二次查库
		repo.AssertNumberOfCalls(t, "GetByRazorpayOrderID", 1)
	})
}
