package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	customers  repo.CustomerRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Customers() repo.CustomerRepository   { return r.customers }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByCode(ctx context.Context, code string) (model.Order, error) {
	args := m.Called(ctx, code)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Update(ctx context.Context, orderID int64, p repo.OrderPatch) error {
	args := m.Called(ctx, orderID, p)
	return args.Error(0)
}

func (m *OrderRepoMock) ApplyStatus(ctx context.Context, orderID int64, u repo.StatusUpdate) error {
	args := m.Called(ctx, orderID, u)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FindByPhone(ctx context.Context, phone string) (model.Customer, error) {
	args := m.Called(ctx, phone)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) Create(ctx context.Context, customer *model.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *CustomerRepoMock) UpdateContact(ctx context.Context, customerID int64, name string, address string) error {
	args := m.Called(ctx, customerID, name, address)
	return args.Error(0)
}

type AdminRepoMock struct{ mock.Mock }

func (m *AdminRepoMock) FindByID(ctx context.Context, adminID int64) (model.Admin, error) {
	args := m.Called(ctx, adminID)
	a, _ := args.Get(0).(model.Admin)
	return a, args.Error(1)
}

func (m *AdminRepoMock) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(model.Admin)
	return a, args.Error(1)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) Create(ctx context.Context, session *model.AdminSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionRepoMock) FindByToken(ctx context.Context, token string) (model.AdminSession, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(model.AdminSession)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Extend(ctx context.Context, token string, until time.Time) error {
	args := m.Called(ctx, token, until)
	return args.Error(0)
}

func (m *SessionRepoMock) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// =====================
// AuditSink mock
// =====================

type AuditSinkMock struct{ mock.Mock }

func (m *AuditSinkMock) Record(e model.AuditLog) {
	m.Called(e)
}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
