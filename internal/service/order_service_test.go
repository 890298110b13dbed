package service_test

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/savannahlabs/orders-backend/internal/errors"
	"github.com/savannahlabs/orders-backend/internal/model"
	"github.com/savannahlabs/orders-backend/internal/service"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var testCustomer = model.Customer{
	ID:          1,
	Name:        "Alice Wanjiku",
	PhoneNumber: "+254722000001",
	Email:       "alice@example.com",
	CustomerID:  "EXT-0001",
	Code:        "CUST001",
}

// mockOrderRepo resolves only CUST001 and records every persisted order.
type mockOrderRepo struct {
	created []*model.Order
}

func (m *mockOrderRepo) CreateWithCustomerCode(o *model.Order, customerCode string) error {
	if customerCode != testCustomer.Code {
		return appErrors.NewValidationError("customer_code", "Customer code does not exist")
	}
	c := testCustomer
	o.CustomerID = c.ID
	o.Customer = &c
	now := time.Now()
	o.OrderDate, o.CreatedAt, o.UpdatedAt = now, now, now
	m.created = append(m.created, o)
	return nil
}

func (m *mockOrderRepo) GetByID(id uuid.UUID) (*model.Order, error) {
	for _, o := range m.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, appErrors.NewOrderNotFound(id.String())
}

func (m *mockOrderRepo) List(offset, limit int) ([]model.Order, int, error) {
	return []model.Order{}, len(m.created), nil
}

func (m *mockOrderRepo) Update(o *model.Order) error { return nil }

func (m *mockOrderRepo) Delete(id uuid.UUID) error { return nil }

// mockQueue records publishes and can be forced to fail.
type mockQueue struct {
	published []any
	fail      bool
}

func (m *mockQueue) Publish(topic string, payload any) error {
	if m.fail {
		return fmt.Errorf("broker unavailable")
	}
	m.published = append(m.published, payload)
	return nil
}

func (m *mockQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func newOrderService(repo *mockOrderRepo, q *mockQueue) *service.OrderService {
	return &service.OrderService{OrderRepo: repo, Queue: q, Log: testLogger()}
}

func TestCreateOrderResolvesCustomerAndEnqueuesOnce(t *testing.T) {
	repo := &mockOrderRepo{}
	q := &mockQueue{}
	svc := newOrderService(repo, q)

	order, err := svc.Create(service.OrderInput{
		CustomerCode: strPtr("CUST001"),
		Item:         strPtr("Laptop"),
		Amount:       amount("100000.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, testCustomer.ID, order.CustomerID)
	require.NotNil(t, order.Customer)
	assert.Equal(t, "CUST001", order.Customer.Code)
	assert.Equal(t, model.OrderStatusPending, order.Status)

	require.Len(t, repo.created, 1)
	require.Len(t, q.published, 1)
	assert.Equal(t, order.ID.String(), q.published[0])
}

func TestCreateOrderUnknownCustomerCode(t *testing.T) {
	repo := &mockOrderRepo{}
	q := &mockQueue{}
	svc := newOrderService(repo, q)

	order, err := svc.Create(service.OrderInput{
		CustomerCode: strPtr("NOPE"),
		Item:         strPtr("Laptop"),
		Amount:       amount("100.00"),
	})
	assert.Nil(t, order)

	ve, ok := appErrors.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields["customer_code"], "Customer code does not exist")

	assert.Empty(t, repo.created, "no order should persist")
	assert.Empty(t, q.published, "no notification should be enqueued")
}

func TestCreateOrderMissingFields(t *testing.T) {
	svc := newOrderService(&mockOrderRepo{}, &mockQueue{})

	_, err := svc.Create(service.OrderInput{})
	ve, ok := appErrors.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "customer_code")
	assert.Contains(t, ve.Fields, "item")
	assert.Contains(t, ve.Fields, "amount")
}

func TestCreateOrderInvalidStatus(t *testing.T) {
	svc := newOrderService(&mockOrderRepo{}, &mockQueue{})

	_, err := svc.Create(service.OrderInput{
		CustomerCode: strPtr("CUST001"),
		Item:         strPtr("Laptop"),
		Amount:       amount("100.00"),
		Status:       strPtr("shipped"),
	})
	ve, ok := appErrors.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "status")
}

func TestCreateOrderAmountValidation(t *testing.T) {
	svc := newOrderService(&mockOrderRepo{}, &mockQueue{})

	_, err := svc.Create(service.OrderInput{
		CustomerCode: strPtr("CUST001"),
		Item:         strPtr("Laptop"),
		Amount:       amount("10.999"),
	})
	ve, ok := appErrors.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "amount")

	_, err = svc.Create(service.OrderInput{
		CustomerCode: strPtr("CUST001"),
		Item:         strPtr("Laptop"),
		Amount:       amount("100000000.00"), // 9 integer digits, over numeric(10,2)
	})
	ve, ok = appErrors.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "amount")
}

func TestCreateOrderSurvivesEnqueueFailure(t *testing.T) {
	repo := &mockOrderRepo{}
	q := &mockQueue{fail: true}
	svc := newOrderService(repo, q)

	order, err := svc.Create(service.OrderInput{
		CustomerCode: strPtr("CUST001"),
		Item:         strPtr("Laptop"),
		Amount:       amount("100.00"),
	})
	require.NoError(t, err, "enqueue failure must not fail the create")
	require.NotNil(t, order)
	assert.Len(t, repo.created, 1)
}

func TestUpdateOrderDoesNotDispatch(t *testing.T) {
	repo := &mockOrderRepo{}
	q := &mockQueue{}
	svc := newOrderService(repo, q)

	order, err := svc.Create(service.OrderInput{
		CustomerCode: strPtr("CUST001"),
		Item:         strPtr("Laptop"),
		Amount:       amount("100.00"),
	})
	require.NoError(t, err)
	require.Len(t, q.published, 1)

	updated, err := svc.Update(order.ID, service.OrderInput{
		Status: strPtr("completed"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, updated.Status)
	assert.Len(t, q.published, 1, "updates must not enqueue notifications")
}
