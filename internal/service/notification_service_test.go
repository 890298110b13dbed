package service_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savannahlabs/orders-backend/internal/model"
	"github.com/savannahlabs/orders-backend/internal/service"
)

// mockSMS records sends and returns a configured outcome.
type mockSMS struct {
	phone   string
	message string
	calls   int
	sent    bool
	err     error
}

func (m *mockSMS) Send(phoneNumber, message string) (bool, error) {
	m.calls++
	m.phone = phoneNumber
	m.message = message
	return m.sent, m.err
}

func seededOrder(repo *mockOrderRepo) *model.Order {
	o := &model.Order{
		ID:     uuid.New(),
		Item:   "Laptop",
		Amount: decimal.RequireFromString("100000.00"),
		Status: model.OrderStatusPending,
	}
	if err := repo.CreateWithCustomerCode(o, testCustomer.Code); err != nil {
		panic(err)
	}
	return o
}

func TestSendOrderNotification(t *testing.T) {
	repo := &mockOrderRepo{}
	order := seededOrder(repo)
	gateway := &mockSMS{sent: true}

	svc := &service.NotificationService{OrderRepo: repo, SMS: gateway, Log: testLogger()}

	ok := svc.SendOrderNotification(order.ID.String())
	require.True(t, ok)

	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, testCustomer.PhoneNumber, gateway.phone)
	assert.Contains(t, gateway.message, testCustomer.Name)
	assert.Contains(t, gateway.message, "Laptop")
	assert.Contains(t, gateway.message, order.ID.String())
}

func TestSendOrderNotificationMissingOrder(t *testing.T) {
	gateway := &mockSMS{sent: true}
	svc := &service.NotificationService{OrderRepo: &mockOrderRepo{}, SMS: gateway, Log: testLogger()}

	ok := svc.SendOrderNotification(uuid.NewString())
	assert.False(t, ok)
	assert.Equal(t, 0, gateway.calls, "no SMS should be attempted for a missing order")
}

func TestSendOrderNotificationInvalidID(t *testing.T) {
	gateway := &mockSMS{sent: true}
	svc := &service.NotificationService{OrderRepo: &mockOrderRepo{}, SMS: gateway, Log: testLogger()}

	ok := svc.SendOrderNotification("not-a-uuid")
	assert.False(t, ok)
	assert.Equal(t, 0, gateway.calls)
}

func TestSendOrderNotificationGatewayError(t *testing.T) {
	repo := &mockOrderRepo{}
	order := seededOrder(repo)
	gateway := &mockSMS{err: fmt.Errorf("connection refused")}

	svc := &service.NotificationService{OrderRepo: repo, SMS: gateway, Log: testLogger()}

	ok := svc.SendOrderNotification(order.ID.String())
	assert.False(t, ok, "gateway errors are swallowed and reported as a failed job")
}

func TestSendOrderNotificationRejectedSend(t *testing.T) {
	repo := &mockOrderRepo{}
	order := seededOrder(repo)
	gateway := &mockSMS{sent: false}

	svc := &service.NotificationService{OrderRepo: repo, SMS: gateway, Log: testLogger()}

	ok := svc.SendOrderNotification(order.ID.String())
	assert.False(t, ok)
}
