package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/savannahlabs/orders-backend/internal/repository"
)

// SMSSender is the gateway client contract the dispatcher needs.
type SMSSender interface {
	Send(phoneNumber, message string) (bool, error)
}

// NotificationService runs on the worker side of the queue.
type NotificationService struct {
	OrderRepo repository.OrderRepositoryInterface
	SMS       SMSSender
	Log       *logrus.Logger
}

// SendOrderNotification re-fetches the order by id at execution time so the
// message always reflects the current persisted state, then sends the SMS.
// Every failure path logs and reports false; nothing is retried here.
func (s *NotificationService) SendOrderNotification(orderID string) bool {
	id, err := uuid.Parse(orderID)
	if err != nil {
		s.Log.Errorf("invalid order id %q: %v", orderID, err)
		return false
	}

	order, err := s.OrderRepo.GetByID(id)
	if err != nil || order == nil {
		s.Log.Errorf("order with id %s does not exist", orderID)
		return false
	}

	message := fmt.Sprintf(
		"Hello %s! Your order for %s has been received successfully. Order ID: %s",
		order.Customer.Name, order.Item, order.ID,
	)

	sent, err := s.SMS.Send(order.Customer.PhoneNumber, message)
	if err != nil {
		s.Log.Errorf("failed to send SMS for order %s: %v", order.ID, err)
		return false
	}

	s.Log.Infof("SMS notification sent for order %s: %v", order.ID, sent)
	return sent
}
