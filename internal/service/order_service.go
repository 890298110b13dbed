package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	appErrors "github.com/savannahlabs/orders-backend/internal/errors"
	"github.com/savannahlabs/orders-backend/internal/model"
	"github.com/savannahlabs/orders-backend/internal/queue"
	"github.com/savannahlabs/orders-backend/internal/repository"
)

// numeric(10,2) ceiling: 8 integer digits.
var maxAmount = decimal.New(1, 8)

type OrderService struct {
	OrderRepo repository.OrderRepositoryInterface
	Queue     queue.Queue
	Log       *logrus.Logger
}

// OrderInput carries the writable order fields. CustomerCode is write-only
// and only consumed at creation.
type OrderInput struct {
	CustomerCode *string
	Item         *string
	Amount       *decimal.Decimal
	Status       *string
}

func validateAmount(d decimal.Decimal, ve *appErrors.ValidationError) {
	if !d.Round(2).Equal(d) {
		ve.Add("amount", "Ensure that there are no more than 2 decimal places.")
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		ve.Add("amount", "Ensure that there are no more than 10 digits in total.")
	}
}

// Create validates the input, resolves the customer code and persists the
// order in one transaction, then enqueues exactly one notification job.
// Enqueue failures are logged and swallowed; the created order stands.
func (s *OrderService) Create(in OrderInput) (*model.Order, error) {
	ve := &appErrors.ValidationError{}

	if in.CustomerCode == nil || *in.CustomerCode == "" {
		ve.Add("customer_code", "This field is required.")
	}
	if in.Item == nil || *in.Item == "" {
		ve.Add("item", "This field is required.")
	}
	if in.Amount == nil {
		ve.Add("amount", "This field is required.")
	} else {
		validateAmount(*in.Amount, ve)
	}

	status := model.OrderStatusPending
	if in.Status != nil && *in.Status != "" {
		status = model.OrderStatus(*in.Status)
		if !status.Valid() {
			ve.Add("status", "\""+*in.Status+"\" is not a valid choice.")
		}
	}

	if !ve.Empty() {
		return nil, ve
	}

	o := &model.Order{
		ID:     uuid.New(),
		Item:   *in.Item,
		Amount: *in.Amount,
		Status: status,
	}

	if err := s.OrderRepo.CreateWithCustomerCode(o, *in.CustomerCode); err != nil {
		return nil, err
	}

	s.dispatchNotification(o.ID)
	return o, nil
}

func (s *OrderService) dispatchNotification(id uuid.UUID) {
	if err := s.Queue.Publish(queue.OrderNotifications, id.String()); err != nil {
		s.Log.Errorf("error dispatching notification for order %s: %v", id, err)
	}
}

func (s *OrderService) Get(id uuid.UUID) (*model.Order, error) {
	return s.OrderRepo.GetByID(id)
}

// List fetches orders with pagination
func (s *OrderService) List(page, pageSize int) ([]model.Order, map[string]int, error) {
	page, pageSize = clampPage(page, pageSize)
	offset := (page - 1) * pageSize

	orders, total, err := s.OrderRepo.List(offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	return orders, paginationBlock(page, pageSize, total), nil
}

// Update mutates item/amount/status. The customer reference is immutable and
// no notification is dispatched for updates.
func (s *OrderService) Update(id uuid.UUID, in OrderInput, partial bool) (*model.Order, error) {
	o, err := s.OrderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	ve := &appErrors.ValidationError{}
	if !partial {
		if in.Item == nil {
			ve.Add("item", "This field is required.")
		}
		if in.Amount == nil {
			ve.Add("amount", "This field is required.")
		}
	}

	if in.Item != nil {
		if *in.Item == "" {
			ve.Add("item", "This field may not be blank.")
		}
		o.Item = *in.Item
	}
	if in.Amount != nil {
		validateAmount(*in.Amount, ve)
		o.Amount = *in.Amount
	}
	if in.Status != nil && *in.Status != "" {
		status := model.OrderStatus(*in.Status)
		if !status.Valid() {
			ve.Add("status", "\""+*in.Status+"\" is not a valid choice.")
		}
		o.Status = status
	}

	if !ve.Empty() {
		return nil, ve
	}

	if err := s.OrderRepo.Update(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) Delete(id uuid.UUID) error {
	return s.OrderRepo.Delete(id)
}
