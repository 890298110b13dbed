// internal/model/order.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	CustomerID int             `db:"customer_id" json:"customer"`
	Customer   *Customer       `json:"customer_details,omitempty"`
	Item       string          `db:"item" json:"item"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Status     OrderStatus     `db:"status" json:"status"`
	OrderDate  time.Time       `db:"order_date" json:"order_date"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}
