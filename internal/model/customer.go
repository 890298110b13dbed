// internal/model/customer.go
package model

import "time"

// Customer is a business customer. Code is the public lookup key used when
// creating orders; the numeric ID stays internal.
type Customer struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Email       string    `db:"email" json:"email"`
	CustomerID  string    `db:"customer_id" json:"customer_id"`
	Code        string    `db:"code" json:"code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
