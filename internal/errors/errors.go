// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ValidationError carries field-level messages for a 400 response.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	for field, msgs := range e.Fields {
		if len(msgs) > 0 {
			return fmt.Sprintf("%s: %s", field, msgs[0])
		}
	}
	return "validation failed"
}

// Add appends a message for a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no field messages were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Helper constructor for a single-field error
func NewValidationError(field, message string) *ValidationError {
	ve := &ValidationError{}
	ve.Add(field, message)
	return ve
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrCustomerNotFound is a sentinel error
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// ErrOrderNotFound is a sentinel error
type ErrOrderNotFound struct {
	OrderID string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("order with ID %s not found", e.OrderID)
}

func NewOrderNotFound(id string) error {
	return &ErrOrderNotFound{OrderID: id}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	var c *ErrCustomerNotFound
	var o *ErrOrderNotFound
	return errors.As(err, &c) || errors.As(err, &o)
}
