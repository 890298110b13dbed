package repository

import (
	"database/sql"

	"github.com/google/uuid"

	appErrors "github.com/savannahlabs/orders-backend/internal/errors"
	"github.com/savannahlabs/orders-backend/internal/model"
)

// OrderRepositoryInterface defines methods used by services
type OrderRepositoryInterface interface {
	CreateWithCustomerCode(o *model.Order, customerCode string) error
	GetByID(id uuid.UUID) (*model.Order, error)
	List(offset, limit int) ([]model.Order, int, error)
	Update(o *model.Order) error
	Delete(id uuid.UUID) error
}

type OrderRepository struct {
	DB *sql.DB
}

// CreateWithCustomerCode resolves the customer by code and inserts the order
// in a single transaction. An unknown code rolls back and nothing persists.
func (r *OrderRepository) CreateWithCustomerCode(o *model.Order, customerCode string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var c model.Customer
	err = tx.QueryRow(`
		SELECT id, name, phone_number, email, customer_id, code, created_at, updated_at
		FROM customers
		WHERE code = $1
	`, customerCode).Scan(
		&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.CustomerID, &c.Code,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewValidationError("customer_code", "Customer code does not exist")
		}
		return err
	}

	o.CustomerID = c.ID
	err = tx.QueryRow(`
		INSERT INTO orders (id, customer_id, item, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING order_date, created_at, updated_at
	`, o.ID, o.CustomerID, o.Item, o.Amount, o.Status).
		Scan(&o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	o.Customer = &c
	return tx.Commit()
}

const orderSelect = `
	SELECT o.id, o.customer_id, o.item, o.amount, o.status, o.order_date,
		   o.created_at, o.updated_at,
		   c.id, c.name, c.phone_number, c.email, c.customer_id, c.code,
		   c.created_at, c.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var c model.Customer
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Item, &o.Amount, &o.Status, &o.OrderDate,
		&o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.CustomerID, &c.Code,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Customer = &c
	return &o, nil
}

func (r *OrderRepository) GetByID(id uuid.UUID) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewOrderNotFound(id.String())
		}
		return nil, err
	}
	return o, nil
}

// List fetches a page of orders, newest first, plus the total count.
func (r *OrderRepository) List(offset, limit int) ([]model.Order, int, error) {
	rows, err := r.DB.Query(orderSelect+` ORDER BY o.order_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Update writes the mutable order fields. The customer reference never
// changes after creation.
func (r *OrderRepository) Update(o *model.Order) error {
	query := `
		UPDATE orders
		SET item=$1, amount=$2, status=$3, updated_at=NOW()
		WHERE id=$4
		RETURNING updated_at
	`
	err := r.DB.QueryRow(query, o.Item, o.Amount, o.Status, o.ID).Scan(&o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewOrderNotFound(o.ID.String())
		}
		return err
	}
	return nil
}

func (r *OrderRepository) Delete(id uuid.UUID) error {
	res, err := r.DB.Exec(`DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewOrderNotFound(id.String())
	}
	return nil
}

var _ OrderRepositoryInterface = (*OrderRepository)(nil)
