package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/savannahlabs/orders-backend/internal/errors"
	"github.com/savannahlabs/orders-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by services
type CustomerRepositoryInterface interface {
	Create(c *model.Customer) error
	GetByID(id int) (*model.Customer, error)
	CodeExists(code string) (bool, error)
	List(offset, limit int) ([]model.Customer, int, error)
	Update(c *model.Customer) error
	Delete(id int) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

const uniqueViolation = "23505"

// mapUniqueViolation re-expresses a Postgres unique violation as a field
// validation error before the driver error can leak out of the repository.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "customers_code_key":
		return appErrors.NewValidationError("code", "Code already exists")
	case "customers_email_key":
		return appErrors.NewValidationError("email", "customer with this email already exists")
	case "customers_customer_id_key":
		return appErrors.NewValidationError("customer_id", "customer with this customer id already exists")
	default:
		return appErrors.NewValidationError("non_field_errors", "customer with these details already exists")
	}
}

func (r *CustomerRepository) Create(c *model.Customer) error {
	query := `
		INSERT INTO customers (name, phone_number, email, customer_id, code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(query, c.Name, c.PhoneNumber, c.Email, c.CustomerID, c.Code).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `
		SELECT id, name, phone_number, email, customer_id, code, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	var c model.Customer
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.CustomerID, &c.Code,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) CodeExists(code string) (bool, error) {
	var tmp int
	err := r.DB.QueryRow(`SELECT 1 FROM customers WHERE code = $1 LIMIT 1`, code).Scan(&tmp)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List fetches a page of customers, newest first, plus the total count.
func (r *CustomerRepository) List(offset, limit int) ([]model.Customer, int, error) {
	query := `
		SELECT id, name, phone_number, email, customer_id, code, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.CustomerID, &c.Code,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *CustomerRepository) Update(c *model.Customer) error {
	query := `
		UPDATE customers
		SET name=$1, phone_number=$2, email=$3, customer_id=$4, code=$5, updated_at=NOW()
		WHERE id=$6
		RETURNING updated_at
	`
	err := r.DB.QueryRow(query, c.Name, c.PhoneNumber, c.Email, c.CustomerID, c.Code, c.ID).
		Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewCustomerNotFound(c.ID)
		}
		return mapUniqueViolation(err)
	}
	return nil
}

// Delete removes a customer; its orders go with it via the FK cascade.
func (r *CustomerRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewCustomerNotFound(id)
	}
	return nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
