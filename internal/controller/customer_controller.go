// internal/controller/customer_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/savannahlabs/orders-backend/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
	Log             *logrus.Logger
}

type customerBody struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	CustomerID  *string `json:"customer_id"`
	Code        *string `json:"code"`
}

func (b customerBody) input() service.CustomerInput {
	return service.CustomerInput{
		Name:        b.Name,
		PhoneNumber: b.PhoneNumber,
		Email:       b.Email,
		CustomerID:  b.CustomerID,
		Code:        b.Code,
	}
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body customerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	customer, err := c.CustomerService.Create(body.input())
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	customers, pagination, err := c.CustomerService.List(page, pageSize)
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       customers,
		"pagination": pagination,
	})
}

func customerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	customer, err := c.CustomerService.Get(id)
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	var body customerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	customer, err := c.CustomerService.Update(id, body.input(), partial)
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	c.update(w, r, false)
}

func (c *CustomerController) PatchCustomer(w http.ResponseWriter, r *http.Request) {
	c.update(w, r, true)
}

// DeleteCustomer removes the customer and, through the cascade, its orders.
func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	if err := c.CustomerService.Delete(id); err != nil {
		writeError(w, c.Log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
