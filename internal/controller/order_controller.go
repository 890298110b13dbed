// internal/controller/order_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/savannahlabs/orders-backend/internal/service"
)

type OrderController struct {
	OrderService *service.OrderService
	Log          *logrus.Logger
}

type orderBody struct {
	CustomerCode *string          `json:"customer_code"`
	Item         *string          `json:"item"`
	Amount       *decimal.Decimal `json:"amount"`
	Status       *string          `json:"status"`
}

func (b orderBody) input() service.OrderInput {
	return service.OrderInput{
		CustomerCode: b.CustomerCode,
		Item:         b.Item,
		Amount:       b.Amount,
		Status:       b.Status,
	}
}

// CreateOrder persists the order and returns 201. The SMS notification is
// dispatched fire-and-forget inside the service; its outcome never reaches
// this response.
func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body orderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	order, err := c.OrderService.Create(body.input())
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	orders, pagination, err := c.OrderService.List(page, pageSize)
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       orders,
		"pagination": pagination,
	})
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return uuid.Nil, false
	}
	return id, true
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := c.OrderService.Get(id)
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (c *OrderController) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var body orderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	order, err := c.OrderService.Update(id, body.input(), partial)
	if err != nil {
		writeError(w, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (c *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	c.update(w, r, false)
}

func (c *OrderController) PatchOrder(w http.ResponseWriter, r *http.Request) {
	c.update(w, r, true)
}

func (c *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := c.OrderService.Delete(id); err != nil {
		writeError(w, c.Log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
