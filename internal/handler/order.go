package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/altruria/farmstore/internal/domain/order"
)

type orderItemResponse struct {
	ID       int64            `json:"id"`
	Product  *itemProductView `json:"product"`
	Quantity int              `json:"quantity"`
	Price    float64          `json:"price"`
}

type itemProductView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	Total           float64             `json:"total"`
	PaymentMethod   string              `json:"payment_method"`
	DeliveryMethod  string              `json:"delivery_method"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ID:       it.ID,
			Quantity: it.Quantity,
			Price:    it.Price.InexactFloat64(),
		}
		if it.Product != nil {
			items[i].Product = &itemProductView{
				ID:       it.Product.ID,
				Name:     it.Product.Name,
				Category: it.Product.Category,
			}
		}
	}
	return orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Total:           o.Total.InexactFloat64(),
		PaymentMethod:   string(o.PaymentMethod),
		DeliveryMethod:  string(o.DeliveryMethod),
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

type createOrderRequest struct {
	PaymentMethod   string           `json:"payment_method"`
	DeliveryMethod  string           `json:"delivery_method"`
	ShippingAddress string           `json:"shipping_address"`
	Items           []order.LineItem `json:"items"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.orders.PlaceOrder(r.Context(), id, order.PlaceOrderRequest{
		PaymentMethod:   order.PaymentMethod(req.PaymentMethod),
		DeliveryMethod:  order.DeliveryMethod(req.DeliveryMethod),
		ShippingAddress: req.ShippingAddress,
		Items:           req.Items,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(r.Context(), id, chi.URLParam(r, "order_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

func (h *Handler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListUserOrders(r.Context(), id, chi.URLParam(r, "user_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) listOwnOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOwnOrders(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, chi.URLParam(r, "order_id"), order.Status(req.Status))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}
