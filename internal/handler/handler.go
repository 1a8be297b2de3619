// Package handler exposes the storefront API over chi. Handlers decode
// JSON, call into the domain, and map domain errors onto the structured
// error body {code, kind, message}.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/altruria/farmstore/internal/auth"
	"github.com/altruria/farmstore/internal/domain/message"
	"github.com/altruria/farmstore/internal/domain/order"
	"github.com/altruria/farmstore/internal/domain/product"
	"github.com/altruria/farmstore/internal/domain/user"
)

// Error kinds surfaced to clients. Machine-stable; messages are not.
const (
	kindValidation   = "validation"
	kindNotFound     = "not_found"
	kindForbidden    = "forbidden"
	kindUnauthorized = "unauthorized"
	kindInternal     = "internal"
)

// Handler wires the domain services to HTTP routes.
type Handler struct {
	users    user.Repository
	products product.Repository
	orders   *order.Service
	messages *message.Service
	tokens   *auth.Issuer
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	users user.Repository,
	products product.Repository,
	orders *order.Service,
	messages *message.Service,
	tokens *auth.Issuer,
) *Handler {
	return &Handler{
		users:    users,
		products: products,
		orders:   orders,
		messages: messages,
		tokens:   tokens,
	}
}

// Routes returns the API router, mounted by the app under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/register/", h.register)
	r.Post("/auth/login/", h.login)
	r.Post("/auth/refresh/", h.refresh)

	r.Get("/products/", h.listProducts)
	r.Get("/products/{product_id}/", h.getProduct)

	// Everything below requires a valid session.
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/auth/me/", h.me)
		r.Put("/auth/me/", h.updateMe)

		r.Post("/products/", h.createProduct)
		r.Put("/products/{product_id}/", h.updateProduct)
		r.Delete("/products/{product_id}/", h.deleteProduct)

		r.Post("/orders/", h.createOrder)
		r.Get("/orders/user/{user_id}/", h.listUserOrders)
		r.Get("/orders/{order_id}/", h.getOrder)
		r.Put("/orders/{order_id}/status/", h.updateOrderStatus)
		r.Get("/users/orders/", h.listOwnOrders)

		r.Post("/messages/", h.createMessage)
		r.Get("/messages/user/{user_id}/", h.listUserMessages)
		r.Get("/messages/admin/", h.listUnreadMessages)
		r.Put("/messages/admin/", h.markMessageRead)
	})

	return r
}

type errorBody struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, errorBody{Code: code, Kind: kind, Message: msg})
}

// writeDomainError maps a domain error onto the wire taxonomy. Anything
// unrecognized is an internal error: logged, not leaked.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pnf *order.ProductNotFoundError
		iq  *order.InvalidQuantityError
		ip  *order.InvalidPaymentError
		us  *order.UnknownStatusError
		it  *order.InvalidTransitionError
	)

	switch {
	case errors.As(err, &pnf):
		writeError(w, http.StatusNotFound, kindNotFound, pnf.Error())
	case errors.As(err, &iq), errors.As(err, &ip), errors.As(err, &us), errors.As(err, &it):
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())
	case errors.Is(err, order.ErrMissingFields),
		errors.Is(err, message.ErrEmptyText),
		errors.Is(err, product.ErrInvalidCategory),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, auth.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, message.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, err.Error())
	case errors.Is(err, order.ErrForbidden), errors.Is(err, message.ErrForbidden):
		writeError(w, http.StatusForbidden, kindForbidden, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, kindUnauthorized, err.Error())
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid json")
		return false
	}
	return true
}
