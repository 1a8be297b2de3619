package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/altruria/farmstore/internal/domain/product"
)

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	f := product.Filter{
		Category: product.Category(r.URL.Query().Get("category")),
		Search:   r.URL.Query().Get("q"),
	}

	products, err := h.products.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

type productRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}
	if !id.Admin() {
		writeError(w, http.StatusForbidden, kindForbidden, "admin capability required")
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "name is required")
		return
	}
	if !product.Category(req.Category).Valid() {
		writeDomainError(w, r, product.ErrInvalidCategory)
		return
	}

	p := &product.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Category:    product.Category(req.Category),
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}
	if !id.Admin() {
		writeError(w, http.StatusForbidden, kindForbidden, "admin capability required")
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !product.Category(req.Category).Valid() {
		writeDomainError(w, r, product.ErrInvalidCategory)
		return
	}

	p := &product.Product{
		ID:          chi.URLParam(r, "product_id"),
		Name:        req.Name,
		Category:    product.Category(req.Category),
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
	}
	if err := h.products.Update(r.Context(), p); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}
	if !id.Admin() {
		writeError(w, http.StatusForbidden, kindForbidden, "admin capability required")
		return
	}

	if err := h.products.Delete(r.Context(), chi.URLParam(r, "product_id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
