package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/altruria/farmstore/internal/domain/product"
	"github.com/altruria/farmstore/internal/domain/user"
)

// Sentinel errors for the ledger operations.
var (
	ErrMissingFields = errors.New("payment_method, shipping_address, and items are required")
	ErrNotFound      = errors.New("order not found")
	ErrForbidden     = errors.New("permission denied")
)

// ProductNotFoundError indicates a line item references a product that does
// not exist in the catalog. The whole creation is aborted.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// InvalidPaymentError indicates an unknown payment or delivery method.
type InvalidPaymentError struct {
	Field string
	Value string
}

func (e *InvalidPaymentError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// UnknownStatusError indicates a status literal outside the known set.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	valid := make([]string, len(Statuses))
	for i, s := range Statuses {
		valid[i] = string(s)
	}
	return fmt.Sprintf("invalid status %q, choose from: %s", e.Status, strings.Join(valid, ", "))
}

// InvalidTransitionError indicates a transition rejected by the strict
// state machine.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

// LineItem is one cart entry in a creation request.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest holds the input for creating an order.
type PlaceOrderRequest struct {
	PaymentMethod   PaymentMethod
	DeliveryMethod  DeliveryMethod
	ShippingAddress string
	Items           []LineItem
}

// Service encapsulates the ledger business logic: pricing, atomic creation,
// authorization, and status transitions.
type Service struct {
	products product.Repository
	orders   Repository
	strict   bool
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStrictTransitions makes UpdateStatus enforce the forward state
// machine instead of accepting any known status literal.
func WithStrictTransitions() Option {
	return func(s *Service) { s.strict = true }
}

// WithClock overrides the time source used for order ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an order Service with the required dependencies.
func NewService(products product.Repository, orders Repository, opts ...Option) *Service {
	s := &Service{
		products: products,
		orders:   orders,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the cart, snapshots current catalog prices into line
// items, computes the total, and persists the order with all items in one
// atomic unit. Nothing is written until every line item has validated.
func (s *Service) PlaceOrder(ctx context.Context, actor user.Identity, req PlaceOrderRequest) (*Order, error) {
	if req.PaymentMethod == "" || req.ShippingAddress == "" || len(req.Items) == 0 {
		return nil, ErrMissingFields
	}
	if !req.PaymentMethod.Valid() {
		return nil, &InvalidPaymentError{Field: "payment_method", Value: string(req.PaymentMethod)}
	}
	if req.DeliveryMethod == "" {
		req.DeliveryMethod = DeliveryDeliver
	}
	if !req.DeliveryMethod.Valid() {
		return nil, &InvalidPaymentError{Field: "delivery_method", Value: string(req.DeliveryMethod)}
	}

	// Resolve every line item against the catalog before anything persists.
	total := decimal.Zero
	items := make([]Item, 0, len(req.Items))
	for _, li := range req.Items {
		p, err := s.products.GetByID(ctx, li.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: li.ProductID}
			}
			return nil, errors.Wrapf(err, "get product %s", li.ProductID)
		}
		if li.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: li.ProductID}
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))

		pid := p.ID
		items = append(items, Item{
			ProductID: &pid,
			Product: &ItemProduct{
				ID:       p.ID,
				Name:     p.Name,
				Category: string(p.Category),
			},
			Quantity: li.Quantity,
			Price:    p.Price,
		})
	}

	o := &Order{
		ID:              NewID(s.now()),
		UserID:          actor.UserID,
		Total:           total,
		PaymentMethod:   req.PaymentMethod,
		DeliveryMethod:  req.DeliveryMethod,
		Status:          StatusPending,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}

	err := s.orders.Create(ctx, o)
	if errors.Is(err, ErrIDConflict) {
		// Same-day random suffix collision. Regenerate once and retry.
		o.ID = NewID(s.now())
		err = s.orders.Create(ctx, o)
	}
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// GetOrder fetches a single order. Existence is confirmed before the
// owner-or-admin check, so a missing order reports ErrNotFound even to
// callers who would not have been authorized.
func (s *Service) GetOrder(ctx context.Context, actor user.Identity, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(o.UserID) {
		return nil, ErrForbidden
	}
	return o, nil
}

// ListUserOrders returns userID's orders, newest first. Owner-or-admin.
func (s *Service) ListUserOrders(ctx context.Context, actor user.Identity, userID string) ([]Order, error) {
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}
	return s.orders.ListByUser(ctx, userID)
}

// ListOwnOrders returns the acting user's orders, newest first. No
// cross-user check is needed by construction.
func (s *Service) ListOwnOrders(ctx context.Context, actor user.Identity) ([]Order, error) {
	return s.orders.ListByUser(ctx, actor.UserID)
}

// UpdateStatus sets an order's status. Admin capability is required and is
// checked before the order is loaded; the rule is role-based, not
// ownership-based. By default any known status literal is accepted
// regardless of the current state; with WithStrictTransitions only forward
// transitions (plus cancellation of non-terminal orders) are allowed.
func (s *Service) UpdateStatus(ctx context.Context, actor user.Identity, orderID string, status Status) (*Order, error) {
	if !actor.Admin() {
		return nil, ErrForbidden
	}
	if !status.Valid() {
		return nil, &UnknownStatusError{Status: status}
	}

	if s.strict {
		current, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !CanTransition(current.Status, status) {
			return nil, &InvalidTransitionError{From: current.Status, To: status}
		}
	}

	return s.orders.UpdateStatus(ctx, orderID, status)
}
