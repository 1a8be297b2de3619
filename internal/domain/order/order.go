// Package order is the ledger: it owns order creation, reads, and the
// status lifecycle. Prices are snapshotted from the catalog at creation
// time and never re-read, which makes an order a durable receipt.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrIDConflict is returned by Repository.Create when the generated order id
// already exists. The service regenerates the id and retries once.
var ErrIDConflict = errors.New("order id already exists")

// PaymentMethod is how the buyer intends to pay. No payment is processed;
// the choice is recorded for the seller.
type PaymentMethod string

const (
	PaymentGCash PaymentMethod = "gcash"
	PaymentBank  PaymentMethod = "bank"
	PaymentCOD   PaymentMethod = "cod"
)

// Valid reports whether the payment method is one of the known values.
func (m PaymentMethod) Valid() bool {
	return m == PaymentGCash || m == PaymentBank || m == PaymentCOD
}

// DeliveryMethod is how the buyer receives the goods.
type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryDeliver DeliveryMethod = "delivery"
)

// Valid reports whether the delivery method is one of the known values.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryPickup || m == DeliveryDeliver
}

// Order is a persisted, priced, status-tracked purchase. Total is computed
// by the service at creation and never recomputed, even when catalog prices
// later change. Orders are never deleted.
type Order struct {
	ID              string
	UserID          string
	Total           decimal.Decimal
	PaymentMethod   PaymentMethod
	DeliveryMethod  DeliveryMethod
	Status          Status
	ShippingAddress string
	Items           []Item
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Item is a single order line. ProductID is a weak reference: when the
// product is later deleted the reference becomes nil, but the snapshotted
// price and quantity survive. Product carries the current catalog row for
// display and is nil for deleted products.
type Item struct {
	ID        int64
	ProductID *string
	Product   *ItemProduct
	Quantity  int
	Price     decimal.Decimal
}

// ItemProduct is the display view of the referenced product, resolved at
// read time. Price here is the snapshot, not the current catalog price.
type ItemProduct struct {
	ID       string
	Name     string
	Category string
}

// Repository defines persistence for orders. Create must persist the order
// row and all item rows as one atomic unit; a failure partway through must
// leave no partial state.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, s Status) (*Order, error)
}
