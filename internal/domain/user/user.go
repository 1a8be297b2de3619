// Package user holds the account entity and the identity passed into
// every authorization-sensitive operation.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registration collides with an existing email.
var ErrEmailTaken = errors.New("email already registered")

// User is a storefront account. IsAdmin is a capability flag, not a role
// hierarchy: privileged operations check it through Identity.Admin().
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsAdmin      bool
	Mobile       string
	Address      string
	CreatedAt    time.Time
}

// Identity is the authenticated caller of an operation. It is always passed
// explicitly; nothing reads the current user from ambient state.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// Admin reports whether the identity carries the admin capability.
func (id Identity) Admin() bool {
	return id.IsAdmin
}

// Owns reports whether the identity owns the resource belonging to userID.
func (id Identity) Owns(userID string) bool {
	return id.UserID == userID
}

// CanAccess implements the owner-or-admin rule: access is granted to the
// owning user or to any admin-capable caller.
func (id Identity) CanAccess(ownerID string) bool {
	return id.Owns(ownerID) || id.Admin()
}

// UpdateProfile holds the mutable profile fields for partial updates.
// Nil pointers leave the stored value untouched.
type UpdateProfile struct {
	Username  *string
	FirstName *string
	LastName  *string
	Mobile    *string
	Address   *string
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, p UpdateProfile) (*User, error)
}
