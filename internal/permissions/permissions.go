// Package permissions holds the access rules for every endpoint. Each rule is a
// pure function of the caller (nil for anonymous requests) and, where ownership
// matters, the target resource.
package permissions

import (
	"errors"

	"github.com/monocle-dev/house/internal/models"
)

// Sentinel errors returned by Check and CheckOwner.
var (
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
)

// Caller is the identity resolved from a bearer token for a single request.
type Caller struct {
	ID       uint
	Username string
	Email    string
	Role     models.Role
}

// Ownable is implemented by resources that belong to a user.
type Ownable interface {
	GetOwnerID() uint
}

// Predicate decides whether a caller may proceed.
type Predicate func(c *Caller) bool

func IsAuthenticated(c *Caller) bool {
	return c != nil && c.ID != 0
}

// HasRole reports whether the caller is authenticated with one of the given roles.
func HasRole(c *Caller, roles ...models.Role) bool {
	if !IsAuthenticated(c) {
		return false
	}
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

func IsAdmin(c *Caller) bool {
	return HasRole(c, models.RoleAdmin)
}

// IsOwnerOrAdmin reports whether the caller is an admin or the user identified by ownerID.
func IsOwnerOrAdmin(c *Caller, ownerID uint) bool {
	if !IsAuthenticated(c) {
		return false
	}
	return c.Role == models.RoleAdmin || c.ID == ownerID
}

// RoleIn builds a predicate from a role set.
func RoleIn(roles ...models.Role) Predicate {
	return func(c *Caller) bool { return HasRole(c, roles...) }
}

// Any combines predicates with logical OR.
func Any(preds ...Predicate) Predicate {
	return func(c *Caller) bool {
		for _, p := range preds {
			if p(c) {
				return true
			}
		}
		return false
	}
}

var (
	Authenticated     Predicate = IsAuthenticated
	Admin             Predicate = IsAdmin
	CanCreateProperty           = Any(RoleIn(models.RoleSeller), Admin)
	CanWriteReview              = RoleIn(models.RoleBuyer)
	CanListUsers                = Admin
	CanManageTaxonomy           = Admin
)

// Check evaluates pred and distinguishes anonymous callers from authenticated ones
// that lack the required role.
func Check(c *Caller, pred Predicate) error {
	if pred(c) {
		return nil
	}
	if !IsAuthenticated(c) {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

// CheckOwner applies the owner-or-admin rule to a loaded resource.
func CheckOwner(c *Caller, resource Ownable) error {
	if !IsAuthenticated(c) {
		return ErrUnauthenticated
	}
	if !IsOwnerOrAdmin(c, resource.GetOwnerID()) {
		return ErrForbidden
	}
	return nil
}
