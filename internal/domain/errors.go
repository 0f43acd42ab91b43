package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")

	// ErrCartEmpty means the caller has no active cart or it has no lines.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrAddressRequired means neither an address id nor a new address was supplied.
	ErrAddressRequired = errors.New("shipping address required")

	// ErrAddressNotFound means the address id does not exist or belongs to another user.
	ErrAddressNotFound = errors.New("address not found")

	// ErrCouponInvalid covers unknown, inactive, and out-of-window coupon codes.
	ErrCouponInvalid = errors.New("invalid or expired coupon")

	// ErrCouponExhausted means the coupon's global usage limit is spent.
	ErrCouponExhausted = errors.New("coupon usage limit reached")

	// ErrShippingMethodNotFound means an explicitly requested method does not exist.
	ErrShippingMethodNotFound = errors.New("shipping method not found")

	// ErrConflict signals a lost race on a conditional update (stock or coupon
	// counter). The checkout workflow revalidates and retries the commit once.
	ErrConflict = errors.New("concurrent update conflict")
)

// FieldErrors reports input validation failures field by field.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidQuantityError means a cart line's effective quantity is not positive.
type InvalidQuantityError struct {
	LineID   string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for cart line %s", e.Quantity, e.LineID)
}

// InsufficientStockError carries requested vs available for user-facing messages.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// InvalidAttributeSelectionError names the offending product/attribute/value.
type InvalidAttributeSelectionError struct {
	ProductID   string
	ProductName string
	AttributeID string
	ValueID     string
	Reason      string
}

func (e *InvalidAttributeSelectionError) Error() string {
	return fmt.Sprintf("invalid attribute selection for %q (attribute=%s value=%s): %s",
		e.ProductName, e.AttributeID, e.ValueID, e.Reason)
}

// NoAttributesDefinedError means selections were supplied for a product that has
// no attribute mappings at all.
type NoAttributesDefinedError struct {
	ProductID   string
	ProductName string
}

func (e *NoAttributesDefinedError) Error() string {
	return fmt.Sprintf("product %q has no attributes defined", e.ProductName)
}
