package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
)

var (
	ErrDuplicateEmail     = apperror.Conflict("DUPLICATE_EMAIL", "email is already registered")
	ErrDuplicatePhone     = apperror.Conflict("DUPLICATE_PHONE", "phone number is already registered")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrAccountDisabled    = apperror.New(apperror.KindUnauthorized, "ACCOUNT_DISABLED", "account is disabled")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	ErrUserNotFound       = apperror.New(apperror.KindNotFound, "USER_NOT_FOUND", "user not found")

	ErrCategoryNotFound  = apperror.New(apperror.KindNotFound, "CATEGORY_NOT_FOUND", "category not found")
	ErrProductNotFound   = apperror.New(apperror.KindNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrProductInactive   = apperror.Conflict("PRODUCT_INACTIVE", "product is not available")
	ErrInsufficientStock = apperror.New(apperror.KindInsufficientStock, "INSUFFICIENT_STOCK", "insufficient stock")
	ErrDuplicateSlug     = apperror.Conflict("DUPLICATE_SLUG", "slug is already taken")

	ErrItemNotFound      = apperror.New(apperror.KindNotFound, "ITEM_NOT_FOUND", "item not found")
	ErrEmptyCart         = apperror.New(apperror.KindValidation, "EMPTY_CART", "cart is empty")
	ErrAddressNotFound   = apperror.New(apperror.KindNotFound, "ADDRESS_NOT_FOUND", "address not found")
	ErrOrderNotFound     = apperror.New(apperror.KindNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrInvalidTransition = apperror.Conflict("INVALID_TRANSITION", "order status cannot change that way")

	ErrStorageDisabled = apperror.New(apperror.KindUnavailable, "STORAGE_DISABLED", "file uploads are not configured")
)

// insufficientStock names the product that could not be fulfilled.
func insufficientStock(name string, available int) *apperror.Error {
	return ErrInsufficientStock.WithMessage(fmt.Sprintf("insufficient stock for %s (available: %d)", name, available))
}

// notFoundAs maps repository.ErrNotFound to target and wraps anything else as
// internal.
func notFoundAs(err error, target *apperror.Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperror.Internal(err)
}

// internal wraps storage failures unless err is already classified.
func internal(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperror.Internal(err)
}

// duplicateUserField tells which unique key a users insert/update hit.
func duplicateUserField(err error) error {
	if strings.Contains(err.Error(), "phone") {
		return ErrDuplicatePhone
	}
	return ErrDuplicateEmail
}
