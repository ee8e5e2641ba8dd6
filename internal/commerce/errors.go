// Package commerce defines the domain error taxonomy shared by the
// storefront and admin surfaces. Every failure carries a machine-readable
// code and an HTTP status so handlers can translate uniformly.
package commerce

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeWrongUserType     = "WRONG_USER_TYPE"
	CodeWrongTenant       = "WRONG_TENANT"
	CodeInsufficientRole  = "INSUFFICIENT_ROLE"
	CodeTenantNotFound    = "TENANT_NOT_FOUND"
	CodeTenantSuspended   = "TENANT_SUSPENDED"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeCartEmpty         = "CART_EMPTY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeImmutableOrder    = "IMMUTABLE_ORDER"
	CodeAmountMismatch    = "AMOUNT_MISMATCH"
	CodeProviderFailure   = "PROVIDER_FAILURE"
	CodeStorageError      = "STORAGE_ERROR"
)

type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code string, status int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Status: status, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(msg string) *Error {
	return newError(CodeUnauthenticated, http.StatusUnauthorized, "%s", msg)
}

func WrongUserType(got, want string) *Error {
	return newError(CodeWrongUserType, http.StatusForbidden, "user type %s cannot perform a %s operation", got, want)
}

func WrongTenant(slug string) *Error {
	return newError(CodeWrongTenant, http.StatusForbidden, "caller is not bound to tenant %s", slug)
}

func InsufficientRole(have, need string) *Error {
	return newError(CodeInsufficientRole, http.StatusForbidden, "role %s is below required role %s", have, need)
}

func TenantNotFound(slug string) *Error {
	return newError(CodeTenantNotFound, http.StatusNotFound, "tenant %s not found", slug)
}

func TenantSuspended(slug string) *Error {
	return newError(CodeTenantSuspended, http.StatusForbidden, "tenant %s is suspended", slug)
}

func ProductNotFound(id string) *Error {
	return newError(CodeProductNotFound, http.StatusBadRequest, "product %s not found or not purchasable", id)
}

func OrderNotFound(id string) *Error {
	return newError(CodeOrderNotFound, http.StatusNotFound, "order %s not found", id)
}

func NotFound(resource string) *Error {
	return newError(CodeNotFound, http.StatusNotFound, "%s not found", resource)
}

func Validation(format string, args ...interface{}) *Error {
	return newError(CodeValidation, http.StatusBadRequest, format, args...)
}

func CartEmpty() *Error {
	return newError(CodeCartEmpty, http.StatusBadRequest, "cart has no items")
}

// InsufficientStock names the offending product so the caller can
// re-render an accurate cart.
func InsufficientStock(productID string, requested int) *Error {
	return newError(CodeInsufficientStock, http.StatusBadRequest,
		"insufficient stock for product %s (requested %d)", productID, requested)
}

func ImmutableOrder(status string) *Error {
	return newError(CodeImmutableOrder, http.StatusBadRequest, "order in terminal status %s cannot be modified", status)
}

func AmountMismatch(expected, got float64) *Error {
	return newError(CodeAmountMismatch, http.StatusBadRequest,
		"payment amount %.2f does not match order total %.2f", got, expected)
}

func ProviderFailure(provider string, err error) *Error {
	return newError(CodeProviderFailure, http.StatusBadGateway, "payment provider %s failed: %v", provider, err)
}

func Storage(err error) *Error {
	return newError(CodeStorageError, http.StatusInternalServerError, "storage error: %v", err)
}

// CodeOf extracts the domain code from an error chain, or STORAGE_ERROR
// for untyped errors.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeStorageError
}

// StatusOf maps an error chain to an HTTP status.
func StatusOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Status
	}
	return http.StatusInternalServerError
}
