package services

import (
	"errors"
	"fmt"

	"storefront/internal/domain"
)

var (
	ErrStockExceeded      = errors.New("requested quantity exceeds available stock")
	ErrProductMissing     = errors.New("product no longer available")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotConfirmed       = errors.New("order not confirmed")
	ErrPaymentNotStarted  = errors.New("checkout has not reached payment entry")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrSubmissionFailed   = errors.New("order submission failed")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrBadAdminCode       = errors.New("invalid admin code")
)

// StockError names the cart line that failed a stock check.
type StockError struct {
	ProductID domain.ProductID
	Name      string
	Requested int
	Available int
	Missing   bool
}

func (e *StockError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s is no longer available", e.label())
	}
	return fmt.Sprintf("not enough stock for %s (requested %d, available %d)", e.label(), e.Requested, e.Available)
}

func (e *StockError) label() string {
	if e.Name != "" {
		return e.Name
	}
	return string(e.ProductID)
}

func (e *StockError) Is(target error) bool {
	return target == ErrStockExceeded || (e.Missing && target == ErrProductMissing)
}

// SubmissionError reports a failure part-way through posting orders. Lines in
// Completed were already posted and their stock decremented; nothing is rolled back.
type SubmissionError struct {
	Completed []domain.ProductID
	Failed    domain.ProductID
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed at %s after %d line(s): %v", e.Failed, len(e.Completed), e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmissionFailed }

// ValidationError carries per-field messages for a rejected product form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product: %d field(s) failed validation", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidProduct }
