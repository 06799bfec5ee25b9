package handlers

import (
	"errors"

	"storefront/internal/services"
)

const (
	msgNotEnoughStock  = "Not enough stock available"
	msgExceedsStock    = "Requested quantity exceeds available stock"
	msgEmptyCart       = "Your cart is empty!"
	msgPaymentFailed   = "Payment failed. Please try again."
	msgConfirmPayment  = "Please confirm the payment to place your order."
	msgStartPayment    = "Please proceed to payment first."
	msgInProgress      = "Your order is already being placed."
	msgRequiredFields  = "Please fill all the required fields"
	msgBadAdminCode    = "Invalid admin code"
	msgDeleteFailed    = "Deleting product failed. Please try again."
	msgSaveFailed      = "Error saving product. Please try again."
	msgProductSaved    = "Product saved."
	msgProductDeleted  = "Product deleted."
	msgNoOrder         = "No order details found."
	msgItemUnavailable = "This item is no longer available"
	msgGeneric         = "Something went wrong. Please try again."
)

// checkoutMessage maps a Place failure to the text shown to the shopper.
func checkoutMessage(err error) string {
	var se *services.StockError
	switch {
	case errors.As(err, &se):
		name := se.Name
		if name == "" {
			name = string(se.ProductID)
		}
		return "Sorry, " + name + " is out of stock or quantity unavailable"
	case errors.Is(err, services.ErrEmptyCart):
		return msgEmptyCart
	case errors.Is(err, services.ErrNotConfirmed):
		return msgConfirmPayment
	case errors.Is(err, services.ErrPaymentNotStarted):
		return msgStartPayment
	case errors.Is(err, services.ErrCheckoutInProgress):
		return msgInProgress
	default:
		return msgPaymentFailed
	}
}
