package errors

import "errors"

var (
	// ErrProfileNotFound indicates that no subscriber profile matched the lookup
	ErrProfileNotFound = errors.New("subscriber profile not found")

	// ErrNoCustomerReference indicates that the profile has no billing customer attached
	ErrNoCustomerReference = errors.New("profile has no billing customer reference")

	// ErrNoActiveSubscription indicates that the customer has no active subscription
	ErrNoActiveSubscription = errors.New("no active subscription found")

	// ErrAddonNotFound indicates that no line item matched the requested add-on price
	ErrAddonNotFound = errors.New("add-on not found on subscription")

	// ErrFallbackNotAllowed indicates that the sweep was invoked without a target
	// and without the explicit fallback opt-in flag
	ErrFallbackNotAllowed = errors.New("customer fallback resolution requires explicit opt-in")
)
