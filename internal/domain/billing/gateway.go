package billing

import (
	"context"
	"time"
)

// Gateway defines the calls this service makes into the billing provider.
// The implementation is a thin request builder: no retries, no pooling, no
// batching. Each call maps to one provider REST endpoint.
type Gateway interface {
	// CreateCheckoutSession starts a hosted checkout for the given price.
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)

	// CreatePortalSession opens the provider's self-service billing portal.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error)

	// FindActiveSubscription returns the customer's single active (or
	// trialing) subscription, or ErrNoActiveSubscription.
	FindActiveSubscription(ctx context.Context, customerID string) (*Subscription, error)

	// ListSubscriptionItems returns the current line items of a subscription.
	ListSubscriptionItems(ctx context.Context, subscriptionID string) ([]*SubscriptionItem, error)

	// AddSubscriptionItem appends a quantity-1 line item to the subscription.
	AddSubscriptionItem(ctx context.Context, subscriptionID, priceID string) (*SubscriptionItem, error)

	// RemoveSubscriptionItem deletes a line item from its subscription.
	RemoveSubscriptionItem(ctx context.Context, itemID string) error

	// ListInvoices lists the customer's invoices with the given status.
	ListInvoices(ctx context.Context, customerID string, status InvoiceStatus) ([]*Invoice, error)

	// RefundCharge issues a full refund for a charge.
	RefundCharge(ctx context.Context, chargeID string) (*Refund, error)
}

// CheckoutSessionRequest carries everything needed to open a checkout.
type CheckoutSessionRequest struct {
	PriceID       string
	CustomerEmail string
	// ClientReferenceID is carried through checkout and back on the
	// completion webhook; it holds the local user id.
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	Mode              CheckoutMode
}

// CheckoutMode selects between recurring and one-off checkout.
type CheckoutMode string

const (
	CheckoutModeSubscription CheckoutMode = "subscription"
	CheckoutModePayment      CheckoutMode = "payment"
)

// CheckoutSession is the provider's hosted checkout handle.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PortalSession is the provider's hosted billing portal handle.
type PortalSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Subscription is a transient view of a provider subscription. This service
// never stores it; the provider stays authoritative.
type Subscription struct {
	ID               string              `json:"id"`
	CustomerID       string              `json:"customer_id"`
	Status           string              `json:"status"`
	CurrentPeriodEnd time.Time           `json:"current_period_end"`
	Items            []*SubscriptionItem `json:"items"`
}

// SubscriptionItem is one line item on a subscription.
type SubscriptionItem struct {
	ID       string `json:"id"`
	PriceID  string `json:"price_id"`
	Quantity int64  `json:"quantity"`
}

// InvoiceStatus filters invoice listings.
type InvoiceStatus string

const (
	InvoiceStatusOpen InvoiceStatus = "open"
	InvoiceStatusPaid InvoiceStatus = "paid"
)

// BillingReasonSubscriptionCreate marks the invoice generated by the initial
// subscription creation. The sweep's refund step must never touch it.
const BillingReasonSubscriptionCreate = "subscription_create"

// Invoice is a transient view of a provider invoice.
type Invoice struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	BillingReason string    `json:"billing_reason"`
	AmountPaid    int64     `json:"amount_paid"`
	AmountDue     int64     `json:"amount_due"`
	Currency      string    `json:"currency"`
	ChargeID      string    `json:"charge_id,omitempty"`
	HostedURL     string    `json:"hosted_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Refund is the result of a refund call.
type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}
