package billing

import (
	"context"
	"fmt"
	"time"

	domainBilling "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/billing"
	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/invoice"
	"github.com/stripe/stripe-go/v79/refund"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/subscriptionitem"
	"go.uber.org/zap"
)

// StripeGateway implements the billing Gateway on top of the Stripe API.
type StripeGateway struct {
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway. The API key is installed
// globally by the server at startup.
func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		logger: logger,
	}
}

// CreateCheckoutSession starts a hosted checkout session.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *domainBilling.CheckoutSessionRequest) (*domainBilling.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(req.Mode)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
	}
	params.Context = ctx

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &domainBilling.CheckoutSession{
		ID:  s.ID,
		URL: s.URL,
	}, nil
}

// CreatePortalSession opens a billing portal session for the customer.
func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*domainBilling.PortalSession, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	ps, err := portalsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}

	return &domainBilling.PortalSession{
		ID:  ps.ID,
		URL: ps.URL,
	}, nil
}

// FindActiveSubscription returns the customer's single active or trialing
// subscription.
func (g *StripeGateway) FindActiveSubscription(ctx context.Context, customerID string) (*domainBilling.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.AddExpand("data.items.data.price")

	iter := subscription.List(params)

	var activeSub *stripe.Subscription
	for iter.Next() {
		sub := iter.Subscription()
		if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
			activeSub = sub
			break
		}
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error listing subscriptions: %w", err)
	}

	if activeSub == nil {
		return nil, domainErrors.ErrNoActiveSubscription
	}

	return convertSubscription(activeSub), nil
}

// ListSubscriptionItems lists the current line items of a subscription.
func (g *StripeGateway) ListSubscriptionItems(ctx context.Context, subscriptionID string) ([]*domainBilling.SubscriptionItem, error) {
	params := &stripe.SubscriptionItemListParams{
		Subscription: stripe.String(subscriptionID),
	}
	params.Context = ctx

	var items []*domainBilling.SubscriptionItem
	iter := subscriptionitem.List(params)
	for iter.Next() {
		items = append(items, convertItem(iter.SubscriptionItem()))
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error listing subscription items: %w", err)
	}

	return items, nil
}

// AddSubscriptionItem appends a quantity-1 line item to the subscription.
func (g *StripeGateway) AddSubscriptionItem(ctx context.Context, subscriptionID, priceID string) (*domainBilling.SubscriptionItem, error) {
	params := &stripe.SubscriptionItemParams{
		Subscription: stripe.String(subscriptionID),
		Price:        stripe.String(priceID),
		Quantity:     stripe.Int64(1),
	}
	params.Context = ctx

	item, err := subscriptionitem.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to add subscription item: %w", err)
	}

	g.logger.Info("Subscription item added",
		zap.String("subscription_id", subscriptionID),
		zap.String("item_id", item.ID),
		zap.String("price_id", priceID))

	return convertItem(item), nil
}

// RemoveSubscriptionItem deletes a line item.
func (g *StripeGateway) RemoveSubscriptionItem(ctx context.Context, itemID string) error {
	params := &stripe.SubscriptionItemParams{}
	params.Context = ctx

	if _, err := subscriptionitem.Del(itemID, params); err != nil {
		return fmt.Errorf("failed to remove subscription item: %w", err)
	}

	g.logger.Info("Subscription item removed", zap.String("item_id", itemID))
	return nil
}

// ListInvoices lists the customer's invoices with the given status.
func (g *StripeGateway) ListInvoices(ctx context.Context, customerID string, status domainBilling.InvoiceStatus) ([]*domainBilling.Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(status)),
	}
	params.Context = ctx

	var invoices []*domainBilling.Invoice
	iter := invoice.List(params)
	for iter.Next() {
		invoices = append(invoices, convertInvoice(iter.Invoice()))
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error listing invoices: %w", err)
	}

	return invoices, nil
}

// RefundCharge issues a full refund for a charge.
func (g *StripeGateway) RefundCharge(ctx context.Context, chargeID string) (*domainBilling.Refund, error) {
	params := &stripe.RefundParams{
		Charge: stripe.String(chargeID),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to refund charge: %w", err)
	}

	g.logger.Info("Charge refunded",
		zap.String("charge_id", chargeID),
		zap.String("refund_id", r.ID),
		zap.Int64("amount", r.Amount))

	return &domainBilling.Refund{
		ID:     r.ID,
		Amount: r.Amount,
		Status: string(r.Status),
	}, nil
}

func convertSubscription(sub *stripe.Subscription) *domainBilling.Subscription {
	out := &domainBilling.Subscription{
		ID:               sub.ID,
		Status:           string(sub.Status),
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			out.Items = append(out.Items, convertItem(item))
		}
	}
	return out
}

func convertItem(item *stripe.SubscriptionItem) *domainBilling.SubscriptionItem {
	out := &domainBilling.SubscriptionItem{
		ID:       item.ID,
		Quantity: item.Quantity,
	}
	if item.Price != nil {
		out.PriceID = item.Price.ID
	}
	return out
}

func convertInvoice(inv *stripe.Invoice) *domainBilling.Invoice {
	out := &domainBilling.Invoice{
		ID:            inv.ID,
		Status:        string(inv.Status),
		BillingReason: string(inv.BillingReason),
		AmountPaid:    inv.AmountPaid,
		AmountDue:     inv.AmountDue,
		Currency:      string(inv.Currency),
		HostedURL:     inv.HostedInvoiceURL,
		CreatedAt:     time.Unix(inv.Created, 0),
	}
	if inv.Charge != nil {
		out.ChargeID = inv.Charge.ID
	}
	return out
}
