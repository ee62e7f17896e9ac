// Package billing wraps the payment processor's subscription and refund
// primitives used when a supplier is rejected.
package billing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// RefundReason is the reason attached to a refund.
type RefundReason string

const RefundRequestedByCustomer RefundReason = RefundReason(stripe.RefundReasonRequestedByCustomer)

// Subscription is a recurring plan attached to a billing customer.
type Subscription struct {
	ID     string
	Status string
}

// Payment is one charge attempt against a billing customer.
type Payment struct {
	ID       string
	Status   string
	Amount   int64
	Currency string
}

// Refundable reports whether the payment captured money that can be returned.
func (p Payment) Refundable() bool {
	return p.Status == string(stripe.PaymentIntentStatusSucceeded) && p.Amount > 0
}

// StripeGateway is the Stripe-backed billing gateway.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway using the given secret key. Each request
// is bounded by timeout and never retried, so a call cannot outlive the
// account lock held around it.
func NewStripeGateway(secretKey string, timeout time.Duration) *StripeGateway {
	return newStripeGateway(secretKey, "", timeout)
}

// newStripeGateway points the gateway at baseURL when it is set.
func newStripeGateway(secretKey, baseURL string, timeout time.Duration) *StripeGateway {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	api := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	return &StripeGateway{api: client.New(secretKey, &stripe.Backends{
		API:     api,
		Connect: stripe.GetBackend(stripe.ConnectBackend),
		Uploads: stripe.GetBackend(stripe.UploadsBackend),
	})}
}

// ListActiveSubscriptions returns at most limit active subscriptions.
func (g *StripeGateway) ListActiveSubscriptions(ctx context.Context, customerID string, limit int64) ([]Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Limit = stripe.Int64(limit)
	params.Single = true
	params.Context = ctx

	var out []Subscription
	iter := g.api.Subscriptions.List(params)
	for int64(len(out)) < limit && iter.Next() {
		s := iter.Subscription()
		out = append(out, Subscription{ID: s.ID, Status: string(s.Status)})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions for %s: %w", customerID, err)
	}
	return out, nil
}

// CancelSubscription cancels a subscription immediately.
func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := g.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// ListRecentPayments returns at most limit payments, newest first.
func (g *StripeGateway) ListRecentPayments(ctx context.Context, customerID string, limit int64) ([]Payment, error) {
	params := &stripe.PaymentIntentListParams{
		Customer: stripe.String(customerID),
	}
	params.Limit = stripe.Int64(limit)
	params.Single = true
	params.Context = ctx

	var out []Payment
	iter := g.api.PaymentIntents.List(params)
	for int64(len(out)) < limit && iter.Next() {
		out = append(out, paymentFromIntent(iter.PaymentIntent()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list payments for %s: %w", customerID, err)
	}
	return out, nil
}

// RefundPayment issues a full refund of the payment.
func (g *StripeGateway) RefundPayment(ctx context.Context, paymentID string, reason RefundReason) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
		Reason:        stripe.String(string(reason)),
	}
	params.Context = ctx
	if _, err := g.api.Refunds.New(params); err != nil {
		return fmt.Errorf("refund payment %s: %w", paymentID, err)
	}
	return nil
}

func paymentFromIntent(pi *stripe.PaymentIntent) Payment {
	if pi == nil {
		return Payment{}
	}
	return Payment{
		ID:       pi.ID,
		Status:   string(pi.Status),
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
	}
}
