package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

func TestPaymentRefundable(t *testing.T) {
	tests := []struct {
		name    string
		payment Payment
		want    bool
	}{
		{name: "succeeded with amount", payment: Payment{Status: "succeeded", Amount: 500}, want: true},
		{name: "failed payment", payment: Payment{Status: "failed", Amount: 500}, want: false},
		{name: "zero amount", payment: Payment{Status: "succeeded", Amount: 0}, want: false},
		{name: "still processing", payment: Payment{Status: "processing", Amount: 500}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.payment.Refundable())
		})
	}
}

func TestPaymentFromIntent(t *testing.T) {
	got := paymentFromIntent(&stripe.PaymentIntent{
		ID:       "pi_1",
		Status:   stripe.PaymentIntentStatusSucceeded,
		Amount:   500,
		Currency: stripe.CurrencyUSD,
	})

	assert.Equal(t, Payment{ID: "pi_1", Status: "succeeded", Amount: 500, Currency: "usd"}, got)
	assert.True(t, got.Refundable())
	assert.Equal(t, Payment{}, paymentFromIntent(nil))
}

func TestRefundReasonMatchesProcessorVocabulary(t *testing.T) {
	assert.Equal(t, RefundReason("requested_by_customer"), RefundRequestedByCustomer)
}

type stripeServer struct {
	calls int32
	srv   *httptest.Server
}

// newStripeServer answers the first request with first and every later one
// with a processor error.
func newStripeServer(t *testing.T, check func(r *http.Request), first string) *stripeServer {
	t.Helper()
	s := &stripeServer{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&s.calls, 1) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"upstream unavailable"}}`))
			return
		}
		if check != nil {
			check(r)
		}
		_, _ = w.Write([]byte(first))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stripeServer) gateway() *StripeGateway {
	return newStripeGateway("sk_test_123", s.srv.URL, 5*time.Second)
}

func TestListRecentPayments_StopsAtFirstPage(t *testing.T) {
	var query string
	s := newStripeServer(t, func(r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		query = r.URL.RawQuery
	}, `{"object":"list","url":"/v1/payment_intents","has_more":true,
		"data":[{"id":"pi_1","object":"payment_intent","status":"succeeded","amount":500,"currency":"usd"}]}`)

	got, err := s.gateway().ListRecentPayments(context.Background(), "cus_1", 100)
	require.NoError(t, err)

	assert.Equal(t, []Payment{{ID: "pi_1", Status: "succeeded", Amount: 500, Currency: "usd"}}, got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&s.calls))
	assert.Contains(t, query, "customer=cus_1")
	assert.Contains(t, query, "limit=100")
}

func TestListRecentPayments_HonoursLimit(t *testing.T) {
	s := newStripeServer(t, nil, `{"object":"list","url":"/v1/payment_intents","has_more":true,"data":[
		{"id":"pi_1","object":"payment_intent","status":"succeeded","amount":500,"currency":"usd"},
		{"id":"pi_2","object":"payment_intent","status":"succeeded","amount":700,"currency":"usd"}]}`)

	got, err := s.gateway().ListRecentPayments(context.Background(), "cus_1", 1)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "pi_1", got[0].ID)
	assert.EqualValues(t, 1, atomic.LoadInt32(&s.calls))
}

func TestListActiveSubscriptions_StopsAtFirstPage(t *testing.T) {
	var query string
	s := newStripeServer(t, func(r *http.Request) {
		assert.Equal(t, "/v1/subscriptions", r.URL.Path)
		query = r.URL.RawQuery
	}, `{"object":"list","url":"/v1/subscriptions","has_more":true,
		"data":[{"id":"sub_1","object":"subscription","status":"active"}]}`)

	got, err := s.gateway().ListActiveSubscriptions(context.Background(), "cus_1", 100)
	require.NoError(t, err)

	assert.Equal(t, []Subscription{{ID: "sub_1", Status: "active"}}, got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&s.calls))
	assert.Contains(t, query, "status=active")
	assert.Contains(t, query, "customer=cus_1")
}

func TestCancelSubscription(t *testing.T) {
	s := newStripeServer(t, func(r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)
	}, `{"id":"sub_1","object":"subscription","status":"canceled"}`)

	require.NoError(t, s.gateway().CancelSubscription(context.Background(), "sub_1"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&s.calls))
}

func TestRefundPayment(t *testing.T) {
	s := newStripeServer(t, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/refunds", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "pi_1", r.PostForm.Get("payment_intent"))
		assert.Equal(t, "requested_by_customer", r.PostForm.Get("reason"))
	}, `{"id":"re_1","object":"refund","status":"succeeded","amount":500}`)

	require.NoError(t, s.gateway().RefundPayment(context.Background(), "pi_1", RefundRequestedByCustomer))
}

func TestGatewayErrorsAreWrapped(t *testing.T) {
	s := newStripeServer(t, nil, `{}`)
	gw := s.gateway()
	ctx := context.Background()

	// The first call consumes the healthy response.
	require.NoError(t, gw.CancelSubscription(ctx, "sub_0"))

	_, err := gw.ListRecentPayments(ctx, "cus_1", 10)
	assert.ErrorContains(t, err, "list payments for cus_1")

	_, err = gw.ListActiveSubscriptions(ctx, "cus_1", 10)
	assert.ErrorContains(t, err, "list subscriptions for cus_1")

	err = gw.CancelSubscription(ctx, "sub_1")
	assert.ErrorContains(t, err, "cancel subscription sub_1")

	err = gw.RefundPayment(ctx, "pi_1", RefundRequestedByCustomer)
	assert.ErrorContains(t, err, "refund payment pi_1")
	assert.EqualValues(t, 5, atomic.LoadInt32(&s.calls))
}
