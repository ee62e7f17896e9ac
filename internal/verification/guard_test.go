package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/01moynul/travelbridge/internal/auth"
)

func TestIsAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("role claim short-circuits the profile lookup", func(t *testing.T) {
		h := newHarness(t)
		assert.True(t, h.svc.IsAdmin(ctx, adminCaller))
		assert.Zero(t, h.store.adminLookups)
	})

	t.Run("admin profile row", func(t *testing.T) {
		h := newHarness(t)
		assert.True(t, h.svc.IsAdmin(ctx, profileAdmin))
		assert.Equal(t, 1, h.store.adminLookups)
	})

	t.Run("neither claim nor row", func(t *testing.T) {
		h := newHarness(t)
		assert.False(t, h.svc.IsAdmin(ctx, regularCaller))
	})

	t.Run("lookup error denies", func(t *testing.T) {
		h := newHarness(t)
		h.store.adminErr = errors.New("connection reset")
		assert.False(t, h.svc.IsAdmin(ctx, profileAdmin))
	})

	t.Run("missing identity", func(t *testing.T) {
		h := newHarness(t)
		assert.False(t, h.svc.IsAdmin(ctx, nil))
		assert.False(t, h.svc.IsAdmin(ctx, &auth.Caller{RoleClaim: "admin"}))
		assert.Zero(t, h.store.adminLookups)
	})
}

func TestRoleClaim(t *testing.T) {
	ok, err := RoleClaim{Claim: "admin", Want: "admin"}.isAdmin(context.Background())
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, _ = RoleClaim{Claim: "", Want: ""}.isAdmin(context.Background())
	assert.False(t, ok)
}

// Non-admin callers must cause no store mutation and no billing, identity or
// notifier traffic. The gomock controllers fail on any unexpected call.
func TestNonAdminCausesNoSideEffects(t *testing.T) {
	ctx := context.Background()
	cus := "cus_123"
	h := newHarness(t,
		pendingAgent("A2", "a2@x.com"),
		pendingSupplier("S1", "s1@x.com", &cus),
	)

	results := []Result{
		h.svc.Approve(ctx, regularCaller, ApproveRequest{AccountID: "A2", AccountType: "agent", Email: "a2@x.com"}),
		h.svc.Reject(ctx, regularCaller, "S1", "incomplete documents"),
		h.svc.UpdateStatus(ctx, regularCaller, "S1", "freeze", "supplier"),
		h.svc.UpdateStatus(ctx, regularCaller, "S1", "reset_password", "supplier"),
		h.svc.ResendInvite(ctx, regularCaller, "A2", "agent"),
	}

	for _, res := range results {
		assert.False(t, res.Success)
		assert.Equal(t, "Unauthorized", res.Error)
		assert.ErrorIs(t, res.Err, ErrUnauthorized)
	}
	assert.Empty(t, h.store.mutations)
	assert.Empty(t, h.identity.linkRequests)
	assert.Empty(t, h.identity.resetRequests)
	assert.Empty(t, h.refresher.views)
	assert.Empty(t, h.events.keys)
	assert.False(t, h.store.account("agent", "A2").IsApproved)

	_, err := h.svc.PendingQueue(ctx, regularCaller, "agent", 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
