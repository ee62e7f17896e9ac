package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/01moynul/travelbridge/internal/auth"
	"github.com/01moynul/travelbridge/internal/cache"
	"github.com/01moynul/travelbridge/internal/models"
	"github.com/01moynul/travelbridge/internal/store"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

var (
	adminCaller   = &auth.Caller{ID: "admin-1", Email: "ops@travelbridge.test", RoleClaim: "admin"}
	profileAdmin  = &auth.Caller{ID: "admin-2", Email: "lead@travelbridge.test"}
	regularCaller = &auth.Caller{ID: "user-9", Email: "agent@x.com", RoleClaim: "authenticated"}
)

type mutation struct {
	accountType models.AccountType
	id          string
	patch       models.AccountPatch
	audit       *models.AuditEntry
}

// fakeStore is an in-memory AccountStore that records every mutation.
type fakeStore struct {
	mu        sync.Mutex
	admins    map[string]bool
	accounts  map[string]*models.Account
	adminErr  error
	getErr    error
	updateErr error

	adminLookups int
	mutations    []mutation
}

func newFakeStore(accounts ...*models.Account) *fakeStore {
	fs := &fakeStore{
		admins:   map[string]bool{profileAdmin.ID: true},
		accounts: map[string]*models.Account{},
	}
	for _, a := range accounts {
		fs.accounts[key(a.Type, a.ID)] = a
	}
	return fs
}

func key(t models.AccountType, id string) string { return string(t) + "/" + id }

func (f *fakeStore) AdminProfileExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminLookups++
	if f.adminErr != nil {
		return false, f.adminErr
	}
	return f.admins[id], nil
}

func (f *fakeStore) GetAccount(_ context.Context, t models.AccountType, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.accounts[key(t, id)]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) UpdateAccount(_ context.Context, t models.AccountType, id string, patch models.AccountPatch, audit *models.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.accounts[key(t, id)]
	if !ok {
		return store.ErrNotFound
	}
	applyPatch(a, patch)
	f.mutations = append(f.mutations, mutation{accountType: t, id: id, patch: patch, audit: audit})
	return nil
}

func (f *fakeStore) ListPending(_ context.Context, t models.AccountType, _ int) ([]*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Account
	for _, a := range f.accounts {
		if a.Type == t && !a.IsApproved {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) account(t models.AccountType, id string) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[key(t, id)]
}

func applyPatch(a *models.Account, p models.AccountPatch) {
	if p.IsApproved != nil {
		a.IsApproved = *p.IsApproved
	}
	if a.Agent != nil {
		if p.VerificationStatus != nil {
			a.Agent.VerificationStatus = *p.VerificationStatus
		}
		if p.ApprovedAt != nil {
			a.Agent.ApprovedAt = p.ApprovedAt
		}
		if p.Role != nil {
			a.Agent.Role = p.Role
		}
	}
	if s := a.Supplier; s != nil {
		if p.Role != nil {
			s.Role = *p.Role
		}
		if p.SubscriptionStatus != nil {
			s.SubscriptionStatus = *p.SubscriptionStatus
		}
		if p.PaymentStatus != nil {
			s.PaymentStatus = *p.PaymentStatus
		}
		if p.RejectionReason != nil {
			s.RejectionReason = p.RejectionReason
		}
		if p.VerificationNotes != nil {
			s.VerificationNotes = p.VerificationNotes
		}
		if p.RiskLevel != nil {
			s.RiskLevel = *p.RiskLevel
		}
		if p.Checklist != nil {
			s.Checklist = p.Checklist
		}
	}
}

type fakeIdentity struct {
	link     string
	linkErr  error
	resetErr error

	linkRequests  []string
	resetRequests []string
	redirects     []string
}

func (f *fakeIdentity) IssueRecoveryLink(_ context.Context, email, redirectTo string) (string, error) {
	f.linkRequests = append(f.linkRequests, email)
	f.redirects = append(f.redirects, redirectTo)
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return f.link, nil
}

func (f *fakeIdentity) IssuePasswordResetEmail(_ context.Context, email, redirectTo string) error {
	f.resetRequests = append(f.resetRequests, email)
	f.redirects = append(f.redirects, redirectTo)
	return f.resetErr
}

type fakeRefresher struct {
	views [][]string
}

func (f *fakeRefresher) Refresh(_ context.Context, views ...string) error {
	f.views = append(f.views, views)
	return nil
}

// fakeEvents always fails; a lost event must never change a workflow result.
type fakeEvents struct {
	keys []string
}

func (f *fakeEvents) AccountChanged(_ context.Context, routingKey string, _ models.AccountType, _, _ string, _ map[string]interface{}) error {
	f.keys = append(f.keys, routingKey)
	return errors.New("broker down")
}

type busyLocker struct{}

func (busyLocker) WithLock(context.Context, models.AccountType, string, func(context.Context) error) error {
	return cache.ErrLocked
}

type harness struct {
	svc       *Service
	store     *fakeStore
	identity  *fakeIdentity
	billing   *MockBillingGateway
	notifier  *MockNotifier
	refresher *fakeRefresher
	events    *fakeEvents
}

func newHarness(t *testing.T, accounts ...*models.Account) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		store:     newFakeStore(accounts...),
		identity:  &fakeIdentity{link: "https://id.travelbridge.test/verify?token=abc"},
		billing:   NewMockBillingGateway(ctrl),
		notifier:  NewMockNotifier(ctrl),
		refresher: &fakeRefresher{},
		events:    &fakeEvents{},
	}
	h.svc = NewService(Deps{
		Store:     h.store,
		Identity:  h.identity,
		Billing:   h.billing,
		Notifier:  h.notifier,
		Refresher: h.refresher,
		Events:    h.events,
	}, Options{
		AdminRoleClaim:    "admin",
		CreatePasswordURL: "https://app.travelbridge.test/auth/create-password",
		UpdatePasswordURL: "https://app.travelbridge.test/auth/update-password",
	}, zerolog.Nop())
	h.svc.now = func() time.Time { return fixedNow }
	return h
}

func pendingAgent(id, email string) *models.Account {
	return &models.Account{
		Type:  models.AccountTypeAgent,
		ID:    id,
		Email: email,
		Name:  "Sunrise Travel",
		Agent: &models.AgentProfile{VerificationStatus: models.VerificationPending},
	}
}

func pendingSupplier(id, email string, customerID *string) *models.Account {
	return &models.Account{
		Type:  models.AccountTypeSupplier,
		ID:    id,
		Email: email,
		Name:  "Harbour Hotels",
		Supplier: &models.SupplierProfile{
			Role:               models.RolePendingSupplier,
			SubscriptionStatus: models.SubscriptionActive,
			PaymentStatus:      models.PaymentSucceeded,
			StripeCustomerID:   customerID,
			RiskLevel:          models.DefaultRiskLevel,
		},
	}
}

func approvedSupplier(id, email string) *models.Account {
	a := pendingSupplier(id, email, nil)
	a.IsApproved = true
	a.Supplier.Role = models.RoleSupplier
	return a
}
