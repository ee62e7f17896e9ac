// Package verification implements the account review lifecycle: approving
// agents and suppliers, rejecting suppliers with billing cleanup, and the
// freeze / deactivate / reset-password status operations.
package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/01moynul/travelbridge/internal/billing"
	"github.com/01moynul/travelbridge/internal/cache"
	"github.com/01moynul/travelbridge/internal/models"
	"github.com/01moynul/travelbridge/internal/store"
)

//go:generate mockgen -destination=mock_gateways_test.go -package=verification . BillingGateway,Notifier

// AccountStore reads and writes the profile tables.
type AccountStore interface {
	AdminProfileExists(ctx context.Context, id string) (bool, error)
	GetAccount(ctx context.Context, accountType models.AccountType, id string) (*models.Account, error)
	UpdateAccount(ctx context.Context, accountType models.AccountType, id string, patch models.AccountPatch, audit *models.AuditEntry) error
	ListPending(ctx context.Context, accountType models.AccountType, limit int) ([]*models.Account, error)
}

// IdentityGateway issues the one-time links sent to account owners.
type IdentityGateway interface {
	IssueRecoveryLink(ctx context.Context, email, redirectTo string) (string, error)
	IssuePasswordResetEmail(ctx context.Context, email, redirectTo string) error
}

// BillingGateway is the payment processor's subscription and refund surface.
type BillingGateway interface {
	ListActiveSubscriptions(ctx context.Context, customerID string, limit int64) ([]billing.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	ListRecentPayments(ctx context.Context, customerID string, limit int64) ([]billing.Payment, error)
	RefundPayment(ctx context.Context, paymentID string, reason billing.RefundReason) error
}

// Notifier sends the lifecycle emails.
type Notifier interface {
	SendInviteEmail(ctx context.Context, to, link string) error
	SendSupplierWelcomeEmail(ctx context.Context, to, link string) error
	SendRejectionEmail(ctx context.Context, to, reason string) error
}

// Locker serializes operations on one account.
type Locker interface {
	WithLock(ctx context.Context, accountType models.AccountType, id string, fn func(context.Context) error) error
}

// Refresher tells admin dashboards which views are stale.
type Refresher interface {
	Refresh(ctx context.Context, views ...string) error
}

// EventPublisher announces committed account changes.
type EventPublisher interface {
	AccountChanged(ctx context.Context, routingKey string, accountType models.AccountType, accountID, actorID string, details map[string]interface{}) error
}

// Deps are the collaborators of the Service. Billing, Locker, Refresher and
// Events are optional.
type Deps struct {
	Store     AccountStore
	Identity  IdentityGateway
	Billing   BillingGateway
	Notifier  Notifier
	Locker    Locker
	Refresher Refresher
	Events    EventPublisher
}

// Options carries the redirect targets and the admin role name.
type Options struct {
	AdminRoleClaim    string
	CreatePasswordURL string
	UpdatePasswordURL string
}

// Service runs the review workflows.
type Service struct {
	store     AccountStore
	identity  IdentityGateway
	billing   BillingGateway
	notifier  Notifier
	locker    Locker
	refresher Refresher
	events    EventPublisher

	adminRole         string
	createPasswordURL string
	updatePasswordURL string

	log zerolog.Logger
	now func() time.Time
}

// NewService wires a Service.
func NewService(deps Deps, opts Options, log zerolog.Logger) *Service {
	s := &Service{
		store:             deps.Store,
		identity:          deps.Identity,
		billing:           deps.Billing,
		notifier:          deps.Notifier,
		locker:            deps.Locker,
		refresher:         deps.Refresher,
		events:            deps.Events,
		adminRole:         opts.AdminRoleClaim,
		createPasswordURL: opts.CreatePasswordURL,
		updatePasswordURL: opts.UpdatePasswordURL,
		log:               log.With().Str("component", "verification").Logger(),
		now:               time.Now,
	}
	if s.adminRole == "" {
		s.adminRole = "admin"
	}
	if s.locker == nil {
		s.locker = cache.NoopLocker{}
	}
	if s.refresher == nil {
		s.refresher = cache.NoopRefresher{}
	}
	return s
}

// serialize runs fn under the account lock. Any failure to take the lock is
// reported as ErrAccountBusy.
func (s *Service) serialize(ctx context.Context, accountType models.AccountType, id string, fn func(context.Context) Result) Result {
	var res Result
	err := s.locker.WithLock(ctx, accountType, id, func(ctx context.Context) error {
		res = fn(ctx)
		return nil
	})
	if err != nil {
		if !errors.Is(err, cache.ErrLocked) {
			s.log.Error().Err(err).Str("account_id", id).Str("account_type", string(accountType)).Msg("account lock unavailable")
		}
		return failure(ErrAccountBusy)
	}
	return res
}

// commit applies the patch and audit entry, mapping store errors onto the
// workflow taxonomy.
func (s *Service) commit(ctx context.Context, accountType models.AccountType, id string, patch models.AccountPatch, audit *models.AuditEntry) error {
	err := s.store.UpdateAccount(ctx, accountType, id, patch, audit)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	s.log.Error().Err(err).Str("account_id", id).Str("account_type", string(accountType)).Msg("account update failed")
	return ErrStoreWriteFailed
}

// load fetches an account, mapping store errors onto the workflow taxonomy.
func (s *Service) load(ctx context.Context, accountType models.AccountType, id string) (*models.Account, error) {
	acct, err := s.store.GetAccount(ctx, accountType, id)
	if err == nil {
		return acct, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	s.log.Error().Err(err).Str("account_id", id).Str("account_type", string(accountType)).Msg("account lookup failed")
	return nil, ErrStoreReadFailed
}

func (s *Service) publish(ctx context.Context, routingKey string, accountType models.AccountType, id, actorID string, details map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.AccountChanged(ctx, routingKey, accountType, id, actorID, details); err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Str("step", "publish_event").Str("event", routingKey).Msg("account event not published")
	}
}

func (s *Service) refresh(ctx context.Context, views ...string) {
	if err := s.refresher.Refresh(ctx, views...); err != nil {
		s.log.Warn().Err(err).Strs("views", views).Str("step", "refresh").Msg("view refresh not published")
	}
}

func validateTarget(accountType models.AccountType, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalidInput("account id is required")
	}
	if _, err := models.ParseAccountType(string(accountType)); err != nil {
		return invalidInput(err.Error())
	}
	return nil
}

func invalidInput(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, detail)
}
