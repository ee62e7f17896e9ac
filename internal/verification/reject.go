package verification

import (
	"context"
	"strings"

	"github.com/01moynul/travelbridge/internal/auth"
	"github.com/01moynul/travelbridge/internal/billing"
	"github.com/01moynul/travelbridge/internal/cache"
	"github.com/01moynul/travelbridge/internal/events"
	"github.com/01moynul/travelbridge/internal/models"
)

// billingOutcome records what the best-effort cleanup actually did.
type billingOutcome struct {
	Canceled []string
	Refunded string
	Errors   []string
}

func (o billingOutcome) details() map[string]interface{} {
	d := map[string]interface{}{}
	if len(o.Canceled) > 0 {
		d["canceled_subscriptions"] = o.Canceled
	}
	if o.Refunded != "" {
		d["refunded_payment"] = o.Refunded
	}
	if len(o.Errors) > 0 {
		d["billing_errors"] = o.Errors
	}
	return d
}

// Reject declines a supplier application. Billing is cleaned up first and
// never blocks the status change; the rejection email is best-effort.
func (s *Service) Reject(ctx context.Context, caller *auth.Caller, accountID, reason string) Result {
	// 1. --- Authorize ---
	if !s.IsAdmin(ctx, caller) {
		return failure(ErrUnauthorized)
	}
	if err := validateTarget(models.AccountTypeSupplier, accountID); err != nil {
		return failure(err)
	}
	reason = strings.TrimSpace(reason)

	return s.serialize(ctx, models.AccountTypeSupplier, accountID, func(ctx context.Context) Result {
		log := s.log.With().Str("account_id", accountID).Str("account_type", string(models.AccountTypeSupplier)).Logger()

		// 2. --- Load Supplier ---
		acct, err := s.load(ctx, models.AccountTypeSupplier, accountID)
		if err != nil {
			return failure(err)
		}

		// 3. --- Billing Cleanup ---
		outcome := s.cleanupBilling(ctx, acct)

		// 4. --- Commit Rejection ---
		approved := false
		payment := models.PaymentRefunded
		sub := models.SubscriptionRejected
		role := models.RolePendingSupplier
		patch := models.AccountPatch{
			IsApproved:         &approved,
			PaymentStatus:      &payment,
			SubscriptionStatus: &sub,
			Role:               &role,
			RejectionReason:    &reason,
		}
		details := outcome.details()
		details["reason"] = reason

		audit := &models.AuditEntry{Action: models.ReviewReject, PerformedBy: caller.ID, Details: details}
		if err := s.commit(ctx, models.AccountTypeSupplier, accountID, patch, audit); err != nil {
			return failure(err)
		}
		s.publish(ctx, events.AccountRejected, models.AccountTypeSupplier, accountID, caller.ID, details)
		s.refresh(ctx, cache.ViewVerifications)

		// 5. --- Notify Supplier ---
		if err := s.notifier.SendRejectionEmail(ctx, acct.Email, reason); err != nil {
			log.Warn().Err(err).Str("step", "send_rejection").Msg("supplier rejected without email")
			return partial(ErrNotificationFailed, "Supplier rejected, but the rejection email could not be sent.")
		}

		log.Info().Str("actor_id", caller.ID).Strs("canceled", outcome.Canceled).Str("refunded", outcome.Refunded).Msg("supplier rejected")
		return succeeded("Supplier rejected.")
	})
}

// cleanupBilling cancels the active subscription and refunds the latest
// payment when it captured money. Every failure is logged and swallowed.
func (s *Service) cleanupBilling(ctx context.Context, acct *models.Account) billingOutcome {
	var out billingOutcome
	customerID := acct.BillingCustomerID()
	if customerID == "" {
		return out
	}
	log := s.log.With().Str("account_id", acct.ID).Str("customer_id", customerID).Str("step", "billing").Logger()
	if s.billing == nil {
		log.Warn().Msg("billing gateway not configured, skipping cleanup")
		return out
	}

	fail := func(err error, msg string) {
		log.Warn().Err(err).Msg(msg)
		out.Errors = append(out.Errors, ErrBillingFailed.Error()+": "+err.Error())
	}

	// a. --- Cancel Active Subscriptions ---
	subs, err := s.billing.ListActiveSubscriptions(ctx, customerID, 1)
	if err != nil {
		fail(err, "list subscriptions failed")
	}
	for _, sub := range subs {
		if err := s.billing.CancelSubscription(ctx, sub.ID); err != nil {
			fail(err, "cancel subscription failed")
			continue
		}
		out.Canceled = append(out.Canceled, sub.ID)
	}

	// b. --- Refund Latest Payment ---
	payments, err := s.billing.ListRecentPayments(ctx, customerID, 1)
	if err != nil {
		fail(err, "list payments failed")
		return out
	}
	if len(payments) == 0 || !payments[0].Refundable() {
		return out
	}
	if err := s.billing.RefundPayment(ctx, payments[0].ID, billing.RefundRequestedByCustomer); err != nil {
		fail(err, "refund failed")
		return out
	}
	out.Refunded = payments[0].ID
	return out
}
