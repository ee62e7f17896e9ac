package verification

import (
	"context"
	"fmt"
	"strings"

	"github.com/01moynul/travelbridge/internal/auth"
	"github.com/01moynul/travelbridge/internal/cache"
	"github.com/01moynul/travelbridge/internal/events"
	"github.com/01moynul/travelbridge/internal/models"
)

// UpdateStatus freezes or deactivates an account, or emails the owner a
// password reset link.
func (s *Service) UpdateStatus(ctx context.Context, caller *auth.Caller, accountID, action string, accountType models.AccountType) Result {
	if !s.IsAdmin(ctx, caller) {
		return failure(ErrUnauthorized)
	}

	act, err := models.ParseStatusAction(action)
	if err != nil {
		return failure(ErrInvalidAction)
	}
	if err := validateTarget(accountType, accountID); err != nil {
		return failure(err)
	}

	if act == models.ActionResetPassword {
		return s.resetPassword(ctx, accountType, accountID)
	}

	patch, review, routingKey := statusPatch(act, accountType)
	return s.serialize(ctx, accountType, accountID, func(ctx context.Context) Result {
		details := map[string]interface{}{"action": string(act)}
		audit := &models.AuditEntry{Action: review, PerformedBy: caller.ID, Details: details}
		if err := s.commit(ctx, accountType, accountID, patch, audit); err != nil {
			return failure(err)
		}
		s.publish(ctx, routingKey, accountType, accountID, caller.ID, details)
		s.refresh(ctx, cache.ViewAccounts)

		s.log.Info().Str("account_id", accountID).Str("account_type", string(accountType)).Str("action", string(act)).Str("actor_id", caller.ID).Msg("account status updated")
		if act == models.ActionFreeze {
			return succeeded("Account frozen.")
		}
		return succeeded("Account deactivated.")
	})
}

// statusPatch maps freeze/deactivate onto the per-type status column.
// Suppliers keep their role; only subscription_status moves.
func statusPatch(act models.StatusAction, accountType models.AccountType) (models.AccountPatch, models.ReviewAction, string) {
	approved := false
	patch := models.AccountPatch{IsApproved: &approved}

	freeze := act == models.ActionFreeze
	review, routingKey := models.ReviewDeactivate, events.AccountDeactivated
	if freeze {
		review, routingKey = models.ReviewFreeze, events.AccountFrozen
	}

	switch accountType {
	case models.AccountTypeAgent:
		status := models.VerificationRejected
		if freeze {
			status = models.VerificationPending
		}
		patch.VerificationStatus = &status
	case models.AccountTypeSupplier:
		sub := models.SubscriptionCanceled
		if freeze {
			sub = models.SubscriptionPastDue
		}
		patch.SubscriptionStatus = &sub
	}
	return patch, review, routingKey
}

func (s *Service) resetPassword(ctx context.Context, accountType models.AccountType, accountID string) Result {
	acct, err := s.load(ctx, accountType, accountID)
	if err != nil {
		return failure(err)
	}
	email := strings.TrimSpace(acct.Email)
	if email == "" {
		return failure(fmt.Errorf("%w: account has no email address", ErrNotFound))
	}

	if err := s.identity.IssuePasswordResetEmail(ctx, email, s.updatePasswordURL); err != nil {
		s.log.Warn().Err(err).Str("account_id", accountID).Str("step", "password_reset").Msg("password reset email not sent")
		return failure(ErrNotificationFailed)
	}
	return succeeded(fmt.Sprintf("Password reset email sent to %s", email))
}
