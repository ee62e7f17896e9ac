package verification

import (
	"context"

	"github.com/01moynul/travelbridge/internal/auth"
	"github.com/01moynul/travelbridge/internal/models"
)

// ResendInvite re-issues the password-setup link for an approved account.
// It is the follow-up for an approval that ended in partial success, so any
// link or email failure here is a full failure.
func (s *Service) ResendInvite(ctx context.Context, caller *auth.Caller, accountID string, accountType models.AccountType) Result {
	if !s.IsAdmin(ctx, caller) {
		return failure(ErrUnauthorized)
	}
	if err := validateTarget(accountType, accountID); err != nil {
		return failure(err)
	}

	acct, err := s.load(ctx, accountType, accountID)
	if err != nil {
		return failure(err)
	}
	if !acct.IsApproved {
		return failure(invalidInput("account is not approved"))
	}

	link, err := s.identity.IssueRecoveryLink(ctx, acct.Email, s.createPasswordURL)
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", accountID).Str("step", "issue_link").Msg("invite link not issued")
		return failure(ErrNotificationFailed)
	}
	if err := s.sendInvite(ctx, accountType, acct.Email, link); err != nil {
		s.log.Warn().Err(err).Str("account_id", accountID).Str("step", "send_invite").Msg("invite email not sent")
		return failure(ErrNotificationFailed)
	}

	return succeeded("Invite sent.")
}
