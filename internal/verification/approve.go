package verification

import (
	"context"
	"strings"

	"github.com/01moynul/travelbridge/internal/auth"
	"github.com/01moynul/travelbridge/internal/cache"
	"github.com/01moynul/travelbridge/internal/events"
	"github.com/01moynul/travelbridge/internal/models"
)

// ApproveRequest identifies the account to approve. Email is the owner's
// address as shown to the reviewer; it is not re-read from the store.
type ApproveRequest struct {
	AccountID   string
	AccountType models.AccountType
	Email       string
	Review      *models.ReviewMetadata
}

const approvedNotNotifiedMessage = "Account approved, but the invite email could not be sent. Resend it from the account page."

// Approve moves a pending account to approved and sends the owner a
// password-setup link. Failing to issue or deliver the link after the account
// is updated yields a partial success.
func (s *Service) Approve(ctx context.Context, caller *auth.Caller, req ApproveRequest) Result {
	// 1. --- Authorize ---
	if !s.IsAdmin(ctx, caller) {
		return failure(ErrUnauthorized)
	}

	// 2. --- Validate Input ---
	if err := validateTarget(req.AccountType, req.AccountID); err != nil {
		return failure(err)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return failure(invalidInput("email is required"))
	}
	patch, details, err := s.approvalPatch(req.AccountType, req.Review)
	if err != nil {
		return failure(err)
	}
	details["email"] = email

	return s.serialize(ctx, req.AccountType, req.AccountID, func(ctx context.Context) Result {
		log := s.log.With().Str("account_id", req.AccountID).Str("account_type", string(req.AccountType)).Logger()

		// 3. --- Commit Approval ---
		audit := &models.AuditEntry{Action: models.ReviewApprove, PerformedBy: caller.ID, Details: details}
		if err := s.commit(ctx, req.AccountType, req.AccountID, patch, audit); err != nil {
			return failure(err)
		}
		s.publish(ctx, events.AccountApproved, req.AccountType, req.AccountID, caller.ID, details)

		// 4. --- Issue Password Link ---
		link, err := s.identity.IssueRecoveryLink(ctx, email, s.createPasswordURL)
		if err != nil {
			log.Warn().Err(err).Str("step", "issue_link").Msg("approved account without invite link")
			return partial(ErrNotificationFailed, approvedNotNotifiedMessage)
		}

		// 5. --- Send Invite ---
		if err := s.sendInvite(ctx, req.AccountType, email, link); err != nil {
			log.Warn().Err(err).Str("step", "send_invite").Msg("approved account without invite email")
			return partial(ErrNotificationFailed, approvedNotNotifiedMessage)
		}

		s.refresh(ctx, cache.ViewVerifications)
		log.Info().Str("actor_id", caller.ID).Msg("account approved")
		return succeeded("Account approved and invite sent.")
	})
}

// approvalPatch builds the approved shape for the account type. Review
// metadata only applies to suppliers.
func (s *Service) approvalPatch(accountType models.AccountType, review *models.ReviewMetadata) (models.AccountPatch, map[string]interface{}, error) {
	approved := true
	patch := models.AccountPatch{IsApproved: &approved}
	details := map[string]interface{}{}

	if accountType == models.AccountTypeAgent {
		status := models.VerificationApproved
		role := models.RoleAgent
		now := s.now().UTC()
		patch.VerificationStatus = &status
		patch.ApprovedAt = &now
		patch.Role = &role
		return patch, details, nil
	}

	role := models.RoleSupplier
	sub := models.SubscriptionActive
	risk := models.DefaultRiskLevel
	notes := ""
	checklist := models.Checklist{}
	if review != nil {
		if review.RiskLevel != nil {
			risk = *review.RiskLevel
		}
		if review.Notes != nil {
			notes = *review.Notes
		}
		if review.Checklist != nil {
			checklist = review.Checklist
		}
	}
	if !models.ValidRiskLevel(risk) {
		return patch, nil, invalidInput("risk level must be between 1 and 10")
	}

	patch.Role = &role
	patch.SubscriptionStatus = &sub
	patch.RiskLevel = &risk
	patch.VerificationNotes = &notes
	patch.Checklist = checklist

	checked, total := checklist.Completion()
	details["risk_level"] = risk
	details["checklist_checked"] = checked
	details["checklist_total"] = total
	return patch, details, nil
}

func (s *Service) sendInvite(ctx context.Context, accountType models.AccountType, email, link string) error {
	if accountType == models.AccountTypeSupplier {
		return s.notifier.SendSupplierWelcomeEmail(ctx, email, link)
	}
	return s.notifier.SendInviteEmail(ctx, email, link)
}
