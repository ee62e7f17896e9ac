package models

import (
	"fmt"
	"time"
)

// ReviewMetadata is the optional reviewer input collected with an approval.
// Only suppliers persist it.
type ReviewMetadata struct {
	RiskLevel *int      `json:"riskLevel,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Checklist Checklist `json:"checklist,omitempty"`
}

// StatusAction is one of the generic account-status operations.
type StatusAction string

const (
	ActionFreeze        StatusAction = "freeze"
	ActionDeactivate    StatusAction = "deactivate"
	ActionResetPassword StatusAction = "reset_password"
)

// ParseStatusAction rejects anything outside the three known actions.
func ParseStatusAction(s string) (StatusAction, error) {
	switch StatusAction(s) {
	case ActionFreeze, ActionDeactivate, ActionResetPassword:
		return StatusAction(s), nil
	}
	return "", fmt.Errorf("invalid action %q", s)
}

// AccountPatch is a partial update of a profile row. Nil fields are left
// untouched. The store rejects fields that do not exist on the target table.
type AccountPatch struct {
	IsApproved         *bool
	VerificationStatus *VerificationStatus
	ApprovedAt         *time.Time
	Role               *Role
	SubscriptionStatus *SubscriptionStatus
	PaymentStatus      *PaymentStatus
	RejectionReason    *string
	VerificationNotes  *string
	RiskLevel          *int
	Checklist          Checklist
}

// Empty reports whether the patch would change nothing.
func (p AccountPatch) Empty() bool {
	return p.IsApproved == nil &&
		p.VerificationStatus == nil &&
		p.ApprovedAt == nil &&
		p.Role == nil &&
		p.SubscriptionStatus == nil &&
		p.PaymentStatus == nil &&
		p.RejectionReason == nil &&
		p.VerificationNotes == nil &&
		p.RiskLevel == nil &&
		p.Checklist == nil
}

// ReviewAction names an entry in the review audit trail.
type ReviewAction string

const (
	ReviewApprove    ReviewAction = "approve"
	ReviewReject     ReviewAction = "reject"
	ReviewFreeze     ReviewAction = "freeze"
	ReviewDeactivate ReviewAction = "deactivate"
)

// AuditEntry defines the model for the 'account_review_audit' table.
type AuditEntry struct {
	ID          int64                  `json:"id" db:"id"`
	AccountType AccountType            `json:"accountType" db:"account_type"`
	AccountID   string                 `json:"accountId" db:"account_id"`
	Action      ReviewAction           `json:"action" db:"action"`
	PerformedBy string                 `json:"performedBy" db:"performed_by"`
	Details     map[string]interface{} `json:"details,omitempty" db:"details"`
	CreatedAt   time.Time              `json:"createdAt" db:"created_at"`
}
