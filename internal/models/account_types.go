package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AccountType selects which profile table an account lives in.
type AccountType string

const (
	AccountTypeAgent    AccountType = "agent"
	AccountTypeSupplier AccountType = "supplier"
)

// ParseAccountType converts caller input into a known AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeAgent, AccountTypeSupplier:
		return AccountType(s), nil
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// Table returns the profile table backing this account type.
func (t AccountType) Table() string {
	switch t {
	case AccountTypeAgent:
		return "agent_profile"
	case AccountTypeSupplier:
		return "supplier_profile"
	}
	return ""
}

// VerificationStatus is the agent review state.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Role is the coarse role column. Suppliers move between pending_supplier
// and supplier; agents carry "agent" once approved.
type Role string

const (
	RoleAgent           Role = "agent"
	RolePendingSupplier Role = "pending_supplier"
	RoleSupplier        Role = "supplier"
)

// SubscriptionStatus mirrors the supplier's billing subscription state.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionRejected SubscriptionStatus = "rejected"
	SubscriptionTrialing SubscriptionStatus = "trialing"
)

// PaymentStatus is the supplier's last recorded payment outcome.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

const (
	MinRiskLevel     = 1
	MaxRiskLevel     = 10
	DefaultRiskLevel = MinRiskLevel
)

// ValidRiskLevel reports whether level is inside the accepted range.
func ValidRiskLevel(level int) bool {
	return level >= MinRiskLevel && level <= MaxRiskLevel
}

// Account is one row from either profile table. Exactly one of Agent or
// Supplier is set, matching Type.
type Account struct {
	Type       AccountType `json:"type"`
	ID         string      `json:"id" db:"id"`
	Email      string      `json:"email" db:"email"`
	Name       string      `json:"name"`
	IsApproved bool        `json:"isApproved" db:"is_approved"`
	UpdatedAt  time.Time   `json:"updatedAt" db:"updated_at"`

	Agent    *AgentProfile    `json:"agent,omitempty"`
	Supplier *SupplierProfile `json:"supplier,omitempty"`
}

// AgentProfile holds the agent-only columns.
type AgentProfile struct {
	VerificationStatus VerificationStatus `json:"verificationStatus" db:"verification_status"`
	ApprovedAt         *time.Time         `json:"approvedAt,omitempty" db:"approved_at"`
	Role               *Role              `json:"role,omitempty" db:"role"`
}

// SupplierProfile holds the supplier-only columns.
type SupplierProfile struct {
	Role               Role               `json:"role" db:"role"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus,omitempty" db:"subscription_status"`
	PaymentStatus      PaymentStatus      `json:"paymentStatus,omitempty" db:"payment_status"`
	StripeCustomerID   *string            `json:"-" db:"stripe_customer_id"`
	RejectionReason    *string            `json:"rejectionReason,omitempty" db:"rejection_reason"`
	VerificationNotes  *string            `json:"verificationNotes,omitempty" db:"verification_notes"`
	RiskLevel          int                `json:"riskLevel" db:"risk_level"`
	Checklist          Checklist          `json:"checklist,omitempty" db:"verification_checklist"`
}

// BillingCustomerID returns the external billing customer, or "" when the
// supplier never reached checkout.
func (a *Account) BillingCustomerID() string {
	if a == nil || a.Supplier == nil || a.Supplier.StripeCustomerID == nil {
		return ""
	}
	return *a.Supplier.StripeCustomerID
}

// Checklist is the reviewer's opaque key -> checked map, stored as JSON.
type Checklist map[string]bool

// Value implements driver.Valuer.
func (c Checklist) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Checklist) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = Checklist{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("checklist: unsupported column type")
	}
	if len(raw) == 0 {
		*c = Checklist{}
		return nil
	}
	out := Checklist{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("checklist: %w", err)
	}
	*c = out
	return nil
}

// Completion returns how many checklist items are ticked out of the total.
func (c Checklist) Completion() (checked, total int) {
	for _, ok := range c {
		total++
		if ok {
			checked++
		}
	}
	return checked, total
}
