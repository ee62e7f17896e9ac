package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/travelbridge/internal/models"
)

var (
	// ErrNotFound is returned when the profile row does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrUnsupportedField is returned when a patch touches a column the
	// account type's table does not have.
	ErrUnsupportedField = errors.New("field not supported for account type")
	// ErrEmptyPatch is returned for an update that would change nothing.
	ErrEmptyPatch = errors.New("empty account patch")
)

// AccountStore reads and writes the agent_profile / supplier_profile tables.
type AccountStore struct {
	DB  *sql.DB
	Now func() time.Time
}

// NewAccountStore returns a store backed by the primary connection pool.
func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{DB: db, Now: time.Now}
}

// rowScanner is implemented by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const agentColumns = `id, email, agency_name, is_approved, verification_status, approved_at, role, updated_at`

const supplierColumns = `id, email, company_name, is_approved, role, subscription_status, payment_status,
		stripe_customer_id, rejection_reason, verification_notes, risk_level, verification_checklist, updated_at`

// AdminProfileExists reports whether an administrator profile row exists for id.
func (s *AccountStore) AdminProfileExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM admin_profile WHERE id = ? LIMIT 1", id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query admin profile: %w", err)
	}
	return true, nil
}

// GetAccount loads one account of the given type.
func (s *AccountStore) GetAccount(ctx context.Context, accountType models.AccountType, id string) (*models.Account, error) {
	var (
		row *sql.Row
		acc *models.Account
		err error
	)

	switch accountType {
	case models.AccountTypeAgent:
		row = s.DB.QueryRowContext(ctx, "SELECT "+agentColumns+" FROM agent_profile WHERE id = ?", id)
		acc, err = scanAgent(row)
	case models.AccountTypeSupplier:
		row = s.DB.QueryRowContext(ctx, "SELECT "+supplierColumns+" FROM supplier_profile WHERE id = ?", id)
		acc, err = scanSupplier(row)
	default:
		return nil, fmt.Errorf("unknown account type %q", accountType)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s %s: %w", accountType, id, err)
	}
	return acc, nil
}

// ListPending returns accounts still awaiting review, oldest first.
func (s *AccountStore) ListPending(ctx context.Context, accountType models.AccountType, limit int) ([]*models.Account, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var (
		query string
		scan  func(rowScanner) (*models.Account, error)
	)
	switch accountType {
	case models.AccountTypeAgent:
		query = "SELECT " + agentColumns + " FROM agent_profile WHERE verification_status = ? ORDER BY updated_at ASC LIMIT ?"
		scan = scanAgent
	case models.AccountTypeSupplier:
		query = "SELECT " + supplierColumns + " FROM supplier_profile WHERE role = ? ORDER BY updated_at ASC LIMIT ?"
		scan = scanSupplier
	default:
		return nil, fmt.Errorf("unknown account type %q", accountType)
	}

	pending := string(models.VerificationPending)
	if accountType == models.AccountTypeSupplier {
		pending = string(models.RolePendingSupplier)
	}

	rows, err := s.DB.QueryContext(ctx, query, pending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending %s accounts: %w", accountType, err)
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		acc, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending %s account: %w", accountType, err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending %s accounts: %w", accountType, err)
	}
	return accounts, nil
}

// UpdateAccount applies patch to one profile row and appends the audit entry
// in the same transaction. The row is locked first so concurrent reviews of
// the same account serialize on the database.
func (s *AccountStore) UpdateAccount(ctx context.Context, accountType models.AccountType, id string, patch models.AccountPatch, audit *models.AuditEntry) error {
	// 1. --- Translate the patch into columns for this table ---
	table := accountType.Table()
	if table == "" {
		return fmt.Errorf("unknown account type %q", accountType)
	}
	sets, args, err := patchColumns(accountType, patch)
	if err != nil {
		return err
	}

	// 2. --- Begin Transaction ---
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// 3. --- Lock the row ---
	var lockedID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE id = ? FOR UPDATE", id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock %s row: %w", table, err)
	}

	// 4. --- Apply the update ---
	now := s.now()
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)
	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}

	// 5. --- Append the review audit entry ---
	if audit != nil {
		if err := appendAudit(ctx, tx, accountType, id, audit, now); err != nil {
			return err
		}
	}

	// 6. --- Commit Transaction ---
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s update: %w", table, err)
	}
	return nil
}

func appendAudit(ctx context.Context, tx *sql.Tx, accountType models.AccountType, id string, entry *models.AuditEntry, now time.Time) error {
	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO account_review_audit
		(account_type, account_id, action, performed_by, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := tx.ExecContext(ctx, query, string(accountType), id, string(entry.Action), entry.PerformedBy, details, now); err != nil {
		return fmt.Errorf("failed to append review audit: %w", err)
	}
	return nil
}

// patchColumns maps non-nil patch fields to "column = ?" clauses, refusing
// fields the table does not carry.
func patchColumns(accountType models.AccountType, p models.AccountPatch) ([]string, []interface{}, error) {
	if p.Empty() {
		return nil, nil, ErrEmptyPatch
	}

	agent := accountType == models.AccountTypeAgent
	var (
		sets []string
		args []interface{}
	)

	fields := []struct {
		set     bool
		column  string
		allowed bool
		value   func() interface{}
	}{
		{p.IsApproved != nil, "is_approved", true, func() interface{} { return *p.IsApproved }},
		{p.VerificationStatus != nil, "verification_status", agent, func() interface{} { return string(*p.VerificationStatus) }},
		{p.ApprovedAt != nil, "approved_at", agent, func() interface{} { return *p.ApprovedAt }},
		{p.Role != nil, "role", true, func() interface{} { return string(*p.Role) }},
		{p.SubscriptionStatus != nil, "subscription_status", !agent, func() interface{} { return string(*p.SubscriptionStatus) }},
		{p.PaymentStatus != nil, "payment_status", !agent, func() interface{} { return string(*p.PaymentStatus) }},
		{p.RejectionReason != nil, "rejection_reason", !agent, func() interface{} { return *p.RejectionReason }},
		{p.VerificationNotes != nil, "verification_notes", !agent, func() interface{} { return *p.VerificationNotes }},
		{p.RiskLevel != nil, "risk_level", !agent, func() interface{} { return *p.RiskLevel }},
		{p.Checklist != nil, "verification_checklist", !agent, func() interface{} { return p.Checklist }},
	}

	for _, f := range fields {
		if !f.set {
			continue
		}
		if !f.allowed {
			return nil, nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedField, f.column, accountType.Table())
		}
		sets = append(sets, f.column+" = ?")
		args = append(args, f.value())
	}

	if p.RiskLevel != nil && !models.ValidRiskLevel(*p.RiskLevel) {
		return nil, nil, fmt.Errorf("risk level %d outside [%d,%d]", *p.RiskLevel, models.MinRiskLevel, models.MaxRiskLevel)
	}
	return sets, args, nil
}

func scanAgent(row rowScanner) (*models.Account, error) {
	var (
		acc        models.Account
		profile    models.AgentProfile
		email      sql.NullString
		name       sql.NullString
		status     sql.NullString
		approvedAt sql.NullTime
		role       sql.NullString
	)
	if err := row.Scan(&acc.ID, &email, &name, &acc.IsApproved, &status, &approvedAt, &role, &acc.UpdatedAt); err != nil {
		return nil, err
	}

	acc.Type = models.AccountTypeAgent
	acc.Email = email.String
	acc.Name = name.String
	profile.VerificationStatus = models.VerificationStatus(status.String)
	if profile.VerificationStatus == "" {
		profile.VerificationStatus = models.VerificationPending
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		profile.ApprovedAt = &t
	}
	if role.Valid {
		r := models.Role(role.String)
		profile.Role = &r
	}
	acc.Agent = &profile
	return &acc, nil
}

func scanSupplier(row rowScanner) (*models.Account, error) {
	var (
		acc          models.Account
		profile      models.SupplierProfile
		email        sql.NullString
		name         sql.NullString
		role         sql.NullString
		subscription sql.NullString
		payment      sql.NullString
		customerID   sql.NullString
		reason       sql.NullString
		notes        sql.NullString
		risk         sql.NullInt64
	)
	if err := row.Scan(
		&acc.ID,
		&email,
		&name,
		&acc.IsApproved,
		&role,
		&subscription,
		&payment,
		&customerID,
		&reason,
		&notes,
		&risk,
		&profile.Checklist,
		&acc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	acc.Type = models.AccountTypeSupplier
	acc.Email = email.String
	acc.Name = name.String
	profile.Role = models.Role(role.String)
	if profile.Role == "" {
		profile.Role = models.RolePendingSupplier
	}
	profile.SubscriptionStatus = models.SubscriptionStatus(subscription.String)
	profile.PaymentStatus = models.PaymentStatus(payment.String)
	profile.StripeCustomerID = nullStringPtr(customerID)
	profile.RejectionReason = nullStringPtr(reason)
	profile.VerificationNotes = nullStringPtr(notes)
	profile.RiskLevel = models.DefaultRiskLevel
	if risk.Valid {
		profile.RiskLevel = int(risk.Int64)
	}
	acc.Supplier = &profile
	return &acc, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

func (s *AccountStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
