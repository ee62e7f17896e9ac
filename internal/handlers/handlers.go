package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/01moynul/travelbridge/internal/auth"
	"github.com/01moynul/travelbridge/internal/models"
	"github.com/01moynul/travelbridge/internal/verification"
)

// ReviewService is the account review core the admin handlers call into.
type ReviewService interface {
	Approve(ctx context.Context, caller *auth.Caller, req verification.ApproveRequest) verification.Result
	Reject(ctx context.Context, caller *auth.Caller, accountID, reason string) verification.Result
	UpdateStatus(ctx context.Context, caller *auth.Caller, accountID, action string, accountType models.AccountType) verification.Result
	ResendInvite(ctx context.Context, caller *auth.Caller, accountID string, accountType models.AccountType) verification.Result
	PendingQueue(ctx context.Context, caller *auth.Caller, accountType models.AccountType, limit int) ([]*models.Account, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Reviews ReviewService
	Log     zerolog.Logger
}
