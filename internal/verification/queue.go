package verification

import (
	"context"

	"github.com/01moynul/travelbridge/internal/auth"
	"github.com/01moynul/travelbridge/internal/models"
)

// PendingQueue lists accounts awaiting review, oldest first.
func (s *Service) PendingQueue(ctx context.Context, caller *auth.Caller, accountType models.AccountType, limit int) ([]*models.Account, error) {
	if !s.IsAdmin(ctx, caller) {
		return nil, ErrUnauthorized
	}
	if _, err := models.ParseAccountType(string(accountType)); err != nil {
		return nil, invalidInput(err.Error())
	}

	accounts, err := s.store.ListPending(ctx, accountType, limit)
	if err != nil {
		s.log.Error().Err(err).Str("account_type", string(accountType)).Msg("verification queue lookup failed")
		return nil, ErrStoreReadFailed
	}
	return accounts, nil
}
