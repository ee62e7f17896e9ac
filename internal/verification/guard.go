package verification

import (
	"context"

	"github.com/01moynul/travelbridge/internal/auth"
)

// AdminIdentity is one way a caller can prove administrator rights.
type AdminIdentity interface {
	isAdmin(ctx context.Context) (bool, error)
}

// RoleClaim is satisfied when the token's role claim names the admin role.
// It needs no I/O.
type RoleClaim struct {
	Claim string
	Want  string
}

func (r RoleClaim) isAdmin(context.Context) (bool, error) {
	return r.Want != "" && r.Claim == r.Want, nil
}

// ProfileRow is satisfied when an admin_profile row exists for the caller.
type ProfileRow struct {
	CallerID string
	Lookup   func(ctx context.Context, id string) (bool, error)
}

func (p ProfileRow) isAdmin(ctx context.Context) (bool, error) {
	return p.Lookup(ctx, p.CallerID)
}

// adminIdentities lists the checks for a caller, cheapest first.
func (s *Service) adminIdentities(caller *auth.Caller) []AdminIdentity {
	return []AdminIdentity{
		RoleClaim{Claim: caller.RoleClaim, Want: s.adminRole},
		ProfileRow{CallerID: caller.ID, Lookup: s.store.AdminProfileExists},
	}
}

// IsAdmin reports whether the caller may run review operations. A failed
// profile lookup counts as "not an admin".
func (s *Service) IsAdmin(ctx context.Context, caller *auth.Caller) bool {
	if caller == nil || caller.ID == "" {
		return false
	}

	for _, identity := range s.adminIdentities(caller) {
		ok, err := identity.isAdmin(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("caller_id", caller.ID).Msg("admin profile lookup failed")
			return false
		}
		if ok {
			return true
		}
	}
	return false
}
