// Package identity models the external identity provider: bearer-token
// verification, user lookup, and the role-claim surface consulted when new
// tokens are issued.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated identity derived from a verified credential.
// It is produced fresh per request and never persisted.
type Principal struct {
	Email string
	Name  string
	UID   string
}

// ProviderUser is the provider-side record for an account.
type ProviderUser struct {
	UID   string
	Email string
}

// Provider is the trust authority collaborator. Verify rejects forged,
// expired, and revoked credentials; SetRoleClaim updates the claim consulted
// on the next token issuance for that account.
type Provider interface {
	Verify(ctx context.Context, token string) (Principal, error)
	LookupByEmail(ctx context.Context, email string) (ProviderUser, error)
	SetRoleClaim(ctx context.Context, uid, role string) error
}

// ClaimStore persists role claims keyed by provider UID.
type ClaimStore interface {
	SetRole(ctx context.Context, uid, role string) error
	GetRole(ctx context.Context, uid string) (string, error)
}

// uidNamespace fixes the mapping from account email to provider UID. UIDs are
// stable across restarts because they are derived, not allocated.
var uidNamespace = uuid.MustParse("9a4f2c3e-81d5-4b1a-9f6e-2d7c5a0b8e41")

// UIDForEmail derives the provider UID for an email address.
func UIDForEmail(email string) string {
	return uuid.NewSHA1(uidNamespace, []byte(email)).String()
}
