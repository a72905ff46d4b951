package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "rokthona/pkg/domain-errors"
)

// Claims are the token claims carried by access tokens.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Service implements Provider on HS256 tokens plus a ClaimStore holding the
// role claims. Verification is stateless apart from the claim store, so the
// Service is safe for concurrent use across all request handlers.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	claims     ClaimStore
}

func NewService(signingKey, issuer, audience string, claims ClaimStore) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		claims:     claims,
	}
}

// Verify decodes and validates a bearer token, returning the Principal it
// carries. Rejected credentials (expired, forged, wrong algorithm) map to
// CodeForbidden: the caller presented a credential, it just was not valid.
func (s *Service) Verify(ctx context.Context, token string) (Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, dErrors.New(dErrors.CodeForbidden, "token has expired")
		}
		return Principal{}, dErrors.New(dErrors.CodeForbidden, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Principal{}, dErrors.New(dErrors.CodeForbidden, "invalid token claims")
	}
	if claims.Email == "" {
		return Principal{}, dErrors.New(dErrors.CodeForbidden, "token carries no subject email")
	}

	return Principal{
		Email: claims.Email,
		Name:  claims.Name,
		UID:   claims.Subject,
	}, nil
}

// LookupByEmail resolves the provider record for an email address.
func (s *Service) LookupByEmail(_ context.Context, email string) (ProviderUser, error) {
	if email == "" {
		return ProviderUser{}, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return ProviderUser{UID: UIDForEmail(email), Email: email}, nil
}

// SetRoleClaim writes the role claim for uid. Tokens issued after this call
// carry the new role; tokens already in flight keep their old claim until
// they expire.
func (s *Service) SetRoleClaim(ctx context.Context, uid, role string) error {
	if err := s.claims.SetRole(ctx, uid, role); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update role claim")
	}
	return nil
}

// IssueToken mints an access token for the account, stamping the current
// role claim from the claim store.
func (s *Service) IssueToken(ctx context.Context, email, name string, ttl time.Duration) (string, error) {
	uid := UIDForEmail(email)
	role, err := s.claims.GetRole(ctx, uid)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load role claim")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}
