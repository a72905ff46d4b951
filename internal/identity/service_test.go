package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	dErrors "rokthona/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	svc *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.svc = NewService("test-signing-key", "rokthona", "rokthona-api", NewMemoryClaimStore())
}

func (s *ServiceSuite) TestVerifyRoundTrip() {
	ctx := context.Background()
	token, err := s.svc.IssueToken(ctx, "donor@example.com", "Dana Donor", time.Hour)
	s.Require().NoError(err)

	principal, err := s.svc.Verify(ctx, token)
	s.Require().NoError(err)
	s.Equal("donor@example.com", principal.Email)
	s.Equal("Dana Donor", principal.Name)
	s.Equal(UIDForEmail("donor@example.com"), principal.UID)
}

func (s *ServiceSuite) TestVerifyRejectsExpiredToken() {
	ctx := context.Background()
	token, err := s.svc.IssueToken(ctx, "donor@example.com", "Dana Donor", -time.Minute)
	s.Require().NoError(err)

	_, err = s.svc.Verify(ctx, token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestVerifyRejectsForgedSignature() {
	forger := NewService("other-key", "rokthona", "rokthona-api", NewMemoryClaimStore())
	token, err := forger.IssueToken(context.Background(), "donor@example.com", "Dana", time.Hour)
	s.Require().NoError(err)

	_, err = s.svc.Verify(context.Background(), token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestVerifyRejectsWrongIssuer() {
	other := NewService("test-signing-key", "someone-else", "rokthona-api", NewMemoryClaimStore())
	token, err := other.IssueToken(context.Background(), "donor@example.com", "Dana", time.Hour)
	s.Require().NoError(err)

	_, err = s.svc.Verify(context.Background(), token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestVerifyRejectsUnsignedToken() {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "donor@example.com"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	_, err = s.svc.Verify(context.Background(), raw)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

// TestRoleClaimPropagation covers the contract behind admin role assignment:
// the next token issued after SetRoleClaim carries the new role.
func (s *ServiceSuite) TestRoleClaimPropagation() {
	ctx := context.Background()
	uid := UIDForEmail("promoted@example.com")

	before, err := s.svc.IssueToken(ctx, "promoted@example.com", "P", time.Hour)
	s.Require().NoError(err)
	s.Equal("", s.roleInToken(before))

	s.Require().NoError(s.svc.SetRoleClaim(ctx, uid, "admin"))

	after, err := s.svc.IssueToken(ctx, "promoted@example.com", "P", time.Hour)
	s.Require().NoError(err)
	s.Equal("admin", s.roleInToken(after))
}

func (s *ServiceSuite) TestUIDDerivationIsStable() {
	ctx := context.Background()
	a, err := s.svc.LookupByEmail(ctx, "a@x.com")
	s.Require().NoError(err)
	b, err := s.svc.LookupByEmail(ctx, "a@x.com")
	s.Require().NoError(err)
	other, err := s.svc.LookupByEmail(ctx, "b@x.com")
	s.Require().NoError(err)

	s.Equal(a.UID, b.UID)
	s.NotEqual(a.UID, other.UID)
}

func (s *ServiceSuite) roleInToken(token string) string {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-signing-key"), nil
	})
	s.Require().NoError(err)
	claims, ok := parsed.Claims.(*Claims)
	s.Require().True(ok)
	return claims.Role
}
