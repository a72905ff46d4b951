package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rokthona/internal/audit"
	"rokthona/internal/identity"
	"rokthona/internal/user/models"
	"rokthona/internal/user/store"
	dErrors "rokthona/pkg/domain-errors"
)

// failingClaimProvider wraps the identity service but rejects claim writes,
// simulating an unreachable identity provider during role assignment.
type failingClaimProvider struct {
	*identity.Service
}

func (f *failingClaimProvider) SetRoleClaim(context.Context, string, string) error {
	return errors.New("identity provider unreachable")
}

type ServiceSuite struct {
	suite.Suite
	store    *store.MemoryStore
	provider *identity.Service
	auditor  *audit.MemoryPublisher
	svc      *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.provider = identity.NewService("test-key", "rokthona", "rokthona-api", identity.NewMemoryClaimStore())
	s.auditor = audit.NewMemoryPublisher()
	s.svc = New(s.store, s.provider, s.auditor, nil)
}

func (s *ServiceSuite) register(email string) *models.User {
	user, err := s.svc.Register(context.Background(), RegisterInput{Email: email, Name: "Test User"})
	s.Require().NoError(err)
	return user
}

func (s *ServiceSuite) TestRegisterDefaultsToDonor() {
	user := s.register("a@x.com")
	s.Equal(models.RoleDonor, user.Role)
	s.Equal(models.StatusActive, user.Status)

	// Round trip: the stored record carries the default role too.
	fetched, err := s.svc.GetByEmail(context.Background(), "a@x.com")
	s.Require().NoError(err)
	s.Equal(models.RoleDonor, fetched.Role)
}

func (s *ServiceSuite) TestRegisterDuplicateConflicts() {
	s.register("a@x.com")

	_, err := s.svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "Again"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestRegisterRejectsInvalidEmail() {
	_, err := s.svc.Register(context.Background(), RegisterInput{Email: "not-an-email"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestResolveRole() {
	s.register("a@x.com")

	role, err := s.svc.ResolveRole(context.Background(), "a@x.com")
	s.Require().NoError(err)
	s.Equal("donor", role)

	// Missing record resolves to the empty role, not an error: the guards
	// treat it as forbidden.
	role, err = s.svc.ResolveRole(context.Background(), "ghost@x.com")
	s.Require().NoError(err)
	s.Equal("", role)
}

func (s *ServiceSuite) TestSetRoleUpdatesDirectoryAndClaim() {
	s.register("target@x.com")
	admin := identity.Principal{Email: "boss@x.com"}

	err := s.svc.SetRole(context.Background(), admin, "target@x.com", models.RoleVolunteer)
	s.Require().NoError(err)

	role, err := s.svc.ResolveRole(context.Background(), "target@x.com")
	s.Require().NoError(err)
	s.Equal("volunteer", role)

	// The next token issued for the target carries the new claim.
	token, err := s.provider.IssueToken(context.Background(), "target@x.com", "Test User", time.Hour)
	s.Require().NoError(err)
	principal, err := s.provider.Verify(context.Background(), token)
	s.Require().NoError(err)
	s.Equal("target@x.com", principal.Email)

	events := s.auditor.Events()
	s.Require().Len(events, 2) // user_created + role_changed
	s.Equal(audit.ActionRoleChanged, events[1].Action)
	s.Equal("boss@x.com", events[1].ActorEmail)
	s.Equal("volunteer", events[1].Detail)
}

func (s *ServiceSuite) TestSetRoleFailedClaimLeavesDirectoryUntouched() {
	s.register("target@x.com")
	broken := &failingClaimProvider{Service: s.provider}
	svc := New(s.store, broken, s.auditor, nil)

	err := svc.SetRole(context.Background(), identity.Principal{Email: "boss@x.com"}, "target@x.com", models.RoleAdmin)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	// The claim leg failed, so the directory write never ran.
	role, err := s.svc.ResolveRole(context.Background(), "target@x.com")
	s.Require().NoError(err)
	s.Equal("donor", role)
}

func (s *ServiceSuite) TestSetRoleRejectsUnknownRole() {
	s.register("target@x.com")
	err := s.svc.SetRole(context.Background(), identity.Principal{Email: "boss@x.com"}, "target@x.com", models.Role("owner"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSetRoleMissingTarget() {
	err := s.svc.SetRole(context.Background(), identity.Principal{Email: "boss@x.com"}, "ghost@x.com", models.RoleAdmin)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSearchDonorsMatchesBloodGroupCaseInsensitively() {
	ctx := context.Background()
	u := s.register("donor1@x.com")
	s.Require().NoError(s.svc.UpdateProfile(ctx, u.Email, models.Profile{Name: "D1", BloodGroup: "A+", District: "Dhaka", Upazila: "Savar"}))
	u2 := s.register("donor2@x.com")
	s.Require().NoError(s.svc.UpdateProfile(ctx, u2.Email, models.Profile{Name: "D2", BloodGroup: "B-", District: "Dhaka", Upazila: "Savar"}))

	donors, err := s.svc.SearchDonors(ctx, models.DonorFilter{BloodGroup: "a+", District: "Dhaka"})
	s.Require().NoError(err)
	s.Require().Len(donors, 1)
	s.Equal("donor1@x.com", donors[0].Email)
}

func (s *ServiceSuite) TestRegisterDerivesNameFromEmail() {
	user, err := s.svc.Register(context.Background(), RegisterInput{Email: "jane.doe@x.com"})
	s.Require().NoError(err)
	s.Equal("Jane Doe", user.Name)
}
