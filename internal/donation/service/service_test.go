package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rokthona/internal/audit"
	"rokthona/internal/donation/models"
	"rokthona/internal/donation/store"
	"rokthona/internal/identity"
	dErrors "rokthona/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	store   *store.MemoryStore
	auditor *audit.MemoryPublisher
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.auditor = audit.NewMemoryPublisher()
	s.service = New(s.store, s.auditor, nil)
}

var (
	requester = identity.Principal{Email: "alice@example.com", Name: "Alice"}
	donor     = identity.Principal{Email: "bob@example.com", Name: "Bob", UID: "uid-bob"}
	volunteer = identity.Principal{Email: "vol@example.com", Name: "Vol"}
)

func validInput() CreateInput {
	return CreateInput{
		RecipientName: "Patient",
		BloodGroup:    "AB-",
		District:      "Dhaka",
		Upazila:       "Dhanmondi",
		Hospital:      "Central Hospital",
		Address:       "12 Road 5",
		DonationDate:  time.Now().Add(48 * time.Hour),
	}
}

func (s *ServiceSuite) TestCreateForcesPendingStatus() {
	ctx := context.Background()
	request, err := s.service.Create(ctx, requester, validInput())
	s.Require().NoError(err)

	s.Equal(models.StatusPending, request.Status)
	s.Equal("alice@example.com", request.RequesterEmail)
	s.Equal("Alice", request.RequesterName)
	s.Empty(request.DonorEmail)
	s.Nil(request.ConfirmedAt)
}

func (s *ServiceSuite) TestCreateRejectsMissingFields() {
	ctx := context.Background()

	input := validInput()
	input.RecipientName = ""
	_, err := s.service.Create(ctx, requester, input)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))

	input = validInput()
	input.DonationDate = time.Time{}
	_, err = s.service.Create(ctx, requester, input)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestConfirmStampsDonorAndAudits() {
	ctx := context.Background()
	request, err := s.service.Create(ctx, requester, validInput())
	s.Require().NoError(err)

	confirmed, err := s.service.Confirm(ctx, donor, request.ID)
	s.Require().NoError(err)

	s.Equal(models.StatusInProgress, confirmed.Status)
	s.Equal("bob@example.com", confirmed.DonorEmail)
	s.Equal("uid-bob", confirmed.DonorUID)
	s.Require().NotNil(confirmed.ConfirmedAt)

	events := s.auditor.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionDonationConfirmed, events[0].Action)
	s.Equal("bob@example.com", events[0].ActorEmail)
	s.Equal(request.ID.String(), events[0].Subject)
}

func (s *ServiceSuite) TestConfirmNotIdempotent() {
	ctx := context.Background()
	request, err := s.service.Create(ctx, requester, validInput())
	s.Require().NoError(err)

	_, err = s.service.Confirm(ctx, donor, request.ID)
	s.Require().NoError(err)

	// A second confirm, even by the same donor, is rejected.
	_, err = s.service.Confirm(ctx, donor, request.ID)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	found, err := s.service.GetByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal("bob@example.com", found.DonorEmail)
	s.Len(s.auditor.Events(), 1)
}

func (s *ServiceSuite) TestConfirmMissingLooksLikeConfirmed() {
	ctx := context.Background()
	_, err := s.service.Confirm(ctx, donor, uuid.New())
	s.Require().True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestConcurrentConfirmsExactlyOneWins() {
	ctx := context.Background()
	request, err := s.service.Create(ctx, requester, validInput())
	s.Require().NoError(err)

	other := identity.Principal{Email: "carol@example.com", Name: "Carol", UID: "uid-carol"}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, p := range []identity.Principal{donor, other} {
		wg.Add(1)
		go func(i int, p identity.Principal) {
			defer wg.Done()
			_, errs[i] = s.service.Confirm(ctx, p, request.ID)
		}(i, p)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			s.Require().True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		}
	}
	s.Equal(1, winners)
	s.Len(s.auditor.Events(), 1)
}

func (s *ServiceSuite) TestOverrideStatusValidatesAndAudits() {
	ctx := context.Background()
	request, err := s.service.Create(ctx, requester, validInput())
	s.Require().NoError(err)

	err = s.service.OverrideStatus(ctx, volunteer, request.ID, models.Status("archived"))
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))

	err = s.service.OverrideStatus(ctx, volunteer, uuid.New(), models.StatusDone)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.Require().NoError(s.service.OverrideStatus(ctx, volunteer, request.ID, models.StatusCanceled))

	found, err := s.service.GetByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCanceled, found.Status)

	events := s.auditor.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionStatusOverridden, events[0].Action)
	s.Equal("canceled", events[0].Detail)
}

func (s *ServiceSuite) TestOverrideDoesNotTouchDonorFields() {
	ctx := context.Background()
	request, err := s.service.Create(ctx, requester, validInput())
	s.Require().NoError(err)
	_, err = s.service.Confirm(ctx, donor, request.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.service.OverrideStatus(ctx, volunteer, request.ID, models.StatusDone))

	found, err := s.service.GetByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDone, found.Status)
	s.Equal("bob@example.com", found.DonorEmail)
	s.NotNil(found.ConfirmedAt)
}

func (s *ServiceSuite) TestListByRequesterDefaultsAndTotalPages() {
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		input := validInput()
		input.DonationDate = time.Now().Add(time.Duration(i) * time.Hour)
		_, err := s.service.Create(ctx, requester, input)
		s.Require().NoError(err)
	}

	page, err := s.service.ListByRequester(ctx, "alice@example.com", models.ListFilter{})
	s.Require().NoError(err)
	s.Len(page.Requests, 10)
	s.Equal(2, page.TotalPages)

	page, err = s.service.ListByRequester(ctx, "alice@example.com", models.ListFilter{Page: 2})
	s.Require().NoError(err)
	s.Len(page.Requests, 2)

	_, err = s.service.ListByRequester(ctx, "alice@example.com", models.ListFilter{Status: "archived"})
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestGetByIDMissing() {
	ctx := context.Background()
	_, err := s.service.GetByID(ctx, uuid.New())
	s.Require().True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
