package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rokthona/internal/donation/models"
	"rokthona/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func newTestRequest(requester string, status models.Status, donationDate time.Time) *models.DonationRequest {
	return &models.DonationRequest{
		ID:             uuid.New(),
		RequesterEmail: requester,
		RequesterName:  "Requester",
		RecipientName:  "Recipient",
		BloodGroup:     "B+",
		District:       "Dhaka",
		Status:         status,
		DonationDate:   donationDate,
		CreatedAt:      time.Now(),
	}
}

func (s *MemoryStoreSuite) TestCreateAndLookup() {
	ctx := context.Background()
	request := newTestRequest("alice@example.com", models.StatusPending, time.Now())
	s.Require().NoError(s.store.Create(ctx, request))

	found, err := s.store.FindByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(request.RequesterEmail, found.RequesterEmail)
	s.Equal(models.StatusPending, found.Status)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestConfirmStampsDonor() {
	ctx := context.Background()
	request := newTestRequest("alice@example.com", models.StatusPending, time.Now())
	s.Require().NoError(s.store.Create(ctx, request))

	confirmedAt := time.Now()
	donor := models.Donor{Name: "Bob", Email: "bob@example.com", UID: "uid-bob"}
	s.Require().NoError(s.store.Confirm(ctx, request.ID, donor, confirmedAt))

	found, err := s.store.FindByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, found.Status)
	s.Equal("Bob", found.DonorName)
	s.Equal("bob@example.com", found.DonorEmail)
	s.Equal("uid-bob", found.DonorUID)
	s.Require().NotNil(found.ConfirmedAt)
	s.WithinDuration(confirmedAt, *found.ConfirmedAt, time.Second)
}

func (s *MemoryStoreSuite) TestConfirmRejectsNonPending() {
	ctx := context.Background()
	request := newTestRequest("alice@example.com", models.StatusDone, time.Now())
	s.Require().NoError(s.store.Create(ctx, request))

	donor := models.Donor{Name: "Bob", Email: "bob@example.com"}
	s.Require().ErrorIs(s.store.Confirm(ctx, request.ID, donor, time.Now()), sentinel.ErrInvalidState)
	s.Require().ErrorIs(s.store.Confirm(ctx, uuid.New(), donor, time.Now()), sentinel.ErrInvalidState)
}

func (s *MemoryStoreSuite) TestConcurrentConfirmsExactlyOneWins() {
	ctx := context.Background()
	request := newTestRequest("alice@example.com", models.StatusPending, time.Now())
	s.Require().NoError(s.store.Create(ctx, request))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	donors := []models.Donor{
		{Name: "Bob", Email: "bob@example.com", UID: "uid-bob"},
		{Name: "Carol", Email: "carol@example.com", UID: "uid-carol"},
	}
	for i := range donors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.store.Confirm(ctx, request.ID, donors[i], time.Now())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			s.Require().ErrorIs(err, sentinel.ErrInvalidState)
		}
	}
	s.Equal(1, winners)

	found, err := s.store.FindByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, found.Status)
	s.Contains([]string{"bob@example.com", "carol@example.com"}, found.DonorEmail)
}

func (s *MemoryStoreSuite) TestSetStatusUnconditional() {
	ctx := context.Background()
	request := newTestRequest("alice@example.com", models.StatusDone, time.Now())
	s.Require().NoError(s.store.Create(ctx, request))

	s.Require().NoError(s.store.SetStatus(ctx, request.ID, models.StatusCanceled))

	found, err := s.store.FindByID(ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCanceled, found.Status)

	s.Require().ErrorIs(s.store.SetStatus(ctx, uuid.New(), models.StatusDone), sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestListByRequesterFiltersAndPages() {
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 5; i++ {
		request := newTestRequest("alice@example.com", models.StatusPending, base.Add(time.Duration(i)*time.Hour))
		s.Require().NoError(s.store.Create(ctx, request))
	}
	s.Require().NoError(s.store.Create(ctx, newTestRequest("other@example.com", models.StatusPending, base)))
	s.Require().NoError(s.store.Create(ctx, newTestRequest("alice@example.com", models.StatusDone, base)))

	requests, total, err := s.store.ListByRequester(ctx, "alice@example.com", models.ListFilter{
		Status: models.StatusPending,
		Page:   1,
		Limit:  2,
	})
	s.Require().NoError(err)
	s.EqualValues(5, total)
	s.Require().Len(requests, 2)
	s.True(requests[0].DonationDate.After(requests[1].DonationDate))

	requests, _, err = s.store.ListByRequester(ctx, "alice@example.com", models.ListFilter{
		Status: models.StatusPending,
		Page:   3,
		Limit:  2,
	})
	s.Require().NoError(err)
	s.Len(requests, 1)
}

func (s *MemoryStoreSuite) TestListPendingOnly() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRequest("a@example.com", models.StatusPending, time.Now())))
	s.Require().NoError(s.store.Create(ctx, newTestRequest("b@example.com", models.StatusDone, time.Now())))
	s.Require().NoError(s.store.Create(ctx, newTestRequest("c@example.com", models.StatusPending, time.Now())))

	pending, err := s.store.ListPending(ctx)
	s.Require().NoError(err)
	s.Len(pending, 2)

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(3, count)
}

func (s *MemoryStoreSuite) TestListByDonor() {
	ctx := context.Background()
	confirmed := newTestRequest("a@example.com", models.StatusPending, time.Now())
	s.Require().NoError(s.store.Create(ctx, confirmed))
	s.Require().NoError(s.store.Create(ctx, newTestRequest("b@example.com", models.StatusPending, time.Now())))

	donor := models.Donor{Name: "Bob", Email: "bob@example.com", UID: "uid-bob"}
	s.Require().NoError(s.store.Confirm(ctx, confirmed.ID, donor, time.Now()))

	mine, err := s.store.ListByDonor(ctx, "bob@example.com")
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(confirmed.ID, mine[0].ID)
}
