package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"rokthona/internal/audit"
	"rokthona/internal/funding/gateway"
	"rokthona/internal/funding/store"
	"rokthona/internal/identity"
	dErrors "rokthona/pkg/domain-errors"
)

type stubGateway struct {
	lastAmount   int64
	lastCurrency string
	err          error
}

func (g *stubGateway) CreateIntent(_ context.Context, amountCents int64, currency string) (*gateway.Intent, error) {
	g.lastAmount = amountCents
	g.lastCurrency = currency
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
}

type ServiceSuite struct {
	suite.Suite
	gateway *stubGateway
	auditor *audit.MemoryPublisher
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.gateway = &stubGateway{}
	s.auditor = audit.NewMemoryPublisher()
	s.service = New(store.NewMemory(), s.gateway, s.auditor)
}

var payer = identity.Principal{Email: "alice@example.com", Name: "Alice"}

func (s *ServiceSuite) TestCreateIntentConvertsToCents() {
	ctx := context.Background()
	secret, err := s.service.CreateIntent(ctx, 25.50)
	s.Require().NoError(err)
	s.Equal("pi_123_secret", secret)
	s.EqualValues(2550, s.gateway.lastAmount)
	s.Equal("usd", s.gateway.lastCurrency)
}

func (s *ServiceSuite) TestCreateIntentEnforcesMinimum() {
	ctx := context.Background()
	_, err := s.service.CreateIntent(ctx, 9.99)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCreateIntentGatewayFailure() {
	ctx := context.Background()
	s.gateway.err = errors.New("stripe down")
	_, err := s.service.CreateIntent(ctx, 50)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestRecordPaymentUsesPrincipal() {
	ctx := context.Background()
	fund, err := s.service.RecordPayment(ctx, payer, 100, "txn_1")
	s.Require().NoError(err)
	s.Equal("alice@example.com", fund.Email)
	s.Equal("Alice", fund.Name)

	events := s.auditor.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionPaymentRecorded, events[0].Action)
	s.Equal("txn_1", events[0].Subject)
}

func (s *ServiceSuite) TestRecordPaymentValidation() {
	ctx := context.Background()
	_, err := s.service.RecordPayment(ctx, payer, 5, "txn_1")
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.RecordPayment(ctx, payer, 100, "")
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestListPagesAndTotals() {
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := s.service.RecordPayment(ctx, payer, 10, "txn")
		s.Require().NoError(err)
	}

	page, err := s.service.List(ctx, 0, 0)
	s.Require().NoError(err)
	s.Len(page.Funds, 10)
	s.Equal(2, page.TotalPages)

	total, err := s.service.Total(ctx)
	s.Require().NoError(err)
	s.EqualValues(120, total)
}
