package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rokthona/internal/audit"
	bloghandler "rokthona/internal/blog/handler"
	blogservice "rokthona/internal/blog/service"
	blogstore "rokthona/internal/blog/store"
	donationhandler "rokthona/internal/donation/handler"
	donationmodels "rokthona/internal/donation/models"
	donationservice "rokthona/internal/donation/service"
	donationstore "rokthona/internal/donation/store"
	"rokthona/internal/funding/gateway"
	fundinghandler "rokthona/internal/funding/handler"
	fundingservice "rokthona/internal/funding/service"
	fundingstore "rokthona/internal/funding/store"
	geohandler "rokthona/internal/geo/handler"
	geoservice "rokthona/internal/geo/service"
	geostore "rokthona/internal/geo/store"
	"rokthona/internal/identity"
	"rokthona/internal/platform/middleware"
	statshandler "rokthona/internal/stats/handler"
	statsservice "rokthona/internal/stats/service"
	httptransport "rokthona/internal/transport/http"
	userhandler "rokthona/internal/user/handler"
	usermodels "rokthona/internal/user/models"
	userservice "rokthona/internal/user/service"
	userstore "rokthona/internal/user/store"
)

// APISuite exercises the assembled router over httptest with in-memory
// stores: real token verification, real guards, real handlers.
type APISuite struct {
	suite.Suite
	server   *httptest.Server
	provider *identity.Service
	users    *userservice.Service
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditor := audit.NewMemoryPublisher()

	s.provider = identity.NewService("e2e-secret", "rokthona", "rokthona-api", identity.NewMemoryClaimStore())
	s.users = userservice.New(userstore.NewMemory(), s.provider, auditor, nil)
	donations := donationservice.New(donationstore.NewMemory(), auditor, nil)
	blogs := blogservice.New(blogstore.NewMemory(), auditor)
	geo := geoservice.New(geostore.NewMemory(), auditor)
	funding := fundingservice.New(fundingstore.NewMemory(), gateway.Disabled{}, auditor)
	stats := statsservice.New(s.users, donations, funding)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    logger,
		Guards:    middleware.NewGuards(s.provider, s.users, logger, nil),
		Users:     userhandler.New(s.users, logger),
		Donations: donationhandler.New(donations, logger),
		Blogs:     bloghandler.New(blogs, logger),
		Geo:       geohandler.New(geo, logger),
		Funding:   fundinghandler.New(funding, logger),
		Stats:     statshandler.New(stats, logger),
	})
	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)
}

func (s *APISuite) register(email, name string) {
	body, _ := json.Marshal(map[string]string{"email": email, "name": name})
	resp, err := http.Post(s.server.URL+"/users", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
}

func (s *APISuite) tokenFor(email, name string) string {
	token, err := s.provider.IssueToken(context.Background(), email, name, time.Minute)
	s.Require().NoError(err)
	return token
}

func (s *APISuite) grantRole(email, role string) {
	s.Require().NoError(s.users.SetRole(context.Background(),
		identity.Principal{Email: "system@example.com"}, email, usermodels.Role(role)))
}

func (s *APISuite) do(method, path, token string, payload any) *http.Response {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, body)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func decode[T any](s *APISuite, resp *http.Response) T {
	defer resp.Body.Close()
	var out T
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *APISuite) TestDuplicateRegistrationConflicts() {
	s.register("jane@example.com", "Jane")

	body, _ := json.Marshal(map[string]string{"email": "jane@example.com", "name": "Jane Again"})
	resp, err := http.Post(s.server.URL+"/users", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *APISuite) TestMissingTokenIs401() {
	resp := s.do(http.MethodGet, "/donation-requests/pending", "", nil)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *APISuite) TestConfirmScenarioEndToEnd() {
	s.register("alice@example.com", "Alice")
	s.register("bob@example.com", "Bob")
	alice := s.tokenFor("alice@example.com", "Alice")
	bob := s.tokenFor("bob@example.com", "Bob")

	resp := s.do(http.MethodPost, "/donation-requests", alice, map[string]string{
		"recipientName": "Patient",
		"bloodGroup":    "B+",
		"district":      "Dhaka",
		"donationDate":  "2026-09-15",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := decode[donationmodels.DonationRequest](s, resp)
	s.Equal(donationmodels.StatusPending, created.Status)

	resp = s.do(http.MethodPatch, "/donation-requests/"+created.ID.String()+"/confirm", bob, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	confirmed := decode[donationmodels.DonationRequest](s, resp)
	s.Equal(donationmodels.StatusInProgress, confirmed.Status)
	s.Equal("bob@example.com", confirmed.DonorEmail)
	s.NotNil(confirmed.ConfirmedAt)

	// A second confirm attempt loses.
	resp = s.do(http.MethodPatch, "/donation-requests/"+created.ID.String()+"/confirm", alice, nil)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APISuite) TestRoleGateOnStatusOverride() {
	s.register("alice@example.com", "Alice")
	s.register("carol@example.com", "Carol")
	alice := s.tokenFor("alice@example.com", "Alice")

	resp := s.do(http.MethodPost, "/donation-requests", alice, map[string]string{
		"recipientName": "Patient",
		"bloodGroup":    "O-",
		"district":      "Dhaka",
		"donationDate":  "2026-09-15",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := decode[donationmodels.DonationRequest](s, resp)

	// A plain donor cannot override status.
	resp = s.do(http.MethodPatch, "/donation-requests/"+created.ID.String()+"/status", alice,
		map[string]string{"status": "done"})
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	s.grantRole("carol@example.com", "admin")
	carol := s.tokenFor("carol@example.com", "Carol")
	resp = s.do(http.MethodPatch, "/donation-requests/"+created.ID.String()+"/status", carol,
		map[string]string{"status": "done"})
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *APISuite) TestSetRoleRequiresAdmin() {
	s.register("jane@example.com", "Jane")
	s.register("mallory@example.com", "Mallory")
	mallory := s.tokenFor("mallory@example.com", "Mallory")

	resp := s.do(http.MethodPut, "/users/jane@example.com/role", mallory,
		map[string]string{"role": "admin"})
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *APISuite) TestPublicRoutesNeedNoToken() {
	resp, err := http.Get(s.server.URL + "/blogs")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
