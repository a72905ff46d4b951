// Package service aggregates the dashboard counters.
package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	dErrors "rokthona/pkg/domain-errors"
)

// Summary is the dashboard payload.
type Summary struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalRequests int64   `json:"totalRequests"`
	TotalFunding  float64 `json:"totalFunding"`
}

// UserCounter counts directory records.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// RequestCounter counts donation requests.
type RequestCounter interface {
	Count(ctx context.Context) (int64, error)
}

// FundTotaler sums the funding ledger.
type FundTotaler interface {
	Total(ctx context.Context) (float64, error)
}

type Service struct {
	users    UserCounter
	requests RequestCounter
	funds    FundTotaler
}

func New(users UserCounter, requests RequestCounter, funds FundTotaler) *Service {
	return &Service{users: users, requests: requests, funds: funds}
}

// Summarize gathers the three counters in parallel. The first failure
// cancels the rest.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	var summary Summary

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.users.Count(ctx)
		summary.TotalUsers = count
		return err
	})
	g.Go(func() error {
		count, err := s.requests.Count(ctx)
		summary.TotalRequests = count
		return err
	})
	g.Go(func() error {
		total, err := s.funds.Total(ctx)
		summary.TotalFunding = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to gather stats")
	}
	return &summary, nil
}
