// Package service serves the geographic reference data and owns the bundled
// seed dataset.
package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"rokthona/internal/audit"
	"rokthona/internal/geo/models"
	"rokthona/internal/geo/store"
	"rokthona/internal/identity"
	dErrors "rokthona/pkg/domain-errors"
	"rokthona/pkg/platform/sentinel"
)

//go:embed seed/districts.json
var districtSeed []byte

//go:embed seed/upazilas.json
var upazilaSeed []byte

type Service struct {
	store   store.Store
	auditor audit.Publisher
}

func New(st store.Store, auditor audit.Publisher) *Service {
	return &Service{store: st, auditor: auditor}
}

// Seed loads the bundled dataset into the store. A store that already holds
// districts is left untouched and reported as a conflict, so repeating the
// call is harmless.
func (s *Service) Seed(ctx context.Context, actor identity.Principal) error {
	districts, upazilas, err := loadSeed()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load seed data")
	}

	if err := s.store.Seed(ctx, districts, upazilas); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "reference data already seeded")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed reference data")
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionGeoSeeded,
		ActorEmail: actor.Email,
		Detail:     fmt.Sprintf("%d districts, %d upazilas", len(districts), len(upazilas)),
	})
	return nil
}

func (s *Service) ListDistricts(ctx context.Context) ([]models.District, error) {
	districts, err := s.store.ListDistricts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list districts")
	}
	return districts, nil
}

func (s *Service) ListUpazilas(ctx context.Context) ([]models.Upazila, error) {
	upazilas, err := s.store.ListUpazilas(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list upazilas")
	}
	return upazilas, nil
}

func (s *Service) ListUpazilasByDistrict(ctx context.Context, districtID string) ([]models.Upazila, error) {
	upazilas, err := s.store.ListUpazilasByDistrict(ctx, districtID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list upazilas")
	}
	return upazilas, nil
}

func loadSeed() ([]models.District, []models.Upazila, error) {
	var districts []models.District
	if err := json.Unmarshal(districtSeed, &districts); err != nil {
		return nil, nil, fmt.Errorf("parse district seed: %w", err)
	}
	var upazilas []models.Upazila
	if err := json.Unmarshal(upazilaSeed, &upazilas); err != nil {
		return nil, nil, fmt.Errorf("parse upazila seed: %w", err)
	}
	return districts, upazilas, nil
}
