// Package service manages blog posts: drafting, publication, and removal.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rokthona/internal/audit"
	"rokthona/internal/blog/models"
	"rokthona/internal/blog/store"
	"rokthona/internal/identity"
	dErrors "rokthona/pkg/domain-errors"
	"rokthona/pkg/platform/sentinel"
)

type Service struct {
	store   store.Store
	auditor audit.Publisher
}

func New(st store.Store, auditor audit.Publisher) *Service {
	return &Service{store: st, auditor: auditor}
}

type CreateInput struct {
	Title        string
	Content      string
	ThumbnailURL string
}

// Create drafts a new post. Every post starts as a draft; publication is a
// separate step.
func (s *Service) Create(ctx context.Context, author identity.Principal, input CreateInput) (*models.Blog, error) {
	if input.Title == "" || input.Content == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title and content are required")
	}

	blog := &models.Blog{
		ID:           uuid.New(),
		Title:        input.Title,
		Content:      input.Content,
		ThumbnailURL: input.ThumbnailURL,
		AuthorEmail:  author.Email,
		AuthorName:   author.Name,
		Status:       models.StatusDraft,
		CreatedAt:    time.Now(),
	}

	if err := s.store.Create(ctx, blog); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create blog")
	}
	return blog, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	blog, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "blog not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blog")
	}
	return blog, nil
}

func (s *Service) List(ctx context.Context, status models.Status) ([]*models.Blog, error) {
	if status != "" && !status.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown blog status")
	}
	blogs, err := s.store.List(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list blogs")
	}
	return blogs, nil
}

// SetStatus moves a post between draft and published.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	if !status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "status must be draft or published")
	}
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "blog not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update blog")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Principal, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "blog not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete blog")
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:     audit.ActionBlogDeleted,
		ActorEmail: actor.Email,
		Subject:    id.String(),
	})
	return nil
}
