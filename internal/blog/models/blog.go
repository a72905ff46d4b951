// Package models defines blog posts and their publication states.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the blog publication state. Posts start as drafts and only
// published ones belong on the public site.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known publication state.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type Blog struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ThumbnailURL string    `json:"thumbnail,omitempty"`
	AuthorEmail  string    `json:"authorEmail"`
	AuthorName   string    `json:"authorName"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
