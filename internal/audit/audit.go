// Package audit captures structured audit events for privileged and
// lifecycle-significant actions. Publishing is fire-and-forget: an audit sink
// outage must never fail the request that triggered the event.
package audit

import (
	"context"
	"time"
)

// Action names the audited operation.
type Action string

const (
	ActionUserCreated        Action = "user_created"
	ActionRoleChanged        Action = "role_changed"
	ActionDonationConfirmed  Action = "donation_confirmed"
	ActionStatusOverridden   Action = "status_overridden"
	ActionBlogDeleted        Action = "blog_deleted"
	ActionPaymentRecorded    Action = "payment_recorded"
	ActionGeoSeeded          Action = "geo_seeded"
)

// Event is emitted from domain logic to capture key actions. It stays
// transport-agnostic so sinks can fan out.
type Event struct {
	Action    Action
	Timestamp time.Time
	// ActorEmail is who performed the action.
	ActorEmail string
	// Subject identifies what was acted on (target email, request id).
	Subject string
	// Detail carries action-specific context (new role, new status).
	Detail string
	// RequestID correlates the event with the HTTP request logs.
	RequestID string
}

// Publisher is the sink interface services emit through.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}
