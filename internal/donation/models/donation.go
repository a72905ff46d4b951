// Package models defines donation request records and their lifecycle states.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the donation request lifecycle state.
//
// pending → inprogress → {done, canceled}
//
// Only the pending→inprogress transition is guarded (donor confirmation);
// done and canceled are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
	StatusCanceled   Status = "canceled"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// DonationRequest is a blood donation request. Donor fields are empty until
// a donor confirms; they are populated iff status is inprogress or done.
type DonationRequest struct {
	ID             uuid.UUID `json:"id"`
	RequesterEmail string    `json:"requesterEmail"`
	RequesterName  string    `json:"requesterName"`
	RecipientName  string    `json:"recipientName"`
	BloodGroup     string    `json:"bloodGroup"`
	District       string    `json:"district"`
	Upazila        string    `json:"upazila"`
	Hospital       string    `json:"hospital"`
	Address        string    `json:"address"`
	Message        string    `json:"message,omitempty"`
	DonationDate   time.Time `json:"donationDate"`

	Status Status `json:"status"`

	DonorName   string     `json:"donorName,omitempty"`
	DonorEmail  string     `json:"donorEmail,omitempty"`
	DonorUID    string     `json:"donorId,omitempty"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Donor carries the identity stamped onto a request at confirmation, taken
// from the authenticated principal rather than the request body.
type Donor struct {
	Name  string
	Email string
	UID   string
}

// ListFilter narrows and pages request listings. Zero Status matches all;
// Page and Limit are 1-based with service-side defaults.
type ListFilter struct {
	Status Status
	Page   int
	Limit  int
}

// Page is one page of a request listing plus the page count for the filter.
type Page struct {
	Requests   []*DonationRequest `json:"requests"`
	TotalPages int                `json:"totalPages"`
}
