// Package models defines the funding ledger records.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Fund is one completed contribution. Rows are append-only; the ledger is
// never edited after the fact.
type Fund struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transactionId"`
	Date          time.Time `json:"date"`
}

// Page is one page of the ledger plus the page count.
type Page struct {
	Funds      []*Fund `json:"funds"`
	TotalPages int     `json:"totalPages"`
}
