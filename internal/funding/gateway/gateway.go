// Package gateway abstracts the external payment provider.
package gateway

import (
	"context"
	"errors"
)

// Intent is a provider-side payment intent. ClientSecret is handed to the
// client to complete the charge; it never touches our storage.
type Intent struct {
	ID           string
	ClientSecret string
}

// PaymentGateway creates payment intents with the external provider.
// Amounts are in the currency's smallest unit.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (*Intent, error)
}

// ErrGatewayDisabled is returned when no provider is configured.
var ErrGatewayDisabled = errors.New("payment gateway is not configured")

// Disabled stands in when no provider credentials are configured. Every
// intent creation fails; the rest of funding keeps working.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, int64, string) (*Intent, error) {
	return nil, ErrGatewayDisabled
}
