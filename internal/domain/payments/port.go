package payments

import (
	"context"
	"errors"

	"github.com/readtheroom/readtheroom/internal/domain/pricing"
)

// ErrInvalidSignature indicates a webhook delivery that failed verification.
// Such events must never be processed.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// EventCheckoutCompleted is the only event type that mutates state.
const EventCheckoutCompleted = "checkout.session.completed"

type CheckoutParams struct {
	AnalysisID string
	Origin     string
	Tier       pricing.Tier
}

// Event is a verified webhook event. AnalysisID is only set for
// checkout-completed events that carry it in their metadata.
type Event struct {
	Type       string
	AnalysisID string
}

// Gateway port (interface untuk payment provider)
type Gateway interface {
	// CreateCheckoutSession returns the hosted checkout redirect URL.
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	// ParseWebhook verifies the signature and decodes the event.
	ParseWebhook(payload []byte, sigHeader string) (Event, error)
}
