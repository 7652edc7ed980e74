package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/readtheroom/readtheroom/internal/domain/payments"
)

const (
	productName        = "Vibe Check (Full Report)"
	productDescription = "Unlock detailed roasts, red flags, and compatibility score."
	metadataKey        = "analysisId"
)

type Client struct {
	api           *client.API
	webhookSecret string
}

func NewClient(secretKey, webhookSecret string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, webhookSecret: webhookSecret}
}

// CreateCheckoutSession creates a hosted checkout page priced with the
// resolved tier. The analysis id rides along as session metadata; that is
// what connects the payment back to the cached analysis.
func (c *Client) CreateCheckoutSession(ctx context.Context, p payments.CheckoutParams) (string, error) {
	origin := strings.TrimRight(p.Origin, "/")

	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency: stripego.String(strings.ToLower(p.Tier.Currency)),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripego.String(productName),
						Description: stripego.String(productDescription),
					},
					UnitAmount: stripego.Int64(p.Tier.AmountMinor),
				},
				Quantity: stripego.Int64(1),
			},
		},
		SuccessURL: stripego.String(fmt.Sprintf("%s/?id=%s&payment=success", origin, p.AnalysisID)),
		CancelURL:  stripego.String(fmt.Sprintf("%s/?id=%s&payment=cancelled", origin, p.AnalysisID)),
	}
	params.Context = ctx
	params.AddMetadata(metadataKey, p.AnalysisID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// ParseWebhook verifies the payload signature against the configured secret
// and decodes the event. Unverified events are never processed.
func (c *Client) ParseWebhook(payload []byte, sigHeader string) (payments.Event, error) {
	if sigHeader == "" || c.webhookSecret == "" {
		return payments.Event{}, payments.ErrInvalidSignature
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return payments.Event{}, fmt.Errorf("%w: %v", payments.ErrInvalidSignature, err)
	}

	ev := payments.Event{Type: string(event.Type)}
	if ev.Type == payments.EventCheckoutCompleted {
		var sess stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return payments.Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		ev.AnalysisID = sess.Metadata[metadataKey]
	}
	return ev, nil
}
