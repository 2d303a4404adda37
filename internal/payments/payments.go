// Package payments wraps the payment provider: intent creation and webhook
// verification.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const MetadataOrderID = "orderId"

// Event types the shop reacts to.
const (
	EventSucceeded  = "payment_intent.succeeded"
	EventCanceled   = "payment_intent.canceled"
	EventFailed     = "payment_intent.payment_failed"
	EventProcessing = "payment_intent.processing"
)

var ErrSignature = errors.New("payments: webhook signature verification failed")

type Intent struct {
	ID           string
	ClientSecret string
}

type Event struct {
	ID       string
	Type     string
	Metadata map[string]string
}

// Handled reports whether the event type is one the shop reacts to.
func (e *Event) Handled() bool {
	switch e.Type {
	case EventSucceeded, EventCanceled, EventFailed, EventProcessing:
		return true
	}
	return false
}

// Provider is what the order and payment services need from the gateway.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, orderID uint, amount int64) (*Intent, error)
	ConstructEvent(payload []byte, signature string) (*Event, error)
}

type intentCreator interface {
	create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type Config struct {
	APIKey        string
	WebhookSecret string
	Currency      string
}

type Stripe struct {
	intents       intentCreator
	webhookSecret string
	currency      string
}

// NewStripe talks to the Stripe API when an API key is configured. Without a
// key, intents are minted locally so the checkout flow works offline.
func NewStripe(cfg Config) *Stripe {
	var intents intentCreator = localIntents{}
	if cfg.APIKey != "" {
		intents = &stripeIntents{api: client.New(cfg.APIKey, nil)}
	}
	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &Stripe{intents: intents, webhookSecret: cfg.WebhookSecret, currency: currency}
}

// MinorUnits converts a whole currency amount into cents.
func MinorUnits(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(decimal.NewFromInt(100)).IntPart()
}

func (s *Stripe) CreatePaymentIntent(ctx context.Context, orderID uint, amount int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(MinorUnits(amount)),
		Currency:           stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.AddMetadata(MetadataOrderID, strconv.FormatUint(uint64(orderID), 10))
	params.Context = ctx

	pi, err := s.intents.create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("payments: create intent for order %d: %w", orderID, err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ConstructEvent verifies the signature against the webhook secret. Without a
// configured secret every event is rejected.
func (s *Stripe) ConstructEvent(payload []byte, signature string) (*Event, error) {
	if s.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", ErrSignature)
	}
	evt, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type), Metadata: map[string]string{}}
	if evt.Data != nil && len(evt.Data.Raw) > 0 {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(evt.Data.Raw, &pi); err == nil && pi.Metadata != nil {
			out.Metadata = pi.Metadata
		}
	}
	return out, nil
}

type stripeIntents struct {
	api *client.API
}

func (s *stripeIntents) create(_ context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return s.api.PaymentIntents.New(params)
}

type localIntents struct{}

func (localIntents) create(_ context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	id := "pi_local_" + uuid.NewString()
	return &stripe.PaymentIntent{
		ID:           id,
		Amount:       stripe.Int64Value(params.Amount),
		Currency:     stripe.Currency(stripe.StringValue(params.Currency)),
		ClientSecret: id + "_secret_" + uuid.NewString(),
		Metadata:     params.Metadata,
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
	}, nil
}
