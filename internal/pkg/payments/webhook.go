package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
	"github.com/lunarworks/LanternFox/internal/pkg/ledger"
)

// Event types this handler acts on. Everything else is acknowledged
// without processing.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// WebhookHandler applies payment-confirmation events to the ledger
// idempotently: a session id is credited at most once no matter how many
// times the provider delivers its confirmation.
type WebhookHandler struct {
	ledger *ledger.Service
	cfg    Config
}

func NewWebhookHandler(l *ledger.Service, cfg Config) *WebhookHandler {
	return &WebhookHandler{ledger: l, cfg: cfg}
}

// VerifyAndParse checks the provider signature over the raw payload and
// decodes the event.
func (h *WebhookHandler) VerifyAndParse(payload []byte, sigHeader string) (stripe.Event, error) {
	if h.cfg.WebhookSecret == "" {
		return stripe.Event{}, apperr.Wrap(apperr.CodeConfiguration, "STRIPE_WEBHOOK_SECRET is not configured", apperr.ErrConfiguration)
	}
	event, err := webhook.ConstructEvent(payload, sigHeader, h.cfg.WebhookSecret)
	if err != nil {
		return stripe.Event{}, apperr.Wrap(apperr.CodeInvalidInput, fmt.Sprintf("webhook signature verification failed: %v", err), apperr.ErrInvalidInput)
	}
	return event, nil
}

// checkoutSession is the subset of the provider's session object the grant
// is derived from.
type checkoutSession struct {
	ID            string          `json:"id"`
	AmountTotal   int64           `json:"amount_total"`
	Currency      string          `json:"currency"`
	PaymentIntent json.RawMessage `json:"payment_intent"`
	PaymentStatus string          `json:"payment_status"`
	Metadata      struct {
		UserID   string `json:"userId"`
		PriceID  string `json:"priceId"`
		Quantity string `json:"quantity"`
	} `json:"metadata"`
}

// paymentIntentID tolerates both the string and the expanded-object shape
// of the payment_intent field.
func (s *checkoutSession) paymentIntentID() string {
	raw := s.PaymentIntent
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}

func (s *checkoutSession) quantity() int64 {
	q, err := strconv.ParseInt(strings.TrimSpace(s.Metadata.Quantity), 10, 64)
	if err != nil || q <= 0 {
		return 1
	}
	return q
}

// HandleEvent processes one payment event. Completed sessions grant
// credits exactly once; expired sessions are logged only; all other event
// types are acknowledged without processing. Returning an error tells the
// caller to report failure so the provider re-delivers; the processed
// check makes that re-delivery safe.
func (h *WebhookHandler) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch string(event.Type) {
	case EventCheckoutCompleted:
		return h.handleCompleted(ctx, event)
	case EventCheckoutExpired:
		var sess checkoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err == nil {
			fiberlog.Infof("[Payments] checkout session expired without purchase: %s", sess.ID)
		}
		return nil
	default:
		return nil
	}
}

func (h *WebhookHandler) handleCompleted(ctx context.Context, event stripe.Event) error {
	var sess checkoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "malformed checkout session payload", apperr.ErrInvalidInput)
	}
	if sess.ID == "" {
		return apperr.Wrap(apperr.CodeInvalidInput, "checkout session without id", apperr.ErrInvalidInput)
	}

	// An event that cannot be attributed to a user must never grant
	// credits to nobody.
	userID := strings.TrimSpace(sess.Metadata.UserID)
	if userID == "" {
		return apperr.Wrap(apperr.CodeInvalidInput, "checkout session without userId metadata", apperr.ErrInvalidInput)
	}

	processed, err := h.ledger.SessionProcessed(ctx, sess.ID)
	if err != nil {
		return err
	}
	if processed {
		fiberlog.Infof("[Payments] duplicate delivery for session %s, skipping", sess.ID)
		return nil
	}

	priceID := sess.Metadata.PriceID
	if priceID == "" {
		priceID = h.cfg.PriceID
	}
	status := sess.PaymentStatus
	if status == "" {
		status = "paid"
	}
	currency := sess.Currency
	if currency == "" {
		currency = "usd"
	}

	grant := ledger.PurchaseGrant{
		UserID:          userID,
		SessionID:       sess.ID,
		PaymentIntentID: sess.paymentIntentID(),
		PriceID:         priceID,
		AmountTotal:     sess.AmountTotal,
		Currency:        currency,
		Status:          status,
		Credits:         h.cfg.PackAmount * sess.quantity(),
	}

	err = ledger.WithRetry(ctx, func() error {
		_, grantErr := h.ledger.GrantPurchase(ctx, grant)
		return grantErr
	})
	if errors.Is(err, apperr.ErrDuplicateEvent) {
		fiberlog.Infof("[Payments] session %s was credited concurrently, skipping", sess.ID)
		return nil
	}
	if err != nil {
		return err
	}
	fiberlog.Infof("[Payments] granted %d credits to user %s for session %s", grant.Credits, userID, sess.ID)
	return nil
}
