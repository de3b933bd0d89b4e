package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
)

// Client creates checkout sessions against the payment provider.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

// CreateCheckoutSession opens a one-time payment session for quantity credit
// packs and returns the hosted checkout URL. The user id travels in the
// session metadata so the webhook can attribute the grant.
func (c *Client) CreateCheckoutSession(ctx context.Context, userID, email string, quantity int64) (string, error) {
	if err := c.cfg.CheckoutConfigured(); err != nil {
		return "", err
	}
	if userID == "" {
		return "", apperr.Wrap(apperr.CodeInvalidInput, "user id is required", apperr.ErrInvalidInput)
	}
	if quantity <= 0 {
		quantity = 1
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.cfg.PriceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL: stripe.String(c.cfg.BaseURL + "/billing?success=true"),
		CancelURL:  stripe.String(c.cfg.BaseURL + "/billing?canceled=true"),
	}
	params.Context = ctx
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata("userId", userID)
	params.AddMetadata("priceId", c.cfg.PriceID)
	params.AddMetadata("quantity", strconv.FormatInt(quantity, 10))

	sess, err := session.New(params)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeExternalAPI, fmt.Sprintf("checkout session creation failed: %v", err), err)
	}
	if sess.URL == "" {
		return "", apperr.Wrap(apperr.CodeExternalAPI, "checkout session has no URL", nil)
	}
	return sess.URL, nil
}
