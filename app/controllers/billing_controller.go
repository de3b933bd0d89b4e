package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
	"github.com/lunarworks/LanternFox/internal/pkg/ledger"
	"github.com/lunarworks/LanternFox/internal/pkg/usercontext"
)

// HandleGetBalance returns the authenticated user's credit balance.
func HandleGetBalance(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)

	balance, err := ledgerService.Balance(c.UserContext(), user.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"balance":        balance,
		"cost_per_image": paymentConfig.CostPerImage,
	})
}

func parseDateQuery(c *fiber.Ctx, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// HandleListTransactions returns the user's ledger history, newest first.
func HandleListTransactions(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)

	entries, err := ledgerService.Transactions(c.UserContext(), ledger.TransactionFilter{
		UserID:   user.UserID,
		FromDate: parseDateQuery(c, "from"),
		ToDate:   parseDateQuery(c, "to"),
		Limit:    queryInt(c, "limit", 50),
		Offset:   queryInt(c, "offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": entries})
}

// HandleListPayments returns the user's payment history, newest first.
func HandleListPayments(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)

	records, err := ledgerService.Payments(c.UserContext(), ledger.PaymentFilter{
		UserID:   user.UserID,
		Status:   c.Query("status"),
		FromDate: parseDateQuery(c, "from"),
		ToDate:   parseDateQuery(c, "to"),
		Limit:    queryInt(c, "limit", 50),
		Offset:   queryInt(c, "offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payments": records})
}

// HandleCreateCheckout opens a payment session for credit packs and
// returns the hosted checkout URL.
func HandleCreateCheckout(c *fiber.Ctx) error {
	user := usercontext.GetUserContext(c)

	var req struct {
		Quantity int64 `json:"quantity"`
	}
	// Body is optional; default is a single pack.
	_ = c.BodyParser(&req)

	url, err := checkoutClient.CreateCheckoutSession(c.UserContext(), user.UserID, user.Email, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleStripeWebhook consumes payment events. The raw body is verified
// against the provider signature before anything is parsed.
func HandleStripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return respondError(c, apperr.Wrap(apperr.CodeInvalidInput, "missing Stripe signature", apperr.ErrInvalidInput))
	}

	event, err := webhookHandler.VerifyAndParse(c.Body(), signature)
	if err != nil {
		return respondError(c, err)
	}

	if err := webhookHandler.HandleEvent(c.UserContext(), event); err != nil {
		// A non-2xx response makes the provider re-deliver the event; the
		// processed-session check keeps that safe.
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
