package constants

// API route paths
const (
	APIPrefix = "/api/v1"

	RoutePing   = "/ping"
	RouteHealth = "/health"

	RouteCreditsBalance      = "/credits/balance"
	RouteCreditsTransactions = "/credits/transactions"

	RouteBillingPayments = "/billing/payments"
	RouteBillingCheckout = "/billing/checkout"
	RouteBillingWebhook  = "/billing/webhook"

	RouteGenerate = "/generate"
	RouteImages   = "/images"
	RouteStyles   = "/styles"
	RouteUpload   = "/upload"
)
