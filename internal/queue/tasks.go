package queue

const (
	TypeWebhookDeliver   = "webhook:deliver"
	TypePaymentReconcile = "payment:reconcile"
)

type WebhookDeliverPayload struct {
	WebhookID string `json:"webhook_id"`
	URL       string `json:"url"`
	Secret    string `json:"secret"`
	Event     string `json:"event"`
	Payload   string `json:"payload"` // JSON string
}

type PaymentReconcilePayload struct {
	OlderThanHours int `json:"older_than_hours"`
}
