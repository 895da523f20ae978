package entity

import "encoding/json"

// WebhookEvent keeps what we remember about the last provider notification.
type WebhookEvent struct {
	Event      string `json:"event"`
	ReceivedAt string `json:"received_at"`
}

// YooKassaMeta holds the only two keys ever read back from the metadata
// column: the last webhook event and the raw payment object it carried.
type YooKassaMeta struct {
	LastEvent   *WebhookEvent   `json:"last_event,omitempty"`
	LastPayment json.RawMessage `json:"last_payment,omitempty"`
}

// PaymentMetadata is stored as a JSON column on orders and reservations.
// Webhook processing replaces only the yookassa keys and leaves the rest of
// the object intact.
type PaymentMetadata struct {
	YooKassa YooKassaMeta `json:"yookassa"`
}
