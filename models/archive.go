package models

import "time"

// WebhookRecord is an archived copy of an inbound webhook request body,
// kept for auditing and replay.
type WebhookRecord struct {
	ID         string    `bson:"id" json:"id"`
	Payload    string    `bson:"payload" json:"payload"`
	ClientIP   string    `bson:"client_ip,omitempty" json:"client_ip,omitempty"`
	URL        string    `bson:"url,omitempty" json:"url,omitempty"`
	OrderID    string    `bson:"order_id,omitempty" json:"order_id,omitempty"`
	ReceivedAt time.Time `bson:"received_at" json:"received_at"`
}
