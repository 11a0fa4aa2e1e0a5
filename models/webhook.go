package models

import "strings"

// WebhookEnvelope is the top-level body FareHarbor posts to the webhook.
type WebhookEnvelope struct {
	Booking *Booking `json:"booking,omitempty"`
}

// Booking is a FareHarbor booking record as delivered by the webhook.
type Booking struct {
	PK                int                `json:"pk"`
	UUID              string             `json:"uuid,omitempty"`
	DisplayID         string             `json:"display_id,omitempty"`
	Status            string             `json:"status,omitempty"`
	Order             *Order             `json:"order,omitempty"`
	Availability      *Availability      `json:"availability,omitempty"`
	Contact           *Contact           `json:"contact,omitempty"`
	Customers         []Customer         `json:"customers,omitempty"`
	CustomFieldValues []CustomFieldValue `json:"custom_field_values,omitempty"`
}

// Order groups the bookings belonging to one checkout.
type Order struct {
	DisplayID string `json:"display_id"`
}

// Availability describes the scheduled departure this booking is for.
type Availability struct {
	PK      int    `json:"pk,omitempty"`
	StartAt string `json:"start_at,omitempty"`
	EndAt   string `json:"end_at,omitempty"`
	Item    *Item  `json:"item,omitempty"`
}

// Item is the bookable product, e.g. a flight route.
type Item struct {
	PK   int    `json:"pk"`
	Name string `json:"name,omitempty"`
}

// Contact carries the order-level contact details.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Customer is one passenger on the booking.
type Customer struct {
	PK                int                `json:"pk,omitempty"`
	CustomFieldValues []CustomFieldValue `json:"custom_field_values,omitempty"`
}

// CustomFieldValue is a single custom field entry. FareHarbor exposes
// both the raw value and a human-readable display value.
type CustomFieldValue struct {
	Name         string `json:"name"`
	Value        string `json:"value,omitempty"`
	DisplayValue string `json:"display_value,omitempty"`
}

// OrderDisplayID returns the logical order identifier shared by both
// legs of a round trip, or "" when the booking carries none.
func (b *Booking) OrderDisplayID() string {
	if b.Order == nil {
		return ""
	}
	return strings.TrimSpace(b.Order.DisplayID)
}

// IsRoundTrip reports whether this booking is one leg of a round trip.
// FareHarbor marks round trips either on the item name or via a
// "Trip Type" custom field.
func (b *Booking) IsRoundTrip() bool {
	if b.Availability != nil && b.Availability.Item != nil {
		if containsRoundTrip(b.Availability.Item.Name) {
			return true
		}
	}
	for _, f := range b.CustomFieldValues {
		if strings.Contains(strings.ToLower(f.Name), "trip type") {
			if containsRoundTrip(f.Value) || containsRoundTrip(f.DisplayValue) {
				return true
			}
		}
	}
	return false
}

// BookingCustomFields returns the booking-level custom fields keyed by name.
func (b *Booking) BookingCustomFields() map[string]string {
	fields := make(map[string]string, len(b.CustomFieldValues))
	for _, f := range b.CustomFieldValues {
		fields[f.Name] = f.Value
	}
	return fields
}

// DisplayFields returns a customer's custom fields keyed by name, using
// the display value.
func (c *Customer) DisplayFields() map[string]string {
	fields := make(map[string]string, len(c.CustomFieldValues))
	for _, f := range c.CustomFieldValues {
		fields[f.Name] = f.DisplayValue
	}
	return fields
}

func containsRoundTrip(s string) bool {
	return strings.Contains(strings.ToLower(s), "round trip")
}
