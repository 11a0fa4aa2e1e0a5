package models

// NotificationStatus classifies an operator notification.
type NotificationStatus string

const (
	NotifySuccess NotificationStatus = "success"
	NotifyWarning NotificationStatus = "warning"
	NotifyError   NotificationStatus = "error"
)

// NotificationPayload is the task body queued for async Slack delivery.
type NotificationPayload struct {
	Status      NotificationStatus `json:"status"`
	Message     string             `json:"message"`
	OrderID     string             `json:"orderId,omitempty"`
	BookingType string             `json:"bookingType,omitempty"`
	Error       string             `json:"error,omitempty"`
	Passenger   string             `json:"passenger,omitempty"`
	Route       string             `json:"route,omitempty"`
	FlightDate  string             `json:"flightDate,omitempty"`
}
