package notification

import (
	"context"
	"time"

	"airmax/models"
)

// Notifier posts booking status updates to the operator channel.
// Delivery is fire-and-forget: a failed notification is logged and must
// never affect the booking outcome.
type Notifier interface {
	Notify(ctx context.Context, payload models.NotificationPayload)
}

// BuildPayload assembles the operator notification for one booking,
// pulling passenger and flight context out of the raw booking record.
func BuildPayload(
	status models.NotificationStatus,
	message string,
	booking *models.Booking,
	orderID, bookingType, errMsg string,
) models.NotificationPayload {
	p := models.NotificationPayload{
		Status:      status,
		Message:     message,
		OrderID:     orderID,
		BookingType: bookingType,
		Error:       errMsg,
	}
	if booking == nil {
		return p
	}

	if len(booking.Customers) > 0 {
		fields := booking.Customers[0].DisplayFields()
		name := joinName(fields["First Name"], fields["Last Name"])
		if name == "" {
			name = joinName(fields["Passenger First Name"], fields["Passenger Last Name"])
		}
		p.Passenger = name
	}

	if booking.Availability != nil {
		if booking.Availability.Item != nil {
			p.Route = booking.Availability.Item.Name
		}
		if startAt := booking.Availability.StartAt; startAt != "" {
			if t, err := time.Parse(time.RFC3339, startAt); err == nil {
				p.FlightDate = t.Format("2006-01-02 15:04:05")
			}
		}
	}
	return p
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
