package relay

import (
	"context"
	"time"

	"airmax/models"
	"airmax/services/notification"
)

// Processing result statuses returned to the webhook caller.
const (
	StatusStored          = "stored-awaiting-match"
	StatusMergedForwarded = "merged-and-forwarded"
	StatusForwarded       = "forwarded"
	StatusDuplicate       = "duplicate-skipped"
	StatusRejected        = "rejected"
)

// ProcessingResult is the outcome of handling one booking notification.
type ProcessingResult struct {
	Status   string                  `json:"status"`
	Success  bool                    `json:"success"`
	Message  string                  `json:"message"`
	Response *models.BookingResponse `json:"response,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// FlightResolver resolves the flights booked by one leg. May call the
// Airmax flight search API.
type FlightResolver interface {
	Resolve(ctx context.Context, booking *models.Booking) ([]models.FlightRef, error)
}

// Forwarder sends a transformed booking to the MakerSuite API. The
// engine never retries a failed forward.
type Forwarder interface {
	CreateBooking(ctx context.Context, payload *models.BookingPayload) (*models.BookingResponse, error)
}

// RelayService is the correlation engine: it classifies inbound booking
// notifications, pairs up round trip legs, and forwards normalized
// bookings downstream.
type RelayService interface {
	HandleRoundTrip(ctx context.Context, booking *models.Booking) (*ProcessingResult, error)
	HandleSingleTrip(ctx context.Context, booking *models.Booking) (*ProcessingResult, error)
}

// DefaultRelayService implements RelayService.
type DefaultRelayService struct {
	Store     PendingStore
	Ledger    ProcessedLedger
	Flights   FlightResolver
	Forward   Forwarder
	Notifier  notification.Notifier
	Retention time.Duration

	locks *lockRegistry
}

// NewDefaultRelayService wires up the engine with its collaborators.
func NewDefaultRelayService(
	store PendingStore,
	ledger ProcessedLedger,
	flights FlightResolver,
	forward Forwarder,
	notifier notification.Notifier,
	retention time.Duration,
) *DefaultRelayService {
	return &DefaultRelayService{
		Store:     store,
		Ledger:    ledger,
		Flights:   flights,
		Forward:   forward,
		Notifier:  notifier,
		Retention: retention,
		locks:     newLockRegistry(),
	}
}
