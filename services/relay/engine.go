package relay

import (
	"context"
	"fmt"

	"airmax/models"
	"airmax/services/notification"
	"airmax/services/transform"
	"airmax/utils"

	"go.uber.org/zap"
)

// HandleRoundTrip processes one leg of a round trip booking. The first
// leg for an order is stored until its counterpart arrives; the second
// leg triggers the merge and forward. Both legs of one order are
// strictly serialized by the per-order lock; different orders proceed
// in parallel.
func (s *DefaultRelayService) HandleRoundTrip(ctx context.Context, booking *models.Booking) (*ProcessingResult, error) {
	logger := utils.GetLogger()

	orderID := booking.OrderDisplayID()
	if orderID == "" {
		logger.Error("Round trip booking missing order id", zap.Int("bookingPk", booking.PK))
		return &ProcessingResult{
			Status:  StatusRejected,
			Message: "round trip booking missing order id",
			Error:   "missing order_id",
		}, nil
	}

	logger.Info("Processing round trip booking", zap.String("orderId", orderID))

	lock := s.locks.acquire(orderID)
	lock.Lock()
	defer func() {
		lock.Unlock()
		s.locks.release(lock)
	}()

	if pending, ok := s.Store.Get(orderID); ok {
		return s.mergeAndForward(ctx, orderID, pending, booking), nil
	}
	return s.storeFirstLeg(ctx, orderID, booking)
}

// storeFirstLeg records the first-arrived leg of an order. Stale
// entries are swept first, so eviction work rides on this path instead
// of a background timer. A flight lookup failure abandons the store
// entirely; nothing is left behind for the order.
func (s *DefaultRelayService) storeFirstLeg(ctx context.Context, orderID string, booking *models.Booking) (*ProcessingResult, error) {
	logger := utils.GetLogger()

	if swept := s.Store.Sweep(s.Retention); swept > 0 {
		logger.Info("Swept stale round trip bookings", zap.Int("removed", swept))
	}

	flights, err := s.Flights.Resolve(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("resolving flights for order %s: %w", orderID, err)
	}

	s.Store.Put(orderID, booking, flights)
	logger.Info("First leg stored, waiting for second booking",
		zap.String("orderId", orderID),
		zap.Ints("flights", models.FlightNumbers(flights)))

	s.notify(ctx, models.NotifyWarning,
		"Round trip booking received and stored. Waiting for second booking.",
		booking, orderID, "round_trip", "")

	return &ProcessingResult{
		Status:  StatusStored,
		Success: true,
		Message: fmt.Sprintf("round trip booking stored for order %s, waiting for second booking", orderID),
	}, nil
}

// mergeAndForward combines the stored leg with the incoming one and
// sends the result downstream. The pending record is removed no matter
// how this goes — success, forward failure, or lookup failure — so a
// permanently stuck half-booking can never block later retries for the
// same order id.
func (s *DefaultRelayService) mergeAndForward(ctx context.Context, orderID string, pending *PendingBooking, booking *models.Booking) *ProcessingResult {
	logger := utils.GetLogger()
	defer s.Store.Remove(orderID)

	logger.Info("Found existing booking for order, combining flights", zap.String("orderId", orderID))

	incoming, err := s.Flights.Resolve(ctx, booking)
	if err != nil {
		logger.Error("Flight lookup failed for second leg",
			zap.String("orderId", orderID), zap.Error(err))
		s.notify(ctx, models.NotifyError,
			"Failed to send booking to Airmax API",
			pending.Booking, orderID, "round_trip", err.Error())
		return &ProcessingResult{
			Status:  StatusMergedForwarded,
			Message: "round trip booking received but flight lookup failed",
			Error:   err.Error(),
		}
	}

	depart, ret := SplitDirections(pending.Flights, incoming)
	logger.Info("Round trip directions resolved",
		zap.String("orderId", orderID),
		zap.Ints("departFlights", models.FlightNumbers(depart)),
		zap.Ints("returnFlights", models.FlightNumbers(ret)))

	// Passenger and contact data come from the first-stored leg; both
	// legs carry the same customers.
	payload := transform.BookingData(pending.Booking, models.FlightNumbers(depart), models.FlightNumbers(ret))

	resp, err := s.Forward.CreateBooking(ctx, payload)
	if err != nil {
		logger.Error("Failed to send round trip booking to MakerSuite API",
			zap.String("orderId", orderID), zap.Error(err))
		s.notify(ctx, models.NotifyError,
			"Failed to send booking to Airmax API",
			pending.Booking, orderID, "round_trip", err.Error())
		return &ProcessingResult{
			Status:  StatusMergedForwarded,
			Message: "round trip booking received but failed to send to MakerSuite",
			Error:   err.Error(),
		}
	}

	logger.Info("Round trip booking sent to MakerSuite API", zap.String("orderId", orderID))
	s.notify(ctx, models.NotifySuccess,
		"Booking successfully sent to Airmax API",
		pending.Booking, orderID, "round_trip", "")

	return &ProcessingResult{
		Status:   StatusMergedForwarded,
		Success:  true,
		Message:  "round trip booking processed and sent to MakerSuite successfully",
		Response: resp,
	}
}

// HandleSingleTrip forwards a single trip booking immediately. The
// ledger absorbs duplicate webhook deliveries; marking happens only
// after a successful forward so a failed attempt stays retryable.
func (s *DefaultRelayService) HandleSingleTrip(ctx context.Context, booking *models.Booking) (*ProcessingResult, error) {
	logger := utils.GetLogger()

	key := SingleTripKey(booking)
	if key != "" && s.Ledger.IsMarked(ctx, key) {
		logger.Warn("Single trip booking already processed, skipping duplicate",
			zap.String("bookingKey", key))
		return &ProcessingResult{
			Status:  StatusDuplicate,
			Success: true,
			Message: "booking already processed (duplicate request)",
		}, nil
	}

	logger.Info("Processing single trip booking", zap.Int("bookingPk", booking.PK))

	flights, err := s.Flights.Resolve(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("resolving flights for booking %d: %w", booking.PK, err)
	}

	payload := transform.BookingData(booking, models.FlightNumbers(flights), nil)

	resp, err := s.Forward.CreateBooking(ctx, payload)
	if err != nil {
		logger.Error("Failed to send single trip booking to MakerSuite API", zap.Error(err))
		s.notify(ctx, models.NotifyError,
			"Failed to send booking to Airmax API",
			booking, "", "single_trip", err.Error())
		return &ProcessingResult{
			Status:  StatusForwarded,
			Message: "single trip booking received but failed to send to MakerSuite",
			Error:   err.Error(),
		}, nil
	}

	if key != "" {
		s.Ledger.Mark(ctx, key)
	}

	logger.Info("Single trip booking sent to MakerSuite API")
	s.notify(ctx, models.NotifySuccess,
		"Booking successfully sent to Airmax API",
		booking, "", "single_trip", "")

	return &ProcessingResult{
		Status:   StatusForwarded,
		Success:  true,
		Message:  "single trip booking processed and sent to MakerSuite successfully",
		Response: resp,
	}, nil
}

func (s *DefaultRelayService) notify(
	ctx context.Context,
	status models.NotificationStatus,
	message string,
	booking *models.Booking,
	orderID, bookingType, errMsg string,
) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(ctx, notification.BuildPayload(status, message, booking, orderID, bookingType, errMsg))
}
