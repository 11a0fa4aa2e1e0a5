package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"airmax/models"
)

// Mocks in the closure style used across the test suite.

type mockResolver struct {
	mu          sync.Mutex
	calls       int
	resolveFunc func(ctx context.Context, booking *models.Booking) ([]models.FlightRef, error)
}

func (m *mockResolver) Resolve(ctx context.Context, booking *models.Booking) ([]models.FlightRef, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, booking)
	}
	return []models.FlightRef{{Number: booking.PK}}, nil
}

type mockForwarder struct {
	mu         sync.Mutex
	calls      int
	payloads   []*models.BookingPayload
	createFunc func(ctx context.Context, payload *models.BookingPayload) (*models.BookingResponse, error)
}

func (m *mockForwarder) CreateBooking(ctx context.Context, payload *models.BookingPayload) (*models.BookingResponse, error) {
	m.mu.Lock()
	m.calls++
	m.payloads = append(m.payloads, payload)
	m.mu.Unlock()
	if m.createFunc != nil {
		return m.createFunc(ctx, payload)
	}
	return &models.BookingResponse{BookingID: "BK-1"}, nil
}

func (m *mockForwarder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockNotifier struct {
	mu       sync.Mutex
	payloads []models.NotificationPayload
}

func (m *mockNotifier) Notify(ctx context.Context, payload models.NotificationPayload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
}

func roundTripBooking(pk int, orderID string, startAt string) *models.Booking {
	return &models.Booking{
		PK:    pk,
		Order: &models.Order{DisplayID: orderID},
		Availability: &models.Availability{
			StartAt: startAt,
			Item:    &models.Item{PK: 9000 + pk, Name: "Round Trip: FLL - BIM"},
		},
		Contact: &models.Contact{Email: "pax@example.com", Phone: "(305) 555-0101"},
		Customers: []models.Customer{{
			CustomFieldValues: []models.CustomFieldValue{
				{Name: "Passenger First Name", DisplayValue: "Ann"},
				{Name: "Passenger Last Name", DisplayValue: "Bright"},
			},
		}},
	}
}

func newTestService(resolver *mockResolver, forwarder *mockForwarder, notifier *mockNotifier) *DefaultRelayService {
	return NewDefaultRelayService(
		NewMemoryStore(),
		NewMemoryLedger(),
		resolver,
		forwarder,
		notifier,
		time.Hour,
	)
}

func refsByPK(pkToFlight map[int]models.FlightRef) func(ctx context.Context, b *models.Booking) ([]models.FlightRef, error) {
	return func(ctx context.Context, b *models.Booking) ([]models.FlightRef, error) {
		ref, ok := pkToFlight[b.PK]
		if !ok {
			return nil, fmt.Errorf("no flights for booking %d", b.PK)
		}
		return []models.FlightRef{ref}, nil
	}
}

func TestRoundTripFirstLegStored(t *testing.T) {
	resolver := &mockResolver{}
	forwarder := &mockForwarder{}
	svc := newTestService(resolver, forwarder, &mockNotifier{})

	result, err := svc.HandleRoundTrip(context.Background(), roundTripBooking(1, "ORD-1", "2026-09-01T09:00:00Z"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusStored {
		t.Errorf("expected status %q, got %q", StatusStored, result.Status)
	}
	if forwarder.callCount() != 0 {
		t.Error("first leg must not be forwarded")
	}
	if _, ok := svc.Store.Get("ORD-1"); !ok {
		t.Error("first leg should be pending in the store")
	}
}

func TestRoundTripSecondLegMergesAndForwards(t *testing.T) {
	day1 := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	day5 := time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC)

	resolver := &mockResolver{resolveFunc: refsByPK(map[int]models.FlightRef{
		1: {Number: 101, DepartureAt: day1},
		2: {Number: 202, DepartureAt: day5},
	})}
	forwarder := &mockForwarder{}
	notifier := &mockNotifier{}
	svc := newTestService(resolver, forwarder, notifier)

	ctx := context.Background()
	legA := roundTripBooking(1, "ORD-1", "2026-09-01T09:00:00Z")
	legB := roundTripBooking(2, "ORD-1", "2026-09-05T18:00:00Z")

	if _, err := svc.HandleRoundTrip(ctx, legA); err != nil {
		t.Fatalf("leg A: %v", err)
	}
	result, err := svc.HandleRoundTrip(ctx, legB)
	if err != nil {
		t.Fatalf("leg B: %v", err)
	}

	if result.Status != StatusMergedForwarded || !result.Success {
		t.Fatalf("expected successful merge, got %+v", result)
	}
	if forwarder.callCount() != 1 {
		t.Fatalf("expected exactly one forward, got %d", forwarder.callCount())
	}

	payload := forwarder.payloads[0]
	if len(payload.DepartFlights) != 1 || payload.DepartFlights[0] != 101 {
		t.Errorf("expected depart flights [101], got %v", payload.DepartFlights)
	}
	if len(payload.ReturnFlights) != 1 || payload.ReturnFlights[0] != 202 {
		t.Errorf("expected return flights [202], got %v", payload.ReturnFlights)
	}
	// Passenger data comes from the first-stored leg.
	if len(payload.Passengers) != 1 || payload.Passengers[0].FirstName != "Ann" {
		t.Errorf("expected passenger from stored leg, got %+v", payload.Passengers)
	}

	if _, ok := svc.Store.Get("ORD-1"); ok {
		t.Error("store should be empty for ORD-1 after the merge")
	}
}

func TestRoundTripDirectionIndependentOfArrival(t *testing.T) {
	day1 := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	day5 := time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC)

	run := func(first, second *models.Booking) *models.BookingPayload {
		resolver := &mockResolver{resolveFunc: refsByPK(map[int]models.FlightRef{
			1: {Number: 101, DepartureAt: day1},
			2: {Number: 202, DepartureAt: day5},
		})}
		forwarder := &mockForwarder{}
		svc := newTestService(resolver, forwarder, &mockNotifier{})

		ctx := context.Background()
		if _, err := svc.HandleRoundTrip(ctx, first); err != nil {
			t.Fatalf("first leg: %v", err)
		}
		if _, err := svc.HandleRoundTrip(ctx, second); err != nil {
			t.Fatalf("second leg: %v", err)
		}
		return forwarder.payloads[0]
	}

	legA := roundTripBooking(1, "ORD-1", "2026-09-01T09:00:00Z")
	legB := roundTripBooking(2, "ORD-1", "2026-09-05T18:00:00Z")

	p1 := run(legA, legB)
	p2 := run(legB, legA)

	if p1.DepartFlights[0] != p2.DepartFlights[0] || p1.ReturnFlights[0] != p2.ReturnFlights[0] {
		t.Errorf("direction depends on arrival order: %v/%v vs %v/%v",
			p1.DepartFlights, p1.ReturnFlights, p2.DepartFlights, p2.ReturnFlights)
	}
}

func TestRoundTripMissingOrderID(t *testing.T) {
	forwarder := &mockForwarder{}
	svc := newTestService(&mockResolver{}, forwarder, &mockNotifier{})

	booking := roundTripBooking(1, "", "2026-09-01T09:00:00Z")
	booking.Order = nil

	result, err := svc.HandleRoundTrip(context.Background(), booking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusRejected {
		t.Errorf("expected %q, got %q", StatusRejected, result.Status)
	}
	if forwarder.callCount() != 0 {
		t.Error("rejected booking must not be forwarded")
	}
}

func TestRoundTripForwardFailureStillCleansUp(t *testing.T) {
	resolver := &mockResolver{}
	forwarder := &mockForwarder{
		createFunc: func(ctx context.Context, payload *models.BookingPayload) (*models.BookingResponse, error) {
			return nil, errors.New("downstream unavailable")
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(resolver, forwarder, notifier)

	ctx := context.Background()
	svc.HandleRoundTrip(ctx, roundTripBooking(1, "ORD-1", "2026-09-01T09:00:00Z"))
	result, err := svc.HandleRoundTrip(ctx, roundTripBooking(2, "ORD-1", "2026-09-05T18:00:00Z"))
	if err != nil {
		t.Fatalf("forward failure must surface as a result, not an error: %v", err)
	}

	if result.Status != StatusMergedForwarded || result.Success {
		t.Errorf("expected failed merge result, got %+v", result)
	}
	if result.Error == "" {
		t.Error("expected error details in the result")
	}
	if _, ok := svc.Store.Get("ORD-1"); ok {
		t.Error("pending record must be removed even when the forward fails")
	}

	// The order id is immediately retryable with a fresh pair of legs.
	res, err := svc.HandleRoundTrip(ctx, roundTripBooking(3, "ORD-1", "2026-09-10T09:00:00Z"))
	if err != nil || res.Status != StatusStored {
		t.Errorf("order id should be reusable after a failed merge, got %+v, %v", res, err)
	}
}

func TestRoundTripSecondLegLookupFailureStillCleansUp(t *testing.T) {
	resolver := &mockResolver{resolveFunc: func(ctx context.Context, b *models.Booking) ([]models.FlightRef, error) {
		if b.PK == 2 {
			return nil, NewLookupError("flight search returned status 502")
		}
		return []models.FlightRef{{Number: 101}}, nil
	}}
	forwarder := &mockForwarder{}
	svc := newTestService(resolver, forwarder, &mockNotifier{})

	ctx := context.Background()
	svc.HandleRoundTrip(ctx, roundTripBooking(1, "ORD-1", "2026-09-01T09:00:00Z"))
	result, err := svc.HandleRoundTrip(ctx, roundTripBooking(2, "ORD-1", "2026-09-05T18:00:00Z"))
	if err != nil {
		t.Fatalf("lookup failure on the second leg must surface as a result: %v", err)
	}

	if result.Status != StatusMergedForwarded || result.Success {
		t.Errorf("expected failed merge result, got %+v", result)
	}
	if forwarder.callCount() != 0 {
		t.Error("nothing should be forwarded when the lookup fails")
	}
	if _, ok := svc.Store.Get("ORD-1"); ok {
		t.Error("pending record must be removed after a lookup failure")
	}
}

func TestRoundTripFirstLegLookupFailureStoresNothing(t *testing.T) {
	resolver := &mockResolver{resolveFunc: func(ctx context.Context, b *models.Booking) ([]models.FlightRef, error) {
		return nil, NewLookupError("flight search timed out")
	}}
	svc := newTestService(resolver, &mockForwarder{}, &mockNotifier{})

	_, err := svc.HandleRoundTrip(context.Background(), roundTripBooking(1, "ORD-1", "2026-09-01T09:00:00Z"))
	if err == nil {
		t.Fatal("first-leg lookup failure must surface as an error")
	}
	if _, ok := svc.Store.Get("ORD-1"); ok {
		t.Error("nothing must be stored when the first-leg lookup fails")
	}
}

func TestRoundTripConcurrentDualArrival(t *testing.T) {
	for i := 0; i < 20; i++ {
		resolver := &mockResolver{}
		forwarder := &mockForwarder{}
		svc := newTestService(resolver, forwarder, &mockNotifier{})

		ctx := context.Background()
		legA := roundTripBooking(1, "ORD-1", "2026-09-01T09:00:00Z")
		legB := roundTripBooking(2, "ORD-1", "2026-09-05T18:00:00Z")

		results := make(chan *ProcessingResult, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		for _, leg := range []*models.Booking{legA, legB} {
			go func(b *models.Booking) {
				defer wg.Done()
				res, err := svc.HandleRoundTrip(ctx, b)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				results <- res
			}(leg)
		}
		wg.Wait()
		close(results)

		stored, merged := 0, 0
		for res := range results {
			switch res.Status {
			case StatusStored:
				stored++
			case StatusMergedForwarded:
				merged++
			}
		}
		if stored != 1 || merged != 1 {
			t.Fatalf("iteration %d: expected exactly one store and one merge, got %d/%d", i, stored, merged)
		}
		if forwarder.callCount() != 1 {
			t.Fatalf("iteration %d: expected exactly one forward, got %d", i, forwarder.callCount())
		}
		if _, ok := svc.Store.Get("ORD-1"); ok {
			t.Fatalf("iteration %d: store must be empty after the merge", i)
		}
	}
}

func TestRoundTripEvictionOnUnrelatedArrival(t *testing.T) {
	now := time.Now()
	clock := now
	store := &memoryStore{
		pending: make(map[string]*PendingBooking),
		now:     func() time.Time { return clock },
	}

	svc := NewDefaultRelayService(store, NewMemoryLedger(), &mockResolver{}, &mockForwarder{}, &mockNotifier{}, time.Hour)

	ctx := context.Background()
	if _, err := svc.HandleRoundTrip(ctx, roundTripBooking(1, "ORD-2", "2026-09-01T09:00:00Z")); err != nil {
		t.Fatalf("storing ORD-2: %v", err)
	}

	// A first leg for an unrelated order arrives past the retention
	// window and triggers the sweep.
	clock = now.Add(time.Hour + time.Minute)
	if _, err := svc.HandleRoundTrip(ctx, roundTripBooking(2, "ORD-3", "2026-09-02T09:00:00Z")); err != nil {
		t.Fatalf("storing ORD-3: %v", err)
	}

	if _, ok := store.Get("ORD-2"); ok {
		t.Error("ORD-2 should have been swept")
	}
	if _, ok := store.Get("ORD-3"); !ok {
		t.Error("ORD-3 should be pending")
	}
}

func TestSingleTripForwardAndDuplicate(t *testing.T) {
	resolver := &mockResolver{}
	forwarder := &mockForwarder{}
	svc := newTestService(resolver, forwarder, &mockNotifier{})

	ctx := context.Background()
	booking := &models.Booking{
		PK:           500,
		Availability: &models.Availability{StartAt: "2026-09-01T09:00:00Z", Item: &models.Item{PK: 11, Name: "FLL - BIM"}},
	}

	result, err := svc.HandleSingleTrip(ctx, booking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusForwarded || !result.Success {
		t.Fatalf("expected successful forward, got %+v", result)
	}

	// Same delivery again: absorbed by the ledger.
	result, err = svc.HandleSingleTrip(ctx, booking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusDuplicate {
		t.Errorf("expected duplicate-skipped, got %q", result.Status)
	}
	if forwarder.callCount() != 1 {
		t.Errorf("downstream forward must happen exactly once, got %d", forwarder.callCount())
	}
}

func TestSingleTripFailedForwardStaysRetryable(t *testing.T) {
	resolver := &mockResolver{}
	fail := true
	forwarder := &mockForwarder{
		createFunc: func(ctx context.Context, payload *models.BookingPayload) (*models.BookingResponse, error) {
			if fail {
				return nil, errors.New("downstream unavailable")
			}
			return &models.BookingResponse{BookingID: "BK-2"}, nil
		},
	}
	svc := newTestService(resolver, forwarder, &mockNotifier{})

	ctx := context.Background()
	booking := &models.Booking{
		PK:           501,
		Availability: &models.Availability{StartAt: "2026-09-01T09:00:00Z"},
	}

	result, err := svc.HandleSingleTrip(ctx, booking)
	if err != nil {
		t.Fatalf("forward failure must surface as a result: %v", err)
	}
	if result.Success {
		t.Fatal("expected failure result")
	}

	// The failed attempt was not marked; a retry goes through.
	fail = false
	result, err = svc.HandleSingleTrip(ctx, booking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusForwarded || !result.Success {
		t.Errorf("retry after failure should forward, got %+v", result)
	}
	if forwarder.callCount() != 2 {
		t.Errorf("expected two forward attempts, got %d", forwarder.callCount())
	}
}

func TestSingleTripWithoutKeyIsNeverDeduped(t *testing.T) {
	resolver := &mockResolver{}
	forwarder := &mockForwarder{}
	svc := newTestService(resolver, forwarder, &mockNotifier{})

	ctx := context.Background()
	booking := &models.Booking{Availability: &models.Availability{StartAt: "2026-09-01T09:00:00Z"}}

	for i := 0; i < 2; i++ {
		result, err := svc.HandleSingleTrip(ctx, booking)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != StatusForwarded {
			t.Fatalf("expected forward, got %q", result.Status)
		}
	}
	if forwarder.callCount() != 2 {
		t.Errorf("without a dedup key every delivery forwards, got %d calls", forwarder.callCount())
	}
}
