package relay

import (
	"testing"
	"time"

	"airmax/models"
)

func refs(number int, at time.Time) []models.FlightRef {
	return []models.FlightRef{{Number: number, DepartureAt: at}}
}

func TestSplitDirectionsBySchedule(t *testing.T) {
	morning := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC)

	outbound := refs(101, morning)
	inbound := refs(202, evening)

	// Outbound stored first.
	depart, ret := SplitDirections(outbound, inbound)
	if depart[0].Number != 101 || ret[0].Number != 202 {
		t.Errorf("expected depart 101 / return 202, got %d / %d", depart[0].Number, ret[0].Number)
	}

	// Swapped arrival order must yield the same assignment.
	depart, ret = SplitDirections(inbound, outbound)
	if depart[0].Number != 101 || ret[0].Number != 202 {
		t.Errorf("swapped arrival changed assignment: depart %d / return %d", depart[0].Number, ret[0].Number)
	}
}

func TestSplitDirectionsTieFavorsStored(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	depart, ret := SplitDirections(refs(101, at), refs(202, at))
	if depart[0].Number != 101 || ret[0].Number != 202 {
		t.Errorf("tie should keep stored leg as depart, got depart %d / return %d", depart[0].Number, ret[0].Number)
	}
}

func TestSplitDirectionsNoSchedules(t *testing.T) {
	depart, ret := SplitDirections(refs(101, time.Time{}), refs(202, time.Time{}))
	if depart[0].Number != 101 || ret[0].Number != 202 {
		t.Errorf("without schedules the stored leg is depart, got depart %d / return %d", depart[0].Number, ret[0].Number)
	}
}

func TestSplitDirectionsOneScheduleKnown(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	scheduled := refs(101, at)
	unscheduled := refs(202, time.Time{})

	// The leg with a schedule wins depart regardless of arrival order.
	depart, _ := SplitDirections(unscheduled, scheduled)
	if depart[0].Number != 101 {
		t.Errorf("expected scheduled leg 101 as depart, got %d", depart[0].Number)
	}
	depart, _ = SplitDirections(scheduled, unscheduled)
	if depart[0].Number != 101 {
		t.Errorf("expected scheduled leg 101 as depart after swap, got %d", depart[0].Number)
	}
}

func TestSplitDirectionsEarliestOfSeveral(t *testing.T) {
	day1 := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	day5 := time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC)

	multi := []models.FlightRef{{Number: 301, DepartureAt: day2}, {Number: 302, DepartureAt: day1}}
	late := refs(400, day5)

	depart, ret := SplitDirections(late, multi)
	if depart[0].Number != 301 {
		t.Errorf("leg with earliest flight should be depart, got %v", depart)
	}
	if ret[0].Number != 400 {
		t.Errorf("expected return leg 400, got %v", ret)
	}
}
