package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"airmax/config"
	"airmax/models"
	"airmax/services/relay"
	"airmax/services/transform"
	"airmax/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// searchCacheTTL bounds how long a day's flight search response is
// reused. Both legs of a round trip usually arrive within seconds, so
// the second leg almost always hits the cache.
const searchCacheTTL = 10 * time.Minute

// AirmaxResolver resolves the flights booked by a leg. Flight numbers
// embedded in the booking's custom fields win; when a booking carries
// none, the Airmax flight search API is consulted for the leg's route
// and date.
type AirmaxResolver struct {
	BaseURL        string
	SearchEndpoint string
	APIKey         string
	Client         *http.Client
	Cache          *redis.Client
}

// NewAirmaxResolver builds a resolver from the loaded configuration.
func NewAirmaxResolver() *AirmaxResolver {
	return &AirmaxResolver{
		BaseURL:        config.AppConfig.AirmaxAPIBaseURL,
		SearchEndpoint: config.AppConfig.FlightSearchEndpoint,
		APIKey:         config.AppConfig.MakerSuiteAPIKey,
		Client:         &http.Client{Timeout: 15 * time.Second},
		Cache:          utils.GetCacheClient(),
	}
}

type searchedFlight struct {
	FlightID      int    `json:"FlightId"`
	FlightNumber  int    `json:"FlightNumber"`
	Route         string `json:"Route"`
	DepartureDate string `json:"DepartureDate"`
}

func (r *AirmaxResolver) Resolve(ctx context.Context, booking *models.Booking) ([]models.FlightRef, error) {
	departureAt := availabilityStart(booking)

	if numbers := transform.ExtractDepartFlights(booking); len(numbers) > 0 {
		refs := make([]models.FlightRef, 0, len(numbers))
		for _, n := range numbers {
			refs = append(refs, models.FlightRef{Number: n, DepartureAt: departureAt})
		}
		return refs, nil
	}

	return r.searchFlights(ctx, booking, departureAt)
}

// searchFlights queries GetOneWayFlightsForDateRange for the booking's
// scheduled date and matches flights on the route name.
func (r *AirmaxResolver) searchFlights(ctx context.Context, booking *models.Booking, departureAt time.Time) ([]models.FlightRef, error) {
	if departureAt.IsZero() {
		return nil, relay.NewLookupError(fmt.Sprintf("booking %d has no scheduled start to search flights for", booking.PK))
	}

	day := departureAt.Format("2006-01-02")

	results, ok := r.cachedSearch(ctx, day)
	if !ok {
		var err error
		results, err = r.fetchSearch(ctx, day)
		if err != nil {
			return nil, err
		}
		r.storeSearch(ctx, day, results)
	}

	refs := matchByRoute(results, booking, departureAt)
	if len(refs) == 0 {
		return nil, relay.NewLookupError(fmt.Sprintf("no flights found for booking %d on %s", booking.PK, day))
	}

	utils.GetLogger().Info("Resolved flights via flight search",
		zap.Int("bookingPk", booking.PK),
		zap.Ints("flights", models.FlightNumbers(refs)))
	return refs, nil
}

// fetchSearch queries GetOneWayFlightsForDateRange for one day.
func (r *AirmaxResolver) fetchSearch(ctx context.Context, day string) ([]searchedFlight, error) {
	q := url.Values{}
	q.Set("StartDate", day)
	q.Set("EndDate", day)

	reqURL := r.BaseURL + r.SearchEndpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, relay.NewLookupError(fmt.Sprintf("building flight search request: %v", err))
	}
	req.Header.Set("X-Api-Key", r.APIKey)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, relay.NewLookupError(fmt.Sprintf("flight search request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, relay.NewLookupError(fmt.Sprintf("flight search returned status %d", resp.StatusCode))
	}

	var results []searchedFlight
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, relay.NewLookupError(fmt.Sprintf("decoding flight search response: %v", err))
	}
	return results, nil
}

func (r *AirmaxResolver) cachedSearch(ctx context.Context, day string) ([]searchedFlight, bool) {
	if r.Cache == nil {
		return nil, false
	}
	raw, err := r.Cache.Get(ctx, searchCacheKey(day)).Bytes()
	if err != nil {
		return nil, false
	}
	var results []searchedFlight
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (r *AirmaxResolver) storeSearch(ctx context.Context, day string, results []searchedFlight) {
	if r.Cache == nil {
		return
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, searchCacheKey(day), raw, searchCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Failed to cache flight search results",
			zap.String("day", day), zap.Error(err))
	}
}

func searchCacheKey(day string) string {
	return "flightsearch:" + day
}

func matchByRoute(results []searchedFlight, booking *models.Booking, departureAt time.Time) []models.FlightRef {
	route := ""
	if booking.Availability != nil && booking.Availability.Item != nil {
		route = booking.Availability.Item.Name
	}

	var refs []models.FlightRef
	for _, f := range results {
		if route != "" && !strings.EqualFold(strings.TrimSpace(f.Route), strings.TrimSpace(route)) {
			continue
		}
		number := f.FlightNumber
		if number == 0 {
			number = f.FlightID
		}
		at := departureAt
		if t, err := time.Parse(time.RFC3339, f.DepartureDate); err == nil {
			at = t
		}
		refs = append(refs, models.FlightRef{Number: number, DepartureAt: at})
	}
	return refs
}

func availabilityStart(booking *models.Booking) time.Time {
	if booking.Availability == nil || booking.Availability.StartAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, booking.Availability.StartAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
