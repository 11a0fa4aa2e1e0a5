package airmax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"airmax/config"
	"airmax/models"
	"airmax/utils"

	"go.uber.org/zap"
)

// MakerSuiteClient forwards transformed bookings to the MakerSuite
// CreateBooking endpoint.
type MakerSuiteClient struct {
	APIURL string
	APIKey string
	Client *http.Client
}

// NewMakerSuiteClient builds a client from the loaded configuration.
func NewMakerSuiteClient() *MakerSuiteClient {
	return &MakerSuiteClient{
		APIURL: config.AppConfig.MakerSuiteAPIURL,
		APIKey: config.AppConfig.MakerSuiteAPIKey,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateBooking posts the payload downstream. A non-2xx status or a
// transport failure is returned as an error; callers decide whether to
// retry (the relay engine does not).
func (c *MakerSuiteClient) CreateBooking(ctx context.Context, payload *models.BookingPayload) (*models.BookingResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding booking payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building booking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)

	utils.GetLogger().Info("Sending booking to MakerSuite API",
		zap.Ints("departFlights", payload.DepartFlights),
		zap.Ints("returnFlights", payload.ReturnFlights),
		zap.Int("passengers", len(payload.Passengers)))

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading booking response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("MakerSuite API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var bookingResp models.BookingResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &bookingResp); err != nil {
			return nil, fmt.Errorf("decoding booking response: %w", err)
		}
	}
	return &bookingResp, nil
}
