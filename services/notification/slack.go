package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"airmax/models"
	"airmax/utils"

	"go.uber.org/zap"
)

const (
	colorSuccess = "#36a64f"
	colorWarning = "#ff9800"
	colorError   = "#ff0000"
	colorDefault = "#808080"

	// Slack attachment fields cap long error strings.
	maxErrorLen = 500
)

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	TS     int64        `json:"ts"`
}

type slackMessage struct {
	Attachments []slackAttachment `json:"attachments"`
}

// SlackNotifier delivers booking status updates to a Slack incoming
// webhook.
type SlackNotifier struct {
	WebhookURL string
	Client     *http.Client
}

// NewSlackNotifier returns a Notifier posting to the given webhook URL.
// An empty URL disables delivery; each attempt logs a warning instead.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts the payload to Slack. Failures are logged and swallowed.
func (n *SlackNotifier) Notify(ctx context.Context, payload models.NotificationPayload) {
	logger := utils.GetLogger()
	if n.WebhookURL == "" {
		logger.Warn("Slack webhook URL not configured, skipping notification")
		return
	}

	body, err := json.Marshal(buildMessage(payload))
	if err != nil {
		logger.Error("Failed to encode Slack notification", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to build Slack request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		logger.Error("Failed to send Slack notification", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Error("Slack notification rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(respBody)))
		return
	}

	logger.Info("Slack notification sent",
		zap.String("status", string(payload.Status)),
		zap.String("message", payload.Message))
}

func buildMessage(payload models.NotificationPayload) slackMessage {
	var fields []slackField
	if payload.OrderID != "" {
		fields = append(fields, slackField{Title: "Order ID", Value: payload.OrderID, Short: true})
	}
	if payload.BookingType != "" {
		fields = append(fields, slackField{Title: "Booking Type", Value: payload.BookingType, Short: true})
	}
	if payload.Passenger != "" {
		fields = append(fields, slackField{Title: "Passenger", Value: payload.Passenger, Short: true})
	}
	if payload.Route != "" {
		fields = append(fields, slackField{Title: "Flight Route", Value: payload.Route, Short: false})
	}
	if payload.FlightDate != "" {
		fields = append(fields, slackField{Title: "Flight Date", Value: payload.FlightDate, Short: true})
	}
	if payload.Error != "" {
		errMsg := payload.Error
		if len(errMsg) > maxErrorLen {
			errMsg = errMsg[:maxErrorLen]
		}
		fields = append(fields, slackField{Title: "Error Details", Value: errMsg, Short: false})
	}

	return slackMessage{
		Attachments: []slackAttachment{{
			Color:  statusColor(payload.Status),
			Title:  fmt.Sprintf("Airmax Booking %s", statusTitle(payload.Status)),
			Text:   payload.Message,
			Fields: fields,
			Footer: "Airmax Webhook Service",
			TS:     time.Now().Unix(),
		}},
	}
}

func statusColor(status models.NotificationStatus) string {
	switch status {
	case models.NotifySuccess:
		return colorSuccess
	case models.NotifyWarning:
		return colorWarning
	case models.NotifyError:
		return colorError
	default:
		return colorDefault
	}
}

func statusTitle(status models.NotificationStatus) string {
	switch status {
	case models.NotifySuccess:
		return "SUCCESS"
	case models.NotifyWarning:
		return "WARNING"
	case models.NotifyError:
		return "ERROR"
	default:
		return "UPDATE"
	}
}
