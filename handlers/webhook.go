package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	webhookRepo "airmax/database/repository/webhook"
	"airmax/models"
	"airmax/services/relay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives FareHarbor booking webhooks and hands them to
// the relay engine.
type WebhookHandler struct {
	Relay   relay.RelayService
	Archive webhookRepo.WebhookArchive
	Logger  *zap.Logger
}

// NewWebhookHandler builds the handler. Archive may be nil when the
// audit trail is disabled.
func NewWebhookHandler(relaySvc relay.RelayService, archive webhookRepo.WebhookArchive, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		Relay:   relaySvc,
		Archive: archive,
		Logger:  logger,
	}
}

// ReceiveBooking handles POST /webhooks/bookings. The endpoint always
// answers 200 to the upstream platform; processing problems are
// reported in the body so FareHarbor does not hammer the endpoint with
// redeliveries of bookings we already rejected.
func (h *WebhookHandler) ReceiveBooking(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var envelope models.WebhookEnvelope
	parseErr := json.Unmarshal(body, &envelope)

	h.archiveRequest(c, body, envelope.Booking)

	if parseErr != nil || envelope.Booking == nil {
		h.Logger.Warn("No booking data found in webhook",
			zap.Int("bodyBytes", len(body)))
		c.JSON(http.StatusOK, gin.H{
			"message":   "Webhook received but no booking data found",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	booking := envelope.Booking
	h.Logger.Info("Processing booking data",
		zap.Int("bookingPk", booking.PK),
		zap.Bool("roundTrip", booking.IsRoundTrip()))

	var result *relay.ProcessingResult
	var procErr error
	if booking.IsRoundTrip() {
		result, procErr = h.Relay.HandleRoundTrip(c.Request.Context(), booking)
	} else {
		result, procErr = h.Relay.HandleSingleTrip(c.Request.Context(), booking)
	}

	if procErr != nil {
		h.Logger.Error("Error processing booking", zap.Error(procErr))
		c.JSON(http.StatusOK, gin.H{
			"message":   "Booking received but processing failed",
			"timestamp": time.Now().Format(time.RFC3339),
			"error":     procErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, webhookResponse(result))
}

// ListArchivedWebhooks handles GET /admin/webhooks.
func (h *WebhookHandler) ListArchivedWebhooks(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook archive is disabled"})
		return
	}

	limit := int64(50)
	records, err := h.Archive.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list archived webhooks", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": records, "count": len(records)})
}

// GetArchivedWebhook handles GET /admin/webhooks/:id.
func (h *WebhookHandler) GetArchivedWebhook(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook archive is disabled"})
		return
	}

	record, err := h.Archive.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archived webhook not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *WebhookHandler) archiveRequest(c *gin.Context, body []byte, booking *models.Booking) {
	if h.Archive == nil {
		return
	}

	record := models.WebhookRecord{
		Payload:    string(body),
		ClientIP:   c.ClientIP(),
		URL:        c.Request.URL.String(),
		ReceivedAt: time.Now(),
	}
	if booking != nil {
		record.OrderID = booking.OrderDisplayID()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := h.Archive.Save(ctx, record); err != nil {
		h.Logger.Warn("Failed to archive webhook request", zap.Error(err))
	}
}

func webhookResponse(result *relay.ProcessingResult) gin.H {
	resp := gin.H{
		"message":   responseMessage(result),
		"timestamp": time.Now().Format(time.RFC3339),
		"status":    result.Status,
	}
	if result.Error != "" {
		resp["error"] = result.Error
	}
	if result.Status == relay.StatusDuplicate {
		resp["duplicate"] = true
	}
	if result.Response != nil {
		resp["makersuite_response"] = result.Response
	}
	return resp
}

func responseMessage(result *relay.ProcessingResult) string {
	switch {
	case result.Status == relay.StatusStored:
		return result.Message
	case result.Status == relay.StatusRejected:
		return "Error: " + result.Message
	case result.Status == relay.StatusDuplicate:
		return "Booking already processed (duplicate request)"
	case result.Status == relay.StatusMergedForwarded && result.Success:
		return "Round trip booking processed and sent to MakerSuite successfully!"
	case result.Status == relay.StatusMergedForwarded:
		return "Round trip booking received but failed to send to MakerSuite"
	case result.Status == relay.StatusForwarded && result.Success:
		return "Single trip booking processed and sent to MakerSuite successfully!"
	case result.Status == relay.StatusForwarded:
		return "Single trip booking received but failed to send to MakerSuite"
	default:
		return result.Message
	}
}
