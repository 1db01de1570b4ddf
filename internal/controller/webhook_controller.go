package controller

import (
	"encoding/json"
	"io"

	"retreat_screening_backend/internal/service"
	"retreat_screening_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	Webhooks *service.WebhookService
}

func NewWebhookController(webhooks *service.WebhookService) *WebhookController {
	return &WebhookController{Webhooks: webhooks}
}

// @Summary Form submission webhook
// @Description Accepts a form provider delivery. Duplicate deliveries of the
// same submission token are acknowledged without reprocessing.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param body body service.SubmissionWebhook true "submission"
// @Success 200 {object} util.Response
// @Router /api/webhooks/form-submission [post]
func (c *WebhookController) FormSubmission(ctx *gin.Context) {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		util.BadRequest(ctx, "unreadable body")
		return
	}

	var payload service.SubmissionWebhook
	if err := json.Unmarshal(raw, &payload); err != nil {
		util.BadRequest(ctx, "invalid json")
		return
	}
	if payload.Token == "" || payload.FormID == "" || payload.Participant.Email == "" {
		util.BadRequest(ctx, "token, formId and participant.email are required")
		return
	}

	if err := c.Webhooks.ProcessSubmission(payload, raw); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"accepted": true})
}

// @Summary Scheduling provider booking webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param body body service.BookingWebhook true "booking"
// @Success 200 {object} util.Response
// @Router /api/webhooks/booking [post]
func (c *WebhookController) Booking(ctx *gin.Context) {
	var payload service.BookingWebhook
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Webhooks.HandleBooking(ctx.Request.Context(), payload); err != nil {
		if err == util.ErrNoPendingWork {
			// Acknowledged so the provider stops redelivering; the booking
			// simply has nothing to attach to.
			util.Success(ctx, gin.H{"matched": false})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"matched": true})
}

// @Summary Reprocess stale submission locks
// @Tags cron
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/cron/reprocess [post]
func (c *WebhookController) Reprocess(ctx *gin.Context) {
	n, err := c.Webhooks.SweepStaleLocks()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reprocessed": n})
}
