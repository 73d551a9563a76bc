package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
	"github.com/noah-isme/fortidesk-api/pkg/jobs"
	"github.com/noah-isme/fortidesk-api/pkg/response"
)

// ReminderJobType tags queued reminder runs.
const ReminderJobType = "expiry_reminders"

type reminderService interface {
	SelectPending(ctx context.Context, day time.Time) ([]dto.PendingReminder, error)
}

type jobEnqueuer interface {
	TryEnqueue(job jobs.Job) (jobs.Job, error)
}

// ReminderHandler lists pending reminders and queues reminder runs.
type ReminderHandler struct {
	service reminderService
	queue   jobEnqueuer
}

// NewReminderHandler constructs the handler.
func NewReminderHandler(svc reminderService, queue jobEnqueuer) *ReminderHandler {
	return &ReminderHandler{service: svc, queue: queue}
}

// Pending godoc
// @Summary Documents awaiting an expiry reminder
// @Tags Reminders
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reminders/pending [get]
func (h *ReminderHandler) Pending(c *gin.Context) {
	date, err := parseDate(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	var day time.Time
	if date != nil {
		day = *date
	}
	pending, err := h.service.SelectPending(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, nil)
}

// Dispatch godoc
// @Summary Queue an expiry reminder run
// @Description The run executes in the background; only one run is active at a time.
// @Tags Reminders
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reminders/dispatch [post]
func (h *ReminderHandler) Dispatch(c *gin.Context) {
	date, err := parseDate(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	day := compliance.Today()
	if date != nil {
		day = *date
	}
	job, err := h.queue.TryEnqueue(jobs.Job{Type: ReminderJobType, Payload: day})
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			response.Error(c, appErrors.Clone(appErrors.ErrLocked, "a reminder run is already queued"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue reminder run"))
		return
	}
	response.JSON(c, http.StatusAccepted, dto.ReminderDispatchAccepted{
		JobID:    job.ID,
		Date:     day,
		Enqueued: job.Enqueued,
	}, nil)
}
