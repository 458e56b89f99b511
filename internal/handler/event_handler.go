package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/middleware"
	"github.com/miniapptrack/attribution/internal/service"
	"github.com/miniapptrack/attribution/pkg/logger"
	"github.com/miniapptrack/attribution/pkg/response"
)

// EventHandler handles tracking event HTTP requests
type EventHandler struct {
	recorder service.RecorderService
	log      *logger.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(recorder service.RecorderService, log *logger.Logger) *EventHandler {
	return &EventHandler{recorder: recorder, log: log}
}

// Submit handles a tracking event
// POST /api/v1/events
func (h *EventHandler) Submit(c *gin.Context) {
	auth, ok := middleware.GetAuth(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized())
		return
	}

	var req dto.SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(validationDetails(err)))
		return
	}

	switch req.EventType {
	case dto.EventTypeAppOpen:
		h.submitAppOpen(c, auth.TenantID, req.Data)
	case dto.EventTypePayment:
		h.submitPayment(c, auth.TenantID, req.Data)
	default:
		// Unreachable given the binding tag, kept for direct callers.
		c.JSON(http.StatusBadRequest, response.ValidationFailed(map[string]string{
			"event_type": "must be app_open or payment",
		}))
	}
}

func (h *EventHandler) submitAppOpen(c *gin.Context, tenantID string, data json.RawMessage) {
	var payload dto.AppOpenPayload
	if err := unmarshalPayload(data, &payload); err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(validationDetails(err)))
		return
	}

	result, err := h.recorder.RecordAppOpen(c.Request.Context(), tenantID, &payload)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("failed to record app open", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError())
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

func (h *EventHandler) submitPayment(c *gin.Context, tenantID string, data json.RawMessage) {
	var payload dto.PaymentPayload
	if err := unmarshalPayload(data, &payload); err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(validationDetails(err)))
		return
	}

	result, err := h.recorder.RecordPayment(c.Request.Context(), tenantID, &payload)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotAttributed) {
			c.JSON(http.StatusUnprocessableEntity,
				response.Error(response.ErrCodeUserNotAttributed, "User has no attribution record; payment rejected"))
			return
		}
		h.log.WithContext(c.Request.Context()).Error("failed to record payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError())
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// unmarshalPayload decodes a raw event payload and runs struct validation on it
func unmarshalPayload(data json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(v)
}

// validationDetails flattens binding errors into field-level details
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = "failed validation on '" + fe.Tag() + "'"
		}
		return details
	}
	details["body"] = err.Error()
	return details
}
