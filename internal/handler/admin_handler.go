package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/service"
	"github.com/miniapptrack/attribution/pkg/logger"
	"github.com/miniapptrack/attribution/pkg/response"
)

// AdminHandler handles API key management HTTP requests
type AdminHandler struct {
	keys service.KeyService
	log  *logger.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(keys service.KeyService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{keys: keys, log: log}
}

// CreateKey provisions a new API key
// POST /api/v1/admin/keys
func (h *AdminHandler) CreateKey(c *gin.Context) {
	var req dto.CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(validationDetails(err)))
		return
	}

	result, err := h.keys.Generate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrKeyExists) {
			c.JSON(http.StatusConflict, response.Error(response.ErrCodeConflict, "Key collision, retry the request"))
			return
		}
		h.log.WithContext(c.Request.Context()).Error("failed to provision api key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError())
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// ListKeys returns all keys with values redacted
// GET /api/v1/admin/keys
func (h *AdminHandler) ListKeys(c *gin.Context) {
	result, err := h.keys.List(c.Request.Context())
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("failed to list api keys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError())
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// RevokeKey deactivates a key by its full value. The value is taken from the
// request body, not the path, to keep it out of access logs.
// DELETE /api/v1/admin/keys
func (h *AdminHandler) RevokeKey(c *gin.Context) {
	var req dto.RevokeKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(validationDetails(err)))
		return
	}

	result, err := h.keys.Revoke(c.Request.Context(), req.Key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("No such key"))
			return
		}
		h.log.WithContext(c.Request.Context()).Error("failed to revoke api key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError())
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
