// Package handler exposes the service reminder HTTP API.
package handler

import (
	"net/http"

	"homezy_backend/internal/reminders/service"
	"homezy_backend/internal/reminders/transport"
	"homezy_backend/platform/httpkit"
	"homezy_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for service reminders.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new reminders handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the reminder routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/snooze", h.Snooze)
	rg.POST("/:id/pause", h.Pause)
	rg.POST("/:id/resume", h.Resume)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/convert", h.ConvertToQuote)
}

func (h *Handler) Create(c *gin.Context) {
	homeownerID, ok := httpkit.UserID(c)
	if !ok {
		return
	}

	var req transport.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), homeownerID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), homeownerID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) List(c *gin.Context) {
	homeownerID, ok := httpkit.UserID(c)
	if !ok {
		return
	}

	var req transport.ListRemindersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), homeownerID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req transport.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), homeownerID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Delete(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), homeownerID, id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

func (h *Handler) Snooze(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req transport.SnoozeReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Snooze(c.Request.Context(), homeownerID, id, req.Days)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Pause(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Pause(c.Request.Context(), homeownerID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Resume(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Resume(c.Request.Context(), homeownerID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Complete(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req transport.CompleteReminderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}

	result, err := h.svc.Complete(c.Request.Context(), homeownerID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ConvertToQuote(c *gin.Context) {
	homeownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.ConvertToQuote(c.Request.Context(), homeownerID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ownerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	homeownerID, ok := httpkit.UserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, uuid.Nil, false
	}

	return homeownerID, id, true
}
