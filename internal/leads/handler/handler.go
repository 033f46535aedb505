// Package handler exposes the leads HTTP API.
package handler

import (
	"net/http"
	"time"

	"homezy_backend/internal/leads/service"
	"homezy_backend/internal/leads/transport"
	"homezy_backend/platform/httpkit"
	"homezy_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes registers the unauthenticated guest submission route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.SubmitGuest)
}

// RegisterHomeownerRoutes registers the homeowner-facing lead routes.
func (h *Handler) RegisterHomeownerRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListMine)
	rg.POST("", h.Submit)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/complete", h.Complete)
}

// RegisterProfessionalRoutes registers the professional-facing lead routes.
func (h *Handler) RegisterProfessionalRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAssigned)
	rg.POST("/:id/accept", h.Accept)
	rg.POST("/:id/decline", h.Decline)
	rg.POST("/:id/claim", h.Claim)
}

func (h *Handler) SubmitGuest(c *gin.Context) {
	req, ok := h.bindSubmit(c)
	if !ok {
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), nil, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) Submit(c *gin.Context) {
	homeownerID, ok := httpkit.UserID(c)
	if !ok {
		return
	}
	req, ok := h.bindSubmit(c)
	if !ok {
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), &homeownerID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) bindSubmit(c *gin.Context) (transport.SubmitLeadRequest, bool) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ListMine(c *gin.Context) {
	homeownerID, ok := httpkit.UserID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListForHomeowner(c.Request.Context(), homeownerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ListAssigned(c *gin.Context) {
	professionalID, ok := httpkit.UserID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListForProfessional(c.Request.Context(), professionalID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Accept(c *gin.Context) {
	professionalID, leadID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Accept(c.Request.Context(), professionalID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Decline(c *gin.Context) {
	professionalID, leadID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Decline(c.Request.Context(), professionalID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Claim(c *gin.Context) {
	professionalID, leadID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.Claim(c.Request.Context(), professionalID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Complete(c *gin.Context) {
	homeownerID, leadID, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var body struct {
		CompletedAt *time.Time `json:"completedAt"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}

	result, err := h.svc.Complete(c.Request.Context(), homeownerID, leadID, body.CompletedAt)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) actorAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := httpkit.UserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, id, true
}
