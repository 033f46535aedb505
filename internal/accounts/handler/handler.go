// Package handler exposes the small account-settings HTTP surface.
package handler

import (
	"context"
	"net/http"

	"homezy_backend/platform/httpkit"
	"homezy_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store is the slice of the accounts repository the handler needs.
type Store interface {
	SavePushToken(ctx context.Context, userID uuid.UUID, token string) error
}

type Handler struct {
	repo Store
	val  *validator.Validator
}

func New(repo Store, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/me/push-token", h.SavePushToken)
}

type savePushTokenRequest struct {
	Token string `json:"token" validate:"required,max=512"`
}

// SavePushToken stores the caller's Expo push token so high-priority
// notifications can reach their device.
func (h *Handler) SavePushToken(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		return
	}

	var req savePushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.repo.SavePushToken(c.Request.Context(), userID, req.Token); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}
