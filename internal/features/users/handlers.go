// Package users — handlers.go serves registration and device-token
// endpoints.
package users

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/server/middleware"
)

// Handler serves the /api/v1/users endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new users handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleRegister creates an account. This is the only unauthenticated
// write endpoint; the response carries the bearer token the client must
// keep.
//
// Request:  {"display_name": "..."}
// Response: {"user_id": 1, "token": "...", "display_name": "..."}
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req.DisplayName)
	if err != nil {
		log.WithError(err).Error("Failed to register user")
		common.RespondError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]any{
		"user_id":      user.ID,
		"token":        user.Token,
		"display_name": user.DisplayName,
	})
}

// HandleMe returns the authenticated account.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to load user")
		common.RespondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]any{
		"user_id":             user.ID,
		"display_name":        user.DisplayName,
		"active_character_id": user.ActiveCharacterID,
	})
}

// HandleRegisterDeviceToken stores a push token for reminders.
//
// Request: {"token": "...", "platform": "ios"}
func (h *Handler) HandleRegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.RegisterDeviceToken(r.Context(), userID, req.Token, req.Platform); err != nil {
		log.WithError(err).Error("Failed to register device token")
		common.RespondError(w, http.StatusBadRequest, "failed to register device token")
		return
	}

	common.RespondJSON(w, http.StatusNoContent, nil)
}
