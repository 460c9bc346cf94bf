// Package admin — handlers.go serves the admin endpoints and the session
// middleware guarding them.
package admin

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
)

// Handler serves the /api/v1/admin endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new admin handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleLogin exchanges the admin password for a session token.
//
// Request:  {"password": "..."}
// Response: {"token": "..."}
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.service.Authenticate(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, common.ErrWrongPassword) {
			common.RespondError(w, http.StatusUnauthorized, "wrong password")
			return
		}
		log.WithError(err).Error("Admin login failed")
		common.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// RequireSession wraps admin endpoints with the session check. The token
// travels in the X-Admin-Token header, separate from the user bearer
// token.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
		if token == "" {
			common.RespondError(w, http.StatusUnauthorized, "admin token required")
			return
		}
		if err := h.service.ValidateSession(r.Context(), token); err != nil {
			common.RespondError(w, http.StatusUnauthorized, "admin session expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleGrant manually grants intimacy to a user's active companion.
//
// Request: {"user_id": 1, "amount": 50, "reason": "..."}
func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"user_id"`
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.GrantIntimacy(r.Context(), req.UserID, req.Amount, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidAmount):
			common.RespondError(w, http.StatusBadRequest, "amount must be positive")
		case errors.Is(err, common.ErrUserNotFound), errors.Is(err, common.ErrNoActiveCharacter):
			common.RespondError(w, http.StatusNotFound, err.Error())
		default:
			log.WithError(err).Error("Admin grant failed")
			common.RespondError(w, http.StatusInternalServerError, "grant failed")
		}
		return
	}

	common.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleStats returns the aggregate login snapshot.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load stats")
		common.RespondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}
