// Package intimacy — handlers.go serves the intimacy read endpoints.
package intimacy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/server/middleware"
)

// Handler serves GET /api/v1/characters/{id}/intimacy.
type Handler struct {
	service *Service
}

// NewHandler creates a new intimacy handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetIntimacy returns a companion's score plus its recent events.
func (h *Handler) HandleGetIntimacy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	characterID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	score, err := h.service.GetScore(r.Context(), characterID, userID)
	if err != nil {
		if errors.Is(err, common.ErrCharacterNotFound) {
			common.RespondError(w, http.StatusNotFound, "character not found")
			return
		}
		log.WithError(err).Error("Failed to load intimacy score")
		common.RespondError(w, http.StatusInternalServerError, "failed to load intimacy")
		return
	}

	events, err := h.service.Events(r.Context(), characterID, userID, 20)
	if err != nil {
		log.WithError(err).Error("Failed to load intimacy events")
		common.RespondError(w, http.StatusInternalServerError, "failed to load intimacy")
		return
	}

	eventPayload := make([]map[string]any, 0, len(events))
	for _, e := range events {
		eventPayload = append(eventPayload, map[string]any{
			"amount":     e.Amount,
			"reason":     e.Reason,
			"created_at": common.FormatDateTime(e.CreatedAt),
		})
	}

	common.RespondJSON(w, http.StatusOK, map[string]any{
		"character_id": score.CharacterID,
		"score":        score.Score,
		"total_earned": score.TotalEarned,
		"events":       eventPayload,
	})
}
