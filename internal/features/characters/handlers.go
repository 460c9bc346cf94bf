// Package characters — handlers.go serves the registry endpoints.
package characters

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/server/middleware"
)

// Handler serves the /api/v1/characters endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new characters handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type characterPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Personality string `json:"personality"`
	CreatedAt   string `json:"created_at"`
}

func toPayload(c *Character) characterPayload {
	return characterPayload{
		ID:          c.ID,
		Name:        c.Name,
		Personality: c.Personality,
		CreatedAt:   common.FormatDateTime(c.CreatedAt),
	}
}

// HandleCreate registers a new companion.
//
// Request: {"name": "...", "personality": "..."}
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Personality string `json:"personality"`
	}
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	character, err := h.service.Create(r.Context(), userID, req.Name, req.Personality)
	if err != nil {
		log.WithError(err).Error("Failed to create character")
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusCreated, toPayload(character))
}

// HandleList returns all of the user's companions.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to list characters")
		common.RespondError(w, http.StatusInternalServerError, "failed to list characters")
		return
	}

	payload := make([]characterPayload, 0, len(list))
	for _, c := range list {
		payload = append(payload, toPayload(c))
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"characters": payload})
}

// HandleUpdate renames a companion or changes its personality.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Name        string `json:"name"`
		Personality string `json:"personality"`
	}
	if err := common.DecodeJSON(r, &req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	character, err := h.service.Update(r.Context(), characterID, userID, req.Name, req.Personality)
	if err != nil {
		if errors.Is(err, common.ErrCharacterNotFound) {
			common.RespondError(w, http.StatusNotFound, "character not found")
			return
		}
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, toPayload(character))
}

// HandleSetActive makes a companion the active one.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.SetActive(r.Context(), characterID, userID); err != nil {
		if errors.Is(err, common.ErrCharacterNotFound) {
			common.RespondError(w, http.StatusNotFound, "character not found")
			return
		}
		log.WithError(err).Error("Failed to set active character")
		common.RespondError(w, http.StatusInternalServerError, "failed to set active character")
		return
	}

	common.RespondJSON(w, http.StatusNoContent, nil)
}
