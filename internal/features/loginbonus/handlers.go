// Package loginbonus — handlers.go exposes the login bonus flow over HTTP.
package loginbonus

import (
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/server/middleware"
)

// Handler serves the /api/v1/login endpoints.
type Handler struct {
	service         *Service
	historyMaxLimit int
}

// NewHandler creates a new login bonus handler.
func NewHandler(service *Service, historyMaxLimit int) *Handler {
	return &Handler{service: service, historyMaxLimit: historyMaxLimit}
}

// statusPayload is the wire shape of a LoginStatus.
type statusPayload struct {
	CurrentStreak  int     `json:"current_streak"`
	TotalLoginDays int     `json:"total_login_days"`
	LastLoginDate  *string `json:"last_login_date"`
}

// bonusPayload is the wire shape of a Bonus.
type bonusPayload struct {
	ID            string `json:"id"`
	Day           int    `json:"day"`
	IntimacyBonus int    `json:"intimacy_bonus"`
	BonusType     string `json:"bonus_type"`
	ReceivedAt    string `json:"received_at"`
	Description   string `json:"description"`
}

func toStatusPayload(s *LoginStatus) statusPayload {
	p := statusPayload{
		CurrentStreak:  s.CurrentStreak,
		TotalLoginDays: s.TotalLoginDays,
	}
	if s.LastLoginDate != nil {
		d := common.FormatDate(*s.LastLoginDate)
		p.LastLoginDate = &d
	}
	return p
}

func toBonusPayload(b *Bonus) *bonusPayload {
	if b == nil {
		return nil
	}
	return &bonusPayload{
		ID:            b.ID.String(),
		Day:           b.Day,
		IntimacyBonus: b.IntimacyBonus,
		BonusType:     string(b.BonusType),
		ReceivedAt:    common.FormatDateTime(b.ReceivedAt),
		Description:   b.Description,
	}
}

// HandleLogin processes today's login for the authenticated user.
//
// Response:
//
//	{
//	  "status": {"current_streak": 7, "total_login_days": 12, "last_login_date": "2026-08-28"},
//	  "bonus": {"day": 7, "intimacy_bonus": 25, "bonus_type": "weekly", ...}
//	}
//
// "bonus" is null when today's login was already processed.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	status, bonus, err := h.service.ProcessLogin(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Another launch is processing the same login right now.
			common.RespondError(w, http.StatusConflict, "login is being processed, retry")
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Failed to process login")
		common.RespondError(w, http.StatusInternalServerError, "failed to process login")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]any{
		"status": toStatusPayload(status),
		"bonus":  toBonusPayload(bonus),
	})
}

// HandleStatus returns the current streak state and pending bonus without
// advancing anything.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	status, pending, err := h.service.Status(r.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load login status")
		common.RespondError(w, http.StatusInternalServerError, "failed to load login status")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]any{
		"status":        toStatusPayload(status),
		"pending_bonus": toBonusPayload(pending),
	})
}

// HandleClaim claims the pending bonus. Clients may call this
// speculatively: with nothing to claim the response is a 200 with
// claimed=false, never an error.
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	result, err := h.service.Claim(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNoPendingBonus) {
			common.RespondJSON(w, http.StatusOK, map[string]any{"claimed": false})
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Failed to claim bonus")
		common.RespondError(w, http.StatusInternalServerError, "failed to claim bonus")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]any{
		"claimed":        true,
		"intimacy_delta": result.IntimacyDelta,
		"reason":         result.Reason,
		"bonus":          toBonusPayload(result.Bonus),
	})
}

// HandleHistory returns claimed bonuses, most recent first.
// Query: ?limit=N (default 20, capped by config).
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			common.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > h.historyMaxLimit {
		limit = h.historyMaxLimit
	}

	entries, err := h.service.History(r.Context(), userID, limit)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load bonus history")
		common.RespondError(w, http.StatusInternalServerError, "failed to load bonus history")
		return
	}

	payload := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		payload = append(payload, map[string]any{
			"bonus":      toBonusPayload(&e.Bonus),
			"claimed_at": common.FormatDateTime(e.ClaimedAt),
		})
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"history": payload})
}
