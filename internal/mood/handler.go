package mood

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/oceanablv/moodq/internal/webform"
)

// Handler exposes HTTP endpoints for mood entries and their aggregations.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil), logger: logger}
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Add handles POST /add_mood: user_id, mood_label, mood_intensity, note.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: "invalid request body"})
		return
	}
	userID, err := form.ID("user_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	label, err := form.Required("mood_label")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	intensity, err := form.Float64("mood_intensity")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	note := form.String("note", "")

	if _, err := h.svc.Add(r.Context(), userID, label, intensity, note); err != nil {
		h.logger.Warnw("add mood failed", "err", err, "user_id", userID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to save mood"})
		return
	}
	h.writeJSON(w, http.StatusCreated, response{Success: true, Message: "Mood saved"})
}

// Update handles POST /update_mood: user_id, mood_id, mood_label,
// mood_intensity, note.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: "invalid request body"})
		return
	}
	userID, err := form.ID("user_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	moodID, err := form.ID("mood_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	label, err := form.Required("mood_label")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	intensity, err := form.Float64("mood_intensity")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	note := form.String("note", "")

	if err := h.svc.Update(r.Context(), userID, moodID, label, intensity, note); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, response{Message: "No rows updated"})
			return
		}
		h.logger.Warnw("update mood failed", "err", err, "user_id", userID, "mood_id", moodID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to update mood"})
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "Mood updated"})
}

// Delete handles POST /delete_mood: user_id, mood_id.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: "invalid request body"})
		return
	}
	userID, err := form.ID("user_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	moodID, err := form.ID("mood_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	if err := h.svc.Delete(r.Context(), userID, moodID); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, response{Message: "Not found or already deleted"})
			return
		}
		h.logger.Warnw("delete mood failed", "err", err, "user_id", userID, "mood_id", moodID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to delete mood"})
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "Mood deleted"})
}

// Insights handles GET /get_mood_insights?user_id=&period=. A missing
// user_id yields an empty array, not an error object, so the client's list
// parser never breaks.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	userID, err := form.ID("user_id")
	if err != nil {
		h.writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	period := form.String("period", "all")

	moods, err := h.svc.Insights(r.Context(), userID, period)
	if err != nil {
		h.logger.Warnw("mood insights failed", "err", err, "user_id", userID)
		h.writeJSON(w, http.StatusInternalServerError, []struct{}{})
		return
	}
	h.writeJSON(w, http.StatusOK, moods)
}

// HomeStats handles GET /get_home_stats?user_id=.
func (h *Handler) HomeStats(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: "invalid request body"})
		return
	}
	userID, err := form.ID("user_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: "User ID required"})
		return
	}
	stats, err := h.svc.HomeStats(r.Context(), userID)
	if err != nil {
		h.logger.Warnw("home stats failed", "err", err, "user_id", userID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to load stats"})
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
