package journal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/oceanablv/moodq/internal/webform"
)

// Handler exposes HTTP endpoints for journal entries.
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

// Add handles POST /add_journal: user_id, title, content, optional tags
// and is_private.
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
	title, err := form.Required("title")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	content, err := form.Required("content")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	tags := form.String("tags", "")
	isPrivate := form.Bool("is_private", false)

	if _, err := h.svc.Add(r.Context(), userID, title, content, tags, isPrivate); err != nil {
		h.logger.Warnw("add journal failed", "err", err, "user_id", userID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to save journal"})
		return
	}
	h.writeJSON(w, http.StatusCreated, response{Success: true, Message: "Journal saved"})
}

// Update handles POST /update_journal: user_id, journal_id, title,
// content, tags, is_private.
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
	journalID, err := form.ID("journal_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	title := form.String("title", "")
	content := form.String("content", "")
	tags := form.String("tags", "")
	isPrivate := form.Bool("is_private", false)

	if err := h.svc.Update(r.Context(), userID, journalID, title, content, tags, isPrivate); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, response{Message: "No rows updated"})
			return
		}
		h.logger.Warnw("update journal failed", "err", err, "user_id", userID, "journal_id", journalID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to update journal"})
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "Journal updated"})
}

// Delete handles POST /delete_journal: user_id, journal_id.
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
	journalID, err := form.ID("journal_id")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	if err := h.svc.Delete(r.Context(), userID, journalID); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, response{Message: "Not found or already deleted"})
			return
		}
		h.logger.Warnw("delete journal failed", "err", err, "user_id", userID, "journal_id", journalID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to delete journal"})
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "Journal deleted"})
}

// List handles GET /get_journals?user_id=. A missing user_id yields an
// empty array, not an error object.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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
	journals, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.logger.Warnw("list journals failed", "err", err, "user_id", userID)
		h.writeJSON(w, http.StatusInternalServerError, []struct{}{})
		return
	}
	h.writeJSON(w, http.StatusOK, journals)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
