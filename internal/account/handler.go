package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/oceanablv/moodq/internal/webform"
)

// Handler exposes HTTP endpoints for the account lifecycle.
type Handler struct {
	svc    *Service
	tokens *TokenIssuer
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil, nil), tokens: IssuerFromEnv(), logger: logger}
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type resetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Exists  bool   `json:"exists"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int64  `json:"user_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Register handles POST /register: name, email, password, goals (JSON array string).
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: "invalid request body"})
		return
	}
	name, err := form.Required("name")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	email, err := form.Required("email")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	password, err := form.Required("password")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	goals, err := form.StringList("goals")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	if _, err := h.svc.Register(r.Context(), name, email, password, goals); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			h.writeJSON(w, http.StatusConflict, response{Message: "Email already exists"})
			return
		}
		h.logger.Warnw("register failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Registration failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, response{Success: true, Message: "Registration & goals saved"})
}

// Login handles POST /login: email, password. Issues an access token when
// a signing secret is configured.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, loginResponse{Message: "invalid request body"})
		return
	}
	email, err := form.Required("email")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, loginResponse{Message: err.Error()})
		return
	}
	password, err := form.Required("password")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, loginResponse{Message: err.Error()})
		return
	}
	u, err := h.svc.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			h.writeJSON(w, http.StatusUnauthorized, loginResponse{Message: "Invalid email or password"})
			return
		}
		h.logger.Warnw("login failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, loginResponse{Message: "Login failed"})
		return
	}
	out := loginResponse{Success: true, Message: "Login successful", UserID: u.ID, Name: u.Name}
	if h.tokens != nil {
		token, err := h.tokens.Issue(u.ID, u.Email)
		if err != nil {
			h.logger.Warnw("token issue failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, loginResponse{Message: "Login failed"})
			return
		}
		out.Token = token
	}
	h.writeJSON(w, http.StatusOK, out)
}

// RequestReset handles POST /request_reset: email. Pure existence probe;
// nothing is dispatched out-of-band.
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, resetResponse{Message: "invalid request body"})
		return
	}
	email, err := form.Required("email")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, resetResponse{Message: "Email required"})
		return
	}
	exists, err := h.svc.EmailExists(r.Context(), email)
	if err != nil {
		h.logger.Warnw("reset probe failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, resetResponse{Message: "Lookup failed"})
		return
	}
	if exists {
		h.writeJSON(w, http.StatusOK, resetResponse{Success: true, Message: "Email is registered. You can change password.", Exists: true})
		return
	}
	h.writeJSON(w, http.StatusOK, resetResponse{Message: "Email not registered"})
}

// ChangePassword handles POST /change_password: email, new_password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	form, err := webform.Parse(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: "invalid request body"})
		return
	}
	email, err := form.Required("email")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	newPassword, err := form.Required("new_password")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}
	if err := h.svc.ChangePassword(r.Context(), email, newPassword); err != nil {
		if errors.Is(err, ErrEmailNotFound) {
			h.writeJSON(w, http.StatusNotFound, response{Message: "Failed to update password"})
			return
		}
		h.logger.Warnw("change password failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Failed to update password"})
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "Password updated"})
}

// DeleteAccount handles POST /delete_account: user_id. All dependent rows
// and the user row go in one transaction.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
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
	if err := h.svc.DeleteAccount(r.Context(), userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, response{Message: "User not found"})
			return
		}
		h.logger.Warnw("delete account failed", "err", err, "user_id", userID)
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "Account deletion failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "Account and data deleted"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
