package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"farmassist/internal/auth"
	"farmassist/internal/models"
	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// AuthHandler handles registration, login and profile endpoints
type AuthHandler struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *AuthHandler {
	return &AuthHandler{
		users:   users,
		tokens:  tokens,
		logger:  logger,
		metrics: metricsCollector,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	State    string `json:"state"`
	District string `json:"district"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" {
		sendError(w, r, h.metrics, "name and email are required", http.StatusBadRequest)
		return
	}

	if _, err := h.users.GetUserByEmail(ctx, req.Email); err == nil {
		sendError(w, r, h.metrics, "an account with this email already exists", http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		sendError(w, r, h.metrics, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		State:        req.State,
		District:     req.District,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		h.logger.Error(ctx, "[API_REGISTER_ERROR] Failed to create account", logging.Fields{
			"email": req.Email,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/auth/register")
		sendError(w, r, h.metrics, "failed to create account", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Name)
	if err != nil {
		h.logger.Error(ctx, "[API_REGISTER_ERROR] Failed to issue token", logging.Fields{
			"user_id": user.ID,
		}, err)
		sendError(w, r, h.metrics, "failed to issue token", http.StatusInternalServerError)
		return
	}

	h.logger.Info(ctx, "[API_REGISTER] Account created", logging.Fields{
		"user_id": user.ID,
	})
	h.metrics.RecordAPIRequest("/api/auth/register", "POST", "201")
	sendJSON(w, authResponse{Token: token, User: user}, http.StatusCreated)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		sendError(w, r, h.metrics, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		sendError(w, r, h.metrics, "invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Name)
	if err != nil {
		h.logger.Error(ctx, "[API_LOGIN_ERROR] Failed to issue token", logging.Fields{
			"user_id": user.ID,
		}, err)
		sendError(w, r, h.metrics, "failed to issue token", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/auth/login", "POST", "200")
	sendJSON(w, authResponse{Token: token, User: user}, http.StatusOK)
}

// GetProfile handles GET /api/auth/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		sendError(w, r, h.metrics, "account not found", notFoundStatus(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/auth/profile", "GET", "200")
	sendJSON(w, user, http.StatusOK)
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	State    string `json:"state"`
	District string `json:"district"`
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		sendError(w, r, h.metrics, "account not found", notFoundStatus(err))
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Phone = req.Phone
	user.State = req.State
	user.District = req.District
	user.UpdatedAt = time.Now().UTC()

	if err := h.users.UpdateProfile(ctx, user); err != nil {
		h.logger.Error(ctx, "[API_PROFILE_ERROR] Failed to update profile", logging.Fields{
			"user_id": user.ID,
		}, err)
		sendError(w, r, h.metrics, "failed to update profile", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/auth/profile", "PUT", "200")
	sendJSON(w, user, http.StatusOK)
}

// RegisterRoutes registers the auth routes. Profile endpoints go on the
// authenticated subrouter.
func (h *AuthHandler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	public.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	protected.HandleFunc("/api/auth/profile", h.GetProfile).Methods("GET")
	protected.HandleFunc("/api/auth/profile", h.UpdateProfile).Methods("PUT")
}
