package http

import (
	"log/slog"
	"net/http"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/service"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/httputil"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/validator"
)

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Email            string   `json:"email" validate:"required,email"`
	Password         string   `json:"password" validate:"required,min=8"`
	Nickname         string   `json:"nickname" validate:"required,max=20"`
	BirthDate        string   `json:"birth_date"`
	Region           string   `json:"region"`
	IncomeBand       string   `json:"income_band"`
	Education        string   `json:"education"`
	MaritalStatus    string   `json:"marital_status"`
	Major            string   `json:"major"`
	EmploymentStatus []string `json:"employment_status"`
	SpecialGroup     []string `json:"special_group"`
	Interests        []string `json:"interests"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the JSON request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is the JSON response for register and login.
type AuthResponse struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, tokens, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Nickname:  req.Nickname,
		BirthDate: req.BirthDate,
		Region:    req.Region,
		Profile: domain.Profile{
			IncomeBand:       req.IncomeBand,
			Education:        req.Education,
			MaritalStatus:    req.MaritalStatus,
			Major:            req.Major,
			EmploymentStatus: req.EmploymentStatus,
			SpecialGroup:     req.SpecialGroup,
			Interests:        req.Interests,
		},
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: AuthResponse{User: user, Tokens: tokens}})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, tokens, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: AuthResponse{User: user, Tokens: tokens}})
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: tokens})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckEmail handles GET /api/v1/auth/check-email?email=...
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	available, err := h.service.CheckEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"available": available}})
}

// CheckNickname handles GET /api/v1/auth/check-nickname?nickname=...
func (h *AuthHandler) CheckNickname(w http.ResponseWriter, r *http.Request) {
	available, err := h.service.CheckNickname(r.Context(), r.URL.Query().Get("nickname"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"available": available}})
}
