package http

import (
	"log/slog"
	"net/http"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/service"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/httputil"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/validator"
)

// MyPageHandler handles HTTP requests for the member's own profile.
type MyPageHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewMyPageHandler creates a new my-page HTTP handler.
func NewMyPageHandler(svc *service.UserService, logger *slog.Logger) *MyPageHandler {
	return &MyPageHandler{
		service: svc,
		logger:  logger,
	}
}

// UpdateProfileRequest is the JSON request body for replacing profile fields.
type UpdateProfileRequest struct {
	Region           string   `json:"region"`
	IncomeBand       string   `json:"income_band"`
	Education        string   `json:"education"`
	MaritalStatus    string   `json:"marital_status"`
	Major            string   `json:"major"`
	EmploymentStatus []string `json:"employment_status"`
	SpecialGroup     []string `json:"special_group"`
	Interests        []string `json:"interests"`
}

// GetProfile handles GET /api/v1/users/me
func (h *MyPageHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *MyPageHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, domain.Profile{
		Region:           req.Region,
		IncomeBand:       req.IncomeBand,
		Education:        req.Education,
		MaritalStatus:    req.MaritalStatus,
		Major:            req.Major,
		EmploymentStatus: req.EmploymentStatus,
		SpecialGroup:     req.SpecialGroup,
		Interests:        req.Interests,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
