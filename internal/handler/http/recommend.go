package http

import (
	"log/slog"
	"net/http"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/service"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/httputil"
)

// RecommendHandler handles HTTP requests for the recommendation endpoint.
type RecommendHandler struct {
	service *service.RecommendService
	logger  *slog.Logger
}

// NewRecommendHandler creates a new recommendation HTTP handler.
func NewRecommendHandler(svc *service.RecommendService, logger *slog.Logger) *RecommendHandler {
	return &RecommendHandler{
		service: svc,
		logger:  logger,
	}
}

// ForMe handles GET /api/v1/recommendations
func (h *RecommendHandler) ForMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	result, err := h.service.ForUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Quota handles GET /api/v1/users/me/recommend-quota
func (h *RecommendHandler) Quota(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	remaining, err := h.service.RemainingQuota(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int64{
		"remaining_today": remaining,
	}})
}
