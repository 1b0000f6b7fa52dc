package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/service"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/httputil"
)

// PolicyHandler handles HTTP requests for policy catalog endpoints.
type PolicyHandler struct {
	service *service.PolicyService
	logger  *slog.Logger
}

// NewPolicyHandler creates a new policy HTTP handler.
func NewPolicyHandler(svc *service.PolicyService, logger *slog.Logger) *PolicyHandler {
	return &PolicyHandler{
		service: svc,
		logger:  logger,
	}
}

// GetDetail handles GET /api/v1/policies/{policyID}
func (h *PolicyHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	policyID, ok := httputil.ParseID(w, chi.URLParam(r, "policyID"))
	if !ok {
		return
	}

	policy, err := h.service.GetDetail(r.Context(), policyID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: policy})
}

// Popular handles GET /api/v1/policies/popular
func (h *PolicyHandler) Popular(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.Popular(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: refs})
}

// Recent handles GET /api/v1/policies/recent
func (h *PolicyHandler) Recent(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.Recent(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: refs})
}
