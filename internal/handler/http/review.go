package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/service"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/httputil"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/middleware"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/pagination"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitReviewRequest is the JSON request body for submitting a review.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required"`
}

// UpdateReviewRequest is the JSON request body for a partial review update.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Content *string `json:"content"`
}

// List handles GET /api/v1/policies/{policyID}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	policyID, ok := httputil.ParseID(w, chi.URLParam(r, "policyID"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)

	result, err := h.service.List(r.Context(), policyID, params.Limit, params.Offset)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Submit handles POST /api/v1/policies/{policyID}/reviews
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	policyID, ok := httputil.ParseID(w, chi.URLParam(r, "policyID"))
	if !ok {
		return
	}

	authorID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), service.SubmitReviewInput{
		PolicyID: policyID,
		AuthorID: authorID,
		Rating:   req.Rating,
		Content:  req.Content,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// Update handles PATCH /api/v1/policies/{policyID}/reviews/me
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	policyID, ok := httputil.ParseID(w, chi.URLParam(r, "policyID"))
	if !ok {
		return
	}

	authorID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Update(r.Context(), service.UpdateReviewInput{
		PolicyID: policyID,
		AuthorID: authorID,
		Rating:   req.Rating,
		Content:  req.Content,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetMine handles GET /api/v1/policies/{policyID}/reviews/me
func (h *ReviewHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	policyID, ok := httputil.ParseID(w, chi.URLParam(r, "policyID"))
	if !ok {
		return
	}

	authorID, ok := callerID(w, r)
	if !ok {
		return
	}

	review, err := h.service.GetMine(r.Context(), policyID, authorID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if review == nil {
		// No review yet: an explicit null so the client renders an empty form.
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": nil})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// Retract handles DELETE /api/v1/policies/{policyID}/reviews/me
func (h *ReviewHandler) Retract(w http.ResponseWriter, r *http.Request) {
	policyID, ok := httputil.ParseID(w, chi.URLParam(r, "policyID"))
	if !ok {
		return
	}

	authorID, ok := callerID(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Retract(r.Context(), policyID, authorID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"summary": summary,
	}})
}

// Summary handles GET /api/v1/policies/{policyID}/reviews/summary
func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	policyID, ok := httputil.ParseID(w, chi.URLParam(r, "policyID"))
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), policyID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// callerID extracts the authenticated member id set by the auth middleware.
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
		return uuid.Nil, false
	}
	return id, true
}
