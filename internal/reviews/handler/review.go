package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"wayfare/internal/reviews/service"
	"wayfare/pkg/config"
	apperrors "wayfare/pkg/errors"
	httputil "wayfare/pkg/http"
	"wayfare/pkg/logger"
	"wayfare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReviewHandler struct {
	service service.ReviewService
	log     *logger.Logger
}

func NewReviewHandler(service service.ReviewService, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log,
	}
}

// ReviewListResponse pairs the page of reviews with the package's
// aggregate stats so clients render the summary without a second call
type ReviewListResponse struct {
	Success bool               `json:"success"`
	Reviews []*model.Review    `json:"reviews"`
	Stats   *model.ReviewStats `json:"stats"`
	Limit   int                `json:"limit"`
	Offset  int64              `json:"offset"`
}

type SubmitReviewResponse struct {
	Success bool          `json:"success"`
	Review  *model.Review `json:"review"`
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Submit", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	review, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, SubmitReviewResponse{
		Success: true,
		Review:  review,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Submit", "operation", "WriteJSON", "error", err)
	}
}

func (h *ReviewHandler) ListByPackage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	packageID := query.Get("packageId")
	if packageID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("packageId query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByPackage", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := parsePagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByPackage", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reviews, stats, err := h.service.GetByPackage(r.Context(), packageID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByPackage", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if reviews == nil {
		reviews = []*model.Review{}
	}

	if err := httputil.WriteJSON(w, http.StatusOK, ReviewListResponse{
		Success: true,
		Reviews: reviews,
		Stats:   stats,
		Limit:   limit,
		Offset:  offset,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListByPackage", "operation", "WriteJSON", "error", err)
	}
}

// Recompute rebuilds a package's rating aggregate on demand
func (h *ReviewHandler) Recompute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	packageID := ps.ByName("packageId")

	aggregate, err := h.service.RecomputeRating(r.Context(), packageID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Recompute", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, aggregate); err != nil {
		h.log.Error("failed to write success response", "handler", "Recompute", "operation", "WriteSuccess", "error", err)
	}
}

func parsePagination(limitStr, offsetStr string) (int, int64, error) {
	limit := 0
	if limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid limit parameter: %s", limitStr))
		}
		limit = parsed
	}

	var offset int64
	if offsetStr != "" {
		parsed, err := strconv.ParseInt(offsetStr, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput(fmt.Sprintf("invalid offset parameter: %s", offsetStr))
		}
		offset = parsed
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reviews", h.Submit)
	router.GET("/api/v1/reviews", h.ListByPackage)
	router.POST("/api/v1/reviews/packages/:packageId/recompute", h.Recompute)
}
