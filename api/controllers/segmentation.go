package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/optikart/optikart-backend/api/responses"
	"github.com/optikart/optikart-backend/api/validators"
	"github.com/optikart/optikart-backend/internal/segmentation"
	pkgerrors "github.com/optikart/optikart-backend/pkg/errors"
	"github.com/optikart/optikart-backend/pkg/logger"
	"github.com/optikart/optikart-backend/pkg/pagination"
)

// SegmentationSummary returns the segment distribution for the customer base.
func SegmentationSummary(svc *segmentation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "segmentation service unavailable"))
			return
		}

		refresh, err := validators.ParseQueryBool(r, "refresh")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), refresh)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// SegmentationCustomers returns one page of scored customers.
func SegmentationCustomers(svc *segmentation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "segmentation service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{Limit: limit}
		if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
			params.Cursor = cursor
		}

		page, err := svc.ScoredCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// SegmentationCustomer returns the scoring detail for one customer.
func SegmentationCustomer(svc *segmentation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "segmentation service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		detail, err := svc.CustomerDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type previewRequest struct {
	DaysSinceLastPurchase *int   `json:"daysSinceLastPurchase" validate:"omitempty,gte=0"`
	TotalOrders           int64  `json:"totalOrders" validate:"gte=0"`
	TotalSpend            string `json:"totalSpend" validate:"required"`
}

// SegmentationPreview scores ad-hoc metrics without persisting anything.
func SegmentationPreview(svc *segmentation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "segmentation service unavailable"))
			return
		}

		var req previewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		score, err := svc.Preview(r.Context(), segmentation.PreviewInput{
			DaysSinceLastPurchase: req.DaysSinceLastPurchase,
			TotalOrders:           req.TotalOrders,
			TotalSpend:            req.TotalSpend,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, score)
	}
}

// SegmentationSegments lists the segment catalog with display metadata.
func SegmentationSegments(svc *segmentation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "segmentation service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Segments())
	}
}
