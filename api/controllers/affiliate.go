package controllers

import (
	"net/http"
	"strconv"

	"github.com/casatienda/storefront-backend/api/responses"
	"github.com/casatienda/storefront-backend/api/validators"
	"github.com/casatienda/storefront-backend/internal/affiliate"
	pkgerrors "github.com/casatienda/storefront-backend/pkg/errors"
	"github.com/casatienda/storefront-backend/pkg/logger"
	"github.com/casatienda/storefront-backend/pkg/pagination"
)

// AffiliateDashboard returns the caller's referral link and commission totals.
func AffiliateDashboard(svc affiliate.Service, baseURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), userID, baseURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

// MyReferrals lists the commissions credited to the caller.
func MyReferrals(svc affiliate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.MyReferrals(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// AdminListReferrals returns a cursor page of referrals joined with user and
// order data. Accepts ?limit= and ?cursor= query params.
func AdminListReferrals(svc affiliate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer"))
				return
			}
			params.Limit = limit
		}

		page, err := svc.AdminListReferrals(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type updateReferralStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateReferralStatus moves a referral through the payout workflow.
func AdminUpdateReferralStatus(svc affiliate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "referralId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateReferralStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AdminUpdateReferralStatus(r.Context(), id, req.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
