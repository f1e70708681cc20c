package controllers

import (
	"net/http"

	"github.com/casatienda/storefront-backend/api/responses"
	"github.com/casatienda/storefront-backend/api/validators"
	"github.com/casatienda/storefront-backend/internal/buttons"
	"github.com/casatienda/storefront-backend/pkg/logger"
)

// PublicListButtons returns the storefront's visible floating buttons in
// display order.
func PublicListButtons(svc buttons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminListButtons(svc buttons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type createButtonRequest struct {
	Label     string  `json:"label" validate:"required,min=1,max=100"`
	URL       string  `json:"url" validate:"required,max=2000"`
	Icon      *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type updateButtonRequest struct {
	Label     *string `json:"label,omitempty" validate:"omitempty,min=1,max=100"`
	URL       *string `json:"url,omitempty" validate:"omitempty,max=2000"`
	Icon      *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	SortOrder *int    `json:"sort_order,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func AdminCreateButton(svc buttons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createButtonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), buttons.CreateButtonInput{
			Label:     req.Label,
			URL:       req.URL,
			Icon:      req.Icon,
			SortOrder: req.SortOrder,
			IsActive:  req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AdminUpdateButton(svc buttons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "buttonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateButtonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, buttons.UpdateButtonInput{
			Label:     req.Label,
			URL:       req.URL,
			Icon:      req.Icon,
			SortOrder: req.SortOrder,
			IsActive:  req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AdminDeleteButton(svc buttons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "buttonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
