package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/casatienda/storefront-backend/api/middleware"
	"github.com/casatienda/storefront-backend/api/responses"
	"github.com/casatienda/storefront-backend/api/validators"
	"github.com/casatienda/storefront-backend/internal/orders"
	pkgerrors "github.com/casatienda/storefront-backend/pkg/errors"
	"github.com/casatienda/storefront-backend/pkg/logger"
)

type submitOrderRequest struct {
	CustomerDetails struct {
		Name    string  `json:"name" validate:"required,min=1,max=200"`
		Email   string  `json:"email" validate:"required,email"`
		Phone   string  `json:"phone" validate:"required,max=40"`
		Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	} `json:"customer_details" validate:"required"`
	CartItems []struct {
		ProductID string `json:"product_id" validate:"required,uuid"`
	} `json:"cart_items" validate:"required,min=1,dive"`
}

// SubmitOrder runs the checkout transaction for the authenticated customer.
func SubmitOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req submitOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.CartItemInput, 0, len(req.CartItems))
		for _, item := range req.CartItems {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id in cart"))
				return
			}
			items = append(items, orders.CartItemInput{ProductID: productID})
		}

		result, err := svc.SubmitOrder(r.Context(), orders.SubmitOrderInput{
			UserID: userID,
			Customer: orders.CustomerInput{
				Name:    req.CustomerDetails.Name,
				Email:   req.CustomerDetails.Email,
				Phone:   req.CustomerDetails.Phone,
				Address: req.CustomerDetails.Address,
			},
			Items: items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MyOrders lists the caller's own orders, newest first.
func MyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListMyOrders(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// OrderDetail returns one order; admins can read any order.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin := middleware.RoleFromContext(r.Context()) == "admin"
		order, err := svc.GetOrder(r.Context(), userID, isAdmin, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user identity")
	}
	return id, nil
}
