package main

import (
	"errors"
	"net/http"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/session"
)

type CheckoutRequest struct {
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerPhone   string `json:"customer_phone" validate:"required"`
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=cash card linepay"`
	OrderNotes      string `json:"order_notes"`
}

// checkoutHandler godoc
//
//	@Summary		Submit the order
//	@Description	Confirms and persists the order; on failure the session stays on checkout with the cart intact
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			session_id	path		string			true	"Session ID"
//	@Param			request		body		CheckoutRequest	true	"Checkout details"
//	@Success		200			{object}	session.Snapshot
//	@Failure		400			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Failure		502			{object}	session.Snapshot
//	@Router			/sessions/{session_id}/checkout [post]
func (app *application) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	var req CheckoutRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	details := domain.OrderDetails{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		OrderNotes:      req.OrderNotes,
	}

	if err := app.controller.Checkout(r.Context(), s, details); err != nil {
		if errors.Is(err, session.ErrIllegalTransition) {
			app.conflictResponse(w, r, err)
			return
		}

		// checkout rejected: the session keeps the cart and carries the
		// customer-facing message in its notification
		app.metrics.CheckoutFailed()
		if err := app.jsonResponse(w, http.StatusBadGateway, s.Snapshot()); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	app.metrics.CheckoutSucceeded()

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}
