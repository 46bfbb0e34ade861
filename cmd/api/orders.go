package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bozowang/fdsell/internal/repo"
	"github.com/go-chi/chi"
	qrcode "github.com/skip2/go-qrcode"
)

// getOrderHandler godoc
//
//	@Summary		Look up an archived order
//	@Tags			orders
//	@Produce		json
//	@Param			order_number	path		string	true	"Order number"
//	@Success		200				{object}	domain.ConfirmedOrder
//	@Failure		404				{object}	map[string]string
//	@Router			/orders/{order_number} [get]
func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "order_number")
	if orderNumber == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	order, err := app.orderRepo.GetByOrderNumber(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			app.notFoundError(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOrdersHandler godoc
//
//	@Summary		List archived orders
//	@Tags			orders
//	@Produce		json
//	@Param			limit	query		int	false	"Max orders to return"
//	@Success		200		{array}		domain.ConfirmedOrder
//	@Router			/orders [get]
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			app.badRequestResponse(w, r, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	orders, err := app.orderRepo.List(r.Context(), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, orders); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderQRHandler godoc
//
//	@Summary		Order number as QR code
//	@Description	PNG QR code for pickup/delivery verification of an archived order
//	@Tags			orders
//	@Produce		png
//	@Param			order_number	path	string	true	"Order number"
//	@Success		200
//	@Failure		404	{object}	map[string]string
//	@Router			/orders/{order_number}/qr [get]
func (app *application) getOrderQRHandler(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "order_number")
	if orderNumber == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	order, err := app.orderRepo.GetByOrderNumber(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			app.notFoundError(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	png, err := qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
