package main

import (
	"errors"
	"net/http"

	"github.com/bozowang/fdsell/internal/session"
	"github.com/go-chi/chi"
)

type AddCartItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// addCartItemHandler godoc
//
//	@Summary		Add menu item to cart
//	@Description	Adds one unit of a menu item; repeated adds increment the quantity
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			session_id	path		string				true	"Session ID"
//	@Param			request		body		AddCartItemRequest	true	"Item to add"
//	@Success		200			{object}	session.Snapshot
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/sessions/{session_id}/cart/items [post]
func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	var req AddCartItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.controller.AddItem(s, req.ItemID); err != nil {
		if errors.Is(err, session.ErrMenuItemNotFound) {
			app.notFoundError(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// updateCartItemHandler godoc
//
//	@Summary		Set cart item quantity
//	@Description	Replaces the entry's quantity; zero removes it, unknown IDs are a no-op
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			session_id	path		string					true	"Session ID"
//	@Param			item_id		path		string					true	"Item ID"
//	@Param			request		body		UpdateCartItemRequest	true	"New quantity"
//	@Success		200			{object}	session.Snapshot
//	@Failure		400			{object}	map[string]string
//	@Router			/sessions/{session_id}/cart/items/{item_id} [patch]
func (app *application) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	var req UpdateCartItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.controller.SetQuantity(s, itemID, req.Quantity)

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// removeCartItemHandler godoc
//
//	@Summary		Remove cart item
//	@Description	Deletes the entry if present; absent IDs change nothing
//	@Tags			cart
//	@Produce		json
//	@Param			session_id	path		string	true	"Session ID"
//	@Param			item_id		path		string	true	"Item ID"
//	@Success		200			{object}	session.Snapshot
//	@Router			/sessions/{session_id}/cart/items/{item_id} [delete]
func (app *application) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	app.controller.RemoveItem(s, itemID)

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}
