package main

import (
	"errors"
	"net/http"

	"github.com/bozowang/fdsell/internal/session"
	"github.com/go-chi/chi"
)

var ErrInvalidID = errors.New("invalid ID format")

const missingCredentialMessage = "API 金鑰未設定，應用程式無法運作。"

func (app *application) sessionFromRequest(r *http.Request) (*session.Session, error) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		return nil, ErrInvalidID
	}

	return app.sessions.Get(sessionID)
}

// createSessionHandler godoc
//
//	@Summary		Start a storefront session
//	@Description	Creates a new browsing session and loads the restaurant listing
//	@Tags			sessions
//	@Produce		json
//	@Success		201	{object}	session.Snapshot
//	@Failure		503	{object}	map[string]string
//	@Router			/sessions [post]
func (app *application) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if app.controller == nil {
		app.serviceUnavailableResponse(w, r, missingCredentialMessage)
		return
	}

	s := app.sessions.New()
	app.controller.LoadRestaurants(r.Context(), s)

	if err := app.jsonResponse(w, http.StatusCreated, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSessionHandler godoc
//
//	@Summary		Get session snapshot
//	@Description	Read-only projection of the session's screen, catalog, cart and notification
//	@Tags			sessions
//	@Produce		json
//	@Param			session_id	path		string	true	"Session ID"
//	@Success		200			{object}	session.Snapshot
//	@Failure		404			{object}	map[string]string
//	@Router			/sessions/{session_id} [get]
func (app *application) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// selectRestaurantHandler godoc
//
//	@Summary		Select a restaurant
//	@Description	Enters the menu screen and loads the restaurant's menu
//	@Tags			sessions
//	@Produce		json
//	@Param			session_id		path		string	true	"Session ID"
//	@Param			restaurant_id	path		string	true	"Restaurant ID"
//	@Success		200				{object}	session.Snapshot
//	@Failure		404				{object}	map[string]string
//	@Router			/sessions/{session_id}/restaurants/{restaurant_id}/select [post]
func (app *application) selectRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	restaurantID := chi.URLParam(r, "restaurant_id")
	if restaurantID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	if err := app.controller.SelectRestaurant(r.Context(), s, restaurantID); err != nil {
		if errors.Is(err, session.ErrRestaurantNotFound) {
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

type NavigateRequest struct {
	To string `json:"to" validate:"required"`
}

// navigateHandler godoc
//
//	@Summary		Change screen
//	@Description	Applies an explicit screen transition; confirmation is never a legal target
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			session_id	path		string			true	"Session ID"
//	@Param			request		body		NavigateRequest	true	"Navigation target"
//	@Success		200			{object}	session.Snapshot
//	@Failure		400			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Router			/sessions/{session_id}/navigate [post]
func (app *application) navigateHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	var req NavigateRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	target, ok := session.ParseScreen(req.To)
	if !ok {
		app.badRequestResponse(w, r, errors.New("unknown screen: "+req.To))
		return
	}

	if err := app.controller.Navigate(s, target); err != nil {
		app.conflictResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// newOrderHandler godoc
//
//	@Summary		Start a new order
//	@Description	Resets a confirmed session back to the restaurant listing
//	@Tags			sessions
//	@Produce		json
//	@Param			session_id	path		string	true	"Session ID"
//	@Success		200			{object}	session.Snapshot
//	@Failure		409			{object}	map[string]string
//	@Router			/sessions/{session_id}/new-order [post]
func (app *application) newOrderHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	if err := app.controller.NewOrder(s); err != nil {
		app.conflictResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// dismissNotificationHandler godoc
//
//	@Summary		Dismiss notification
//	@Description	Clears the active notification; idempotent
//	@Tags			sessions
//	@Produce		json
//	@Param			session_id	path		string	true	"Session ID"
//	@Success		200			{object}	session.Snapshot
//	@Router			/sessions/{session_id}/notification/dismiss [post]
func (app *application) dismissNotificationHandler(w http.ResponseWriter, r *http.Request) {
	s, err := app.sessionFromRequest(r)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	app.controller.DismissNotification(s)

	if err := app.jsonResponse(w, http.StatusOK, s.Snapshot()); err != nil {
		app.internalServerError(w, r, err)
	}
}
