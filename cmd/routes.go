package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	jsonMiddleware := standardMiddleware.Append(makeResponseJSON)
	adminMiddleware := jsonMiddleware.Append(app.requireAdmin)

	mux := pat.New()

	// Items façade
	mux.Get("/items", jsonMiddleware.ThenFunc(app.itemsHandler.GetItems))
	mux.Post("/items", jsonMiddleware.ThenFunc(app.itemsHandler.CreateItem))

	// Storefront
	mux.Get("/config/public", jsonMiddleware.ThenFunc(app.catalogHandler.PublicConfig))
	mux.Get("/catalog/:collection/:id", jsonMiddleware.ThenFunc(app.catalogHandler.Detail))
	mux.Get("/catalog/:collection", jsonMiddleware.ThenFunc(app.catalogHandler.List))

	// Commissions
	mux.Get("/commissions/services", jsonMiddleware.ThenFunc(app.commissionHandler.Services))
	mux.Post("/commissions", jsonMiddleware.ThenFunc(app.commissionHandler.Submit))

	// Admin session
	mux.Post("/admin/login", jsonMiddleware.ThenFunc(app.authHandler.Login))
	mux.Post("/admin/logout", adminMiddleware.ThenFunc(app.authHandler.Logout))
	mux.Get("/admin/me", adminMiddleware.ThenFunc(app.authHandler.Me))
	mux.Get("/admin/session/ws", standardMiddleware.ThenFunc(app.SessionSocketHandler))

	// Admin editor
	mux.Get("/admin/collections", adminMiddleware.ThenFunc(app.adminHandler.Collections))
	mux.Get("/admin/collections/:collection/items", adminMiddleware.ThenFunc(app.adminHandler.Items))
	mux.Del("/admin/collections/:collection/items/:id", adminMiddleware.ThenFunc(app.adminHandler.Delete))
	mux.Get("/admin/collections/:collection/form", adminMiddleware.ThenFunc(app.adminHandler.Form))
	mux.Post("/admin/collections/:collection/form/field", adminMiddleware.ThenFunc(app.adminHandler.Field))
	mux.Post("/admin/collections/:collection/save", adminMiddleware.ThenFunc(app.adminHandler.Save))
	if app.uploadHandler != nil {
		mux.Post("/admin/uploads", adminMiddleware.ThenFunc(app.uploadHandler.Upload))
	}

	mux.NotFound = standardMiddleware.ThenFunc(app.notFound)

	return mux
}
