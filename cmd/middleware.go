package main

import (
	"errors"
	"fmt"
	"net/http"

	"illustraBack/internal/handlers"
	"illustraBack/internal/models"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAdmin lets a request through only with a live admin session. The
// admin client treats 401 as "show the login form".
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := handlers.BearerToken(r)
		if token == "" {
			app.clientError(w, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}
		session, err := app.gateway.Session(token)
		if err != nil {
			msg := "Invalid session"
			if errors.Is(err, models.ErrSessionExpired) {
				msg = "Session expired"
			}
			app.clientError(w, http.StatusUnauthorized, msg)
			return
		}
		ctx := handlers.WithIdentity(r.Context(), session.Identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
