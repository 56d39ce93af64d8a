package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)
	app.clientError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (app *application) clientError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// notFound answers unknown routes with a JSON page and logs the path.
func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.errorLog.Printf("404: no route for %s %s", r.Method, r.URL.Path)
	app.clientError(w, http.StatusNotFound, "Pagina non trovata")
}
