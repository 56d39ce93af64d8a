package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"illustraBack/internal/editor"
	"illustraBack/internal/models"
	"illustraBack/internal/repositories"
)

// AdminHandler exposes the record editor to the admin panel. Every request
// rebuilds the editor state it needs; the open form travels with the
// client.
type AdminHandler struct {
	Registry *editor.Registry
	Repo     repositories.DocumentRepository
	InfoLog  *log.Logger
}

type formState struct {
	EditingID string         `json:"editingId,omitempty"`
	Values    map[string]any `json:"values"`
	Open      bool           `json:"open"`
}

type fieldRequest struct {
	formState
	Path   string `json:"path"`
	Value  any    `json:"value"`
	Toggle string `json:"toggle,omitempty"`
}

type editorResponse struct {
	Items         []models.Record       `json:"items,omitempty"`
	Rows          []editor.Row          `json:"rows,omitempty"`
	Form          *formState            `json:"form,omitempty"`
	Accepted      *bool                 `json:"accepted,omitempty"`
	Notifications []models.Notification `json:"notifications"`
}

func stateOf(f *editor.Form) *formState {
	if f == nil {
		return nil
	}
	return &formState{EditingID: f.EditingID(), Values: f.Values(), Open: f.Open()}
}

func (h *AdminHandler) editorFor(w http.ResponseWriter, r *http.Request) (*editor.Editor, *editor.Recorder, bool) {
	schema, err := h.Registry.Schema(getParam(r, "collection"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, nil, false
	}
	rec := &editor.Recorder{}
	return editor.New(schema, h.Repo, rec), rec, true
}

func (h *AdminHandler) Collections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Registry.All())
}

func (h *AdminHandler) Items(w http.ResponseWriter, r *http.Request) {
	e, rec, ok := h.editorFor(w, r)
	if !ok {
		return
	}
	items := e.List(r.Context())
	writeJSON(w, http.StatusOK, editorResponse{Items: items, Rows: e.Rows(), Notifications: notifications(rec)})
}

// Form opens the editor on ?id= or on a blank record.
func (h *AdminHandler) Form(w http.ResponseWriter, r *http.Request) {
	e, rec, ok := h.editorFor(w, r)
	if !ok {
		return
	}
	var record models.Record
	if id := r.URL.Query().Get("id"); id != "" {
		found, err := h.Repo.Get(r.Context(), e.Schema.Collection, id)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		record = found
	}
	f := e.OpenEditor(record)
	writeJSON(w, http.StatusOK, editorResponse{Form: stateOf(f), Notifications: notifications(rec)})
}

// Field applies one keystroke or option toggle to a submitted form.
func (h *AdminHandler) Field(w http.ResponseWriter, r *http.Request) {
	e, rec, ok := h.editorFor(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	e.RestoreForm(req.EditingID, req.Values)

	var accepted bool
	if req.Toggle != "" {
		accepted = e.Toggle(req.Path, req.Toggle)
	} else {
		accepted = e.SetField(req.Path, req.Value)
	}
	writeJSON(w, http.StatusOK, editorResponse{Form: stateOf(e.Form), Accepted: &accepted, Notifications: notifications(rec)})
}

func (h *AdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	e, rec, ok := h.editorFor(w, r)
	if !ok {
		return
	}
	var req formState
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	e.RestoreForm(req.EditingID, req.Values)

	if err := e.Save(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, editorResponse{Form: stateOf(e.Form), Notifications: notifications(rec)})
		return
	}
	h.logAdmin(r, "saved %s/%s", e.Schema.Collection, req.EditingID)
	writeJSON(w, http.StatusOK, editorResponse{Items: e.Items, Rows: e.Rows(), Form: stateOf(e.Form), Notifications: notifications(rec)})
}

// Delete removes a record. The client confirms with ?confirm=true.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	e, rec, ok := h.editorFor(w, r)
	if !ok {
		return
	}
	id := getParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing item ID")
		return
	}
	confirmed := func(context.Context, string) bool { return r.URL.Query().Get("confirm") == "true" }

	err := e.Delete(r.Context(), id, confirmed)
	switch {
	case errors.Is(err, editor.ErrNotConfirmed):
		writeError(w, http.StatusPreconditionRequired, "Sei sicuro di voler eliminare questo elemento?")
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, editorResponse{Notifications: notifications(rec)})
	default:
		h.logAdmin(r, "deleted %s/%s", e.Schema.Collection, id)
		writeJSON(w, http.StatusOK, editorResponse{Items: e.Items, Rows: e.Rows(), Notifications: notifications(rec)})
	}
}

func (h *AdminHandler) logAdmin(r *http.Request, format string, args ...any) {
	if h.InfoLog == nil {
		return
	}
	who := "unknown"
	if id, ok := IdentityFrom(r.Context()); ok {
		who = id.Email
	}
	h.InfoLog.Printf("admin %s: "+format, append([]any{who}, args...)...)
}

func notifications(rec *editor.Recorder) []models.Notification {
	if rec.Notifications == nil {
		return []models.Notification{}
	}
	return rec.Notifications
}
