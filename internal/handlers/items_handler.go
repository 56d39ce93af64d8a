package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"illustraBack/internal/models"
	"illustraBack/internal/repositories"
)

// ItemsHandler is the thin read/write façade over one collection.
type ItemsHandler struct {
	Repo       repositories.DocumentRepository
	Collection string
	ErrorLog   *log.Logger
}

func (h *ItemsHandler) collection() string {
	if h.Collection == "" {
		return models.CollectionItems
	}
	return h.Collection
}

func (h *ItemsHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Repo.List(r.Context(), h.collection(), repositories.ListOptions{})
	if err != nil {
		h.ErrorLog.Printf("items: list: %v", err)
		writeError(w, http.StatusInternalServerError, "Errore durante la lettura")
		return
	}

	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		// Stored fields are written after the id and win on a clash.
		item := map[string]any{"id": rec.ID()}
		for k, v := range rec.Data() {
			item[k] = v
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.Repo.Create(r.Context(), h.collection(), data)
	if err != nil {
		h.ErrorLog.Printf("items: create: %v", err)
		writeError(w, http.StatusInternalServerError, "Errore durante l'aggiunta")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
