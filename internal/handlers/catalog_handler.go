package handlers

import (
	"errors"
	"log"
	"net/http"

	"illustraBack/internal/config"
	"illustraBack/internal/models"
	"illustraBack/internal/storefront"
)

type CatalogHandler struct {
	Service  *storefront.Service
	Config   config.Config
	ErrorLog *log.Logger
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	collection := getParam(r, "collection")
	items, err := h.Service.List(r.Context(), collection, requestLang(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	collection := getParam(r, "collection")
	id := getParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing item ID")
		return
	}
	item, err := h.Service.Detail(r.Context(), collection, id, requestLang(r), r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownCollection), errors.Is(err, models.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.ErrorLog.Printf("catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "Errore durante il caricamento dei dati")
	}
}

type publicConfig struct {
	Contacts     config.ContactsConfig `json:"contacts"`
	ShopURL      string                `json:"shopUrl,omitempty"`
	SalesStopped bool                  `json:"salesStopped"`
	Collections  []string              `json:"collections"`
	EmailJS      struct {
		ServiceID           string `json:"serviceId,omitempty"`
		OperatorTemplateID  string `json:"operatorTemplateId,omitempty"`
		RequesterTemplateID string `json:"requesterTemplateId,omitempty"`
		PublicKey           string `json:"publicKey,omitempty"`
	} `json:"emailjs"`
}

// PublicConfig serves the configuration the storefront may see. Secrets
// stay on the server.
func (h *CatalogHandler) PublicConfig(w http.ResponseWriter, r *http.Request) {
	var out publicConfig
	out.Contacts = h.Config.Contacts
	out.ShopURL = h.Config.Shop.URL
	out.SalesStopped = h.Config.Shop.SalesStopped
	out.Collections = models.CatalogCollections
	out.EmailJS.ServiceID = h.Config.EmailJS.ServiceID
	out.EmailJS.OperatorTemplateID = h.Config.EmailJS.OperatorTemplateID
	out.EmailJS.RequesterTemplateID = h.Config.EmailJS.RequesterTemplateID
	out.EmailJS.PublicKey = h.Config.EmailJS.PublicKey
	writeJSON(w, http.StatusOK, out)
}
