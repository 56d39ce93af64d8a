package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"illustraBack/internal/commission"
	"illustraBack/internal/models"
	"illustraBack/internal/storefront"
)

type CommissionHandler struct {
	Flow     *commission.Flow
	ErrorLog *log.Logger
}

func (h *CommissionHandler) Services(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Flow.ServiceOptions(r.Context(), storefront.NormalizeLang(requestLang(r)))
	if err != nil {
		h.ErrorLog.Printf("commission: service options: %v", err)
		writeError(w, http.StatusInternalServerError, "Errore durante il caricamento dei dati")
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

type commissionResponse struct {
	Notification models.Notification      `json:"notification"`
	Form         *models.CommissionRequest `json:"form,omitempty"`
	Fields       map[string]string        `json:"fields,omitempty"`
}

// Submit dispatches a commission request. On any failure the submitted
// values are sent back so the form can be retried without retyping.
func (h *CommissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.CommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.Flow.Submit(r.Context(), req, storefront.NormalizeLang(requestLang(r)))
	if err == nil {
		writeJSON(w, http.StatusOK, commissionResponse{Notification: models.Notification{
			Title:       "Richiesta inviata!",
			Description: "Ti risponderò entro 24 ore con un preventivo dettagliato.",
			Variant:     models.VariantDefault,
		}})
		return
	}

	resp := commissionResponse{Form: &req, Notification: models.Notification{
		Title:       "Errore nell'invio",
		Description: "Qualcosa è andato storto. Riprova più tardi.",
		Variant:     models.VariantDestructive,
	}}
	var verr *commission.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Fields = verr.Fields
		resp.Notification.Description = "Controlla i campi evidenziati."
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, models.ErrRateLimited):
		resp.Notification.Description = "Troppe richieste. Riprova più tardi."
		writeJSON(w, http.StatusTooManyRequests, resp)
	case errors.Is(err, models.ErrDispatchFailed):
		writeJSON(w, http.StatusBadGateway, resp)
	default:
		h.ErrorLog.Printf("commission: submit: %v", err)
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}
