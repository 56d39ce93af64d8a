package commission

import (
	"strings"

	"illustraBack/internal/models"
)

type bodyLabels struct {
	intro, name, email, phone, service, description, budget, deadline, empty string
}

var labelsByLang = map[string]bodyLabels{
	"it": {
		intro: "Nuova richiesta di commissione", name: "Nome", email: "Email", phone: "Telefono",
		service: "Servizio", description: "Descrizione", budget: "Budget", deadline: "Scadenza", empty: "non indicato",
	},
	"en": {
		intro: "New commission request", name: "Name", email: "Email", phone: "Phone",
		service: "Service", description: "Description", budget: "Budget", deadline: "Deadline", empty: "not given",
	},
}

var confirmations = map[string]struct{ subject, greeting string }{
	"it": {"La tua richiesta è stata ricevuta", "Ti risponderò entro 24 ore con un preventivo dettagliato."},
	"en": {"Your request has been received", "I will reply within 24 hours with a detailed quote."},
}

// RenderBody renders the summary of a request used in both emails.
func RenderBody(req models.CommissionRequest, lang string) string {
	l, ok := labelsByLang[lang]
	if !ok {
		l = labelsByLang["it"]
	}
	or := func(v string) string {
		if v == "" {
			return l.empty
		}
		return v
	}

	var b strings.Builder
	b.WriteString(l.intro + "\n\n")
	line := func(label, v string) { b.WriteString(label + ": " + or(v) + "\n") }
	line(l.name, req.Name)
	line(l.email, req.Email)
	line(l.phone, req.Phone)
	line(l.service, req.Service)
	line(l.budget, req.Budget)
	line(l.deadline, req.Deadline)
	b.WriteString("\n" + l.description + ":\n" + req.Description + "\n")
	return b.String()
}

func confirmationText(lang string) (string, string) {
	c, ok := confirmations[lang]
	if !ok {
		c = confirmations["it"]
	}
	return c.subject, c.greeting
}
