package storefront

import (
	"fmt"
	"net/url"
	"strings"

	"illustraBack/internal/models"
)

const (
	ActionBuy         = "buy"
	ActionPreorder    = "preorder"
	ActionUnavailable = "unavailable"

	ChannelMessaging = "whatsapp"
	ChannelShop      = "shop"
)

// Action is the call to action shown on a product card or detail.
type Action struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Channel string `json:"channel,omitempty"`
	Link    string `json:"link,omitempty"`
}

var actionLabels = map[string]map[string]string{
	LangIT: {ActionBuy: "Ordina", ActionPreorder: "Preordina", ActionUnavailable: "Non disponibile"},
	LangEN: {ActionBuy: "Order", ActionPreorder: "Preorder", ActionUnavailable: "Unavailable"},
}

var orderMessages = map[string]map[string]string{
	LangIT: {ActionBuy: "Vorrei ordinare", ActionPreorder: "Vorrei preordinare", "format": "formato"},
	LangEN: {ActionBuy: "I would like to order", ActionPreorder: "I would like to preorder", "format": "format"},
}

func labels(lang string, table map[string]map[string]string) map[string]string {
	if l, ok := table[lang]; ok {
		return l
	}
	return table[LangIT]
}

// OrderMessage is the pre-filled text of a messaging order link.
func OrderMessage(lang, kind, title, format string) string {
	l := labels(lang, orderMessages)
	msg := l[kind] + " " + title
	if format != "" {
		msg += " (" + l["format"] + " " + format + ")"
	}
	return msg + "."
}

// MessagingLink builds a wa.me deep link. The text is query-escaped with
// spaces as %20; ( ) ! ' * are percent-encoded too.
func MessagingLink(countryCode, phone, text string) string {
	cc := strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return fmt.Sprintf("https://wa.me/+%s%s?text=%s", cc, strings.TrimSpace(phone), escaped)
}

func (s *Service) action(collection string, p Product, lang, format string) *Action {
	if collection == models.CollectionServices {
		return nil
	}
	kind := ActionUnavailable
	switch {
	case p.Available:
		kind = ActionBuy
	case p.Preorder:
		kind = ActionPreorder
	}
	a := &Action{Kind: kind, Label: labels(lang, actionLabels)[kind], Enabled: kind != ActionUnavailable}
	if !a.Enabled {
		return a
	}

	// Shop-channel items go to the shop unless sales are stopped or the
	// item is only available on preorder.
	if kind == ActionBuy && !p.Preorder && s.isShopCollection(collection) && !s.Shop.SalesStopped && s.Shop.URL != "" {
		a.Channel = ChannelShop
		a.Link = s.Shop.URL
		return a
	}
	a.Channel = ChannelMessaging
	a.Link = MessagingLink(s.Contacts.CountryCode, s.Contacts.PhoneNumber, OrderMessage(lang, kind, p.Title, format))
	return a
}
