package storefront

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"illustraBack/internal/config"
	"illustraBack/internal/models"
	"illustraBack/internal/repositories"
)

// Product is the localized view of one catalog record.
type Product struct {
	ID                string   `json:"id"`
	DisplayID         any      `json:"displayId,omitempty"`
	Collection        string   `json:"collection"`
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	DetailDescription string   `json:"detailDescription,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	Features          []string `json:"features,omitempty"`
	Duration          string   `json:"duration,omitempty"`
	PriceText         string   `json:"priceText,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Image             string   `json:"image,omitempty"`
	Images            []string `json:"images,omitempty"`
	Formats           []string `json:"formats,omitempty"`
	SelectedFormat    string   `json:"selectedFormat,omitempty"`
	Available         bool     `json:"available"`
	Preorder          bool     `json:"preorder"`
	Order             *float64 `json:"order,omitempty"`
	Action            *Action  `json:"action,omitempty"`
}

// Service builds storefront views over the document store.
type Service struct {
	Repo     repositories.DocumentRepository
	Contacts config.ContactsConfig
	Shop     config.ShopConfig
}

func NewService(repo repositories.DocumentRepository, contacts config.ContactsConfig, shop config.ShopConfig) *Service {
	return &Service{Repo: repo, Contacts: contacts, Shop: shop}
}

func (s *Service) isShopCollection(collection string) bool {
	return slices.Contains(s.Shop.Collections, collection)
}

// List fetches a collection once and returns its localized views.
func (s *Service) List(ctx context.Context, collection, lang string) ([]Product, error) {
	if !models.IsCatalogCollection(collection) {
		return nil, models.ErrUnknownCollection
	}
	opts := repositories.ListOptions{}
	if collection == models.CollectionIllustrations {
		opts.OrderBy = models.OrderAttribute
	}
	recs, err := s.Repo.List(ctx, collection, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	if opts.OrderBy == "" {
		// Unordered collections are shown by store key on every backend.
		slices.SortStableFunc(recs, func(a, b models.Record) int {
			return strings.Compare(a.ID(), b.ID())
		})
	}
	lang = NormalizeLang(lang)
	out := make([]Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.view(collection, rec, lang, ""))
	}
	return out, nil
}

// Detail returns one record. A requested print format must be one the item
// is offered in.
func (s *Service) Detail(ctx context.Context, collection, id, lang, format string) (Product, error) {
	if !models.IsCatalogCollection(collection) {
		return Product{}, models.ErrUnknownCollection
	}
	rec, err := s.Repo.Get(ctx, collection, id)
	if err != nil {
		return Product{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	lang = NormalizeLang(lang)
	if format != "" {
		formats := toStrings(rec["format"])
		if !slices.Contains(formats, format) {
			return Product{}, models.ErrInvalidFormat
		}
	}
	return s.view(collection, rec, lang, format), nil
}

func (s *Service) view(collection string, rec models.Record, lang, format string) Product {
	p := Product{
		ID:                rec.ID(),
		DisplayID:         rec["id"],
		Collection:        collection,
		Title:             localizedText(rec["title"], lang),
		Description:       localizedText(rec["description"], lang),
		DetailDescription: localizedText(rec["detailDescription"], lang),
		Categories:        localizedList(rec["category"], lang),
		Features:          localizedList(rec["features"], lang),
		Duration:          localizedText(rec["duration"], lang),
		Formats:           toStrings(rec["format"]),
		SelectedFormat:    format,
		Available:         truthy(rec["available"]),
		Preorder:          truthy(rec["preorder"]),
	}

	switch price := rec["price"].(type) {
	case map[string]any:
		p.PriceText = localizedText(price, lang)
	case string:
		p.PriceText = price
	default:
		if n, ok := models.AsNumber(price); ok {
			p.Price = &n
			p.PriceText = FormatEUR(n)
		}
	}

	if n, ok := models.AsNumber(rec[models.OrderAttribute]); ok {
		p.Order = &n
	}

	images := toStrings(rec["image"])
	if len(images) > 0 {
		p.Image = images[0]
	}
	if extra := toStrings(rec["images"]); len(extra) > 0 {
		images = extra
	}
	p.Images = images

	p.Action = s.action(collection, p, lang, format)
	return p
}

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}

// ServiceTitles lists the localized titles of the offered services.
func (s *Service) ServiceTitles(ctx context.Context, lang string) ([]string, error) {
	items, err := s.List(ctx, models.CollectionServices, lang)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(items))
	for _, p := range items {
		if p.Title != "" {
			titles = append(titles, p.Title)
		}
	}
	return titles, nil
}
