package editor

import (
	"encoding/json"
	"fmt"

	"illustraBack/internal/config"
	"illustraBack/internal/models"
)

// Field describes one editable attribute of a record.
type Field struct {
	Path        string
	Label       string
	Kind        Kind
	ShowInTable bool
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Label       string `json:"label"`
		Type        string `json:"type"`
		ShowInTable bool   `json:"showInTable,omitempty"`
		Widget      Widget `json:"widget"`
	}{f.Path, f.Label, f.Kind.Name(), f.ShowInTable, f.Kind.Widget()})
}

// Schema is the field configuration for one collection's admin tab.
type Schema struct {
	Collection string  `json:"collection"`
	Title      string  `json:"title"`
	Fields     []Field `json:"fields"`
}

// Field looks up a field by path.
func (s Schema) Field(path string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Path == path {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns the fields shown in the admin table. Without any flagged
// field the first three are used.
func (s Schema) Columns() []Field {
	var cols []Field
	for _, f := range s.Fields {
		if f.ShowInTable {
			cols = append(cols, f)
		}
	}
	if len(cols) == 0 {
		n := len(s.Fields)
		if n > 3 {
			n = 3
		}
		cols = s.Fields[:n]
	}
	return cols
}

// SchemaFromConfig builds a schema out of its YAML declaration.
func SchemaFromConfig(c config.SchemaConfig) (Schema, error) {
	if c.Collection == "" {
		return Schema{}, fmt.Errorf("schema without collection")
	}
	s := Schema{Collection: c.Collection, Title: c.Title}
	seen := make(map[string]bool, len(c.Fields))
	for _, fc := range c.Fields {
		if fc.Key == "" {
			return Schema{}, fmt.Errorf("schema %s: field without key", c.Collection)
		}
		if seen[fc.Key] {
			return Schema{}, fmt.Errorf("schema %s: duplicate field %q", c.Collection, fc.Key)
		}
		seen[fc.Key] = true
		kind, err := ParseKind(fc.Type, fc.Options, fc.Max)
		if err != nil {
			return Schema{}, fmt.Errorf("schema %s: field %s: %w", c.Collection, fc.Key, err)
		}
		label := fc.Label
		if label == "" {
			label = fc.Key
		}
		s.Fields = append(s.Fields, Field{Path: fc.Key, Label: label, Kind: kind, ShowInTable: fc.ShowInTable})
	}
	return s, nil
}

// Registry resolves a collection name to its schema.
type Registry struct {
	order   []string
	schemas map[string]Schema
}

// NewRegistry starts from DefaultSchemas and applies overrides by collection.
func NewRegistry(overrides []config.SchemaConfig) (*Registry, error) {
	r := &Registry{schemas: make(map[string]Schema)}
	for _, s := range DefaultSchemas() {
		r.put(s)
	}
	for _, c := range overrides {
		s, err := SchemaFromConfig(c)
		if err != nil {
			return nil, err
		}
		r.put(s)
	}
	return r, nil
}

func (r *Registry) put(s Schema) {
	if _, ok := r.schemas[s.Collection]; !ok {
		r.order = append(r.order, s.Collection)
	}
	r.schemas[s.Collection] = s
}

func (r *Registry) Schema(collection string) (Schema, error) {
	s, ok := r.schemas[collection]
	if !ok {
		return Schema{}, models.ErrUnknownCollection
	}
	return s, nil
}

func (r *Registry) All() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.schemas[c])
	}
	return out
}

func productFields() []Field {
	return []Field{
		{Path: "id", Label: "ID", Kind: Number{}, ShowInTable: true},
		{Path: "title.it", Label: "Titolo (IT)", Kind: Text{}, ShowInTable: true},
		{Path: "description.it", Label: "Descrizione (IT)", Kind: Textarea{}, ShowInTable: true},
		{Path: "available", Label: "Disponibile", Kind: Boolean{}, ShowInTable: true},
		{Path: "preorder", Label: "Preordine", Kind: Boolean{}, ShowInTable: true},
		{Path: "price", Label: "Prezzo", Kind: Number{}},
		{Path: "image", Label: "Immagine", Kind: Text{}},
		{Path: "images", Label: "Immagini dettaglio", Kind: List{}},
		{Path: "title.en", Label: "Titolo (EN)", Kind: Text{}},
		{Path: "description.en", Label: "Descrizione (EN)", Kind: Textarea{}},
		{Path: "detailDescription.it", Label: "Dettagli (IT)", Kind: Textarea{}},
		{Path: "detailDescription.en", Label: "Details (EN)", Kind: Textarea{}},
	}
}

// DefaultSchemas are the admin tabs of the storefront.
func DefaultSchemas() []Schema {
	return []Schema{
		{
			Collection: models.CollectionIllustrations,
			Title:      "Gestione Illustrazioni",
			Fields: []Field{
				{Path: "id", Label: "ID", Kind: Number{}, ShowInTable: true},
				{Path: "title.it", Label: "Titolo (IT)", Kind: Text{}, ShowInTable: true},
				{Path: "description.it", Label: "Descrizione (IT)", Kind: Textarea{}, ShowInTable: true},
				{Path: models.OrderAttribute, Label: "Ordine", Kind: Number{}, ShowInTable: true},
				{Path: "format", Label: "Formato", Kind: MultiSelect{Options: []string{"A4", "A5", "A6", "Sticker"}}},
				{Path: "category.it", Label: "Categoria (IT)", Kind: MultiSelect{Options: []string{"Illustrazione", "Sticker"}, Max: 2}},
				{Path: "category.en", Label: "Category (EN)", Kind: MultiSelect{Options: []string{"Illustration", "Sticker"}, Max: 2}},
				{Path: "title.en", Label: "Titolo (EN)", Kind: Text{}},
				{Path: "description.en", Label: "Descrizione (EN)", Kind: Textarea{}},
				{Path: "image", Label: "URL Immagine", Kind: Text{}},
				{Path: "available", Label: "Disponibile", Kind: Boolean{}},
				{Path: "preorder", Label: "Preordine", Kind: Boolean{}},
				{Path: "price", Label: "Prezzo", Kind: Number{}},
			},
		},
		{Collection: models.CollectionKeychains, Title: "Gestione Portachiavi", Fields: productFields()},
		{
			Collection: models.CollectionServices,
			Title:      "Gestione Servizi",
			Fields: []Field{
				{Path: "id", Label: "ID", Kind: Number{}, ShowInTable: true},
				{Path: "title.it", Label: "Titolo (IT)", Kind: Text{}, ShowInTable: true},
				{Path: "description.it", Label: "Descrizione (IT)", Kind: Textarea{}, ShowInTable: true},
				{Path: "duration.it", Label: "Durata (IT)", Kind: Text{}, ShowInTable: true},
				{Path: "price.it", Label: "Prezzo (IT)", Kind: Text{}, ShowInTable: true},
				{Path: "features.it", Label: "Caratteristiche (IT)", Kind: List{}},
				{Path: "title.en", Label: "Titolo (EN)", Kind: Text{}},
				{Path: "description.en", Label: "Descrizione (EN)", Kind: Textarea{}},
				{Path: "duration.en", Label: "Durata (EN)", Kind: Text{}},
				{Path: "price.en", Label: "Prezzo (EN)", Kind: Text{}},
				{Path: "features.en", Label: "Features (EN)", Kind: List{}},
			},
		},
		{Collection: models.CollectionStickers, Title: "Gestione Sticker", Fields: productFields()},
		{Collection: models.CollectionPins, Title: "Gestione Spille", Fields: productFields()},
		{Collection: models.CollectionCharms, Title: "Gestione Charm", Fields: productFields()},
	}
}
