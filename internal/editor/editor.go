package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"illustraBack/internal/models"
	"illustraBack/internal/repositories"
)

var (
	ErrNoOpenForm   = errors.New("editor: no open form")
	ErrNotConfirmed = errors.New("editor: deletion not confirmed")
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(models.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(models.Notification)

func (fn NotifierFunc) Notify(n models.Notification) { fn(n) }

// Recorder collects notifications, typically for one HTTP response.
type Recorder struct {
	Notifications []models.Notification
}

func (r *Recorder) Notify(n models.Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Confirmer asks for explicit confirmation before a record is deleted.
type Confirmer func(ctx context.Context, id string) bool

// Editor lists and edits one collection through its schema. An Editor holds
// the state of one admin table (items plus the open form) and is not safe
// for concurrent use.
type Editor struct {
	Schema   Schema
	Repo     repositories.DocumentRepository
	Notifier Notifier

	Items []models.Record
	Form  *Form
}

func New(schema Schema, repo repositories.DocumentRepository, notifier Notifier) *Editor {
	if notifier == nil {
		notifier = NotifierFunc(func(models.Notification) {})
	}
	return &Editor{Schema: schema, Repo: repo, Notifier: notifier, Items: []models.Record{}}
}

func (e *Editor) listOptions() repositories.ListOptions {
	if e.Schema.Collection == models.CollectionIllustrations {
		return repositories.ListOptions{OrderBy: models.OrderAttribute}
	}
	return repositories.ListOptions{}
}

// List fetches every record of the collection. A failed fetch emits one
// error notification and yields an empty list.
func (e *Editor) List(ctx context.Context) []models.Record {
	items, err := e.Repo.List(ctx, e.Schema.Collection, e.listOptions())
	if err != nil {
		e.fail("Errore durante il caricamento dei dati")
		items = []models.Record{}
	}
	if items == nil {
		items = []models.Record{}
	}
	e.Items = items
	return items
}

// OpenEditor opens the form on rec, or on a blank record when rec is nil.
func (e *Editor) OpenEditor(rec models.Record) *Form {
	e.Form = newForm(e.Schema, rec)
	return e.Form
}

// RestoreForm reopens a form from values a client echoed back. The values
// are taken as form state, the way OpenEditor loads a stored record, so a
// stored selection above a multi-select's Max survives an unedited save.
// Only later SetField and Toggle calls are checked against kind rules.
func (e *Editor) RestoreForm(editingID string, values map[string]any) *Form {
	f := newForm(e.Schema, nil)
	f.editingID = editingID
	for _, field := range e.Schema.Fields {
		if v, ok := values[field.Path]; ok {
			f.values[field.Path] = field.Kind.initial(v, true)
		}
	}
	e.Form = f
	return f
}

// SetField updates a value of the open form.
func (e *Editor) SetField(path string, raw any) bool {
	if e.Form == nil || !e.Form.open {
		return false
	}
	return e.Form.SetField(path, raw)
}

// Toggle flips a multi-select option of the open form.
func (e *Editor) Toggle(path, option string) bool {
	if e.Form == nil || !e.Form.open {
		return false
	}
	return e.Form.Toggle(path, option)
}

// Close discards the open form.
func (e *Editor) Close() {
	if e.Form != nil {
		e.Form.open = false
	}
}

// Save persists the open form. On failure the form stays open with its
// values untouched.
func (e *Editor) Save(ctx context.Context) error {
	f := e.Form
	if f == nil || !f.open {
		return ErrNoOpenForm
	}
	data := f.record()

	if !f.Editing() && e.Schema.Collection == models.CollectionIllustrations {
		if v, ok := GetPath(data, models.OrderAttribute); ok {
			if n, ok := models.AsNumber(v); ok && n > 0 {
				if err := e.shiftOrders(ctx, n); err != nil {
					e.fail(err.Error())
					return err
				}
			}
		}
	}

	var err error
	if f.Editing() {
		err = e.Repo.Update(ctx, e.Schema.Collection, f.editingID, data)
	} else {
		_, err = e.Repo.Create(ctx, e.Schema.Collection, data)
	}
	if err != nil {
		e.fail(err.Error())
		return err
	}

	msg := "Elemento creato"
	if f.Editing() {
		msg = "Elemento aggiornato"
	}
	e.Notifier.Notify(models.Notification{Title: "Successo", Description: msg, Variant: models.VariantDefault})
	f.open = false
	e.List(ctx)
	return nil
}

// shiftOrders moves every illustration at or after position n one step
// down so a new item can take n. The reads and writes are not atomic:
// concurrent inserts can still produce duplicate positions.
func (e *Editor) shiftOrders(ctx context.Context, n float64) error {
	items, err := e.Repo.List(ctx, models.CollectionIllustrations, repositories.ListOptions{OrderBy: models.OrderAttribute})
	if err != nil {
		return fmt.Errorf("riordino: %w", err)
	}

	type shift struct {
		id    string
		order any
		value float64
	}
	var shifts []shift
	for _, it := range items {
		cur, ok := models.AsNumber(it[models.OrderAttribute])
		if !ok || cur < n {
			continue
		}
		shifts = append(shifts, shift{id: it.ID(), order: it[models.OrderAttribute], value: cur})
	}
	// Highest first, so no two items share a position mid-way.
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].value > shifts[j].value })

	for _, s := range shifts {
		if err := e.Repo.Update(ctx, models.CollectionIllustrations, s.id, map[string]any{models.OrderAttribute: increment(s.order)}); err != nil {
			return fmt.Errorf("riordino %s: %w", s.id, err)
		}
	}
	return nil
}

func increment(v any) any {
	switch n := v.(type) {
	case int64:
		return n + 1
	case int:
		return int64(n) + 1
	}
	f, _ := models.AsNumber(v)
	return f + 1
}

// Delete removes a record once confirm agrees, then refreshes the list.
func (e *Editor) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm(ctx, id) {
		return ErrNotConfirmed
	}
	if err := e.Repo.Delete(ctx, e.Schema.Collection, id); err != nil {
		e.fail(err.Error())
		return err
	}
	e.Notifier.Notify(models.Notification{Title: "Successo", Description: "Elemento eliminato", Variant: models.VariantDefault})
	e.List(ctx)
	return nil
}

func (e *Editor) fail(description string) {
	e.Notifier.Notify(models.Notification{Title: "Errore", Description: description, Variant: models.VariantDestructive})
}

// Row is one line of the admin table.
type Row struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

const cellLimit = 50

// Rows projects the listed items onto the table columns.
func (e *Editor) Rows() []Row {
	cols := e.Schema.Columns()
	rows := make([]Row, 0, len(e.Items))
	for _, it := range e.Items {
		row := Row{ID: it.ID(), Cells: make([]string, 0, len(cols))}
		for _, c := range cols {
			v, _ := GetPath(it, c.Path)
			row.Cells = append(row.Cells, cell(c.Kind, v))
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(k Kind, v any) string {
	if v == nil {
		return ""
	}
	switch k.(type) {
	case List, MultiSelect:
		if items, ok := stringsOf(v); ok {
			return strings.Join(items, ", ")
		}
	}
	s := fmt.Sprint(v)
	if utf8.RuneCountInString(s) > cellLimit {
		return string([]rune(s)[:cellLimit]) + "..."
	}
	return s
}
