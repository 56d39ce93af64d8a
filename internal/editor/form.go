package editor

import (
	"illustraBack/internal/models"
)

// Form is the working state of an open editor dialog. Values are keyed by
// field path and hold the raw form representation of each kind.
type Form struct {
	schema    Schema
	editingID string
	values    map[string]any
	open      bool
}

func newForm(schema Schema, rec models.Record) *Form {
	f := &Form{schema: schema, values: make(map[string]any, len(schema.Fields)), open: true}
	if rec == nil {
		for _, field := range schema.Fields {
			f.values[field.Path] = field.Kind.blank()
		}
		return f
	}

	f.editingID = rec.ID()
	for _, field := range schema.Fields {
		v, ok := GetPath(rec, field.Path)
		f.values[field.Path] = field.Kind.initial(v, ok)
	}
	return f
}

// Editing reports whether the form edits an existing record.
func (f *Form) Editing() bool { return f.editingID != "" }

// EditingID is the store key of the record being edited, if any.
func (f *Form) EditingID() string { return f.editingID }

// Open reports whether the dialog is still open.
func (f *Form) Open() bool { return f.open }

// Value returns the current form value of a field.
func (f *Form) Value(path string) any { return f.values[path] }

// Values returns a copy of all form values.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// SetField stores raw as the field's working value. It reports false when
// the path is unknown or the kind rejects the change, in which case the
// previous value stays.
func (f *Form) SetField(path string, raw any) bool {
	field, ok := f.schema.Field(path)
	if !ok {
		return false
	}
	v, ok := field.Kind.accept(raw)
	if !ok {
		return false
	}
	f.values[path] = v
	return true
}

// Toggle flips one option of a multi-select field.
func (f *Form) Toggle(path, option string) bool {
	field, ok := f.schema.Field(path)
	if !ok {
		return false
	}
	ms, ok := field.Kind.(MultiSelect)
	if !ok {
		return false
	}
	return f.SetField(path, ms.toggled(f.values[path], option))
}

// record serializes the form into the document written to the store.
func (f *Form) record() map[string]any {
	out := map[string]any{}
	for _, field := range f.schema.Fields {
		SetPath(out, field.Path, field.Kind.serialize(f.values[field.Path]))
	}
	return out
}
