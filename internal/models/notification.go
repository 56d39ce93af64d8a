package models

// Notification variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a dismissible user-facing message (a toast in the admin UI).
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}
