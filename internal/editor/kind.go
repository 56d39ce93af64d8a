package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"illustraBack/internal/models"
)

// Kind is the closed set of field kinds the editor understands. Each kind
// owns its form initialiser, its keystroke rule and its serializer; the
// unexported methods keep the set sealed to this package.
type Kind interface {
	// Name is the schema type name ("text", "multi-select", ...).
	Name() string
	// Widget describes the input an admin client renders for the field.
	Widget() Widget

	initial(stored any, present bool) any
	blank() any
	accept(raw any) (any, bool)
	serialize(form any) any
}

// Widget is the rendering hint sent to the admin client.
type Widget struct {
	Input       string   `json:"input"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Max         int      `json:"max,omitempty"`
}

type (
	// Text is a single-line input stored verbatim.
	Text struct{}
	// Textarea is a multi-line input stored verbatim.
	Textarea struct{}
	// Number is edited as text and stored as int64 or float64.
	Number struct{}
	// List is edited as newline-delimited text and stored as a list.
	List struct{}
	// MultiSelect picks a subset of Options, at most Max when Max > 0.
	MultiSelect struct {
		Options []string
		Max     int
	}
	// Select picks one of Options.
	Select struct {
		Options []string
	}
	// Boolean is a true/false switch.
	Boolean struct{}
)

// ParseKind maps a schema type name onto a Kind.
func ParseKind(typ string, options []string, max int) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "text":
		return Text{}, nil
	case "textarea":
		return Textarea{}, nil
	case "number":
		return Number{}, nil
	case "array", "list":
		return List{}, nil
	case "multi-select", "multiselect":
		if max < 0 {
			return nil, fmt.Errorf("multi-select max must not be negative, got %d", max)
		}
		return MultiSelect{Options: options, Max: max}, nil
	case "select":
		return Select{Options: options}, nil
	case "boolean", "bool":
		return Boolean{}, nil
	default:
		return nil, fmt.Errorf("unknown field type %q", typ)
	}
}

// text and textarea

func (Text) Name() string { return "text" }
func (Text) Widget() Widget { return Widget{Input: "input"} }
func (Text) blank() any { return "" }
func (Text) initial(v any, ok bool) any {
	return verbatim(v, ok)
}
func (Text) accept(raw any) (any, bool) { return raw, true }
func (Text) serialize(form any) any { return textOut(form) }

func (Textarea) Name() string { return "textarea" }
func (Textarea) Widget() Widget { return Widget{Input: "textarea"} }
func (Textarea) blank() any { return "" }
func (Textarea) initial(v any, ok bool) any {
	return verbatim(v, ok)
}
func (Textarea) accept(raw any) (any, bool) { return raw, true }
func (Textarea) serialize(form any) any { return textOut(form) }

func verbatim(v any, ok bool) any {
	if !ok || v == nil {
		return ""
	}
	return v
}

func textOut(form any) any {
	if form == nil {
		return ""
	}
	return form
}

// number

func (Number) Name() string { return "number" }
func (Number) Widget() Widget { return Widget{Input: "number"} }
func (Number) blank() any { return "" }

// initial keeps absent apart from zero: absent renders as "" and zero as "0".
func (Number) initial(v any, ok bool) any {
	if !ok || v == nil {
		return ""
	}
	switch n := v.(type) {
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	}
	if n, isNum := models.AsNumber(v); isNum {
		return formatNumber(n)
	}
	return fmt.Sprint(v)
}

func (Number) accept(raw any) (any, bool) { return raw, true }

// serialize yields exactly 0 for blank or unparsable input.
func (Number) serialize(form any) any {
	var s string
	switch v := form.(type) {
	case string:
		s = v
	case nil:
		return int64(0)
	default:
		n, ok := models.AsNumber(v)
		if !ok {
			return int64(0)
		}
		s = formatNumber(n)
	}
	return parseNumber(s)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func parseNumber(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return int64(0)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return int64(0)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// list

func (List) Name() string { return "array" }
func (List) Widget() Widget { return Widget{Input: "textarea", Placeholder: "Inserisci un elemento per riga"} }
func (List) blank() any { return "" }

func (List) initial(v any, ok bool) any {
	if !ok || v == nil {
		return ""
	}
	if items, isList := stringsOf(v); isList {
		return strings.Join(items, "\n")
	}
	return verbatim(v, ok)
}

func (List) accept(raw any) (any, bool) { return raw, true }

// serialize splits on newlines and drops blank entries.
func (List) serialize(form any) any {
	var lines []string
	switch v := form.(type) {
	case string:
		lines = strings.Split(v, "\n")
	default:
		lines, _ = stringsOf(v)
	}
	out := []any{}
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// multi-select

func (MultiSelect) Name() string { return "multi-select" }
func (k MultiSelect) Widget() Widget {
	return Widget{Input: "checkbox-group", Options: k.Options, Max: k.Max}
}
func (MultiSelect) blank() any { return []string{} }

func (MultiSelect) initial(v any, ok bool) any {
	if !ok || v == nil {
		return []string{}
	}
	if items, isList := stringsOf(v); isList {
		return dedupe(items)
	}
	if s, isStr := v.(string); isStr && s != "" {
		return []string{s}
	}
	return []string{}
}

// accept rejects a selection larger than Max, leaving the current one.
func (k MultiSelect) accept(raw any) (any, bool) {
	var items []string
	switch v := raw.(type) {
	case nil:
		items = []string{}
	case string:
		if v != "" {
			items = []string{v}
		}
	default:
		var ok bool
		if items, ok = stringsOf(v); !ok {
			return nil, false
		}
	}
	items = dedupe(items)
	if k.Max > 0 && len(items) > k.Max {
		return nil, false
	}
	return items, true
}

func (MultiSelect) serialize(form any) any {
	items, _ := stringsOf(form)
	out := make([]any, 0, len(items))
	for _, s := range dedupe(items) {
		out = append(out, s)
	}
	return out
}

// toggled returns current with option added or removed.
func (MultiSelect) toggled(current any, option string) []string {
	items, _ := stringsOf(current)
	items = slices.Clone(items)
	if i := slices.Index(items, option); i >= 0 {
		return slices.Delete(items, i, i+1)
	}
	return append(items, option)
}

// select

func (Select) Name() string { return "select" }
func (k Select) Widget() Widget {
	return Widget{Input: "select", Options: k.Options}
}
func (Select) blank() any { return "" }
func (Select) initial(v any, ok bool) any {
	return verbatim(v, ok)
}
func (Select) accept(raw any) (any, bool) { return raw, true }
func (Select) serialize(form any) any { return textOut(form) }

// boolean

func (Boolean) Name() string { return "boolean" }
func (Boolean) Widget() Widget { return Widget{Input: "switch"} }
func (Boolean) blank() any { return "" }
func (Boolean) initial(v any, ok bool) any {
	return verbatim(v, ok)
}
func (Boolean) accept(raw any) (any, bool) { return raw, true }

func (Boolean) serialize(form any) any {
	switch v := form.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

func stringsOf(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			if s, ok := e.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(e))
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
