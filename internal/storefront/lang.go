package storefront

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LangIT = "it"
	LangEN = "en"

	fallbackLang = LangEN
)

var langMatcher = language.NewMatcher([]language.Tag{language.Italian, language.English})

// NormalizeLang reduces a language tag or an Accept-Language header to one
// of the supported two-letter codes. Anything unrecognised means Italian.
func NormalizeLang(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LangIT
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return LangIT
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return LangIT
	}
	return LangEN
}

// Localize picks the lang entry of a bilingual value, falling back to
// English. Values that are not language maps are returned unchanged.
func Localize(v any, lang string) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return v, v != nil
	}
	if s, ok := m[lang]; ok && !blank(s) {
		return s, true
	}
	if s, ok := m[fallbackLang]; ok && !blank(s) {
		return s, true
	}
	return nil, false
}

func blank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

func localizedText(v any, lang string) string {
	s, ok := Localize(v, lang)
	if !ok {
		return ""
	}
	if str, ok := s.(string); ok {
		return str
	}
	return ""
}

func localizedList(v any, lang string) []string {
	s, ok := Localize(v, lang)
	if !ok {
		return nil
	}
	return toStrings(s)
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
