package editor

import (
	"strings"

	"illustraBack/internal/models"
)

// GetPath reads a dot-separated path out of a tree of nested maps. A
// missing or non-map intermediate container reads as absent.
func GetPath(tree map[string]any, path string) (any, bool) {
	if tree == nil || path == "" {
		return nil, false
	}
	keys := strings.Split(path, ".")
	current := tree
	for i, key := range keys {
		v, ok := current[key]
		if !ok {
			return nil, false
		}
		if i == len(keys)-1 {
			return v, true
		}
		next, ok := asMap(v)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// SetPath writes value at a dot-separated path, creating intermediate maps
// as needed. An intermediate that is not a map is replaced by one.
func SetPath(tree map[string]any, path string, value any) {
	if tree == nil || path == "" {
		return
	}
	keys := strings.Split(path, ".")
	current := tree
	for _, key := range keys[:len(keys)-1] {
		next, ok := asMap(current[key])
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case models.Record:
		return m, m != nil
	default:
		return nil, false
	}
}
