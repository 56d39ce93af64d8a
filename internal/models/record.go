package models

import "encoding/json"

// IDKey is the reserved attribute under which listed records carry their
// store-assigned identifier. It is never written back to the store.
const IDKey = "_id"

// Record is one untyped document. Values are scalars (string, bool, int64,
// float64), lists ([]any) or nested maps (map[string]any).
type Record map[string]any

// ID returns the store-assigned identifier, if the record was listed.
func (r Record) ID() string {
	id, _ := r[IDKey].(string)
	return id
}

// Clone copies the record deeply enough that nested maps and lists can be
// mutated without touching the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(r))
}

// Data returns a copy of the record without the reserved identifier key.
func (r Record) Data() map[string]any {
	out := cloneMap(r)
	delete(out, IDKey)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Record:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// AsNumber converts the numeric types a store or JSON decoder may hand back.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
