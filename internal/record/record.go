// Package record wraps the loosely-typed account objects returned by the
// Smartlead API. Every accessor is total: a missing key or a value of the
// wrong type yields the zero value instead of an error.
package record

import (
	"strconv"
	"strings"
)

// Record is a single raw account object as decoded from JSON.
type Record map[string]any

// String returns the value at key when it is a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

// NonBlank returns the value at key when it is a string that is not empty
// after trimming whitespace. The untrimmed value is returned.
func (r Record) NonBlank(key string) (string, bool) {
	v, ok := r.String(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// NonEmpty returns the value at key when it is a non-empty string.
func (r Record) NonEmpty(key string) (string, bool) {
	v, ok := r.String(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Bool returns the value at key when it is a boolean. The second result
// reports whether an explicit boolean was present.
func (r Record) Bool(key string) (bool, bool) {
	v, ok := r[key].(bool)
	return v, ok
}

// Nested returns the object at key, or nil when it is absent or not an
// object. A nil Record is safe to read from.
func (r Record) Nested(key string) Record {
	switch v := r[key].(type) {
	case map[string]any:
		return Record(v)
	case Record:
		return v
	default:
		return nil
	}
}

// Text renders a scalar value at key as display text. Numbers are printed
// without a trailing fractional part when integral. The second result is
// false for absent, null, empty, zero and false values.
func (r Record) Text(key string) (string, bool) {
	switch v := r[key].(type) {
	case string:
		return v, v != ""
	case float64:
		if v == 0 {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), v != 0
	case int64:
		return strconv.FormatInt(v, 10), v != 0
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	default:
		return "", false
	}
}

// FirstNonEmpty returns the first non-empty string among keys.
func (r Record) FirstNonEmpty(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := r.NonEmpty(k); ok {
			return v, true
		}
	}
	return "", false
}

// FromSlice converts decoded JSON array elements into records. Elements
// that are not objects become empty records so positions are preserved.
func FromSlice(items []any) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		if m, ok := it.(map[string]any); ok {
			out[i] = Record(m)
		} else {
			out[i] = Record{}
		}
	}
	return out
}
