// Package keycase translates JSON key naming between the client format
// (camelCase keys) and the wire format (snake_case keys) used by the portal
// backend. The translation is structural: it walks arrays and objects
// recursively, rewrites object keys only, and leaves every leaf value and
// array element untouched.
//
// The rule is deterministic and reversible: ToWire inserts an underscore
// before every ASCII uppercase letter and lowercases it; FromWire removes
// each underscore followed by a lowercase letter and uppercases that letter.
// Keys that are already all-lowercase with no word boundary pass through
// both directions unchanged.
package keycase

import "strings"

// ToWire converts a decoded JSON value from client format to wire format.
func ToWire(v interface{}) interface{} {
	switch val := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = ToWire(elem)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			out[SnakeKey(k)] = ToWire(elem)
		}
		return out
	default:
		return v
	}
}

// FromWire converts a decoded JSON value from wire format to client format.
func FromWire(v interface{}) interface{} {
	switch val := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = FromWire(elem)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			out[CamelKey(k)] = FromWire(elem)
		}
		return out
	default:
		return v
	}
}

// SnakeKey rewrites a single camelCase key to snake_case.
func SnakeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(c - 'A' + 'a')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// CamelKey rewrites a single snake_case key to camelCase. Only an underscore
// directly followed by a lowercase letter marks a boundary; anything else
// (trailing underscores, digits after underscores) is kept as-is, matching
// the wire convention exactly.
func CamelKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '_' && i+1 < len(key) {
			next := key[i+1]
			if next >= 'a' && next <= 'z' {
				b.WriteByte(next - 'a' + 'A')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
