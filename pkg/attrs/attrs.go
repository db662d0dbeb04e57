// Package attrs inspects slog-style alternating key-value argument lists.
package attrs

// Lookup scans kv for key and reports whether it was present. A dangling
// key at the end of the list is ignored.
func Lookup(kv []any, key string) (any, bool) {
	for len(kv) >= 2 {
		k, v := kv[0], kv[1]
		kv = kv[2:]
		if name, ok := k.(string); ok && name == key {
			return v, true
		}
	}
	return nil, false
}

// ExtractString returns the string value stored under key, or "" when the
// key is absent or holds a non-string value.
func ExtractString(kv []any, key string) string {
	v, ok := Lookup(kv, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
