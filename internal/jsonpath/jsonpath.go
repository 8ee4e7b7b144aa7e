// Package jsonpath extracts string values from JSON API responses using
// dot-separated paths with optional array indexes, e.g.
// "choices[0].message.content".
package jsonpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Extract decodes body and returns the first string found at any of the
// given paths, falling back to a top-level "text" field. Empty string when
// nothing matches.
func Extract(body []byte, paths ...string) string {
	var root interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return ""
	}
	for _, p := range paths {
		if v, ok := Lookup(root, p); ok && v != "" {
			return v
		}
	}
	if v, ok := Lookup(root, "text"); ok {
		return v
	}
	return ""
}

// Lookup walks a decoded JSON structure along path and returns the value at
// the end rendered as a string.
func Lookup(root interface{}, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	cur := root
	for _, token := range strings.Split(path, ".") {
		key, idxs, err := splitToken(token)
		if err != nil {
			return "", false
		}
		if key != "" {
			m, ok := cur.(map[string]interface{})
			if !ok {
				return "", false
			}
			cur, ok = m[key]
			if !ok {
				return "", false
			}
		}
		for _, idx := range idxs {
			arr, ok := cur.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return "", false
			}
			cur = arr[idx]
		}
	}
	return render(cur)
}

func render(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// splitToken parses "key[0][2]" into its base key and index list. A token
// may also be pure indexes ("[0]") or a bare key.
func splitToken(token string) (string, []int, error) {
	if token == "" {
		return "", nil, fmt.Errorf("empty path token")
	}
	open := strings.Index(token, "[")
	if open == -1 {
		return token, nil, nil
	}
	key := token[:open]
	var idxs []int
	rest := token[open:]
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, fmt.Errorf("malformed index in %q", token)
		}
		end := strings.Index(rest, "]")
		if end <= 1 {
			return "", nil, fmt.Errorf("malformed index in %q", token)
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, fmt.Errorf("bad index in %q: %w", token, err)
		}
		idxs = append(idxs, n)
		rest = rest[end+1:]
	}
	return key, idxs, nil
}
