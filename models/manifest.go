package models

import "strings"

// Manifest is a public metadata document. Its shape is owned by the server.
type Manifest map[string]interface{}

// Get walks a dot-separated path through nested objects.
func (m Manifest) Get(path string) (interface{}, bool) {
	if m == nil || path == "" {
		return nil, false
	}

	var cur interface{} = map[string]interface{}(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at path, or "" when absent or not a string.
func (m Manifest) String(path string) string {
	v, ok := m.Get(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
