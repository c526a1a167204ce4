package utils

import (
	"encoding/json"
	"strings"
)

// ListToString encodes a string list as a JSON array for a text column.
func ListToString(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(items)
	return string(data)
}

// StringToList decodes a column written by ListToString. Values that are not
// JSON are read as a "; " separated list, the export format.
func StringToList(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		parts := strings.Split(s, ";")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return items
}
