package model

import (
	"strings"
	"time"
)

// Wire date values come in two shapes: date-only "2006-01-02" (due_date)
// and full ISO timestamps (created_at), with or without fractional seconds
// and zone. A "T" in the value marks the timestamp form.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseDate parses a wire date value. Returns false for empty or
// malformed input.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if strings.Contains(value, "T") {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a wire date value as dd/mm/yyyy for display,
// or an em dash when absent or unparseable.
func FormatDate(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		return "—"
	}
	return t.Format("02/01/2006")
}

// ToInputDate reduces a wire date value to the YYYY-MM-DD form used by
// edit drafts. Empty input yields the empty string.
func ToInputDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if i := strings.Index(value, "T"); i >= 0 {
		return value[:i]
	}
	return value
}
