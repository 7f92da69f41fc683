package mutate

import (
	"errors"
	"strconv"
	"strings"

	"tareas-cli/internal/collection"
)

var ErrTitleRequired = errors.New(collection.TitleRequiredMessage)

// draftFields converts a draft into the wire fields shared by create and
// save requests. Empty optional values are sent as explicit nulls so the
// server clears them instead of keeping stale data.
func draftFields(d collection.Draft) (map[string]any, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	fields := map[string]any{
		"title":       title,
		"description": nullableString(strings.TrimSpace(d.Description)),
		"due_date":    nullableString(strings.TrimSpace(d.DueDate)),
	}
	cat, err := categoryField(d.Category)
	if err != nil {
		return nil, err
	}
	fields["category"] = cat
	return fields, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func categoryField(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, InvalidFieldError{Field: "category", Reason: "not a category id"}
	}
	return id, nil
}
